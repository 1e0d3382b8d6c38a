package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alexanderramin/tempo/internal/app"
)

// App holds the use cases CLI commands run against. It is built lazily by a
// Wire function once flags and environment are resolved.
type App struct {
	Scheduler app.RunSchedulerUseCase
	Weights   app.WeightReportUseCase
	Schedule  app.ScheduleUseCase
	DayTypes  app.DayTypeUseCase
	Ops       app.OpsUseCase
	Import    app.ImportSnapshotUseCase

	// Serve blocks serving HTTP and MCP on addr until ctx ends.
	Serve func(ctx context.Context, addr string) error

	IsInteractive func() bool
	Now           func() time.Time
	Location      *time.Location
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.UTC
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Settings are resolved from flags, then TEMPO_* environment variables.
type Settings struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	LogFormat  string
}

// Wire builds the App for one command invocation. The returned closer
// releases the database.
type Wire func(ctx context.Context, s Settings) (*App, func() error, error)

type session struct {
	wire  Wire
	v     *viper.Viper
	app   *App
	close func() error
}

func (s *session) App() *App { return s.app }

// NewRootCmd creates the top-level "tempo" command.
func NewRootCmd(wire Wire) *cobra.Command {
	s := &session{wire: wire, v: viper.New()}

	root := &cobra.Command{
		Use:           "tempo",
		Short:         "Weight-ordered placement of goals, projects, tasks and habits into your day",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if s.app != nil {
				return nil
			}
			settings := Settings{
				ConfigPath: s.v.GetString("config"),
				DBPath:     s.v.GetString("db"),
				LogLevel:   s.v.GetString("log-level"),
				LogFormat:  s.v.GetString("log-format"),
			}
			a, closer, err := s.wire(cmd.Context(), settings)
			if err != nil {
				return err
			}
			s.app, s.close = a, closer
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if s.close == nil {
				return nil
			}
			err := s.close()
			s.close = nil
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to config.toml (default ~/.tempo/config.toml)")
	pf.String("db", "", "path to the sqlite database (overrides config)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "text, logfmt or json")
	bindFlags(s.v, pf, "config", "db", "log-level", "log-format")

	root.AddCommand(
		newRunCmd(s),
		newDayTypeCmd(s),
		newOpsCmd(s),
		newImportCmd(s),
		newScheduleCmd(s),
		newDoneCmd(s),
		newWeightsCmd(s),
		newServeCmd(s),
	)
	return root
}

// bindFlags lets each named flag fall back to TEMPO_<NAME> in the environment.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = v.BindPFlag(name, fs.Lookup(name))
	}
	v.SetEnvPrefix("TEMPO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func requireService(ok bool, name string) error {
	if !ok {
		return fmt.Errorf("%s is not available in this build", name)
	}
	return nil
}
