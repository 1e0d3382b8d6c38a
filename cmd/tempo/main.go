package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/tempo/internal/cli"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/logging"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/server"
	"github.com/alexanderramin/tempo/internal/service"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(wire).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func wire(_ context.Context, s cli.Settings) (*cli.App, func() error, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("finding home directory: %w", err)
	}

	configPath := s.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(home, ".tempo", "config.toml")
	}
	cfg, err := config.Load(configPath, config.Default(filepath.Join(home, ".tempo", "tempo.db")))
	if err != nil {
		return nil, nil, err
	}
	if s.DBPath != "" {
		cfg.Database.Path = s.DBPath
	}
	if s.LogLevel != "" {
		cfg.Logging.Level = s.LogLevel
	}
	if s.LogFormat != "" {
		cfg.Logging.Format = s.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, nil, err
	}

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repos := repository.NewSQLiteRepos(database)
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)

	scheduler := service.NewSchedulerService(repos, uow, cfg.Scheduler, observer)
	dayTypes := service.NewDayTypeService(repos.DayTypes, repos.Profile, uow, cfg.Scheduler.MinFillerMinutes, observer)
	opsSvc := service.NewOpsService(repos.DayTypes, uow, observer)

	app := &cli.App{
		Scheduler: scheduler,
		Weights:   scheduler,
		Schedule:  scheduler,
		DayTypes:  dayTypes,
		Ops:       opsSvc,
		Import:    service.NewImportService(uow, observer),
		Location:  loc,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	app.Serve = func(ctx context.Context, addr string) error {
		if addr == "" {
			addr = cfg.Server.Addr
		}
		return server.Run(ctx, server.Config{
			Addr:          addr,
			BasePath:      cfg.Server.BasePath,
			MCPPath:       cfg.Server.MCPPath,
			ServerName:    "tempo",
			ServerVersion: version,
			Location:      loc,
		}, server.Services{
			Scheduler: scheduler,
			Weights:   scheduler,
			Schedule:  scheduler,
			DayTypes:  dayTypes,
			Ops:       opsSvc,
		}, logger)
	}

	logger.Debug("wired", "db", cfg.Database.Path, "timezone", cfg.Scheduler.Timezone)
	return app, database.Close, nil
}
