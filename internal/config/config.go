package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/alexanderramin/tempo/internal/scheduler"
)

type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Server    ServerConfig    `toml:"server"`
	Logging   LoggingConfig   `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type SchedulerConfig struct {
	Timezone              string                  `toml:"timezone"`
	DefaultDays           int                     `toml:"default_days"`
	MaxDays               int                     `toml:"max_days"`
	MaxBlocksPerDay       int                     `toml:"max_blocks_per_day"`
	MinFillerMinutes      int                     `toml:"min_filler_minutes"`
	SampleCap             int                     `toml:"sample_cap"`
	ClosestCap            int                     `toml:"closest_cap"`
	TopReasonCap          int                     `toml:"top_reason_cap"`
	DefaultTaskMinutes    int                     `toml:"default_task_minutes"`
	DefaultProjectMinutes int                     `toml:"default_project_minutes"`
	GoalUrgency           scheduler.UrgencyParams `toml:"goal_urgency"`
	ProjectUrgency        scheduler.UrgencyParams `toml:"project_urgency"`
}

type ServerConfig struct {
	Addr     string `toml:"addr"`
	BasePath string `toml:"base_path"`
	MCPPath  string `toml:"mcp_path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text | logfmt | json
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{Path: dbPath},
		Scheduler: SchedulerConfig{
			Timezone:              "UTC",
			DefaultDays:           7,
			MaxDays:               28,
			MaxBlocksPerDay:       48,
			MinFillerMinutes:      scheduler.DefaultMinFillerMinutes,
			SampleCap:             8,
			ClosestCap:            3,
			TopReasonCap:          3,
			DefaultTaskMinutes:    30,
			DefaultProjectMinutes: 60,
			GoalUrgency:           scheduler.DefaultGoalUrgency(),
			ProjectUrgency:        scheduler.DefaultProjectUrgency(),
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:8420",
			BasePath: "/v1",
			MCPPath:  "/mcp",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	s := c.Scheduler
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("invalid scheduler.timezone %q: %w", s.Timezone, err)
	}
	if s.MaxDays < 1 {
		return errors.New("scheduler.max_days must be >= 1")
	}
	if s.DefaultDays < 1 || s.DefaultDays > s.MaxDays {
		return fmt.Errorf("scheduler.default_days must be in [1, %d]", s.MaxDays)
	}
	for name, v := range map[string]int{
		"max_blocks_per_day":      s.MaxBlocksPerDay,
		"min_filler_minutes":      s.MinFillerMinutes,
		"sample_cap":              s.SampleCap,
		"closest_cap":             s.ClosestCap,
		"top_reason_cap":          s.TopReasonCap,
		"default_task_minutes":    s.DefaultTaskMinutes,
		"default_project_minutes": s.DefaultProjectMinutes,
	} {
		if v < 1 {
			return fmt.Errorf("scheduler.%s must be >= 1", name)
		}
	}

	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with '/': %q", c.Server.BasePath)
	}
	if !strings.HasPrefix(c.Server.MCPPath, "/") {
		return fmt.Errorf("server.mcp_path must start with '/': %q", c.Server.MCPPath)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "text", "logfmt", "json":
	default:
		return fmt.Errorf("invalid logging.format: %q", c.Logging.Format)
	}
	return nil
}

// ClampDays bounds a requested horizon to [1, MaxDays]. Zero or less means
// the configured default.
func (s SchedulerConfig) ClampDays(days int) int {
	if days <= 0 {
		days = s.DefaultDays
	}
	if days > s.MaxDays {
		days = s.MaxDays
	}
	if days < 1 {
		days = 1
	}
	return days
}

func (s SchedulerConfig) WeightParams() scheduler.WeightParams {
	return scheduler.WeightParams{
		GoalUrgency:    s.GoalUrgency,
		ProjectUrgency: s.ProjectUrgency,
	}
}

func (s SchedulerConfig) Horizon(days int) scheduler.Horizon {
	return scheduler.Horizon{
		MaxDays:         s.ClampDays(days),
		MaxBlocksPerDay: s.MaxBlocksPerDay,
	}
}

func (s SchedulerConfig) Policy() scheduler.Policy {
	p := scheduler.DefaultPolicy()
	p.SampleCap = s.SampleCap
	p.ClosestCap = s.ClosestCap
	p.TopReasonCap = s.TopReasonCap
	return p
}
