// Package config loads the planner's TOML configuration and resolves XDG
// paths for the database and config file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the resolved runtime settings. Zero values are replaced by
// defaults in Load.
type Config struct {
	Timeline TimelineConfig `toml:"timeline"`
	Pomodoro PomodoroConfig `toml:"pomodoro"`
	Database DatabaseConfig `toml:"database"`
}

// TimelineConfig bounds the rendered day.
type TimelineConfig struct {
	StartHour int `toml:"start-hour"`
	EndHour   int `toml:"end-hour"`
}

// PomodoroConfig sets the phase lengths in minutes and how many work
// sessions precede a long break.
type PomodoroConfig struct {
	WorkMinutes       int `toml:"work"`
	ShortBreakMinutes int `toml:"short-break"`
	LongBreakMinutes  int `toml:"long-break"`
	SessionsPerCycle  int `toml:"sessions-per-cycle"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// Default returns the built-in settings: a 6:00-23:00 day and the classic
// 25/5/15 pomodoro rhythm.
func Default() Config {
	return Config{
		Timeline: TimelineConfig{StartHour: 6, EndHour: 23},
		Pomodoro: PomodoroConfig{
			WorkMinutes:       25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			SessionsPerCycle:  4,
		},
		Database: DatabaseConfig{Path: DefaultDBPath()},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; a present but invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	var file Config
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	merge(&cfg, file)
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// merge copies the file's non-zero values over the defaults.
func merge(cfg *Config, file Config) {
	if file.Timeline.StartHour != 0 {
		cfg.Timeline.StartHour = file.Timeline.StartHour
	}
	if file.Timeline.EndHour != 0 {
		cfg.Timeline.EndHour = file.Timeline.EndHour
	}
	if file.Pomodoro.WorkMinutes != 0 {
		cfg.Pomodoro.WorkMinutes = file.Pomodoro.WorkMinutes
	}
	if file.Pomodoro.ShortBreakMinutes != 0 {
		cfg.Pomodoro.ShortBreakMinutes = file.Pomodoro.ShortBreakMinutes
	}
	if file.Pomodoro.LongBreakMinutes != 0 {
		cfg.Pomodoro.LongBreakMinutes = file.Pomodoro.LongBreakMinutes
	}
	if file.Pomodoro.SessionsPerCycle != 0 {
		cfg.Pomodoro.SessionsPerCycle = file.Pomodoro.SessionsPerCycle
	}
	if file.Database.Path != "" {
		cfg.Database.Path = file.Database.Path
	}
}

func (c Config) validate() error {
	if c.Timeline.StartHour < 0 || c.Timeline.EndHour > 24 || c.Timeline.StartHour >= c.Timeline.EndHour {
		return fmt.Errorf("invalid timeline hours %d-%d", c.Timeline.StartHour, c.Timeline.EndHour)
	}
	if c.Pomodoro.WorkMinutes <= 0 || c.Pomodoro.ShortBreakMinutes <= 0 || c.Pomodoro.LongBreakMinutes <= 0 {
		return fmt.Errorf("pomodoro durations must be positive")
	}
	if c.Pomodoro.SessionsPerCycle <= 0 {
		return fmt.Errorf("sessions per cycle must be positive")
	}
	return nil
}
