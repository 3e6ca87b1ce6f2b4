package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"calendar-planner/internal/model"
)

// GridSettings describes the fixed day grid presented to users.
type GridSettings struct {
	// StartHour is the earliest displayed hour (0-23).
	StartHour int `yaml:"start_hour"`
	// HourSpan is the number of hour rows shown.
	HourSpan int `yaml:"hour_span"`
	// RowHeight is the layout units per hour handed to renderers.
	RowHeight float64 `yaml:"row_height"`
}

// Settings is the YAML-backed view configuration. Secrets and paths come
// from the environment instead (see Load).
type Settings struct {
	// WeekStart controls which weekday opens the week in summaries:
	// "sunday" (default) or "monday".
	WeekStart string `yaml:"week_start"`

	Grid GridSettings `yaml:"grid"`

	// UpcomingLimit caps the "next events" view.
	UpcomingLimit int `yaml:"upcoming_limit"`
	// UrgentLimit caps the urgent backlog view.
	UrgentLimit int `yaml:"urgent_limit"`

	// ReportTime is the daily agenda broadcast time as "HH:MM"; empty
	// disables the job.
	ReportTime string `yaml:"report_time"`

	// Categories overrides the built-in category table; the first entry is
	// the fallback for unknown ids. Empty keeps the defaults.
	Categories []model.Category `yaml:"categories"`
}

// Config keeps runtime settings for the planner bot.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	SettingsPath  string
	Settings      Settings
}

// Load reads secrets from environment variables and view settings from the
// YAML file at PLANNER_CONFIG (default planner.yaml). A missing settings
// file is created with defaults on first run.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SettingsPath:  strings.TrimSpace(os.Getenv("PLANNER_CONFIG")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "calendar_planner.db"
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = "planner.yaml"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return cfg, fmt.Errorf("load settings %q: %w", cfg.SettingsPath, err)
	}
	cfg.Settings = *settings

	return cfg, nil
}

// DefaultSettings returns the in-memory default view configuration.
func DefaultSettings() *Settings {
	return &Settings{
		WeekStart: "sunday",
		Grid: GridSettings{
			StartHour: 6,
			HourSpan:  17,
			RowHeight: 48,
		},
		UpcomingLimit: 5,
		UrgentLimit:   3,
		ReportTime:    "08:00",
	}
}

// Normalize fills missing or out-of-range values with defaults so partially
// filled settings files still behave.
func (s *Settings) Normalize() {
	switch s.WeekStart {
	case "sunday", "monday":
	default:
		s.WeekStart = "sunday"
	}
	if s.Grid.StartHour < 0 || s.Grid.StartHour > 23 {
		s.Grid.StartHour = 6
	}
	if s.Grid.HourSpan <= 0 || s.Grid.StartHour+s.Grid.HourSpan > 24 {
		s.Grid.HourSpan = min(17, 24-s.Grid.StartHour)
	}
	if s.Grid.RowHeight <= 0 {
		s.Grid.RowHeight = 48
	}
	if s.UpcomingLimit <= 0 {
		s.UpcomingLimit = 5
	}
	if s.UrgentLimit <= 0 {
		s.UrgentLimit = 3
	}
	if s.ReportTime != "" && !validClock(s.ReportTime) {
		s.ReportTime = "08:00"
	}
}

// WeekStartDay maps the week_start setting to a weekday.
func (s *Settings) WeekStartDay() time.Weekday {
	if s.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// LoadSettings loads view settings from the given YAML path, creating a
// default file (0600) on first run.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return nil, errors.New("settings path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s := DefaultSettings()
			if err := SaveSettings(path, s); err != nil {
				return s, err
			}
			return s, nil
		}
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.Normalize()

	return &s, nil
}

// SaveSettings writes settings to path atomically (temp file + rename) with
// 0600 permissions, creating the parent directory if needed.
func SaveSettings(path string, s *Settings) error {
	if path == "" {
		return errors.New("settings path is empty")
	}
	if s == nil {
		return errors.New("settings is nil")
	}

	s.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".planner-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func validClock(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}
