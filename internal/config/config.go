package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/timeline"
)

// Config holds all configuration options for the kanban client
type Config struct {
	API         APIConfig         `yaml:"api"`
	Database    DatabaseConfig    `yaml:"database"`
	Application ApplicationConfig `yaml:"application"`
	Timeline    TimelineConfig    `yaml:"timeline"`
	Import      ImportConfig      `yaml:"import"`
	Display     DisplayConfig     `yaml:"display"`
}

// APIConfig holds the remote API location
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"KB_API_URL"`
}

// DatabaseConfig holds the local store location
type DatabaseConfig struct {
	Dir            string `yaml:"dir" env:"KB_DB_DIR"`
	Filename       string `yaml:"filename" env:"KB_DB_FILENAME"`
	DirPermissions uint32 `yaml:"dir_permissions" env:"KB_DB_DIR_PERMISSIONS"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"KB_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"KB_APP_VERBOSE"`
}

// TimelineConfig holds work-allocation settings
type TimelineConfig struct {
	LayoutMode string  `yaml:"layout_mode" env:"KB_TIMELINE_LAYOUT"`
	WorkStart  string  `yaml:"work_start" env:"KB_TIMELINE_WORK_START"`
	WorkEnd    string  `yaml:"work_end" env:"KB_TIMELINE_WORK_END"`
	SlotHeight float64 `yaml:"slot_height" env:"KB_TIMELINE_SLOT_HEIGHT"`
}

// ImportConfig holds bulk import settings
type ImportConfig struct {
	Concurrency int `yaml:"concurrency" env:"KB_IMPORT_CONCURRENCY"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat string `yaml:"date_format" env:"KB_DISPLAY_DATE_FORMAT"`
}

// MaxImportConcurrency caps parallel create requests during bulk import.
const MaxImportConcurrency = 64

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".kb")

	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "kb.db",
			DirPermissions: 0755,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
		Timeline: TimelineConfig{
			LayoutMode: timeline.LayoutLocal.String(),
			WorkStart:  "09:00",
			WorkEnd:    "18:00",
			SlotHeight: 40,
		},
		Import: ImportConfig{
			Concurrency: 8,
		},
		Display: DisplayConfig{
			DateFormat: "2006/1/2",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetLayoutMode returns the parsed timeline layout mode
func (c *Config) GetLayoutMode() timeline.LayoutMode {
	mode, _ := timeline.ParseLayoutMode(c.Timeline.LayoutMode)
	return mode
}

// GetWorkHours returns the configured working hours as slots
func (c *Config) GetWorkHours() domain.WorkHours {
	start, err := domain.TimeToSlot(c.Timeline.WorkStart)
	if err != nil {
		return domain.DefaultWorkHours()
	}
	end, err := workEndSlot(c.Timeline.WorkEnd)
	if err != nil {
		return domain.DefaultWorkHours()
	}
	return domain.WorkHours{StartSlot: start, EndSlot: end}
}

// workEndSlot accepts "24:00" as the end of the day.
func workEndSlot(s string) (int, error) {
	if s == "24:00" {
		return domain.TotalSlots, nil
	}
	return domain.TimeToSlot(s)
}

func (c *Config) loadFrom(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	// API configuration
	if u := get("KB_API_URL"); u != "" {
		c.API.BaseURL = u
	}

	// Database configuration
	if dir := get("KB_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := get("KB_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if perms := get("KB_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Application configuration
	if timeout := get("KB_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := get("KB_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	// Timeline configuration
	if mode := get("KB_TIMELINE_LAYOUT"); mode != "" {
		c.Timeline.LayoutMode = mode
	}
	if start := get("KB_TIMELINE_WORK_START"); start != "" {
		c.Timeline.WorkStart = start
	}
	if end := get("KB_TIMELINE_WORK_END"); end != "" {
		c.Timeline.WorkEnd = end
	}
	if h := get("KB_TIMELINE_SLOT_HEIGHT"); h != "" {
		if f, err := strconv.ParseFloat(h, 64); err == nil {
			c.Timeline.SlotHeight = f
		}
	}

	// Import configuration
	if n := get("KB_IMPORT_CONCURRENCY"); n != "" {
		c.Import.Concurrency = ParseIntWithFallback(n, c.Import.Concurrency)
	}

	// Display configuration
	if format := get("KB_DISPLAY_DATE_FORMAT"); format != "" {
		c.Display.DateFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate API configuration
	if c.API.BaseURL == "" {
		return &ConfigError{Field: "api.base_url", Message: "API base URL cannot be empty"}
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "api.base_url", Message: "API base URL must be an absolute http(s) URL"}
	}

	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	// Validate timeline configuration
	if _, err := timeline.ParseLayoutMode(c.Timeline.LayoutMode); err != nil {
		return &ConfigError{Field: "timeline.layout_mode", Message: err.Error()}
	}
	start, err := domain.TimeToSlot(c.Timeline.WorkStart)
	if err != nil {
		return &ConfigError{Field: "timeline.work_start", Message: err.Error()}
	}
	end, err := workEndSlot(c.Timeline.WorkEnd)
	if err != nil {
		return &ConfigError{Field: "timeline.work_end", Message: err.Error()}
	}
	if end <= start {
		return &ConfigError{Field: "timeline.work_end", Message: "work end must be after work start"}
	}
	if c.Timeline.SlotHeight <= 0 {
		return &ConfigError{Field: "timeline.slot_height", Message: "slot height must be positive"}
	}

	// Validate import configuration
	if c.Import.Concurrency < 1 || c.Import.Concurrency > MaxImportConcurrency {
		return &ConfigError{Field: "import.concurrency", Message: "import concurrency must be between 1 and " + strconv.Itoa(MaxImportConcurrency)}
	}

	// Validate display configuration
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
