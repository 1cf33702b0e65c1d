package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Hour-angle formula modes accepted in solar.hour_angle.
const (
	HourAngleLegacy   = "legacy"
	HourAngleStandard = "standard"
)

// Config is the root configuration structure for Daylight.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	Geolocation GeolocationConfig `yaml:"geolocation"`
	Wallpaper   WallpaperConfig   `yaml:"wallpaper"`
	Solar       SolarConfig       `yaml:"solar"`
	Daemon      DaemonConfig      `yaml:"daemon"`
	Database    DatabaseConfig    `yaml:"database"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	API         APIConfig         `yaml:"api"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Location LocationConfig `yaml:"location"`

	// TimezoneOffset is the offset from UTC in hours (fractional zones allowed).
	// When nil, the host clock's current offset is used.
	TimezoneOffset *float64 `yaml:"timezone_offset,omitempty"`
}

// LocationConfig contains geographic coordinates for astronomical calculations.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// GeolocationConfig controls online coordinate lookup.
// When disabled, site.location is used as-is.
type GeolocationConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// WallpaperConfig contains theme selection and schedule generation settings.
type WallpaperConfig struct {
	ThemesDir string `yaml:"themes_dir"`
	Theme     string `yaml:"theme"`
	OutputDir string `yaml:"output_dir"`

	// TransitionDuration is the default cross-fade length in seconds.
	// A theme's optional_settings.transition_duration takes precedence.
	TransitionDuration int  `yaml:"transition_duration"`
	TransitionsEnabled bool `yaml:"transitions_enabled"`

	// NoonDuration is the fixed length of the noon phase in seconds.
	NoonDuration int `yaml:"noon_duration"`

	// WatchThemes regenerates the schedule when files in the theme directory change.
	WatchThemes bool `yaml:"watch_themes"`
}

// SolarConfig selects the solar position formula variant.
type SolarConfig struct {
	// HourAngle is "legacy" (nested tangent form) or "standard".
	HourAngle string `yaml:"hour_angle"`
}

// DaemonConfig contains the light/dark polling loop settings.
type DaemonConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`

	// LightOffset shifts the light timeframe inwards from sunrise and sunset.
	LightOffset time.Duration `yaml:"light_offset"`

	Light AppearanceConfig `yaml:"light"`
	Dark  AppearanceConfig `yaml:"dark"`

	// GSettingsBinary is the gsettings executable used for desktop changes.
	GSettingsBinary string `yaml:"gsettings_binary"`

	// ApplyDesktop disables all desktop side effects when false (headless use).
	ApplyDesktop bool `yaml:"apply_desktop"`
}

// AppearanceConfig names the desktop themes applied together.
type AppearanceConfig struct {
	GTKTheme    string `yaml:"gtk_theme"`
	ShellTheme  string `yaml:"shell_theme"`
	CursorTheme string `yaml:"cursor_theme"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// envOverrides lists the environment variables that take precedence over the file.
// Empty values leave the file value untouched.
type envOverrides struct {
	DatabasePath  string `env:"DAYLIGHT_DATABASE_PATH"`
	MQTTHost      string `env:"DAYLIGHT_MQTT_HOST"`
	MQTTUsername  string `env:"DAYLIGHT_MQTT_USERNAME"`
	MQTTPassword  string `env:"DAYLIGHT_MQTT_PASSWORD"`
	APIHost       string `env:"DAYLIGHT_API_HOST"`
	InfluxDBToken string `env:"DAYLIGHT_INFLUXDB_TOKEN"`
	Theme         string `env:"DAYLIGHT_THEME"`
	Latitude      string `env:"DAYLIGHT_LATITUDE"`
	Longitude     string `env:"DAYLIGHT_LONGITUDE"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: DAYLIGHT_SECTION_KEY
// For example: DAYLIGHT_DATABASE_PATH, DAYLIGHT_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration, validated, for commands that
// run without a configuration file.
func Default() (*Config, error) {
	cfg := defaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "desktop",
			Name: "Daylight",
		},
		Geolocation: GeolocationConfig{
			Enabled: false,
			URL:     "http://ip-api.com/json/",
			Timeout: 5 * time.Second,
		},
		Wallpaper: WallpaperConfig{
			ThemesDir:          "./themes",
			OutputDir:          "./wallpaper-xml",
			TransitionDuration: 600,
			TransitionsEnabled: true,
			NoonDuration:       1800,
			WatchThemes:        true,
		},
		Solar: SolarConfig{
			HourAngle: HourAngleLegacy,
		},
		Daemon: DaemonConfig{
			PollInterval:    500 * time.Millisecond,
			LightOffset:     90 * time.Minute,
			GSettingsBinary: "gsettings",
			ApplyDesktop:    true,
			Light: AppearanceConfig{
				GTKTheme:    "Pop",
				ShellTheme:  "Pop",
				CursorTheme: "xcursor-breeze-snow",
			},
			Dark: AppearanceConfig{
				GTKTheme:    "Pop-dark",
				ShellTheme:  "Pop-dark",
				CursorTheme: "xcursor-breeze",
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/daylight.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "daylight",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8095,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	ov, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	if ov.DatabasePath != "" {
		cfg.Database.Path = ov.DatabasePath
	}
	if ov.MQTTHost != "" {
		cfg.MQTT.Broker.Host = ov.MQTTHost
	}
	if ov.MQTTUsername != "" {
		cfg.MQTT.Auth.Username = ov.MQTTUsername
	}
	if ov.MQTTPassword != "" {
		cfg.MQTT.Auth.Password = ov.MQTTPassword
	}
	if ov.APIHost != "" {
		cfg.API.Host = ov.APIHost
	}
	if ov.InfluxDBToken != "" {
		cfg.InfluxDB.Token = ov.InfluxDBToken
	}
	if ov.Theme != "" {
		cfg.Wallpaper.Theme = ov.Theme
	}
	if ov.Latitude != "" {
		v, err := strconv.ParseFloat(ov.Latitude, 64)
		if err != nil {
			return fmt.Errorf("DAYLIGHT_LATITUDE: %w", err)
		}
		cfg.Site.Location.Latitude = v
	}
	if ov.Longitude != "" {
		v, err := strconv.ParseFloat(ov.Longitude, 64)
		if err != nil {
			return fmt.Errorf("DAYLIGHT_LONGITUDE: %w", err)
		}
		cfg.Site.Location.Longitude = v
	}

	return nil
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	// Location validation
	if c.Site.Location.Latitude < -90 || c.Site.Location.Latitude > 90 {
		errs = append(errs, "site.location.latitude must be between -90 and 90")
	}
	if c.Site.Location.Longitude < -180 || c.Site.Location.Longitude > 180 {
		errs = append(errs, "site.location.longitude must be between -180 and 180")
	}
	if tz := c.Site.TimezoneOffset; tz != nil && (*tz < -12 || *tz > 14) {
		errs = append(errs, "site.timezone_offset must be between -12 and 14")
	}

	if c.Geolocation.Enabled && c.Geolocation.URL == "" {
		errs = append(errs, "geolocation.url is required when geolocation is enabled")
	}

	// Wallpaper validation
	if c.Wallpaper.TransitionDuration < 0 {
		errs = append(errs, "wallpaper.transition_duration must not be negative")
	}
	if c.Wallpaper.NoonDuration < 0 {
		errs = append(errs, "wallpaper.noon_duration must not be negative")
	}
	if c.Wallpaper.OutputDir == "" {
		errs = append(errs, "wallpaper.output_dir is required")
	}

	switch c.Solar.HourAngle {
	case HourAngleLegacy, HourAngleStandard:
	default:
		errs = append(errs, fmt.Sprintf("solar.hour_angle must be %q or %q", HourAngleLegacy, HourAngleStandard))
	}

	if c.Daemon.PollInterval <= 0 {
		errs = append(errs, "daemon.poll_interval must be positive")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
