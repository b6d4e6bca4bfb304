// Package config loads portfolio settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces environment overrides: PORTFOLIO_SMTP__HOST -> smtp.host.
const EnvPrefix = "PORTFOLIO_"

type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Profile string        `yaml:"profile" koanf:"profile"`
	Watch   bool          `yaml:"watch" koanf:"watch"`
	DBPath  string        `yaml:"database" koanf:"database"`
	SMTP    SMTPConfig    `yaml:"smtp" koanf:"smtp"`
	Contact ContactConfig `yaml:"contact" koanf:"contact"`
	Admin   AdminConfig   `yaml:"admin" koanf:"admin"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
	Preview PreviewConfig `yaml:"preview" koanf:"preview"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	Mode            string        `yaml:"mode" koanf:"mode"`
	StaticDir       string        `yaml:"static_dir" koanf:"static_dir"`
	ImagesDir       string        `yaml:"images_dir" koanf:"images_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
	TrackVisitors   bool          `yaml:"track_visitors" koanf:"track_visitors"`
}

type SMTPConfig struct {
	Host       string `yaml:"host" koanf:"host"`
	Port       string `yaml:"port" koanf:"port"`
	User       string `yaml:"user" koanf:"user"`
	Password   string `yaml:"password" koanf:"password"`
	To         string `yaml:"to" koanf:"to"`
	MaxRetries uint64 `yaml:"max_retries" koanf:"max_retries"`
}

type ContactConfig struct {
	// Simulate forces the logging sender even when SMTP is configured.
	Simulate    bool          `yaml:"simulate" koanf:"simulate"`
	SubmitDelay time.Duration `yaml:"submit_delay" koanf:"submit_delay"`
	ResetDelay  time.Duration `yaml:"reset_delay" koanf:"reset_delay"`
}

type AdminConfig struct {
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file" koanf:"file"`
}

type PreviewConfig struct {
	PreferencesPath string `yaml:"preferences" koanf:"preferences"`
	DownloadDir     string `yaml:"download_dir" koanf:"download_dir"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "release",
			StaticDir:       "./static",
			ImagesDir:       "./images",
			ShutdownTimeout: 10 * time.Second,
			TrackVisitors:   true,
		},
		DBPath: "data/portfolio.db",
		SMTP: SMTPConfig{
			Host:       "smtp.gmail.com",
			Port:       "587",
			MaxRetries: 3,
		},
		Contact: ContactConfig{
			SubmitDelay: time.Second,
			ResetDelay:  3 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Preview: PreviewConfig{
			DownloadDir: ".",
		},
	}
}

// legacyEnv maps the bare variable names of earlier deployments.
var legacyEnv = map[string]string{
	"PORT":           "server.port",
	"SMTP_HOST":      "smtp.host",
	"SMTP_PORT":      "smtp.port",
	"SMTP_USER":      "smtp.user",
	"SMTP_PASS":      "smtp.password",
	"TO_EMAIL":       "smtp.to",
	"ADMIN_USERNAME": "admin.username",
	"ADMIN_PASSWORD": "admin.password",
	"GIN_MODE":       "server.mode",
}

// Load reads configuration from the given YAML file, then overlays
// environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

var validModes = map[string]bool{"debug": true, "release": true, "test": true}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if !validModes[c.Server.Mode] {
		return fmt.Errorf("invalid server mode %q: must be one of debug, release, test", c.Server.Mode)
	}
	if c.Contact.SubmitDelay < 0 || c.Contact.ResetDelay < 0 {
		return fmt.Errorf("contact delays must be non-negative")
	}
	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		return fmt.Errorf("admin username and password must be set together")
	}
	return nil
}

// SMTPReady reports whether enough relay settings exist to deliver mail.
func (c *Config) SMTPReady() bool {
	return !c.Contact.Simulate && c.SMTP.User != "" && c.SMTP.Password != "" && c.SMTP.To != ""
}

// AdminEnabled reports whether the admin area should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Username != "" && c.Admin.Password != ""
}
