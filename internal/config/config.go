// Package config loads application configuration from environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds all application-level configuration loaded from
// environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 8080.
	Port int `envconfig:"PORT" default:"8080"`

	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DataDir is the root data directory holding the directory database,
	// logs, and bundled documents.
	DataDir string `envconfig:"NOTIMAIL_DATA_DIR" default:"./data"`

	// MailHost is the SMTP relay of the transactional delivery provider.
	MailHost string `envconfig:"MAIL_HOST" default:"smtp.sendgrid.net"`

	// MailPort is the SMTP submission port.
	MailPort int `envconfig:"MAIL_PORT" default:"587"`

	// MailUsername is the SMTP username. Transactional providers commonly
	// fix this to a literal such as "apikey".
	MailUsername string `envconfig:"MAIL_USERNAME" default:"apikey"`

	// MailAPIKey is the delivery provider credential. Its absence is a hard
	// configuration failure for every endpoint.
	MailAPIKey string `envconfig:"MAIL_API_KEY"`

	// MailFrom is the fixed sender address for all notifications.
	MailFrom string `envconfig:"MAIL_FROM" default:"citas@patiolink.example"`

	// MailFromName is the sender display name.
	MailFromName string `envconfig:"MAIL_FROM_NAME" default:"Portal de Citas"`

	// AdminRoleIDs is the comma-separated set of directory role ids whose
	// contacts receive administrator notifications.
	AdminRoleIDs string `envconfig:"ADMIN_ROLE_IDS" default:"1,2"`
}

// Load reads AppConfig from environment variables using envconfig.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &c, nil
}

// MailConfigured reports whether the delivery provider credential is
// present. When false, every notification endpoint fails with a fixed
// configuration error.
func (c *AppConfig) MailConfigured() bool {
	return strings.TrimSpace(c.MailAPIKey) != ""
}

// RoleIDs parses AdminRoleIDs into a slice of ints, skipping malformed
// entries.
func (c *AppConfig) RoleIDs() []int {
	var ids []int
	for _, part := range strings.Split(c.AdminRoleIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.Atoi(part); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// SlogLevel converts the LogLevel string to a slog.Level. Unknown values
// default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DBPath returns the path to the directory/delivery-log database.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "notimail.db")
}

// LogDir returns the path to the log directory.
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DocsDir returns the path to the bundled static documents.
func (c *AppConfig) DocsDir() string {
	return filepath.Join(c.DataDir, "docs")
}
