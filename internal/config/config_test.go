package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestAppConfig_RoleIDs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int
	}{
		{"default pair", "1,2", []int{1, 2}},
		{"spaces", " 1 , 2 ", []int{1, 2}},
		{"single", "5", []int{5}},
		{"malformed entries skipped", "1,x,2,", []int{1, 2}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{AdminRoleIDs: tt.in}
			assert.Equal(t, tt.want, c.RoleIDs())
		})
	}
}

func TestAppConfig_MailConfigured(t *testing.T) {
	assert.False(t, (&AppConfig{}).MailConfigured())
	assert.False(t, (&AppConfig{MailAPIKey: "   "}).MailConfigured())
	assert.True(t, (&AppConfig{MailAPIKey: "SG.abc123"}).MailConfigured())
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.NotZero(t, c.Port)
	assert.NotEmpty(t, c.MailHost)
	assert.NotEmpty(t, c.AdminRoleIDs)
}

func TestAppConfig_DerivedPaths(t *testing.T) {
	c := &AppConfig{DataDir: "/data"}
	assert.Equal(t, "/data/notimail.db", c.DBPath())
	assert.Equal(t, "/data/logs", c.LogDir())
	assert.Equal(t, "/data/docs", c.DocsDir())
}
