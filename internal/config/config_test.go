package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		env               map[string]string
		want              *Config
		wantErrorContains []string
	}{
		{
			name: "defaults when nothing is configured",
			want: DefaultConfig(),
		},
		{
			name: "config file overrides defaults",
			configContent: `database:
  driver: postgres
  dsn: postgres://leitner@localhost/leitner?sslmode=disable
  max_open_conns: 8
learning:
  update_retry_attempts: 3
reminder:
  enabled: false
log:
  level: debug
`,
			want: &Config{
				Database: DatabaseConfig{
					Driver:       "postgres",
					DSN:          "postgres://leitner@localhost/leitner?sslmode=disable",
					MaxOpenConns: 8,
				},
				Timezone: "UTC",
				Learning: LearningConfig{UpdateRetryAttempts: 3},
				Reminder: ReminderConfig{Enabled: false},
				Log:      LogConfig{Level: "debug"},
			},
		},
		{
			name: "environment overrides config file",
			configContent: `database:
  driver: postgres
  dsn: postgres://file
`,
			env: map[string]string{
				"DATABASE_DRIVER":       "pgx",
				"DATABASE_URL":          "postgres://env",
				"UPDATE_RETRY_ATTEMPTS": "9",
				"REMINDER_ENABLED":      "false",
			},
			want: &Config{
				Database: DatabaseConfig{
					Driver:       "pgx",
					DSN:          "postgres://env",
					MaxOpenConns: 1,
				},
				Timezone: "UTC",
				Learning: LearningConfig{UpdateRetryAttempts: 9},
				Reminder: ReminderConfig{Enabled: false},
				Log:      LogConfig{Level: "info"},
			},
		},
		{
			name:              "unknown driver",
			env:               map[string]string{"DATABASE_DRIVER": "mysql"},
			wantErrorContains: []string{"invalid configuration", "driver"},
		},
		{
			name:              "retry attempts out of range",
			env:               map[string]string{"UPDATE_RETRY_ATTEMPTS": "0"},
			wantErrorContains: []string{"update_retry_attempts"},
		},
		{
			name:              "unknown log level",
			configContent:     "log:\n  level: verbose\n",
			wantErrorContains: []string{"level"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()

			configFile := ""
			if tt.configContent != "" {
				configFile = writeFile(t, dir, "leitnerbot.yaml", tt.configContent)
			}

			loader, err := NewConfigLoader(configFile, filepath.Join(dir, "missing.env"))
			require.NoError(t, err)

			got, err := loader.Load()
			if len(tt.wantErrorContains) > 0 {
				require.Error(t, err)
				for _, s := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), s)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	loader, err := NewConfigLoader(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	_, err = loader.Load()
	assert.ErrorContains(t, err, "could not be read")
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("LOG_FILE"))
	t.Cleanup(func() { os.Unsetenv("LOG_FILE") })

	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "LOG_FILE=logs/app.log\n")

	loader, err := NewConfigLoader("", envFile)
	require.NoError(t, err)

	got, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "logs/app.log", got.Log.File)
}

func TestConfig_Location(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, "UTC", cfg.Location().String())
}
