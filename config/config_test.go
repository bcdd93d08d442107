package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, config.DatabaseDriver)
	assert.Equal(t, 90, config.FuzzyMatchThreshold)
	assert.Equal(t, 500, config.ImportBatchSize)
	assert.True(t, config.DatabaseAutoMigrate)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FUZZY_MATCH_THRESHOLD=85\nIMPORT_TIMEZONE=Europe/Moscow\nDB_AUTO_MIGRATE=false\n"), 0o600))

	t.Setenv("IMPORT_BATCH_SIZE", "50")

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 85, config.FuzzyMatchThreshold)
	assert.Equal(t, "Europe/Moscow", config.ImportTimezone)
	assert.False(t, config.DatabaseAutoMigrate)
	assert.Equal(t, 50, config.ImportBatchSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.DatabaseDriver = "mysql" },
			wantErr: "unsupported DB_DRIVER",
		},
		{
			name:    "threshold above 100",
			mutate:  func(c *Config) { c.FuzzyMatchThreshold = 101 },
			wantErr: "FUZZY_MATCH_THRESHOLD",
		},
		{
			name:    "unknown time zone",
			mutate:  func(c *Config) { c.ImportTimezone = "Mars/Olympus" },
			wantErr: "invalid IMPORT_TIMEZONE",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.ImportBatchSize = 0 },
			wantErr: "IMPORT_BATCH_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocationAndOrigins(t *testing.T) {
	config := Default()
	assert.Equal(t, time.UTC, config.Location())

	config.ImportTimezone = "bogus"
	assert.Equal(t, time.UTC, config.Location())

	config.CorsOrigins = " http://a.test , ,http://b.test"
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, config.AllowedOrigins())
}
