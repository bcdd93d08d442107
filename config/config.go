package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  int    `mapstructure:"SERVER_PORT"`
	CorsOrigins string `mapstructure:"CORS_ORIGINS"`

	DatabaseDriver      string `mapstructure:"DB_DRIVER"`
	DatabaseDbPath      string `mapstructure:"DB_PATH"`
	DatabaseHost        string `mapstructure:"DB_HOST"`
	DatabasePort        int    `mapstructure:"DB_PORT"`
	DatabaseName        string `mapstructure:"DB_NAME"`
	DatabaseUser        string `mapstructure:"DB_USER"`
	DatabasePassword    string `mapstructure:"DB_PASSWORD"`
	DatabaseAutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE"`

	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`

	FuzzyMatchThreshold int    `mapstructure:"FUZZY_MATCH_THRESHOLD"`
	ImportTimezone      string `mapstructure:"IMPORT_TIMEZONE"`
	ImportBatchSize     int    `mapstructure:"IMPORT_BATCH_SIZE"`
	ImportMaxUploadMB   int    `mapstructure:"IMPORT_MAX_UPLOAD_MB"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	SeedAdminLogin    string `mapstructure:"SEED_ADMIN_LOGIN"`
	SeedAdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`
	SeedAdminName     string `mapstructure:"SEED_ADMIN_NAME"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var defaults = map[string]any{
	"SERVER_PORT":           8080,
	"CORS_ORIGINS":          "http://localhost:5173,http://localhost:3000",
	"DB_DRIVER":             DriverSQLite,
	"DB_PATH":               "data/attendtrack.db",
	"DB_HOST":               "localhost",
	"DB_PORT":               5432,
	"DB_NAME":               "attendtrack",
	"DB_USER":               "attend",
	"DB_PASSWORD":           "",
	"DB_AUTO_MIGRATE":       true,
	"DB_CACHE_ADDRESS":      "",
	"DB_CACHE_PORT":         6379,
	"FUZZY_MATCH_THRESHOLD": 90,
	"IMPORT_TIMEZONE":       "UTC",
	"IMPORT_BATCH_SIZE":     500,
	"IMPORT_MAX_UPLOAD_MB":  20,
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "text",
	"SEED_ADMIN_LOGIN":      "admin",
	"SEED_ADMIN_PASSWORD":   "admin123",
	"SEED_ADMIN_NAME":       "System Administrator",
}

// InitConfig loads configuration from defaults, the file named by CONFIG_FILE
// (".env" when unset) and the environment, in increasing priority.
func InitConfig() (Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = ".env"
	}
	return Load(path)
}

func Load(path string) (Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to read config file %q: %w", path, err)
			}
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DatabaseDriver)
	}

	if c.FuzzyMatchThreshold < 0 || c.FuzzyMatchThreshold > 100 {
		return fmt.Errorf("FUZZY_MATCH_THRESHOLD must be within 0..100, got %d", c.FuzzyMatchThreshold)
	}

	if _, err := time.LoadLocation(c.ImportTimezone); err != nil {
		return fmt.Errorf("invalid IMPORT_TIMEZONE %q: %w", c.ImportTimezone, err)
	}

	if c.ImportBatchSize <= 0 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be positive, got %d", c.ImportBatchSize)
	}

	return nil
}

// Location returns the implicit time zone of imported timestamps.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ImportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CorsOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Default returns the built-in configuration without consulting files or the
// environment.
func Default() Config {
	return Config{
		ServerPort:          8080,
		CorsOrigins:         "http://localhost:5173,http://localhost:3000",
		DatabaseDriver:      DriverSQLite,
		DatabaseDbPath:      "data/attendtrack.db",
		DatabaseHost:        "localhost",
		DatabasePort:        5432,
		DatabaseName:        "attendtrack",
		DatabaseUser:        "attend",
		DatabaseAutoMigrate: true,
		DatabaseCachePort:   6379,
		FuzzyMatchThreshold: 90,
		ImportTimezone:      "UTC",
		ImportBatchSize:     500,
		ImportMaxUploadMB:   20,
		LogLevel:            "info",
		LogFormat:           "text",
		SeedAdminLogin:      "admin",
		SeedAdminPassword:   "admin123",
		SeedAdminName:       "System Administrator",
	}
}
