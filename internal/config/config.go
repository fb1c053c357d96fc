// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Source kinds.
const (
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
	SourceFirebase = "firebase"
)

// Config holds the application configuration. The env tag names the variable
// each field is read from and is used in validation messages.
type Config struct {
	Source             string        `env:"LEADERBOARD_SOURCE" validate:"oneof=file sqlite firebase"`
	SnapshotPath       string        `env:"SNAPSHOT_PATH" validate:"required_if=Source file"`
	SnapshotNode       string        `env:"SNAPSHOT_NODE"`
	DatabasePath       string        `env:"DATABASE_PATH" validate:"required_if=Source sqlite"`
	FirebaseURL        string        `env:"FIREBASE_DATABASE_URL" validate:"required_if=Source firebase"`
	FirebaseAuthToken  string        `env:"FIREBASE_AUTH_TOKEN"`
	Locale             string        `env:"LEADERBOARD_LOCALE"`
	MetricsAddr        string        `env:"METRICS_ADDR" validate:"omitempty,listenaddr"`
	LogPath            string        `env:"LOG_PATH"`
	LogLevel           string        `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	PollInterval       time.Duration `env:"POLL_INTERVAL" validate:"gte=100ms"`
	WindowDays         int           `env:"WINDOW_DAYS" validate:"min=1,max=3650"`
	NotifyLeaderChange bool          `env:"NOTIFY_LEADER_CHANGE"`
}

// Default values
const (
	defaultWindowDays   = 30
	defaultPollInterval = 5 * time.Second
	defaultNode         = "daily_scores"
	defaultLogLevel     = "info"
)

// Load reads configuration from .env files and environment variables.
// The result is not validated; callers apply overrides and then call Validate.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
			break
		}
	}

	firebaseURL := getEnvString("FIREBASE_DATABASE_URL", "")
	if firebaseURL == "" {
		configPath := getEnvString("FIREBASE_CONFIG_PATH", getDefaultFirebaseConfigPath())
		if web := LoadFirebaseWebConfig(configPath); web != nil {
			firebaseURL = web.DatabaseURL
		}
	}

	cfg := &Config{
		Source:             strings.ToLower(getEnvString("LEADERBOARD_SOURCE", SourceFile)),
		SnapshotPath:       expandHome(getEnvString("SNAPSHOT_PATH", getDefaultPath("daily_scores.json"))),
		SnapshotNode:       getEnvString("SNAPSHOT_NODE", defaultNode),
		DatabasePath:       expandHome(getEnvString("DATABASE_PATH", getDefaultPath("leaderboard.db"))),
		FirebaseURL:        firebaseURL,
		FirebaseAuthToken:  getEnvString("FIREBASE_AUTH_TOKEN", ""),
		Locale:             getEnvString("LEADERBOARD_LOCALE", ""),
		MetricsAddr:        getEnvString("METRICS_ADDR", ""),
		LogPath:            expandHome(getEnvString("LOG_PATH", getDefaultPath("leaderboard.log"))),
		LogLevel:           strings.ToLower(getEnvString("LOG_LEVEL", defaultLogLevel)),
		PollInterval:       getEnvDuration("POLL_INTERVAL", defaultPollInterval),
		WindowDays:         getEnvInt("WINDOW_DAYS", defaultWindowDays),
		NotifyLeaderChange: getEnvBool("NOTIFY_LEADER_CHANGE", false),
	}

	return cfg, nil
}

// Validate checks the configuration and reports every invalid setting by
// its environment variable name.
func (c *Config) Validate() error {
	v, err := newValidator()
	if err != nil {
		return err
	}

	err = v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})

	if err := v.RegisterValidation("listenaddr", validateListenAddr); err != nil {
		return nil, fmt.Errorf("failed to register listenaddr validator: %w", err)
	}
	return v, nil
}

// validateListenAddr accepts host:port and :port.
func validateListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_if":
		return fmt.Sprintf("%s is required when %s", fe.Field(), strings.Replace(fe.Param(), "Source ", "LEADERBOARD_SOURCE=", 1))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "listenaddr":
		return fmt.Sprintf("%s must be host:port, got %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "journalist-leaderboard", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultPath returns name inside the application config directory.
func getDefaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", "journalist-leaderboard", name)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts the forms strconv.ParseBool does, plus yes/no and on/off.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
