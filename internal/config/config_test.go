package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at an empty temp dir so no
// real .env or firebase module is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Chdir(tmpDir)

	for _, key := range []string{
		"LEADERBOARD_SOURCE", "SNAPSHOT_PATH", "SNAPSHOT_NODE", "DATABASE_PATH",
		"FIREBASE_DATABASE_URL", "FIREBASE_AUTH_TOKEN", "FIREBASE_CONFIG_PATH",
		"WINDOW_DAYS", "POLL_INTERVAL", "LEADERBOARD_LOCALE", "METRICS_ADDR",
		"NOTIFY_LEADER_CHANGE", "LOG_PATH", "LOG_LEVEL",
	} {
		// Setenv restores the original value on cleanup; unset so .env files can fill it.
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	return tmpDir
}

func validConfig() *Config {
	return &Config{
		Source:       SourceFile,
		SnapshotPath: "/tmp/daily_scores.json",
		SnapshotNode: defaultNode,
		LogLevel:     defaultLogLevel,
		PollInterval: defaultPollInterval,
		WindowDays:   defaultWindowDays,
	}
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	t.Setenv(key, "test_value")

	if got := getEnvString(key, "default"); got != "test_value" {
		t.Errorf("getEnvString() = %q, want %q", got, "test_value")
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		envVal string
		want   int
	}{
		{"7", 7},
		{" 90 ", 90},
		{"-1", -1},
		{"seven", 30},
		{"", 30},
	}

	for _, tt := range tests {
		t.Setenv(key, tt.envVal)
		if got := getEnvInt(key, 30); got != tt.want {
			t.Errorf("getEnvInt(%q) = %d, want %d", tt.envVal, got, tt.want)
		}
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		envVal     string
		defaultVal bool
		want       bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"off", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Setenv(key, tt.envVal)
		if got := getEnvBool(key, tt.defaultVal); got != tt.want {
			t.Errorf("getEnvBool(%q) = %v, want %v", tt.envVal, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[string]string{
		"~":           home,
		"~/x/y.json":  filepath.Join(home, "x", "y.json"),
		"/abs/path":   "/abs/path",
		"relative":    "relative",
		"~other/file": "~other/file",
	}
	for in, want := range tests {
		if got := expandHome(in); got != want {
			t.Errorf("expandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Source != SourceFile {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceFile)
	}
	if want := filepath.Join(home, ".config", "journalist-leaderboard", "daily_scores.json"); cfg.SnapshotPath != want {
		t.Errorf("SnapshotPath = %q, want %q", cfg.SnapshotPath, want)
	}
	if cfg.SnapshotNode != "daily_scores" {
		t.Errorf("SnapshotNode = %q", cfg.SnapshotNode)
	}
	if cfg.WindowDays != 30 || cfg.PollInterval != 5*time.Second || cfg.LogLevel != "info" {
		t.Errorf("defaults = %d/%v/%q", cfg.WindowDays, cfg.PollInterval, cfg.LogLevel)
	}
	if cfg.NotifyLeaderChange || cfg.MetricsAddr != "" || cfg.FirebaseURL != "" {
		t.Errorf("optional features should be off by default: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	env := "LEADERBOARD_SOURCE=SQLite\nDATABASE_PATH=~/scores.db\nWINDOW_DAYS=7\nNOTIFY_LEADER_CHANGE=yes\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Source != SourceSQLite {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceSQLite)
	}
	if cfg.DatabasePath != filepath.Join(dir, "scores.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.WindowDays != 7 || !cfg.NotifyLeaderChange {
		t.Errorf("WindowDays/Notify = %d/%v", cfg.WindowDays, cfg.NotifyLeaderChange)
	}
}

func TestLoad_FirebaseURLFromWebConfig(t *testing.T) {
	dir := isolate(t)
	module := filepath.Join(dir, "src", "lib", "firebase.js")
	if err := os.MkdirAll(filepath.Dir(module), 0o750); err != nil {
		t.Fatal(err)
	}
	content := `const firebaseConfig = {
  apiKey: "key",
  databaseURL: "https://demo.asia-southeast1.firebasedatabase.app",
  projectId: "demo",
};`
	if err := os.WriteFile(module, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.FirebaseURL != "https://demo.asia-southeast1.firebasedatabase.app" {
		t.Errorf("FirebaseURL = %q", cfg.FirebaseURL)
	}

	t.Setenv("FIREBASE_DATABASE_URL", "https://override.firebaseio.com")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.FirebaseURL != "https://override.firebaseio.com" {
		t.Errorf("explicit URL should win, got %q", cfg.FirebaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid", func(*Config) {}, ""},
		{"UnknownSource", func(c *Config) { c.Source = "kafka" }, "LEADERBOARD_SOURCE must be one of"},
		{"FirebaseWithoutURL", func(c *Config) { c.Source = SourceFirebase }, "FIREBASE_DATABASE_URL is required when LEADERBOARD_SOURCE=firebase"},
		{"FirebaseWithURL", func(c *Config) { c.Source = SourceFirebase; c.FirebaseURL = "https://x.firebaseio.com" }, ""},
		{"SQLiteWithoutPath", func(c *Config) { c.Source = SourceSQLite }, "DATABASE_PATH is required"},
		{"FileWithoutPath", func(c *Config) { c.SnapshotPath = "" }, "SNAPSHOT_PATH is required"},
		{"ZeroWindow", func(c *Config) { c.WindowDays = 0 }, "WINDOW_DAYS must be at least 1"},
		{"HugeWindow", func(c *Config) { c.WindowDays = 5000 }, "WINDOW_DAYS must be at most 3650"},
		{"FastPoll", func(c *Config) { c.PollInterval = 10 * time.Millisecond }, "POLL_INTERVAL must be at least"},
		{"BadLevel", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"MetricsPortOnly", func(c *Config) { c.MetricsAddr = ":9090" }, ""},
		{"MetricsHostPort", func(c *Config) { c.MetricsAddr = "127.0.0.1:9090" }, ""},
		{"MetricsNoPort", func(c *Config) { c.MetricsAddr = "localhost" }, "METRICS_ADDR must be host:port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseFirebaseWebConfig(t *testing.T) {
	content := `
export const firebaseConfig = {
  databaseURL: 'https://demo-default-rtdb.firebaseio.com',
  projectId: "demo",
};
`
	cfg := parseFirebaseWebConfig(content)
	if cfg == nil {
		t.Fatal("parseFirebaseWebConfig returned nil")
	}
	if cfg.DatabaseURL != "https://demo-default-rtdb.firebaseio.com" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.ProjectID != "demo" {
		t.Errorf("ProjectID = %q", cfg.ProjectID)
	}
}

func TestParseFirebaseWebConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Empty", ""},
		{"MissingURL", `projectId: "demo"`},
		{"Garbage", "some random text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFirebaseWebConfig(tt.content); got != nil {
				t.Errorf("parseFirebaseWebConfig() should return nil for %s", tt.name)
			}
		})
	}
}

func TestLoadFirebaseWebConfig_MissingFile(t *testing.T) {
	if got := LoadFirebaseWebConfig(filepath.Join(t.TempDir(), "nope.js")); got != nil {
		t.Errorf("LoadFirebaseWebConfig() = %+v, want nil", got)
	}
	if got := LoadFirebaseWebConfig(""); got != nil {
		t.Errorf("LoadFirebaseWebConfig(\"\") = %+v, want nil", got)
	}
}
