package config

import (
	"os"
	"path/filepath"
	"regexp"
)

// FirebaseWebConfig is what we can recover from the web dashboard's
// firebase initialisation module.
type FirebaseWebConfig struct {
	DatabaseURL string
	ProjectID   string
}

var (
	databaseURLRe = regexp.MustCompile(`databaseURL\s*:\s*["'\x60]([^"'\x60]+)["'\x60]`)
	projectIDRe   = regexp.MustCompile(`projectId\s*:\s*["'\x60]([^"'\x60]+)["'\x60]`)
)

// getDefaultFirebaseConfigPath is where the dashboard keeps its firebase module,
// relative to the working directory.
func getDefaultFirebaseConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, "src", "lib", "firebase.js")
}

// LoadFirebaseWebConfig reads the firebase module at path. It returns nil when
// the file is missing or has no database URL.
func LoadFirebaseWebConfig(path string) *FirebaseWebConfig {
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return parseFirebaseWebConfig(string(content))
}

func parseFirebaseWebConfig(content string) *FirebaseWebConfig {
	cfg := &FirebaseWebConfig{}

	// Match: databaseURL: "https://<project>.firebasedatabase.app",
	if match := databaseURLRe.FindStringSubmatch(content); len(match) > 1 {
		cfg.DatabaseURL = match[1]
	}

	// Match: projectId: "<project>",
	if match := projectIDRe.FindStringSubmatch(content); len(match) > 1 {
		cfg.ProjectID = match[1]
	}

	if cfg.DatabaseURL == "" {
		return nil
	}

	return cfg
}
