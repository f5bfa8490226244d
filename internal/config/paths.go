package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gap "github.com/muesli/go-app-paths"
)

// DataPath returns the data path for the application.
func DataPath() (string, error) {
	scope := gap.NewScope(gap.User, appName)
	dataDir, err := scope.DataPath("")
	if err != nil {
		return "", fmt.Errorf("getting data path: %w", err)
	}

	return dataDir, nil
}

// PathJoin returns the path joined with the application name.
func PathJoin(p string) string {
	return filepath.Join(p, appName)
}

// LoadDataPath returns the app home. $GOPROMPTS_HOME, when set, takes
// precedence over the user data directory.
func LoadDataPath() (string, error) {
	if v, ok := os.LookupEnv(App.Env.Home); ok && v != "" {
		return PathJoin(v), nil
	}

	return DataPath()
}

// EnsureDBSuffix appends the .db extension when missing.
func EnsureDBSuffix(name string) string {
	if strings.HasSuffix(name, ".db") {
		return name
	}

	return name + ".db"
}
