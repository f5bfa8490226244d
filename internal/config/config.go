// Package config holds the application settings, its YAML config file and
// data paths.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// version of the application.
var version = "0.1.0"

const (
	appName        string = "goprompts"  // Default name of the application
	command        string = "gp"         // Default name of the executable
	DefaultDBName  string = "prompts.db" // Default name of the main database
	configFilename string = "config.yml" // Default config filename
	DefaultWorkers int    = 4            // Default concurrent requests in serve mode
)

type (
	AppConfig struct {
		Name    string      `json:"name"`    // Name of the application
		Cmd     string      `json:"cmd"`     // Name of the executable
		DBName  string      `json:"db"`      // Database name
		DBPath  string      `json:"db_path"` // Database path
		Workers int         `json:"workers"` // Concurrent requests in serve mode
		Info    information `json:"data"`    // Application information
		Env     environment `json:"env"`     // Application environment variables
		Path    path        `json:"path"`    // Application path
		Flags   *Flags      `json:"-"`       // Command line flags
	}

	path struct {
		Data       string `json:"data"`   // Path to store database
		ConfigFile string `json:"config"` // Path to config file
		Backup     string `json:"backup"` // Path to store backups
		QR         string `json:"qr"`     // Path to store QR-Code images
	}

	information struct {
		URL     string `json:"url"`     // URL of the application
		Title   string `json:"title"`   // Title of the application
		Desc    string `json:"desc"`    // Description of the application
		Version string `json:"version"` // Version of the application
	}

	environment struct {
		Home   string `json:"home"`   // Environment variable for the home directory
		Editor string `json:"editor"` // Environment variable for the preferred editor
	}
)

// Flags are the command line flags shared by every command.
type Flags struct {
	JSON    bool // JSON output
	Oneline bool // Oneline output
	Force   bool // Force action
	Verbose int  // Verbose flag
}

// App is the default application configuration.
var App = &AppConfig{
	Name:    appName,
	Cmd:     command,
	DBName:  DefaultDBName,
	Workers: DefaultWorkers,
	Flags:   &Flags{},
	Info: information{
		URL:     "https://github.com/mateconpizza/gp#readme",
		Title:   "GoPrompts: A prompt manager",
		Desc:    "Store, search and reuse your prompts",
		Version: version,
	},
	Env: environment{
		Home:   "GOPROMPTS_HOME",
		Editor: "GOPROMPTS_EDITOR",
	},
}

// SetAppPaths sets the app data path.
func SetAppPaths(p string) {
	App.Path.Data = p
	App.Path.ConfigFile = filepath.Join(p, configFilename)
	App.Path.Backup = filepath.Join(p, "backup")
	App.Path.QR = filepath.Join(p, "qr")
	App.DBPath = filepath.Join(p, App.DBName)
}

// SetVerbosity installs the default logger; each -v raises the level from
// error up to debug.
func SetVerbosity(verbose int) {
	slog.SetDefault(slog.New(newLogHandler(verbose)))
	slog.Debug("logging", "level", logLevel(verbose))
}

func logLevel(verbose int) slog.Level {
	levels := []slog.Level{
		slog.LevelError,
		slog.LevelWarn,
		slog.LevelInfo,
		slog.LevelDebug,
	}

	return levels[max(0, min(verbose, len(levels)-1))]
}

func newLogHandler(verbose int) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel(verbose),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					dir, file := filepath.Split(source.File)
					source.File = filepath.Join(filepath.Base(filepath.Clean(dir)), file)

					return slog.Attr{Key: slog.SourceKey, Value: slog.AnyValue(source)}
				}
			}

			return a
		},
	})
}
