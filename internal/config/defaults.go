package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultOutputDir        = "converted_comics"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 14
	defaultQuality          = 75
	defaultMultiProcessing  = 1
	defaultHistoryEnabled   = true
	historyFileName         = "history.db"
	logDirName              = "logs"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    filepath.Join(defaultDataDir(), logDirName),
			HistoryDB: filepath.Join(defaultDataDir(), historyFileName),
		},
		Conversion: Conversion{
			Quality:         defaultQuality,
			MultiProcessing: defaultMultiProcessing,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "comicz")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/comicz"
	}
	return filepath.Join(home, ".local", "share", "comicz")
}
