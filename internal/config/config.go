package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "pickterm"

func Dir() string {
	if override := os.Getenv("PICKTERM_CONFIG_DIR"); override != "" {
		return override
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", appName)
	default:
		return filepath.Join(home, ".config", appName)
	}
}

// SourcesPath is the sqlite database holding recently used source URLs.
func SourcesPath() string {
	return filepath.Join(Dir(), "sources.db")
}

func LogPath() string {
	return filepath.Join(Dir(), appName+".log")
}

// SettingsPath is where init writes settings.toml by default.
func SettingsPath() string {
	return filepath.Join(Dir(), "settings.toml")
}
