package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the Goatlate data directory.
// - GOATLATE_HOME if set
// - Windows: %APPDATA%\goatlate
// - Other OS: ~/.goatlate
func DataDir() string {
	if dir := os.Getenv("GOATLATE_HOME"); dir != "" {
		return dir
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "goatlate")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".goatlate"
	}
	return filepath.Join(home, ".goatlate")
}

// DBPath returns the path to the SQLite usage ledger.
func DBPath() string {
	return filepath.Join(DataDir(), "goatlate.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
