package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DotEnvFiles lists the env files consulted, in order, relative to the crate dir.
var DotEnvFiles = []string{".env", ".env.local"}

// LoadDotEnv loads the first env file found in dir into the process
// environment. Variables already set are never overwritten, so a consuming
// build system always wins. A missing file is not an error.
func LoadDotEnv(dir string) (string, error) {
	for _, name := range DotEnvFiles {
		path := filepath.Join(dir, name)
		err := godotenv.Load(path)
		if err == nil {
			slog.Debug("Loaded environment file", "path", path)
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}
