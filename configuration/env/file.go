package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DEFAULT_PATH is loaded when no .env file is passed explicitly.
const DEFAULT_PATH = ".env"

// LoadAnyEnv loads the given .env files.
// If none is given, then .env from the current directory is loaded if it exists.
//
// The variables that are already set in the environment are not overwritten.
func LoadAnyEnv(paths []string) error {
	if len(paths) == 0 {
		_, err := os.Stat(DEFAULT_PATH)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("os.Stat(%s): %w", DEFAULT_PATH, err)
		}
		paths = []string{DEFAULT_PATH}
	}

	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("godotenv.Load for paths %v: %w", paths, err)
	}
	return nil
}
