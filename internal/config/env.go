package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/kelsos/meili-tasks/internal/logger"
)

// LoadEnvironment loads environment variables from .env files in the
// current directory and next to the executable. Variables already set in
// the process environment win.
func LoadEnvironment() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found in current directory: %v", err)
	} else {
		logger.Debug("Loaded .env file from current directory")
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Debug("Could not determine executable path: %v", err)
		return
	}

	execDir := filepath.Dir(execPath)
	envPath := filepath.Join(execDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Debug("No .env file found in app directory (%s): %v", execDir, err)
	} else {
		logger.Debug("Loaded .env file from app directory: %s", execDir)
	}
}
