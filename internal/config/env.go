package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/kirlent/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the first .env file that exists. Variables already set
// in the process environment are not overwritten.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Could not load env file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(name))
		return
	}
}
