package config

import (
	"os"

	"github.com/arisros/one-time-message/internal/utils"
)

const AppName = "one-time-message"

// Config holds the runtime settings. Everything comes from environment
// variables with standalone-friendly defaults: with no env set at all the
// service listens on :8080 with a sqlite file next to the binary.
type Config struct {
	AppName     string
	AppPort     string
	AppUrl      string
	DatabaseURL string
}

func LoadConfig() *Config {
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "8080"
		utils.Logger.Info("APP_PORT not set, defaulting to 8080")
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "*"
		utils.Logger.Info("APP_URL not set, allowing any CORS origin")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "messages.db"
		utils.Logger.Info("DATABASE_URL not set, defaulting to sqlite file messages.db")
	}

	utils.Logger.Infof("Loaded config for %s", AppName)

	return &Config{
		AppName:     AppName,
		AppPort:     appPort,
		AppUrl:      appURL,
		DatabaseURL: dbURL,
	}
}

func (c *Config) Close() {
}
