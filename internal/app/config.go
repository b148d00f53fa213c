package app

import (
	"github.com/classbridge/classbridge-backend/internal/logger"
	"github.com/classbridge/classbridge-backend/internal/utils"
)

type Config struct {
	Mode string
	Port string
}

func loadConfig(log *logger.Logger) *Config {
	return &Config{
		Mode: utils.GetEnv("APP_MODE", "development", log),
		Port: utils.GetEnv("PORT", "8080", log),
	}
}
