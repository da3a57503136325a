package config

import (
	"os"
	"strconv"
)

func applyEnvironment(cfg *Config) {
	if cfg.Environment != "development" {
		return
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DatabaseDebug = true
	if cfg.ServerHost == "0.0.0.0" {
		cfg.ServerHost = "127.0.0.1"
	}
}
