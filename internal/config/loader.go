// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables. A .env file is
// loaded first when present (local development); in production the
// environment is injected directly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}
	if c.AdminPort < 1 || c.AdminPort > 65535 {
		return fmt.Errorf("invalid ADMIN_PORT: %d (must be 1-65535)", c.AdminPort)
	}
	if c.MinPlayers < 1 {
		return fmt.Errorf("invalid MIN_PLAYERS: %d (must be >= 1)", c.MinPlayers)
	}
	if c.ChatEndpoint == "" {
		return fmt.Errorf("CHAT_WS_URL is required")
	}
	if len(c.EnabledGroups) == 0 {
		logrus.Warn("ENABLED_GROUPS is empty; the enter command will work in no group")
	}

	return nil
}
