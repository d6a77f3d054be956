// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

// Config holds all application configuration loaded from environment
// variables via github.com/caarlos0/env.
type Config struct {
	// Server configuration
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	AdminPort   int    `env:"ADMIN_PORT" envDefault:"8081"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"PartyDuelHandler"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Chat endpoint configuration (REQUIRED)
	ChatEndpoint    string `env:"CHAT_WS_URL,required"`
	ChatAccessToken string `env:"CHAT_ACCESS_TOKEN"`

	// Game configuration
	EnabledGroups []int64 `env:"ENABLED_GROUPS" envSeparator:","`
	MinPlayers    int     `env:"MIN_PLAYERS" envDefault:"2"`
	ContentPath   string  `env:"CONTENT_PATH" envDefault:"config/content.yaml"`

	// Admin surface
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Redis configuration (punishment leaderboard)
	StatsEnabled  bool   `env:"STATS_ENABLED" envDefault:"true"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Telemetry configuration
	OtelEnabled bool `env:"OTEL_ENABLED" envDefault:"true"`
}
