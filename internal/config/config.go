/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables and an
 * optional .env file, providing a centralized way to manage application
 * settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the banking API.
// These values are loaded from environment variables.
type Config struct {
	ServerPort              string `mapstructure:"SERVER_PORT"`
	DatabaseURL             string `mapstructure:"DATABASE_URL"`
	JWTSecret               string `mapstructure:"JWT_SECRET"`
	SessionTTLHours         int    `mapstructure:"SESSION_TTL_HOURS"`
	BcryptCost              int    `mapstructure:"BCRYPT_COST"`
	RedisURL                string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix    string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	LoginRateLimit          int    `mapstructure:"LOGIN_RATE_LIMIT_PER_WINDOW"`
	LoginRateLimitWindowMin int    `mapstructure:"LOGIN_RATE_LIMIT_WINDOW_MINUTES"`
	APIRateLimit            int    `mapstructure:"API_RATE_LIMIT_PER_WINDOW"`
	RabbitMQURL             string `mapstructure:"RABBITMQ_URL"`
	EventExchange           string `mapstructure:"EVENT_EXCHANGE"`
	SettlementDelaySeconds  int    `mapstructure:"SETTLEMENT_DELAY_SECONDS"`
	SessionSweepSchedule    string `mapstructure:"SESSION_SWEEP_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "banking:rate_limit")
	viper.SetDefault("LOGIN_RATE_LIMIT_PER_WINDOW", 5)
	viper.SetDefault("LOGIN_RATE_LIMIT_WINDOW_MINUTES", 15)
	viper.SetDefault("API_RATE_LIMIT_PER_WINDOW", 100)
	viper.SetDefault("EVENT_EXCHANGE", "bank.events")
	viper.SetDefault("SETTLEMENT_DELAY_SECONDS", 5)
	viper.SetDefault("SESSION_SWEEP_SCHEDULE", "@hourly")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("SESSION_TTL_HOURS")
	_ = viper.BindEnv("BCRYPT_COST")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("LOGIN_RATE_LIMIT_PER_WINDOW")
	_ = viper.BindEnv("LOGIN_RATE_LIMIT_WINDOW_MINUTES")
	_ = viper.BindEnv("API_RATE_LIMIT_PER_WINDOW")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("EVENT_EXCHANGE")
	_ = viper.BindEnv("SETTLEMENT_DELAY_SECONDS")
	_ = viper.BindEnv("SESSION_SWEEP_SCHEDULE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}

	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "banking:rate_limit"
	}

	if config.SessionTTLHours <= 0 {
		config.SessionTTLHours = 24
	}
	if config.BcryptCost < 4 || config.BcryptCost > 31 {
		log.Printf("level=warn component=config msg=\"bcrypt cost out of range; using default\" cost=%d", config.BcryptCost)
		config.BcryptCost = 12
	}
	if config.SettlementDelaySeconds <= 0 {
		config.SettlementDelaySeconds = 5
	}
	if config.LoginRateLimit <= 0 {
		config.LoginRateLimit = 5
	}
	if config.LoginRateLimitWindowMin <= 0 {
		config.LoginRateLimitWindowMin = 15
	}
	if config.APIRateLimit <= 0 {
		config.APIRateLimit = 100
	}
	if strings.TrimSpace(config.SessionSweepSchedule) == "" {
		config.SessionSweepSchedule = "@hourly"
	}

	return
}
