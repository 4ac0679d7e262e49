package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Payment struct {
		Price          string // decimal string, e.g. "0.10"
		Asset          string
		Network        string
		Scheme         string
		Receiver       string
		ChallengeTTL   time.Duration
		DedupWindow    time.Duration
	}
	Facilitator struct {
		URL        string
		Timeout    time.Duration
		MaxRetries int
	}
	LicenseBoard struct {
		URL      string
		Timeout  time.Duration
		CacheTTL time.Duration
	}
	Catalog struct {
		Path string
	}
	Match struct {
		Limit int
	}
	Database struct {
		URL string
	}
	Redis struct {
		URL string
	}
	Registry struct {
		URL         string
		APIEndpoint string
	}
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	var config Config

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("payment.price", "0.10")
	viper.SetDefault("payment.asset", "USDC")
	viper.SetDefault("payment.network", "base")
	viper.SetDefault("payment.scheme", "exact")
	viper.SetDefault("payment.challenge_ttl", "5m")
	viper.SetDefault("payment.dedup_window", "15m")
	viper.SetDefault("facilitator.url", "https://x402.org/facilitator")
	viper.SetDefault("facilitator.timeout", "8s")
	viper.SetDefault("facilitator.max_retries", 3)
	viper.SetDefault("license_board.timeout", "8s")
	viper.SetDefault("license_board.cache_ttl", "10m")
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("match.limit", 3)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	config.Server.Port = viper.GetString("server.port")
	config.Payment.Price = viper.GetString("payment.price")
	config.Payment.Asset = viper.GetString("payment.asset")
	config.Payment.Network = viper.GetString("payment.network")
	config.Payment.Scheme = viper.GetString("payment.scheme")
	config.Payment.ChallengeTTL = viper.GetDuration("payment.challenge_ttl")
	config.Payment.DedupWindow = viper.GetDuration("payment.dedup_window")
	config.Facilitator.URL = viper.GetString("facilitator.url")
	config.Facilitator.Timeout = viper.GetDuration("facilitator.timeout")
	config.Facilitator.MaxRetries = viper.GetInt("facilitator.max_retries")
	config.LicenseBoard.URL = viper.GetString("license_board.url")
	config.LicenseBoard.Timeout = viper.GetDuration("license_board.timeout")
	config.LicenseBoard.CacheTTL = viper.GetDuration("license_board.cache_ttl")
	config.Catalog.Path = viper.GetString("catalog.path")
	config.Match.Limit = viper.GetInt("match.limit")
	config.Database.URL = viper.GetString("database.url")
	config.Redis.URL = viper.GetString("redis.url")
	config.Registry.URL = viper.GetString("registry.url")
	config.Registry.APIEndpoint = viper.GetString("registry.api_endpoint")

	// Wallet is a secret-adjacent value; env only, never config.yaml.
	config.Payment.Receiver = os.Getenv("BASE_WALLET_ADDRESS")
	if v := os.Getenv("X402_FACILITATOR_URL"); v != "" {
		config.Facilitator.URL = v
	}

	return &config, nil
}

// Validate enforces the settings without which no payment challenge can be
// issued. Failing here is fatal at startup, never per-request.
func (c *Config) Validate() error {
	if c.Payment.Receiver == "" {
		return fmt.Errorf("configuration error: BASE_WALLET_ADDRESS is required")
	}
	if c.Payment.Price == "" {
		return fmt.Errorf("configuration error: payment.price is required")
	}
	if c.Facilitator.URL == "" {
		return fmt.Errorf("configuration error: facilitator.url is required")
	}
	return nil
}
