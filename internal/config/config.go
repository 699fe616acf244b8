package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the binaries read from the environment. It is
// built once in main and passed into constructors; nothing reads the
// environment after startup.
type Config struct {
	Port         string `mapstructure:"PORT"`
	PostgresURL  string `mapstructure:"POSTGRES_URL"`
	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`

	PaymentGatewayURL string `mapstructure:"PAYMENT_GATEWAY_URL"`
	EmailServiceURL   string `mapstructure:"EMAIL_SERVICE_URL"`

	TokenSecret string `mapstructure:"TOKEN_SECRET"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("PAYMENT_GATEWAY_URL", "")
	v.SetDefault("EMAIL_SERVICE_URL", "")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("TOKEN_SECRET", "")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
