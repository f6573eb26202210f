package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 480) // 8 hours
	v.SetDefault("auth.bcrypt_cost", 10)

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment carries the
		// required settings in deployment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Configure environment variables with TASKLIST_ prefix,
	// e.g. TASKLIST_DATABASE_URL maps to database.url.
	v.SetEnvPrefix("TASKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind critical environment variables so they are read
	// even when absent from the config file.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "TASKLIST_SERVER_PORT"},
		{"server.log_level", "TASKLIST_SERVER_LOG_LEVEL"},
		{"database.url", "TASKLIST_DATABASE_URL"},
		{"auth.jwt_secret", "TASKLIST_AUTH_JWT_SECRET"},
		{"auth.token_lifetime_minutes", "TASKLIST_AUTH_TOKEN_LIFETIME_MINUTES"},
		{"auth.bcrypt_cost", "TASKLIST_AUTH_BCRYPT_COST"},
	}

	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
