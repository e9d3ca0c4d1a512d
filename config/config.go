// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configDir      = pflag.String("config-dir", ".", "Directory containing config.toml")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validEnvs      = []string{"development", "production"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// IsProd reports whether the app runs with a production configuration
func IsProd() bool {
	return v.GetString("app.env") == "production"
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configDir)

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.env", "app_env")
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("bootstrap.admin_email", "bootstrap_admin_email")
	v.BindEnv("bootstrap.admin_password", "bootstrap_admin_password")

	//
	// Defaults
	//
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "chapter.db")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			// Chapters and the bootstrap admin come from the config file, so
			// production can't run without one
			if IsProd() {
				return errors.New("config.toml file is missing")
			}
		} else {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validEnvs, v.GetString("app.env")) {
		return errors.New("invalid app.env provided")
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid db driver provided")
	}

	if v.GetString("db.driver") == "postgres" && v.GetString("db.dsn") == "" {
		return errors.New("db.dsn is required for the postgres driver")
	}

	if v.GetString("jwt.secret") == "" {
		// Sessions are signed with this. Fail closed in production instead of
		// starting with a guessable secret
		if IsProd() {
			return errors.New("jwt.secret is required in production")
		}

		fmt.Println("[WARNING]: No jwt.secret set, generated a random one for this run. All sessions will be invalidated on restart.")
		v.Set("jwt.secret", genSecret())
	}

	if v.GetString("bootstrap.admin_email") != "" && v.GetString("bootstrap.admin_password") == "" {
		return errors.New("bootstrap.admin_password is required when bootstrap.admin_email is set")
	}

	return nil
}
