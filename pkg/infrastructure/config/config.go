// Package config loads runtime settings from a YAML file and LOTTRACK_*
// environment variables. Flags handled by the CLI layer override both.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration
type Config struct {
	DatabasePath    string `mapstructure:"database_path"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	DefaultGrouping string `mapstructure:"default_grouping"`
}

// Load reads configuration with precedence: environment variables, then
// the config file, then defaults. configFile may be empty, in which case
// lottrack.yaml in the working directory is used if present.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database_path", "lottrack.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("default_grouping", "WEEKLY")

	v.SetEnvPrefix("LOTTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", configFile)
		}
	} else {
		v.SetConfigName("lottrack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "reading config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}
