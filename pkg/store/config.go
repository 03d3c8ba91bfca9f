package store

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config interface {
	BasePath() string
}

// LoadConfig reads the store location from .logger.yaml (in the working
// directory or $LOGGER_CONFIG_PATH) and LOGGER_* environment variables.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.logger.db")
	v.SetConfigName(".logger") // .yaml is implicit
	v.SetEnvPrefix("LOGGER")
	v.AutomaticEnv()

	if override := os.Getenv("LOGGER_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}
	return &fileConfig{Path: path}, nil
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

// PathConfig is a Config pinned to a directory, for tests and --path.
type PathConfig string

func (p PathConfig) BasePath() string {
	return string(p)
}
