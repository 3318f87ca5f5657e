package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the blackjack server
type Config struct {
	loaded     bool
	ServerName string `yaml:"serverName" envconfig:"server_name"`
	ListenAddr string `yaml:"listenAddr" envconfig:"listen_addr"`
	StatusAddr string `yaml:"statusAddr" envconfig:"status_addr"`
	Mode       string `yaml:"mode" envconfig:"mode"`
	Discovery  struct {
		Port            int `yaml:"port" envconfig:"port"`
		IntervalSeconds int `yaml:"intervalSeconds" envconfig:"interval_seconds"`
	} `yaml:"discovery"`
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is fine; the
// defaults plus environment variables are enough to run.
func Load() error {
	config = Config{}

	configFile := getenv("ONEBOARD_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("oneboard", &config); err != nil {
		return err
	}

	applyDefaults(&config)
	config.loaded = true
	return nil
}

func applyDefaults(c *Config) {
	if c.ServerName == "" {
		c.ServerName = "Bust & Furious"
	}

	if c.ListenAddr == "" {
		c.ListenAddr = ":0"
	}

	if c.StatusAddr == "" {
		c.StatusAddr = ":5000"
	}

	if c.Mode == "" {
		c.Mode = "board"
	}

	if c.Discovery.Port == 0 {
		c.Discovery.Port = 13122
	}

	if c.Discovery.IntervalSeconds == 0 {
		c.Discovery.IntervalSeconds = 1
	}
}

// getenv will return an environment variable or a default value
func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}

	return defaultValue
}
