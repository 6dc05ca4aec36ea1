// Package config loads micube settings from defaults, an optional YAML file,
// MICUBE_ environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. MICUBE_LOG_LEVEL.
const EnvPrefix = "MICUBE"

// Config holds all settings.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Device DeviceConfig `mapstructure:"device"`

	// File is the config file that was read, empty if none was found.
	File string `mapstructure:"-"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// DBConfig holds the sqlite settings. An empty path means the default location.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// DeviceConfig holds cube discovery and connection settings.
type DeviceConfig struct {
	Address        string        `mapstructure:"address"`
	NamePrefix     string        `mapstructure:"name_prefix"`
	ScanTimeout    time.Duration `mapstructure:"scan_timeout"`
	ConnectRetries int           `mapstructure:"connect_retries"`
	Battery        bool          `mapstructure:"battery"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"pretty":    "log.pretty",
	"db":        "db.path",
	"address":   "device.address",
	"prefix":    "device.name_prefix",
	"timeout":   "device.scan_timeout",
	"retries":   "device.connect_retries",
	"battery":   "device.battery",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("db.path", "")

	v.SetDefault("device.address", "")
	v.SetDefault("device.name_prefix", "Gi")
	v.SetDefault("device.scan_timeout", 30*time.Second)
	v.SetDefault("device.connect_retries", 10)
	v.SetDefault("device.battery", true)
}

// Load reads the configuration. If path is empty, micube.yaml is looked up in
// the working directory and in ~/.micube, and a missing file is not an error.
// Flags that are present in flags override every other source; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("micube")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".micube"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if cfg.Device.ConnectRetries < 1 {
		return nil, fmt.Errorf("device.connect_retries must be at least 1, got %d", cfg.Device.ConnectRetries)
	}
	if cfg.Device.ScanTimeout <= 0 {
		return nil, fmt.Errorf("device.scan_timeout must be positive, got %s", cfg.Device.ScanTimeout)
	}

	return &cfg, nil
}
