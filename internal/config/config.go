package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PollConfig holds the adaptive poll intervals and the idle thresholds that
// move the scheduler between them.
type PollConfig struct {
	// interval used while the user is active
	ActiveInterval time.Duration `json:"activeInterval"`
	// interval after one minute of inactivity
	Idle1MinInterval time.Duration `json:"idle1MinInterval"`
	// interval after five minutes of inactivity
	Idle5MinInterval time.Duration `json:"idle5MinInterval"`
	// interval after ten minutes of inactivity
	Idle10MinInterval time.Duration `json:"idle10MinInterval"`

	Idle1MinAfter  time.Duration `json:"idle1MinAfter"`
	Idle5MinAfter  time.Duration `json:"idle5MinAfter"`
	Idle10MinAfter time.Duration `json:"idle10MinAfter"`

	// cadence of the secondary idle check, independent of the main poll timer
	IdleCheckInterval time.Duration `json:"idleCheckInterval"`
}

type Config struct {
	GatewayAddress string `json:"gatewayAddress"`
	GatewayAppKey  string `json:"gatewayApplicationKey"`
	CacheDBPath    string `json:"cacheDbPath"`

	// area names in display/priority order; unrecognised areas sort last
	AreaPriority []string `json:"areaPriority"`

	Poll PollConfig `json:"poll"`
}

func setDefaults() {
	viper.SetDefault("cacheDbPath", "homesync.db")
	viper.SetDefault("poll.activeInterval", "3s")
	viper.SetDefault("poll.idle1MinInterval", "10s")
	viper.SetDefault("poll.idle5MinInterval", "60s")
	viper.SetDefault("poll.idle10MinInterval", "1800s")
	viper.SetDefault("poll.idle1MinAfter", "60s")
	viper.SetDefault("poll.idle5MinAfter", "300s")
	viper.SetDefault("poll.idle10MinAfter", "600s")
	viper.SetDefault("poll.idleCheckInterval", "10s")
}

// Load reads the config file (json, searched in /etc/homesync, ~/.config/homesync
// and the working directory) and applies HOMESYNC_* environment overrides.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath("/etc/homesync/")
	viper.AddConfigPath("$HOME/.config/homesync/")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("homesync")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no config file is fine, defaults + env vars apply
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return &cfg, nil
}

// Default returns a config populated with the standard poll thresholds,
// used when the engine is embedded without a config file.
func Default() *Config {
	return &Config{
		CacheDBPath: "homesync.db",
		Poll: PollConfig{
			ActiveInterval:    3 * time.Second,
			Idle1MinInterval:  10 * time.Second,
			Idle5MinInterval:  60 * time.Second,
			Idle10MinInterval: 1800 * time.Second,
			Idle1MinAfter:     time.Minute,
			Idle5MinAfter:     5 * time.Minute,
			Idle10MinAfter:    10 * time.Minute,
			IdleCheckInterval: 10 * time.Second,
		},
	}
}
