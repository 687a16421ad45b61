// Package config loads the rkvmd server configuration: listen address,
// switch/kill chord key sets, and the PKCS#12 TLS identity, per spec.md §6.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"go.klb.dev/rkvmd/internal/capture"
)

// Config is the decoded configuration file.
type Config struct {
	ListenAddress    string   `mapstructure:"listen_address"`
	SwitchKeys       []string `mapstructure:"switch_keys"`
	KillKeys         []string `mapstructure:"kill_keys"`
	IdentityPath     string   `mapstructure:"identity_path"`
	IdentityPassword string   `mapstructure:"identity_password"`
}

// Load reads and decodes the TOML config file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address is required")
	}
	if len(c.SwitchKeys) == 0 {
		return fmt.Errorf("switch_keys must have at least one key")
	}
	if len(c.KillKeys) == 0 {
		return fmt.Errorf("kill_keys must have at least one key")
	}
	if c.IdentityPath == "" {
		return fmt.Errorf("identity_path is required")
	}
	return nil
}

// ChordDomain resolves a list of config key names into the key→bool map a
// chord detector ranges over, all entries initialised to "not pressed".
func ChordDomain(names []string) (map[capture.Key]bool, error) {
	domain := make(map[capture.Key]bool, len(names))
	for _, name := range names {
		key, err := capture.ParseKey(name)
		if err != nil {
			return nil, err
		}
		domain[key] = false
	}
	return domain, nil
}
