package vibes

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadConfig reads engine settings from a TOML file:
//
//	max_stack = 1000000
//	max_string_bytes = 1048576
//	log_level = "debug"
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return ParseConfig(string(data))
}

// ParseConfig decodes TOML settings, rejecting unknown keys.
func ParseConfig(data string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse config: unknown key %q", undecoded[0].String())
	}
	if cfg.MaxStack < 0 {
		return Config{}, fmt.Errorf("parse config: max_stack must not be negative")
	}
	if cfg.MaxStack > MaxStackLimit {
		return Config{}, fmt.Errorf("parse config: max_stack must not exceed %d", MaxStackLimit)
	}
	if cfg.MaxStringBytes < 0 {
		return Config{}, fmt.Errorf("parse config: max_string_bytes must not be negative")
	}
	return cfg, nil
}
