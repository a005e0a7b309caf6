package config

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// ErrInvalidConfig is returned by Validate and LoadConfig.
var ErrInvalidConfig = errors.New("invalid config")

// Cache groups configuration of all correlation cache subsystems.
// Optional components are disabled by leaving them nil.
type Cache struct {
	Store StoreCfg `yaml:"store"`

	// Controller configures the epoch-based capacity controller.
	// If nil, the store keeps its initial ways for the whole run.
	Controller *ControllerCfg `yaml:"controller"`

	// AdmissionControl configures TinyLFU-style admission of new correlation sources
	// into full banks. If nil, every record is admitted unconditionally.
	AdmissionControl *AdmissionControlCfg `yaml:"admission_control"`

	// Usage configures tracking of useful and useless entries.
	// If nil, no provenance statistics are kept.
	Usage *UsageCfg `yaml:"usage"`

	Logs LogsCfg `yaml:"logs"`
}

// Default returns the reference configuration with the controller enabled.
func Default() *Cache {
	cfg := &Cache{
		Controller: &ControllerCfg{},
		Usage:      &UsageCfg{},
	}
	cfg.AdjustConfig()
	return cfg
}

// AdjustConfig fills zero values with defaults and computes derived fields.
func (cfg *Cache) AdjustConfig() {
	cfg.Store.adjust()
	if cfg.Controller.Enabled() {
		cfg.Controller.adjust()
	}
	if cfg.AdmissionControl.Enabled() {
		cfg.AdmissionControl.adjust(cfg.Store.Banks)
	}
	if cfg.Usage.Enabled() {
		cfg.Usage.adjust(cfg.Store)
	}
	cfg.Logs.adjust()
}

// Validate reports the first inconsistency found, wrapped with ErrInvalidConfig.
func (cfg *Cache) Validate() error {
	if err := cfg.Store.validate(); err != nil {
		return err
	}
	if cfg.Controller.Enabled() {
		if err := cfg.Controller.validate(cfg.Store.Ways); err != nil {
			return err
		}
	}
	if cfg.AdmissionControl.Enabled() {
		if err := cfg.AdmissionControl.validate(); err != nil {
			return err
		}
	}
	return nil
}

func LoadConfig(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Cache
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		cfg = &Cache{}
	}
	cfg.AdjustConfig()

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
