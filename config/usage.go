package config

// UsageCfg configures the useful/useless entry tracker.
type UsageCfg struct {
	// Capacity bounds the number of tracked sources. Least recently recorded sources
	// are dropped from tracking first. Defaults to banks * ways.
	Capacity int `yaml:"capacity"`
}

func (cfg *UsageCfg) Enabled() bool {
	return cfg != nil
}

func (cfg *UsageCfg) adjust(store StoreCfg) {
	if cfg.Capacity <= 0 {
		cfg.Capacity = store.Banks * store.Ways * store.SetsPerBank
	}
}
