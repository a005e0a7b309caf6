package config

// AdmissionControlCfg configures TinyLFU-style admission control.
// It estimates how often a correlation source is recorded (via a sketch + doorkeeper)
// to decide whether a new source may displace the victim of a full bank.
//
// Note: when Enabled is false, a NoOp admission controller is used (sources are admitted unconditionally).
type AdmissionControlCfg struct {
	// Capacity is the logical size used to dimension admission-control data structures.
	// Typically aligned with the store capacity (banks * ways).
	Capacity int `yaml:"capacity"`

	// Shards defines how many independent admission-control shards to use. Must be a power of two.
	Shards int `yaml:"shards"`

	// MinTableLenPerShard sets a lower bound for internal table length per shard.
	// This prevents undersized tables when Capacity is low or Shards is high.
	MinTableLenPerShard int `yaml:"min_table_len_per_shard"`

	// SampleMultiplier controls the aging window: counters are halved after
	// SampleMultiplier * tableLen increments.
	SampleMultiplier int `yaml:"sample_multiplier"`

	// DoorBitsPerCounter configures the size/precision of the doorkeeper (Bloom-like) structure.
	// More bits reduce false positives but increase memory usage.
	DoorBitsPerCounter int `yaml:"door_bits_per_counter"`
}

func (cfg *AdmissionControlCfg) Enabled() bool {
	return cfg != nil
}

func (cfg *AdmissionControlCfg) adjust(banks int) {
	if cfg.Shards <= 0 {
		cfg.Shards = 64
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = banks * DefaultWays
	}
	if cfg.MinTableLenPerShard <= 0 {
		cfg.MinTableLenPerShard = 64
	}
	if cfg.SampleMultiplier <= 0 {
		cfg.SampleMultiplier = 10
	}
	if cfg.DoorBitsPerCounter <= 0 {
		cfg.DoorBitsPerCounter = 4
	}
}

func (cfg *AdmissionControlCfg) validate() error {
	if cfg.Shards&(cfg.Shards-1) != 0 {
		return invalid("admission_control.shards must be a power of two, got %d", cfg.Shards)
	}
	return nil
}
