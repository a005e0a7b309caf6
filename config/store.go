package config

// EvictionPolicy selects the victim selection strategy of every bank table.
type EvictionPolicy string

const (
	// PolicyCascade spares entries with retry budget left before evicting them.
	PolicyCascade EvictionPolicy = "cascade"

	// PolicyRecency evicts the least recently used entry of a set.
	PolicyRecency EvictionPolicy = "recency"

	// PolicyPriority evicts the lowest priority entry, breaking ties by recency.
	PolicyPriority EvictionPolicy = "priority"

	// PolicyRandom evicts a uniformly random way of a set.
	PolicyRandom EvictionPolicy = "random"
)

const (
	DefaultBanks       = 4096
	DefaultWays        = 48
	DefaultSetsPerBank = 1
	DefaultMaxDegree   = 4
)

type StoreCfg struct {
	// Banks is the number of independent bank tables (HT_SET). Must be a power of two,
	// bank selection is (key ^ key>>13) & (Banks-1).
	Banks int `yaml:"banks"`

	// Ways is the initial number of ways per bank. The capacity controller changes it
	// at epoch boundaries for all banks uniformly.
	Ways int `yaml:"ways"`

	// SetsPerBank splits every bank into sets of Ways ways each.
	// The default of 1 makes each bank fully associative.
	SetsPerBank int `yaml:"sets_per_bank"`

	// MaxDegree bounds the length of a prediction chain.
	MaxDegree int `yaml:"max_degree"`

	// Policy selects the eviction policy. Example: "cascade".
	Policy EvictionPolicy `yaml:"policy"`

	// Seed feeds the random policy. Zero picks a fixed default seed.
	Seed uint64 `yaml:"seed"`
}

func (cfg *StoreCfg) adjust() {
	if cfg.Banks <= 0 {
		cfg.Banks = DefaultBanks
	}
	if cfg.Ways <= 0 {
		cfg.Ways = DefaultWays
	}
	if cfg.SetsPerBank <= 0 {
		cfg.SetsPerBank = DefaultSetsPerBank
	}
	if cfg.MaxDegree <= 0 {
		cfg.MaxDegree = DefaultMaxDegree
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyCascade
	}
}

func (cfg *StoreCfg) validate() error {
	if cfg.Banks <= 0 || cfg.Banks&(cfg.Banks-1) != 0 {
		return invalid("store.banks must be a positive power of two, got %d", cfg.Banks)
	}
	if cfg.Ways <= 0 {
		return invalid("store.ways must be positive, got %d", cfg.Ways)
	}
	switch cfg.Policy {
	case PolicyCascade, PolicyRecency, PolicyPriority, PolicyRandom:
	default:
		return invalid("unknown store.policy %q", cfg.Policy)
	}
	return nil
}
