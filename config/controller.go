package config

// ControllerCfg configures the capacity controller.
//
// Every accessed key advances the epoch; when EpochLength accesses have been seen the
// controller computes
//
//	adjustment = Alpha*utility + Beta*deltaMiss + Gamma*(deltaMiss - previousDeltaMiss)
//
// and grows, shrinks or keeps the ways per bank. Zero values are replaced by the
// reference defaults during AdjustConfig. Beta, Gamma, ThetaMinus and
// ImprovementThreshold are pointers: zero is a meaningful setting for them, so only an
// absent value falls back to its default.
type ControllerCfg struct {
	// EpochLength is the number of accesses per evaluation window. Example: 262144.
	EpochLength uint64 `yaml:"epoch_length"`

	// MinWays and MaxWays bound the ways per bank. Step is the grow/shrink increment,
	// it also defines how many ways of the store occupy one host cache way.
	MinWays int `yaml:"min_ways"`
	MaxWays int `yaml:"max_ways"`
	Step    int `yaml:"step"`

	// HostWays is the associativity of the co-resident host cache that gives up one of
	// its ways for every Step ways of the store.
	HostWays uint32 `yaml:"host_ways"`

	Alpha      float64  `yaml:"alpha"`       // utility weight
	Beta       *float64 `yaml:"beta"`        // miss sensitivity weight
	Gamma      *float64 `yaml:"gamma"`       // miss change rate weight
	ThetaPlus  float64  `yaml:"theta_plus"`  // grow threshold
	ThetaMinus *float64 `yaml:"theta_minus"` // shrink threshold
	Tau        float64  `yaml:"tau"`         // miss rate increase threshold

	// EMAAlpha is the weight of the current miss rate in the smoothed miss rate.
	EMAAlpha float64 `yaml:"ema_alpha"`

	// ImprovementThreshold is the minimum miss rate drop counted as an improvement.
	// After MaxNoImprovementWindows windows without one the controller holds.
	ImprovementThreshold    *float64 `yaml:"improvement_threshold"`
	MaxNoImprovementWindows int      `yaml:"max_no_improvement_windows"`
}

const (
	DefaultEpochLength             = 262144
	DefaultMinWays                 = 12
	DefaultMaxWays                 = 96
	DefaultStep                    = 12
	DefaultHostWays                = 16
	DefaultAlpha                   = 0.6
	DefaultBeta                    = -0.3
	DefaultGamma                   = 0.1
	DefaultThetaPlus               = 0.5
	DefaultThetaMinus              = -0.25
	DefaultTau                     = 1.2
	DefaultEMAAlpha                = 0.7
	DefaultImprovementThreshold    = 0.05
	DefaultMaxNoImprovementWindows = 2
)

func (cfg *ControllerCfg) Enabled() bool {
	return cfg != nil
}

func (cfg *ControllerCfg) adjust() {
	if cfg.EpochLength == 0 {
		cfg.EpochLength = DefaultEpochLength
	}
	if cfg.MinWays <= 0 {
		cfg.MinWays = DefaultMinWays
	}
	if cfg.MaxWays <= 0 {
		cfg.MaxWays = DefaultMaxWays
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultStep
	}
	if cfg.HostWays == 0 {
		cfg.HostWays = DefaultHostWays
	}
	orDefault(&cfg.Alpha, DefaultAlpha)
	unsetDefault(&cfg.Beta, DefaultBeta)
	unsetDefault(&cfg.Gamma, DefaultGamma)
	orDefault(&cfg.ThetaPlus, DefaultThetaPlus)
	unsetDefault(&cfg.ThetaMinus, DefaultThetaMinus)
	orDefault(&cfg.Tau, DefaultTau)
	orDefault(&cfg.EMAAlpha, DefaultEMAAlpha)
	unsetDefault(&cfg.ImprovementThreshold, DefaultImprovementThreshold)
	if cfg.MaxNoImprovementWindows <= 0 {
		cfg.MaxNoImprovementWindows = DefaultMaxNoImprovementWindows
	}
}

func (cfg *ControllerCfg) validate(initialWays int) error {
	if cfg.Step <= 0 || cfg.EpochLength == 0 {
		return invalid("controller.step and controller.epoch_length must be positive")
	}
	if cfg.MinWays > cfg.MaxWays {
		return invalid("controller.min_ways %d exceeds controller.max_ways %d", cfg.MinWays, cfg.MaxWays)
	}
	if initialWays < cfg.MinWays || initialWays > cfg.MaxWays {
		return invalid("store.ways %d outside controller bounds [%d, %d]", initialWays, cfg.MinWays, cfg.MaxWays)
	}
	if uint32(cfg.MaxWays/cfg.Step) > cfg.HostWays {
		return invalid("controller.max_ways %d needs more than %d host ways", cfg.MaxWays, cfg.HostWays)
	}
	if cfg.EMAAlpha < 0 || cfg.EMAAlpha > 1 {
		return invalid("controller.ema_alpha must be within [0, 1], got %v", cfg.EMAAlpha)
	}
	return nil
}

func orDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

func unsetDefault(v **float64, def float64) {
	if *v == nil {
		*v = &def
	}
}
