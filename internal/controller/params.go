package controller

import "github.com/Borislavv/go-corr-cache/config"

// Params are the tuning constants of Evaluate.
type Params struct {
	EpochLength uint64
	MinWays     int
	MaxWays     int
	Step        int
	HostWays    uint32

	Alpha      float64
	Beta       float64
	Gamma      float64
	ThetaPlus  float64
	ThetaMinus float64
	Tau        float64
	EMAAlpha   float64

	ImprovementThreshold    float64
	MaxNoImprovementWindows int
}

func ParamsFrom(cfg *config.ControllerCfg) Params {
	return Params{
		EpochLength:             cfg.EpochLength,
		MinWays:                 cfg.MinWays,
		MaxWays:                 cfg.MaxWays,
		Step:                    cfg.Step,
		HostWays:                cfg.HostWays,
		Alpha:                   cfg.Alpha,
		Beta:                    value(cfg.Beta),
		Gamma:                   value(cfg.Gamma),
		ThetaPlus:               cfg.ThetaPlus,
		ThetaMinus:              value(cfg.ThetaMinus),
		Tau:                     cfg.Tau,
		EMAAlpha:                cfg.EMAAlpha,
		ImprovementThreshold:    value(cfg.ImprovementThreshold),
		MaxNoImprovementWindows: cfg.MaxNoImprovementWindows,
	}
}

// value reads an optional coefficient; configs that skipped AdjustConfig read zero.
func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	cfg := config.Default().Controller
	return ParamsFrom(cfg)
}
