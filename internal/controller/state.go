package controller

import "github.com/Borislavv/go-corr-cache/model"

// State is everything the controller carries from one access to the next.
type State struct {
	Epoch uint64 // number of evaluated epochs

	// current epoch counters
	AccessCount uint64
	MissCount   uint64
	UsefulCount uint64

	// retained from the previous epoch
	PrevMissCount    uint64
	PrevMissRate     float64
	PrevUtility      float64
	PrevDeltaMiss    float64
	SmoothedMissRate float64
	NoImprovement    int

	// Capacity is the current ways per bank.
	Capacity int

	Grows   uint64
	Shrinks uint64
	Holds   uint64
}

// Report describes one evaluation.
type Report struct {
	Epoch            uint64
	MissRate         float64
	Utility          float64
	DeltaMiss        float64
	SmoothedMissRate float64
	Adjustment       float64
	UsefulRatio      float64
	Proposed         model.Decision // before the stability clamp and bounds
	Decision         model.Decision // effective
	Stalled          bool           // the stability clamp forced a hold
	FromWays         int
	ToWays           int
}

// NewState returns the state of a controller starting at capacity ways.
func NewState(capacity int) State {
	return State{Capacity: capacity}
}

// Evaluate closes the epoch accumulated in st. It is pure: the returned state has its
// counters zeroed, the previous-epoch values replaced and Capacity set to the new ways.
func Evaluate(st State, p Params) (State, model.Decision, Report) {
	var (
		access = float64(st.AccessCount)
		miss   = float64(st.MissCount)
		useful = float64(st.UsefulCount)
		first  = st.Epoch == 0
	)

	missRate := 0.0
	if p.EpochLength > 0 {
		missRate = miss / float64(p.EpochLength)
	}
	utility := 0.0
	if st.MissCount > 0 {
		utility = useful / miss
	}
	deltaMiss, usefulRatio := 0.0, 0.0
	if access > 0 {
		if !first {
			deltaMiss = (miss - float64(st.PrevMissCount)) / access
		}
		usefulRatio = useful / access
	}
	smoothed := p.EMAAlpha*missRate + (1-p.EMAAlpha)*st.SmoothedMissRate
	adjustment := p.Alpha*utility + p.Beta*deltaMiss + p.Gamma*(deltaMiss-st.PrevDeltaMiss)

	proposed := model.Hold
	switch {
	case adjustment > p.ThetaPlus && usefulRatio > float64(st.Capacity)/float64(p.MaxWays+p.Step):
		proposed = model.Grow
	case adjustment < p.ThetaMinus || missRate > p.Tau*st.PrevMissRate:
		proposed = model.Shrink
	}

	decision, stalled := proposed, false
	if !first {
		if st.PrevMissRate-missRate < p.ImprovementThreshold {
			st.NoImprovement++
			if st.NoImprovement >= p.MaxNoImprovementWindows {
				decision, stalled = model.Hold, proposed != model.Hold
			}
		} else {
			st.NoImprovement = 0
		}
	}

	from := st.Capacity
	to := from
	switch decision {
	case model.Grow:
		to = min(from+p.Step, p.MaxWays)
	case model.Shrink:
		to = max(from-p.Step, p.MinWays)
	}
	if to == from {
		decision = model.Hold
	}

	switch decision {
	case model.Grow:
		st.Grows++
	case model.Shrink:
		st.Shrinks++
	default:
		st.Holds++
	}

	report := Report{
		Epoch:            st.Epoch,
		MissRate:         missRate,
		Utility:          utility,
		DeltaMiss:        deltaMiss,
		SmoothedMissRate: smoothed,
		Adjustment:       adjustment,
		UsefulRatio:      usefulRatio,
		Proposed:         proposed,
		Decision:         decision,
		Stalled:          stalled,
		FromWays:         from,
		ToWays:           to,
	}

	st.Capacity = to
	st.PrevUtility = utility
	st.PrevMissCount = st.MissCount
	st.PrevDeltaMiss = deltaMiss
	st.PrevMissRate = missRate
	st.SmoothedMissRate = smoothed
	st.AccessCount, st.MissCount, st.UsefulCount = 0, 0, 0
	st.Epoch++

	return st, decision, report
}
