// Package controller sizes the correlation store at epoch boundaries from prediction
// utility and miss rate trends.
package controller

import (
	"github.com/Borislavv/go-corr-cache/config"
	"github.com/Borislavv/go-corr-cache/model"
	"github.com/rs/zerolog"
)

// Resizer is the part of the store the controller drives.
type Resizer interface {
	Ways() int
	Resize(ways int) error
}

type Controller interface {
	// Observe accounts one access. It reports true when the access closed an epoch,
	// together with the decision taken.
	Observe(miss, useful bool) (model.Decision, bool)
	State() State
	// Last returns the report of the most recent epoch.
	Last() Report
}

// New returns an adaptive controller, or a NoOp one when cfg is nil.
func New(cfg *config.ControllerCfg, store Resizer, partition Partition, logger zerolog.Logger) Controller {
	if !cfg.Enabled() {
		return &NoOp{ways: store.Ways()}
	}
	if partition == nil {
		partition = NoOpPartition{}
	}
	return &Adaptive{
		params:    ParamsFrom(cfg),
		state:     NewState(store.Ways()),
		store:     store,
		partition: partition,
		logger:    logger.With().Str("component", "controller").Logger(),
	}
}

// Adaptive runs Evaluate once per epoch and applies its decision to the store.
type Adaptive struct {
	params    Params
	state     State
	last      Report
	store     Resizer
	partition Partition
	logger    zerolog.Logger
}

func (c *Adaptive) Observe(miss, useful bool) (model.Decision, bool) {
	st := &c.state
	st.AccessCount++
	if miss {
		st.MissCount++
	}
	if useful {
		st.UsefulCount++
	}
	if st.AccessCount < c.params.EpochLength {
		return model.Hold, false
	}
	return c.evaluate(), true
}

func (c *Adaptive) evaluate() model.Decision {
	next, decision, report := Evaluate(c.state, c.params)

	if decision != model.Hold {
		if err := c.store.Resize(report.ToWays); err != nil {
			c.logger.Error().Err(err).
				Int("from_ways", report.FromWays).
				Int("to_ways", report.ToWays).
				Msg("resize failed, keeping current ways")
			next.Capacity = report.FromWays
			if decision == model.Grow {
				next.Grows--
			} else {
				next.Shrinks--
			}
			next.Holds++
			report.ToWays = report.FromWays
			report.Decision, decision = model.Hold, model.Hold
		} else {
			c.partition.NotifyAvailableCapacity(c.hostShare(report.ToWays))
		}
	}
	c.state, c.last = next, report

	var event *zerolog.Event
	if decision == model.Hold {
		event = c.logger.Debug()
	} else {
		event = c.logger.Info()
	}
	event.
		Uint64("epoch", report.Epoch).
		Str("decision", decision.String()).
		Str("proposed", report.Proposed.String()).
		Bool("stalled", report.Stalled).
		Int("ways", report.ToWays).
		Float64("miss_rate", report.MissRate).
		Float64("utility", report.Utility).
		Float64("adjustment", report.Adjustment).
		Msg("epoch evaluated")

	return decision
}

func (c *Adaptive) hostShare(ways int) uint32 {
	taken := uint32(ways / c.params.Step)
	if taken >= c.params.HostWays {
		return 0
	}
	return c.params.HostWays - taken
}

func (c *Adaptive) State() State { return c.state }
func (c *Adaptive) Last() Report { return c.last }

// NoOp keeps the store at its initial ways.
type NoOp struct {
	ways int
}

func (*NoOp) Observe(bool, bool) (model.Decision, bool) { return model.Hold, false }
func (c *NoOp) State() State                            { return NewState(c.ways) }
func (*NoOp) Last() Report                              { return Report{} }
