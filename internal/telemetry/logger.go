package telemetry

import (
	"github.com/Borislavv/go-corr-cache/config"
	"github.com/Borislavv/go-corr-cache/internal/controller"
	"github.com/Borislavv/go-corr-cache/model"
	"github.com/rs/zerolog"
)

// Logs writes one group of records per controller epoch with the counters accumulated
// since the previous epoch.
type Logs struct {
	enabled bool
	logger  zerolog.Logger
	prev    model.Snapshot
}

func New(cfg config.LogsCfg, logger zerolog.Logger) *Logs {
	return &Logs{
		enabled: cfg.IsTelemetryLogsEnabled,
		logger:  logger.With().Str("component", "telemetry").Logger(),
	}
}

// Epoch reports the epoch described by r given the cumulative counters in cur.
func (l *Logs) Epoch(r controller.Report, cur model.Snapshot) {
	d := deltaSnapshot(l.prev, cur)
	l.prev = cur
	if !l.enabled {
		return
	}

	l.logger.Info().
		Uint64("epoch", r.Epoch).
		Str("decision", r.Decision.String()).
		Int("ways", r.ToWays).
		Float64("miss_rate", r.MissRate).
		Float64("smoothed_miss_rate", r.SmoothedMissRate).
		Float64("utility", r.Utility).
		Float64("delta_miss", r.DeltaMiss).
		Float64("adjustment", r.Adjustment).
		Msg("controller")

	l.logger.Info().
		Uint64("epoch", r.Epoch).
		Uint64("accesses", d.Accesses).
		Uint64("predictions", d.Predictions).
		Uint64("predicted", d.Predicted).
		Uint64("records", d.Records).
		Uint64("evictions", d.Evictions).
		Uint64("rejected", d.Rejected).
		Uint64("demotions", d.Demotions).
		Msg("store")

	if d.UsefulEntries > 0 || d.UselessEntries > 0 {
		l.logger.Info().
			Uint64("epoch", r.Epoch).
			Uint64("useful", d.UsefulEntries).
			Uint64("useless", d.UselessEntries).
			Msg("usage")
	}

	l.logger.Info().
		Uint64("epoch", r.Epoch).
		Int("entries", cur.Entries).
		Int("ways", cur.Ways).
		Int("banks", cur.Banks).
		Uint64("resizes", cur.Resizes).
		Msg("storage")
}
