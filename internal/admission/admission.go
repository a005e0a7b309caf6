// Package admission decides whether a newly recorded correlation source may displace
// the victim of a full bank. It is a TinyLFU filter: a doorkeeper bitset absorbs
// one-hit sources, a count-min sketch of 4-bit counters estimates the frequency of the rest.
package admission

import (
	"github.com/Borislavv/go-corr-cache/config"
)

type Controller interface {
	// Record observes one occurrence of key.
	Record(key uint64)
	// Allow reports whether candidate should replace victim.
	Allow(candidate, victim uint64) bool
	// Estimate returns the approximate frequency of key.
	Estimate(key uint64) uint8
	// Reset ages every counter and clears the doorkeeper.
	Reset()
}

func New(cfg *config.AdmissionControlCfg) Controller {
	if cfg.Enabled() {
		return newTinyLFU(cfg)
	}
	return NoOp{}
}
