package model

// Event is one access reported by the host.
type Event struct {
	// Key is the accessed identifier, typically a block address.
	Key uint64
	// Miss is set when the host cache missed on Key.
	Miss bool
	// Useful is set when Key hit on something an earlier prediction brought in.
	Useful bool
	// Priority protects the correlation trained by this event under the priority
	// eviction policy: lower priorities are evicted first. Other policies ignore it.
	Priority uint8
}
