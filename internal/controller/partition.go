package controller

// Partition receives the number of host cache ways left to the host after the store
// took its share.
type Partition interface {
	NotifyAvailableCapacity(ways uint32)
}

// NoOpPartition ignores notifications.
type NoOpPartition struct{}

func (NoOpPartition) NotifyAvailableCapacity(uint32) {}

// PartitionFunc adapts a function to Partition.
type PartitionFunc func(ways uint32)

func (f PartitionFunc) NotifyAvailableCapacity(ways uint32) { f(ways) }
