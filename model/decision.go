package model

// Decision is the outcome of one capacity controller epoch.
type Decision int8

const (
	Shrink Decision = iota - 1
	Hold
	Grow
)

func (d Decision) String() string {
	switch d {
	case Grow:
		return "grow"
	case Shrink:
		return "shrink"
	default:
		return "hold"
	}
}
