package ui

// AppMode is the top-level screen: the pools table or one pool's details.
type AppMode int

const (
	ModePools AppMode = iota
	ModePoolDetail
)

func (m AppMode) String() string {
	switch m {
	case ModePools:
		return "Pools"
	case ModePoolDetail:
		return "PoolDetail"
	default:
		return "Unknown"
	}
}
