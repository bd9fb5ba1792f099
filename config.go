package floornav

// Config carries the tuning constants of the simulation. None of them
// change planning correctness, only pacing and strictness.
type Config struct {
	// Speed is the distance an agent covers per nominal tick.
	Speed float64

	// TickInterval is the nominal update interval in seconds. Actual
	// elapsed time is scaled against it so motion speed is independent
	// of the real tick rate.
	TickInterval float64

	// Clearance is the minimum allowed distance between two agents,
	// half an obstacle-block length by default.
	Clearance float64

	// ReplanWaitMin and ReplanWaitMax bound the randomized wait before
	// an agent replans after refusing a move.
	ReplanWaitMin float64
	ReplanWaitMax float64

	// DestinationWait is the fixed pause after reaching a destination
	// or abandoning one.
	DestinationWait float64

	// MaxReplans bounds consecutive replannings before the agent gives
	// up on its destination.
	MaxReplans int

	// OvershootMargin extends bitangency test segments beyond their
	// endpoints. Must be larger than one grid unit so corner-hugging
	// edges that graze adjacent geometry are rejected.
	OvershootMargin float64

	// Seed initializes the simulation's random source.
	Seed int64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Speed:           0.05,
		TickInterval:    0.02,
		Clearance:       0.5,
		ReplanWaitMin:   0.1,
		ReplanWaitMax:   1.1,
		DestinationWait: 0.5,
		MaxReplans:      3,
		OvershootMargin: 1.5,
		Seed:            1,
	}
}
