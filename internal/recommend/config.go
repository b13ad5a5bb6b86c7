package recommend

// Weights scales each signal's contribution to an event's score.
type Weights struct {
	// Collaborative is added when a similar user rated the event yes.
	Collaborative float64

	// Content is added when the event text matches one of the user's interests.
	Content float64

	// Exploration is added when the event was drawn into the random pool.
	Exploration float64
}

// DefaultWeights favors collaborative signals, then content, then discovery.
func DefaultWeights() Weights {
	return Weights{Collaborative: 3, Content: 2, Exploration: 1}
}

// Limits bounds the size of each candidate source.
type Limits struct {
	// ColdStart is how many random events a user without interests receives.
	ColdStart int

	// SimilarUsers is how many neighbors feed the collaborative signal.
	SimilarUsers int

	// PerKeyword caps content matches per interest keyword.
	PerKeyword int

	// Exploration is the size of the random discovery pool.
	Exploration int
}

// DefaultLimits returns the default candidate limits.
func DefaultLimits() Limits {
	return Limits{ColdStart: 20, SimilarUsers: 10, PerKeyword: 20, Exploration: 25}
}

// Config configures a Scorer.
type Config struct {
	Weights Weights
	Limits  Limits
}

// DefaultConfig returns the default scorer configuration.
func DefaultConfig() Config {
	return Config{Weights: DefaultWeights(), Limits: DefaultLimits()}
}

// withDefaults replaces non-positive limits with their defaults.
func (c Config) withDefaults() Config {
	d := DefaultLimits()
	if c.Limits.ColdStart <= 0 {
		c.Limits.ColdStart = d.ColdStart
	}
	if c.Limits.SimilarUsers <= 0 {
		c.Limits.SimilarUsers = d.SimilarUsers
	}
	if c.Limits.PerKeyword <= 0 {
		c.Limits.PerKeyword = d.PerKeyword
	}
	if c.Limits.Exploration <= 0 {
		c.Limits.Exploration = d.Exploration
	}
	return c
}
