package generator

// Config drives the synthetic social dataset generator.
type Config struct {
	NumUsers           int
	NumConnections     int
	InterestsPerUser   int
	SharedInterestBias float64
	LocationChance     float64
	Seed               int64
}

// DefaultConfig returns baseline settings for a mid-sized demo graph.
func DefaultConfig() Config {
	return Config{
		NumUsers:           2000,
		NumConnections:     10000,
		InterestsPerUser:   3,
		SharedInterestBias: 0.7,
		LocationChance:     0.8,
		Seed:               42,
	}
}
