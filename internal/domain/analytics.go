package domain

// SocialPath is a route between two users. Distance is the hop count and
// Strength the mean weight of the traversed edges.
type SocialPath struct {
	Path     []string
	Distance int
	Strength float64
}

// RecommendedConnection is a suggested new connection for a user.
type RecommendedConnection struct {
	User            User
	Score           float64
	MutualFriends   []string
	SharedInterests []string
	Path            SocialPath
	Reason          string
}

// InfluenceScore is a derived 0-100 influence metric. Rank is zero until a
// batch ranking has ordered all users.
type InfluenceScore struct {
	UserID          string
	Score           float64
	Rank            int
	FollowerCount   int
	ConnectionCount int
	EventImpact     float64
	CommunityImpact float64
}

// Community is a cluster produced by a detection run.
type Community struct {
	ID              string
	Label           string
	Members         []string
	Size            int
	Density         float64
	CommonInterests []string
	Influencers     []string
}
