package server

import (
	"time"

	"github.com/vanshika/socialgraph/internal/domain"
)

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type userResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Avatar    string            `json:"avatar,omitempty"`
	Interests []string          `json:"interests"`
	Location  *locationResponse `json:"location,omitempty"`
}

type connectionResponse struct {
	FromUserID      string   `json:"fromUserId"`
	ToUserID        string   `json:"toUserId"`
	Strength        float64  `json:"strength"`
	MutualFriends   int      `json:"mutualFriends"`
	SharedInterests []string `json:"sharedInterests"`
	SharedEvents    []string `json:"sharedEvents"`
	CreatedAt       string   `json:"createdAt,omitempty"`
}

type pathResponse struct {
	Path     []string `json:"path"`
	Distance int      `json:"distance"`
	Strength float64  `json:"strength"`
}

type recommendationResponse struct {
	User            userResponse `json:"user"`
	Score           float64      `json:"score"`
	MutualFriends   []string     `json:"mutualFriends"`
	SharedInterests []string     `json:"sharedInterests"`
	Path            pathResponse `json:"path"`
	Reason          string       `json:"reason"`
}

type influenceResponse struct {
	UserID          string  `json:"userId"`
	Score           float64 `json:"score"`
	Rank            int     `json:"rank"`
	FollowerCount   int     `json:"followerCount"`
	ConnectionCount int     `json:"connectionCount"`
	EventImpact     float64 `json:"eventImpact"`
	CommunityImpact float64 `json:"communityImpact"`
}

type communityResponse struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	Members         []string `json:"members"`
	Size            int      `json:"size"`
	Density         float64  `json:"density"`
	CommonInterests []string `json:"commonInterests"`
	Influencers     []string `json:"influencers"`
}

type statsResponse struct {
	Users       int `json:"users"`
	Nodes       int `json:"nodes"`
	Edges       int `json:"edges"`
	Connections int `json:"connections"`
}

type listUsersResponse struct {
	Items []userResponse `json:"items"`
	Stats statsResponse  `json:"stats"`
}

type followersResponse struct {
	UserID    string   `json:"userId"`
	Followers []string `json:"followers"`
}

type reloadResponse struct {
	Status string        `json:"status"`
	Stats  statsResponse `json:"stats"`
}

func newUserResponse(u domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Interests: nonNil(u.Interests),
	}
	if u.Location != nil {
		resp.Location = &locationResponse{Lat: u.Location.Lat, Lng: u.Location.Lng}
	}
	return resp
}

func newConnectionResponse(c domain.Connection) connectionResponse {
	return connectionResponse{
		FromUserID:      c.FromUserID,
		ToUserID:        c.ToUserID,
		Strength:        c.Strength,
		MutualFriends:   c.MutualFriends,
		SharedInterests: nonNil(c.SharedInterests),
		SharedEvents:    nonNil(c.SharedEvents),
		CreatedAt:       formatTime(c.CreatedAt),
	}
}

func newPathResponse(p domain.SocialPath) pathResponse {
	return pathResponse{Path: nonNil(p.Path), Distance: p.Distance, Strength: p.Strength}
}

func newRecommendationResponse(r domain.RecommendedConnection) recommendationResponse {
	return recommendationResponse{
		User:            newUserResponse(r.User),
		Score:           r.Score,
		MutualFriends:   nonNil(r.MutualFriends),
		SharedInterests: nonNil(r.SharedInterests),
		Path:            newPathResponse(r.Path),
		Reason:          r.Reason,
	}
}

func newInfluenceResponse(s domain.InfluenceScore) influenceResponse {
	return influenceResponse{
		UserID:          s.UserID,
		Score:           s.Score,
		Rank:            s.Rank,
		FollowerCount:   s.FollowerCount,
		ConnectionCount: s.ConnectionCount,
		EventImpact:     s.EventImpact,
		CommunityImpact: s.CommunityImpact,
	}
}

func newCommunityResponse(c domain.Community) communityResponse {
	return communityResponse{
		ID:              c.ID,
		Label:           c.Label,
		Members:         nonNil(c.Members),
		Size:            c.Size,
		Density:         c.Density,
		CommonInterests: nonNil(c.CommonInterests),
		Influencers:     nonNil(c.Influencers),
	}
}

func newStatsResponse(s domain.GraphStats) statsResponse {
	return statsResponse{Users: s.Users, Nodes: s.Nodes, Edges: s.Edges, Connections: s.Connections}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
