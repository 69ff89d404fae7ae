package service

import (
	"time"

	"github.com/vanshika/socialgraph/internal/domain"
)

// LocationInput is an optional home coordinate.
type LocationInput struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UserInput is the inbound user payload accepted by the graph service.
type UserInput struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Avatar    string         `json:"avatar,omitempty"`
	Interests []string       `json:"interests,omitempty"`
	Location  *LocationInput `json:"location,omitempty"`
}

// ConnectionInput is the inbound connection payload. SharedInterests is
// derived from the endpoints' interests when omitted, and CreatedAt
// defaults to the service clock.
type ConnectionInput struct {
	FromUserID      string     `json:"fromUserId"`
	ToUserID        string     `json:"toUserId"`
	Strength        float64    `json:"strength"`
	MutualFriends   int        `json:"mutualFriends,omitempty"`
	SharedInterests []string   `json:"sharedInterests,omitempty"`
	SharedEvents    []string   `json:"sharedEvents,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

// ToDomainLocation converts the input to a domain.Location pointer.
func (in *LocationInput) ToDomainLocation() *domain.Location {
	if in == nil {
		return nil
	}
	return &domain.Location{Lat: in.Lat, Lng: in.Lng}
}

// UserInputFromDomain converts a stored user back to an input payload.
func UserInputFromDomain(u domain.User) UserInput {
	in := UserInput{
		ID:        u.ID,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Interests: append([]string(nil), u.Interests...),
	}
	if u.Location != nil {
		in.Location = &LocationInput{Lat: u.Location.Lat, Lng: u.Location.Lng}
	}
	return in
}
