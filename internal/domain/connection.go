package domain

import "time"

// Connection is a directed edge record between two users. Strength is an
// interaction weight in the range 0-100.
type Connection struct {
	FromUserID      string
	ToUserID        string
	Strength        float64
	MutualFriends   int
	SharedInterests []string
	SharedEvents    []string
	CreatedAt       time.Time
}

// Reverse returns the same connection seen from the other endpoint.
func (c Connection) Reverse() Connection {
	out := c.Clone()
	out.FromUserID, out.ToUserID = c.ToUserID, c.FromUserID
	return out
}

// Clone returns a copy that shares no slices with c.
func (c Connection) Clone() Connection {
	out := c
	out.SharedInterests = append([]string(nil), c.SharedInterests...)
	out.SharedEvents = append([]string(nil), c.SharedEvents...)
	return out
}
