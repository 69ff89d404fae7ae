package domain

// Location is an optional home coordinate for a user.
type Location struct {
	Lat float64
	Lng float64
}

// User is the identity record held by the graph store.
type User struct {
	ID        string
	Name      string
	Avatar    string
	Interests []string
	Location  *Location
}

// Clone returns a copy that shares no slices or pointers with u.
func (u User) Clone() User {
	out := u
	out.Interests = append([]string(nil), u.Interests...)
	if u.Location != nil {
		loc := *u.Location
		out.Location = &loc
	}
	return out
}
