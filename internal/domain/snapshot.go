package domain

// Snapshot is a full copy of the users and connections of a social graph,
// as exchanged with the graph database and dataset files.
type Snapshot struct {
	Users       []User
	Connections []Connection
}

// GraphStats summarises the size of the in-memory graph.
type GraphStats struct {
	Users       int
	Nodes       int
	Edges       int
	Connections int
}
