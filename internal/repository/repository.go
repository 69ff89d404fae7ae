package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vanshika/socialgraph/internal/domain"
	"github.com/vanshika/socialgraph/internal/graph"
)

// Repository reads and writes social graph snapshots in the graph database.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// UpsertUser creates or refreshes a user node.
func (r *Repository) UpsertUser(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return errors.New("user id is required")
	}

	params := map[string]any{
		"userId": user.ID,
		"props":  userProperties(user),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertUserCypher, params); err != nil {
		return fmt.Errorf("upsert user %s: %w", user.ID, err)
	}
	return nil
}

// UpsertConnection stores one directed CONNECTED_TO relationship per
// logical connection, keyed by its endpoints and creation time. Missing
// endpoint nodes are created empty.
func (r *Repository) UpsertConnection(ctx context.Context, conn domain.Connection) error {
	if conn.FromUserID == "" || conn.ToUserID == "" {
		return errors.New("both connection endpoints are required")
	}

	params := map[string]any{
		"fromId":    conn.FromUserID,
		"toId":      conn.ToUserID,
		"createdAt": formatTime(conn.CreatedAt),
		"props":     connectionProperties(conn),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertConnectionCypher, params); err != nil {
		return fmt.Errorf("upsert connection %s->%s: %w", conn.FromUserID, conn.ToUserID, err)
	}
	return nil
}

// LoadUsers returns every user node ordered by id.
func (r *Repository) LoadUsers(ctx context.Context) ([]domain.User, error) {
	res, err := r.client.ExecuteRead(ctx, loadUsersCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	users := make([]domain.User, 0, len(res.Records))
	for _, record := range res.Records {
		user := domain.User{
			ID:        toString(record["userId"]),
			Name:      toString(record["name"]),
			Avatar:    toString(record["avatar"]),
			Interests: toStringSlice(record["interests"]),
		}
		if user.ID == "" {
			continue
		}
		lat, latOK := toFloat64OK(record["lat"])
		lng, lngOK := toFloat64OK(record["lng"])
		if latOK && lngOK {
			user.Location = &domain.Location{Lat: lat, Lng: lng}
		}
		users = append(users, user)
	}
	return users, nil
}

// LoadConnections returns every connection ordered by creation time.
func (r *Repository) LoadConnections(ctx context.Context) ([]domain.Connection, error) {
	res, err := r.client.ExecuteRead(ctx, loadConnectionsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}

	conns := make([]domain.Connection, 0, len(res.Records))
	for _, record := range res.Records {
		conn := domain.Connection{
			FromUserID:      toString(record["fromId"]),
			ToUserID:        toString(record["toId"]),
			Strength:        toFloat64(record["strength"]),
			MutualFriends:   toInt(record["mutualFriends"]),
			SharedInterests: toStringSlice(record["sharedInterests"]),
			SharedEvents:    toStringSlice(record["sharedEvents"]),
		}
		if conn.FromUserID == "" || conn.ToUserID == "" {
			continue
		}
		if created := toTimePtr(record["createdAt"]); created != nil {
			conn.CreatedAt = *created
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

// LoadSnapshot reads all users and connections.
func (r *Repository) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	users, err := r.LoadUsers(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	conns, err := r.LoadConnections(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Users: users, Connections: conns}, nil
}

func userProperties(user domain.User) map[string]any {
	props := map[string]any{
		"name":      user.Name,
		"avatar":    user.Avatar,
		"interests": nonNilStrings(user.Interests),
		"lat":       nil,
		"lng":       nil,
	}
	if user.Location != nil {
		props["lat"] = user.Location.Lat
		props["lng"] = user.Location.Lng
	}
	return props
}

func connectionProperties(conn domain.Connection) map[string]any {
	return map[string]any{
		"strength":        conn.Strength,
		"mutualFriends":   int64(conn.MutualFriends),
		"sharedInterests": nonNilStrings(conn.SharedInterests),
		"sharedEvents":    nonNilStrings(conn.SharedEvents),
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	f, _ := toFloat64OK(val)
	return f
}

func toFloat64OK(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(val any) int {
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func toStringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toTimePtr(val any) *time.Time {
	switch v := val.(type) {
	case time.Time:
		return &v
	case string:
		if v == "" {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return &parsed
		}
	}
	return nil
}

const upsertUserCypher = `
MERGE (u:User {userId: $userId})
SET u += $props
RETURN u.userId AS userId
`

const upsertConnectionCypher = `
MERGE (a:User {userId: $fromId})
MERGE (b:User {userId: $toId})
MERGE (a)-[c:CONNECTED_TO {createdAt: $createdAt}]->(b)
SET c += $props
RETURN a.userId AS fromId, b.userId AS toId
`

const loadUsersCypher = `
MATCH (u:User)
RETURN u.userId AS userId,
       u.name AS name,
       u.avatar AS avatar,
       u.interests AS interests,
       u.lat AS lat,
       u.lng AS lng
ORDER BY userId
`

const loadConnectionsCypher = `
MATCH (a:User)-[c:CONNECTED_TO]->(b:User)
RETURN a.userId AS fromId,
       b.userId AS toId,
       c.strength AS strength,
       c.mutualFriends AS mutualFriends,
       c.sharedInterests AS sharedInterests,
       c.sharedEvents AS sharedEvents,
       c.createdAt AS createdAt
ORDER BY c.createdAt, fromId, toId
`
