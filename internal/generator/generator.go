package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vanshika/socialgraph/internal/service"
)

// Dataset contains the generated users and connections.
type Dataset struct {
	Users       []service.UserInput       `json:"users"`
	Connections []service.ConnectionInput `json:"connections"`
}

// Generator produces synthetic social graphs whose connections lean towards
// users with overlapping interests.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
	now       time.Time
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = def.NumUsers
	}
	if cfg.NumConnections < 0 {
		cfg.NumConnections = def.NumConnections
	}
	if cfg.InterestsPerUser <= 0 {
		cfg.InterestsPerUser = def.InterestsPerUser
	}
	if cfg.SharedInterestBias < 0 || cfg.SharedInterestBias > 1 {
		cfg.SharedInterestBias = def.SharedInterestBias
	}
	if cfg.LocationChance < 0 || cfg.LocationChance > 1 {
		cfg.LocationChance = def.LocationChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	fragments := defaultNameFragments()
	if cfg.InterestsPerUser > len(fragments.interests) {
		cfg.InterestsPerUser = len(fragments.interests)
	}

	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: fragments,
		now:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate synthesises users and connections. It respects context
// cancellation. The number of connections is capped by the number of
// distinct user pairs.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	users := make([]service.UserInput, g.cfg.NumUsers)
	byInterest := make(map[string][]int)

	for i := range users {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		userID := fmt.Sprintf("USR-%06d", i+1)
		interests := g.randomInterests()
		users[i] = service.UserInput{
			ID:        userID,
			Name:      g.randomFullName(),
			Avatar:    fmt.Sprintf("https://avatars.example.com/%s.png", userID),
			Interests: interests,
			Location:  g.maybeLocation(),
		}
		for _, interest := range interests {
			byInterest[interest] = append(byInterest[interest], i)
		}
	}

	target := g.cfg.NumConnections
	if maxPairs := len(users) * (len(users) - 1) / 2; target > maxPairs {
		target = maxPairs
	}

	connections := make([]service.ConnectionInput, 0, target)
	seen := make(map[[2]int]struct{}, target)
	maxAttempts := target*20 + 100

	for attempt := 0; len(connections) < target && attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		from := g.rand.Intn(len(users))
		to := g.pickPeer(users[from], byInterest, len(users))
		if to == from {
			continue
		}
		key := [2]int{from, to}
		if from > to {
			key = [2]int{to, from}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		shared := overlap(users[from].Interests, users[to].Interests)
		createdAt := g.now.Add(-time.Duration(g.rand.Intn(365*24)) * time.Hour)
		connections = append(connections, service.ConnectionInput{
			FromUserID:      users[from].ID,
			ToUserID:        users[to].ID,
			Strength:        g.randomStrength(len(shared)),
			SharedInterests: shared,
			SharedEvents:    g.randomEvents(),
			CreatedAt:       &createdAt,
		})
	}

	return Dataset{Users: users, Connections: connections}, nil
}

// pickPeer chooses a connection target, drawing from users that share one
// of the source's interests with probability SharedInterestBias.
func (g *Generator) pickPeer(src service.UserInput, byInterest map[string][]int, total int) int {
	if len(src.Interests) > 0 && g.rand.Float64() < g.cfg.SharedInterestBias {
		bucket := byInterest[src.Interests[g.rand.Intn(len(src.Interests))]]
		return bucket[g.rand.Intn(len(bucket))]
	}
	return g.rand.Intn(total)
}

func (g *Generator) randomInterests() []string {
	pool := g.fragments.interests
	picked := g.rand.Perm(len(pool))[:g.cfg.InterestsPerUser]
	out := make([]string, 0, len(picked))
	for _, idx := range picked {
		out = append(out, pool[idx])
	}
	return out
}

func (g *Generator) maybeLocation() *service.LocationInput {
	if g.rand.Float64() >= g.cfg.LocationChance {
		return nil
	}
	center := g.fragments.cities[g.rand.Intn(len(g.fragments.cities))]
	return &service.LocationInput{
		Lat: round4(center.lat + (g.rand.Float64()-0.5)*0.2),
		Lng: round4(center.lng + (g.rand.Float64()-0.5)*0.2),
	}
}

// randomStrength favours stronger ties between users with common interests.
func (g *Generator) randomStrength(shared int) float64 {
	strength := 10 + g.rand.Float64()*50 + float64(shared)*10
	if strength > 100 {
		strength = 100
	}
	return math.Round(strength*10) / 10
}

func (g *Generator) randomEvents() []string {
	count := g.rand.Intn(3)
	if count == 0 {
		return nil
	}
	events := make([]string, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, fmt.Sprintf("EVT-%04d", g.rand.Intn(500)+1))
	}
	return events
}

func (g *Generator) randomFullName() string {
	return fmt.Sprintf("%s %s", g.fragments.first[g.rand.Intn(len(g.fragments.first))],
		g.fragments.last[g.rand.Intn(len(g.fragments.last))])
}

func overlap(a, b []string) []string {
	var out []string
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

type city struct {
	lat, lng float64
}

type nameFragments struct {
	first     []string
	last      []string
	interests []string
	cities    []city
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:     []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:      []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		interests: []string{"Music", "Tech", "Hiking", "Photography", "Cooking", "Gaming", "Art", "Travel", "Yoga", "Reading", "Football", "Film"},
		cities: []city{
			{lat: 37.7749, lng: -122.4194},
			{lat: 40.7128, lng: -74.0060},
			{lat: 47.6062, lng: -122.3321},
			{lat: 30.2672, lng: -97.7431},
			{lat: 41.8781, lng: -87.6298},
			{lat: 51.5072, lng: -0.1276},
			{lat: 52.5200, lng: 13.4050},
			{lat: 19.0760, lng: 72.8777},
		},
	}
}
