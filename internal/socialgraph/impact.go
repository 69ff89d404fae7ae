package socialgraph

import (
	"math/rand"
	"sync"
)

// Upper bounds (exclusive) of the externally sourced influence components.
const (
	MaxEventImpact     = 30
	MaxCommunityImpact = 20
)

// ImpactEstimator supplies the event and community components of an
// influence score. Implementations must return non-negative values.
type ImpactEstimator interface {
	EventImpact(userID string) float64
	CommunityImpact(userID string) float64
}

// RandomImpactEstimator draws event impact from [0,30) and community impact
// from [0,20). It stands in until an events source is wired up.
type RandomImpactEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomImpactEstimator seeds a RandomImpactEstimator.
func NewRandomImpactEstimator(seed int64) *RandomImpactEstimator {
	return &RandomImpactEstimator{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomImpactEstimator) EventImpact(string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() * MaxEventImpact
}

func (r *RandomImpactEstimator) CommunityImpact(string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() * MaxCommunityImpact
}

// StaticImpactEstimator returns the same components for every user.
type StaticImpactEstimator struct {
	Event     float64
	Community float64
}

func (s StaticImpactEstimator) EventImpact(string) float64     { return s.Event }
func (s StaticImpactEstimator) CommunityImpact(string) float64 { return s.Community }
