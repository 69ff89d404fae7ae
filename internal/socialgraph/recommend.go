package socialgraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/vanshika/socialgraph/internal/domain"
)

// Scoring weights for friend-of-friend candidates.
const (
	mutualFriendWeight   = 25
	sharedInterestWeight = 15
	tieStrengthWeight    = 0.3
)

// RecommendedConnections suggests friends of friends for userID, best
// first. A limit <= 0 means DefaultRecommendationLimit.
func (e *Engine) RecommendedConnections(userID string, limit int) []domain.RecommendedConnection {
	defer observe(opRecommend, time.Now())

	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	friends := e.neighborsLocked(userID)
	excluded := make(map[string]struct{}, len(friends)+1)
	excluded[userID] = struct{}{}
	for _, f := range friends {
		excluded[f] = struct{}{}
	}

	user := e.users[userID]
	byCandidate := make(map[string]domain.RecommendedConnection)

	for _, friend := range friends {
		tie := e.adjacency[userID][friend]
		for _, candidate := range e.neighborsLocked(friend) {
			if _, skip := excluded[candidate]; skip {
				continue
			}

			path, ok := e.shortestPathLocked(userID, candidate)
			if !ok {
				continue
			}

			mutual := e.mutualFriendsLocked(userID, candidate)
			other := e.users[candidate]
			shared := sharedInterests(user.Interests, other.Interests)
			score := float64(len(mutual))*mutualFriendWeight +
				float64(len(shared))*sharedInterestWeight +
				tie*tieStrengthWeight

			if prior, seen := byCandidate[candidate]; seen && prior.Score >= score {
				continue
			}
			if other.ID == "" {
				other.ID = candidate
			}
			byCandidate[candidate] = domain.RecommendedConnection{
				User:            other.Clone(),
				Score:           score,
				MutualFriends:   mutual,
				SharedInterests: shared,
				Path:            path,
				Reason:          recommendationReason(len(mutual), len(shared), path.Distance),
			}
		}
	}

	recs := make([]domain.RecommendedConnection, 0, len(byCandidate))
	for _, rec := range byCandidate {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].User.ID < recs[j].User.ID
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func (e *Engine) mutualFriendsLocked(a, b string) []string {
	other := e.adjacency[b]
	mutual := []string{}
	for _, id := range e.neighborsLocked(a) {
		if id == a || id == b {
			continue
		}
		if _, ok := other[id]; ok {
			mutual = append(mutual, id)
		}
	}
	return mutual
}

// sharedInterests keeps the order of mine and drops duplicates.
func sharedInterests(mine, theirs []string) []string {
	set := make(map[string]struct{}, len(theirs))
	for _, t := range theirs {
		set[t] = struct{}{}
	}
	shared := []string{}
	seen := make(map[string]struct{}, len(mine))
	for _, m := range mine {
		if _, ok := set[m]; !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		shared = append(shared, m)
	}
	return shared
}

func recommendationReason(mutual, shared, distance int) string {
	switch {
	case mutual >= 3:
		return fmt.Sprintf("%d mutual friends", mutual)
	case shared >= 2:
		return fmt.Sprintf("%d shared interests", shared)
	case distance == 2:
		return "friend of a friend"
	default:
		return "in your network"
	}
}
