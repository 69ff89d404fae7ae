package socialgraph

import (
	"sort"
	"time"

	"github.com/vanshika/socialgraph/internal/domain"
)

const (
	connectionWeight         = 5
	strengthWeight           = 0.3
	influentialNeighbor      = 70
	influentialNeighborBonus = 10
	maxInfluence             = 100
)

// CalculateInfluenceScore scores a single user and caches the result. The
// neighbor bonus only counts neighbors already present in the cache, so the
// outcome depends on what was scored before. Rank is left at zero.
func (e *Engine) CalculateInfluenceScore(userID string) domain.InfluenceScore {
	defer observe(opInfluence, time.Now())

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.influenceLocked(userID)
}

func (e *Engine) influenceLocked(userID string) domain.InfluenceScore {
	records := e.connections[userID]

	total := 0.0
	bonus := 0.0
	for _, c := range records {
		total += c.Strength
		if prior, ok := e.influence[c.ToUserID]; ok && c.ToUserID != userID && prior.Score > influentialNeighbor {
			bonus += influentialNeighborBonus
		}
	}
	avg := 0.0
	if len(records) > 0 {
		avg = total / float64(len(records))
	}

	eventImpact := e.impact.EventImpact(userID)
	communityImpact := e.impact.CommunityImpact(userID)

	score := float64(len(records))*connectionWeight + avg*strengthWeight + bonus + eventImpact + communityImpact
	score = clamp(score, 0, maxInfluence)

	result := domain.InfluenceScore{
		UserID:          userID,
		Score:           score,
		FollowerCount:   len(e.followersLocked(userID)),
		ConnectionCount: len(records),
		EventImpact:     eventImpact,
		CommunityImpact: communityImpact,
	}
	e.influence[userID] = result
	return result
}

// RankInfluence scores users one after another in the given order, then
// assigns ranks 1..n by descending score. A nil order means insertion
// order. Unknown ids in order are scored like users without connections.
func (e *Engine) RankInfluence(order []string) []domain.InfluenceScore {
	defer observe(opRankInfluence, time.Now())

	e.mu.Lock()
	defer e.mu.Unlock()

	if order == nil {
		order = e.order
	}

	scores := make([]domain.InfluenceScore, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		scores = append(scores, e.influenceLocked(id))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	for i := range scores {
		scores[i].Rank = i + 1
		e.influence[scores[i].UserID] = scores[i]
	}
	return scores
}

// CachedInfluence returns the last computed score for userID.
func (e *Engine) CachedInfluence(userID string) (domain.InfluenceScore, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.influence[userID]
	return s, ok
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
