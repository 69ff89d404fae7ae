package socialgraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/socialgraph/internal/domain"
)

const maxInfluencers = 3

// DetectCommunities partitions the graph with label propagation. Every node
// starts with its own id as label; each round visits nodes in shuffled
// order and adopts the most frequent neighbor label. A node keeps its label
// when it is among the most frequent, otherwise ties are broken at random.
// Repeated runs on the same graph may yield different partitions.
func (e *Engine) DetectCommunities() []domain.Community {
	defer observe(opDetectCommunity, time.Now())

	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneCommunities(e.detectLocked())
}

// UserCommunity returns the community of userID from the last detection,
// running one first when the graph changed since.
func (e *Engine) UserCommunity(userID string) (domain.Community, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.memberOf == nil {
		e.detectLocked()
	}
	idx, ok := e.memberOf[userID]
	if !ok {
		return domain.Community{}, false
	}
	return cloneCommunity(e.communities[idx]), true
}

func (e *Engine) detectLocked() []domain.Community {
	labels := make(map[string]string, len(e.order))
	for _, id := range e.order {
		labels[id] = id
	}

	nodes := append([]string(nil), e.order...)
	rounds := 0
	for rounds < e.maxLabelRounds {
		rounds++
		e.rng.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

		changed := false
		for _, id := range nodes {
			next := e.majorityLabelLocked(id, labels)
			if next != labels[id] {
				labels[id] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	labelRounds.Observe(float64(rounds))

	groups := make(map[string][]string)
	var groupOrder []string
	for _, id := range e.order {
		l := labels[id]
		if _, ok := groups[l]; !ok {
			groupOrder = append(groupOrder, l)
		}
		groups[l] = append(groups[l], id)
	}

	communities := make([]domain.Community, 0, len(groupOrder))
	memberOf := make(map[string]int, len(e.order))
	for i, l := range groupOrder {
		members := groups[l]
		interests := e.commonInterestsLocked(members)
		c := domain.Community{
			ID:              uuid.NewString(),
			Label:           communityLabel(i, interests),
			Members:         members,
			Size:            len(members),
			Density:         e.densityLocked(members),
			CommonInterests: interests,
			Influencers:     e.topInfluencersLocked(members),
		}
		for _, m := range members {
			memberOf[m] = i
		}
		communities = append(communities, c)
	}

	e.communities = communities
	e.memberOf = memberOf
	e.logger.Debug("communities detected", "communities", len(communities), "rounds", rounds, "nodes", len(e.order))
	return communities
}

func (e *Engine) majorityLabelLocked(id string, labels map[string]string) string {
	current := labels[id]
	counts := make(map[string]int)
	for n := range e.adjacency[id] {
		if n == id {
			continue
		}
		counts[labels[n]]++
	}
	if len(counts) == 0 {
		return current
	}

	best := 0
	var candidates []string
	for l, c := range counts {
		switch {
		case c > best:
			best = c
			candidates = append(candidates[:0], l)
		case c == best:
			candidates = append(candidates, l)
		}
	}
	for _, l := range candidates {
		if l == current {
			return current
		}
	}
	// map iteration order is not part of the tie-break
	sort.Strings(candidates)
	return candidates[e.rng.Intn(len(candidates))]
}

func (e *Engine) densityLocked(members []string) float64 {
	n := len(members)
	if n < 2 {
		return 1
	}
	actual := 0
	for i := 0; i < n; i++ {
		row := e.adjacency[members[i]]
		for j := i + 1; j < n; j++ {
			if _, ok := row[members[j]]; ok {
				actual++
			}
		}
	}
	possible := n * (n - 1) / 2
	return float64(actual) / float64(possible)
}

// commonInterestsLocked returns interests held by at least half of the
// members, most common first.
func (e *Engine) commonInterestsLocked(members []string) []string {
	counts := make(map[string]int)
	for _, m := range members {
		seen := make(map[string]struct{})
		for _, interest := range e.users[m].Interests {
			if _, dup := seen[interest]; dup {
				continue
			}
			seen[interest] = struct{}{}
			counts[interest]++
		}
	}

	common := []string{}
	for interest, c := range counts {
		if c*2 >= len(members) {
			common = append(common, interest)
		}
	}
	sort.Slice(common, func(i, j int) bool {
		if counts[common[i]] != counts[common[j]] {
			return counts[common[i]] > counts[common[j]]
		}
		return common[i] < common[j]
	})
	return common
}

func (e *Engine) topInfluencersLocked(members []string) []string {
	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(members))
	for _, m := range members {
		s, ok := e.influence[m]
		if !ok {
			s = e.influenceLocked(m)
		}
		ranked = append(ranked, scored{id: m, score: s.Score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := min(maxInfluencers, len(ranked))
	out := make([]string, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, r.id)
	}
	return out
}

func communityLabel(idx int, interests []string) string {
	if len(interests) > 0 {
		return fmt.Sprintf("%s community", interests[0])
	}
	return fmt.Sprintf("Community %d", idx+1)
}

func cloneCommunity(c domain.Community) domain.Community {
	out := c
	out.Members = append([]string(nil), c.Members...)
	out.CommonInterests = append([]string(nil), c.CommonInterests...)
	out.Influencers = append([]string(nil), c.Influencers...)
	return out
}

func cloneCommunities(in []domain.Community) []domain.Community {
	out := make([]domain.Community, 0, len(in))
	for _, c := range in {
		out = append(out, cloneCommunity(c))
	}
	return out
}
