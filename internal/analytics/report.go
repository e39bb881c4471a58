package analytics

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"kinship-backend/internal/domain"
)

// StrengthBuckets partitions links into five fixed strength bands.
type StrengthBuckets struct {
	VeryStrong int `json:"veryStrong"` // [8,10]
	Strong     int `json:"strong"`     // [6,8)
	Moderate   int `json:"moderate"`   // [4,6)
	Weak       int `json:"weak"`       // [2,4)
	VeryWeak   int `json:"veryWeak"`   // [1,2)
}

// NeglectedThreshold is the strength at or below which a relationship
// is flagged for attention.
const NeglectedThreshold = 3

// NeglectedLink is a weak relationship resolved to its two person
// records.
type NeglectedLink struct {
	PersonA  domain.Person `json:"personA"`
	PersonB  domain.Person `json:"personB"`
	Strength int           `json:"strength"`
}

// GroupShare is one group's slice of the non-self population.
type GroupShare struct {
	Group   string  `json:"group"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Report is the full analytics result for one snapshot.
type Report struct {
	Density           float64         `json:"density"`
	AvgConnections    float64         `json:"avgConnectionsPerPerson"`
	Buckets           StrengthBuckets `json:"strengthBuckets"`
	NeglectedLinks    []NeglectedLink `json:"neglectedLinks"`
	IsolatedPeople    []domain.Person `json:"isolatedPeople"`
	GroupDistribution []GroupShare    `json:"groupDistribution"`
}

// Compute builds the analytics report from a snapshot. The logger is
// only used to note dangling link references, which cascade delete is
// supposed to prevent; pass zap.NewNop() if that signal is unwanted.
func Compute(snap *domain.Snapshot, logger *zap.Logger) *Report {
	if logger == nil {
		logger = zap.NewNop()
	}

	persons := snap.Persons
	links := snap.Links

	byID := make(map[string]domain.Person, len(persons))
	for _, p := range persons {
		byID[p.ID] = p
	}
	degrees := Degrees(links)

	r := &Report{
		Density:        density(len(persons), len(links)),
		AvgConnections: avgConnections(persons, degrees),
	}

	for _, l := range links {
		switch {
		case l.Strength >= 8:
			r.Buckets.VeryStrong++
		case l.Strength >= 6:
			r.Buckets.Strong++
		case l.Strength >= 4:
			r.Buckets.Moderate++
		case l.Strength >= 2:
			r.Buckets.Weak++
		default:
			r.Buckets.VeryWeak++
		}

		if l.Strength <= NeglectedThreshold {
			a, okA := byID[l.A]
			b, okB := byID[l.B]
			if !okA || !okB {
				// Cascade delete should make this unreachable.
				logger.Warn("link references missing person",
					zap.String("a", l.A),
					zap.String("b", l.B))
				continue
			}
			r.NeglectedLinks = append(r.NeglectedLinks, NeglectedLink{
				PersonA:  a,
				PersonB:  b,
				Strength: l.Strength,
			})
		}
	}

	counts := make(map[string]int)
	nonSelf := 0
	for _, p := range persons {
		if p.IsSelf() {
			continue
		}
		nonSelf++
		counts[p.Group]++
		if degrees[p.ID] == 0 {
			r.IsolatedPeople = append(r.IsolatedPeople, p)
		}
	}

	for group, count := range counts {
		share := GroupShare{Group: group, Count: count}
		if nonSelf > 0 {
			share.Percent = round1(float64(count) / float64(nonSelf) * 100)
		}
		r.GroupDistribution = append(r.GroupDistribution, share)
	}
	sort.Slice(r.GroupDistribution, func(i, j int) bool {
		if r.GroupDistribution[i].Count != r.GroupDistribution[j].Count {
			return r.GroupDistribution[i].Count > r.GroupDistribution[j].Count
		}
		return r.GroupDistribution[i].Group < r.GroupDistribution[j].Group
	})

	return r
}

// density is the share of possible unordered pairs that are linked,
// as a percentage with one decimal place. The total node count includes
// the self node. Fewer than 2 nodes yields 0.
func density(nodeCount, linkCount int) float64 {
	if nodeCount < 2 {
		return 0
	}
	possible := float64(nodeCount) * float64(nodeCount-1) / 2
	return round1(float64(linkCount) / possible * 100)
}

// avgConnections averages degree over non-self people, one decimal
// place; 0 when there are none.
func avgConnections(persons []domain.Person, degrees map[string]int) float64 {
	sum, n := 0, 0
	for _, p := range persons {
		if p.IsSelf() {
			continue
		}
		sum += degrees[p.ID]
		n++
	}
	if n == 0 {
		return 0
	}
	return round1(float64(sum) / float64(n))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
