// Package analytics computes derived metrics over a graph snapshot:
// degrees, bridge nodes, density, strength distribution, and the
// neglected/isolated lists surfaced in the health dashboard. All
// functions are pure with respect to their inputs.
package analytics

import "kinship-backend/internal/domain"

// Degrees returns the connection count per person id. Every endpoint of
// every link counts, whether or not the id resolves to a person.
func Degrees(links []domain.Link) map[string]int {
	out := make(map[string]int, len(links)*2)
	for _, l := range links {
		out[l.A]++
		out[l.B]++
	}
	return out
}

// Degree returns the connection count of one person.
func Degree(links []domain.Link, id string) int {
	n := 0
	for _, l := range links {
		if l.HasEndpoint(id) {
			n++
		}
	}
	return n
}

// Bridges computes, for every non-self person, the ordered set of
// foreign groups it reaches by a direct link: groups other than the
// person's own and other than the self node's group. A person with a
// non-empty set is a bridge. The per-person order is the order groups
// are first encountered while iterating links in input order, so the
// result is deterministic for a fixed link slice.
func Bridges(persons []domain.Person, links []domain.Link) map[string][]string {
	groups := make(map[string]string, len(persons))
	selfGroup := ""
	for _, p := range persons {
		groups[p.ID] = p.Group
		if p.IsSelf() {
			selfGroup = p.Group
		}
	}

	out := make(map[string][]string)
	add := func(id, foreign string) {
		if id == domain.SelfID {
			return
		}
		own, ok := groups[id]
		if !ok {
			return
		}
		if foreign == "" || foreign == own || foreign == selfGroup {
			return
		}
		for _, g := range out[id] {
			if g == foreign {
				return
			}
		}
		out[id] = append(out[id], foreign)
	}

	for _, l := range links {
		add(l.A, groups[l.B])
		add(l.B, groups[l.A])
	}
	return out
}
