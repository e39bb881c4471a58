// Package domain contains the core data structures for the application,
// independent of the database or API layers.
package domain

import (
	"strings"
	"time"
)

// SelfID is the reserved identifier of the node representing the account
// owner. It is created once at graph initialization and can never be
// deleted; its name may change.
const SelfID = "me"

// Person represents a single node in a user's relationship graph.
type Person struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Group         string     `json:"group"`
	Details       string     `json:"details,omitempty"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
}

// IsSelf reports whether this person is the reserved self node.
func (p Person) IsSelf() bool {
	return p.ID == SelfID
}

// Link represents an undirected, weighted relationship between two people.
// Endpoints are stored as bare ids, normalized so that A < B; (a,b) and
// (b,a) denote the same relationship.
type Link struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Strength int    `json:"strength"`
}

// MinStrength and MaxStrength bound the relationship strength scale.
const (
	MinStrength = 1
	MaxStrength = 10
)

// NewLink builds a normalized link between two person ids.
func NewLink(a, b string, strength int) Link {
	if a > b {
		a, b = b, a
	}
	return Link{A: a, B: b, Strength: strength}
}

// Key returns the canonical identity of the unordered pair.
func (l Link) Key() string {
	return PairKey(l.A, l.B)
}

// HasEndpoint reports whether the link touches the given person id.
func (l Link) HasEndpoint(id string) bool {
	return l.A == id || l.B == id
}

// Other returns the opposite endpoint of the link, or "" when id is not
// an endpoint.
func (l Link) Other(id string) string {
	switch id {
	case l.A:
		return l.B
	case l.B:
		return l.A
	}
	return ""
}

// PairKey returns the canonical key of an unordered id pair.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Snapshot is the persisted shape of one user's graph, exchanged with
// the snapshot store. Derived data (positions, bridges, degrees) is
// never part of it.
type Snapshot struct {
	Persons            []Person          `json:"persons"`
	Links              []Link            `json:"links"`
	CustomCategories   []Category        `json:"customCategories,omitempty"`
	ColorOverrides     map[string]string `json:"colorOverrides,omitempty"`
	DeletedDefaultKeys []string          `json:"deletedDefaultKeys,omitempty"`
}

// NewSnapshot creates the initial graph for an account: just the self
// node, assigned to the fallback category.
func NewSnapshot(ownerName string) *Snapshot {
	name := strings.TrimSpace(ownerName)
	if name == "" {
		name = "Me"
	}
	return &Snapshot{
		Persons: []Person{{ID: SelfID, Name: name, Group: FallbackCategoryKey}},
	}
}

// Clone performs a deep copy so callers can hand the snapshot across a
// boundary without sharing mutable state.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Persons:            make([]Person, len(s.Persons)),
		Links:              make([]Link, len(s.Links)),
		DeletedDefaultKeys: append([]string(nil), s.DeletedDefaultKeys...),
	}
	copy(out.Persons, s.Persons)
	copy(out.Links, s.Links)
	if s.CustomCategories != nil {
		out.CustomCategories = make([]Category, len(s.CustomCategories))
		copy(out.CustomCategories, s.CustomCategories)
	}
	if s.ColorOverrides != nil {
		out.ColorOverrides = make(map[string]string, len(s.ColorOverrides))
		for k, v := range s.ColorOverrides {
			out.ColorOverrides[k] = v
		}
	}
	return out
}

// PersonByID returns the person with the given id, or nil.
func (s *Snapshot) PersonByID(id string) *Person {
	for i := range s.Persons {
		if s.Persons[i].ID == id {
			return &s.Persons[i]
		}
	}
	return nil
}

// LinkBetween returns the link connecting the unordered pair, or nil.
func (s *Snapshot) LinkBetween(a, b string) *Link {
	key := PairKey(a, b)
	for i := range s.Links {
		if s.Links[i].Key() == key {
			return &s.Links[i]
		}
	}
	return nil
}

// Categories returns the effective category table for this snapshot.
func (s *Snapshot) Categories() []Category {
	return MergeCategories(s.ColorOverrides, s.CustomCategories, s.DeletedDefaultKeys)
}
