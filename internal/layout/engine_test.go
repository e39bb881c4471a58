package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinship-backend/internal/domain"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Iterations = 150
	return cfg
}

func testPersons() []domain.Person {
	return []domain.Person{
		{ID: domain.SelfID, Name: "Me", Group: "friends"},
		{ID: "a", Name: "A", Group: "friends"},
		{ID: "b", Name: "B", Group: "work"},
		{ID: "c", Name: "C", Group: "work"},
		{ID: "d", Name: "D", Group: "family"},
	}
}

func testLinks() []domain.Link {
	return []domain.Link{
		domain.NewLink(domain.SelfID, "a", 8),
		domain.NewLink(domain.SelfID, "b", 4),
		domain.NewLink("b", "c", 6),
		domain.NewLink("a", "d", 2),
	}
}

func distance(p, q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func TestRun(t *testing.T) {
	t.Run("produces a position for every node", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Load(testPersons(), testLinks())
		positions := e.Run()
		assert.Len(t, positions, len(testPersons()))
		for id, pos := range positions {
			assert.False(t, math.IsNaN(pos.X) || math.IsNaN(pos.Y), "node %s has NaN position", id)
		}
	})

	t.Run("keeps the center node at the canvas center", func(t *testing.T) {
		cfg := testConfig()
		e := NewEngine(cfg)
		e.Load(testPersons(), testLinks())
		positions := e.Run()

		center := Position{X: cfg.Width / 2, Y: cfg.Height / 2}
		assert.Less(t, distance(positions[domain.SelfID], center), 40.0,
			"the strong center pull keeps the self node near the middle")
	})

	t.Run("no two nodes overlap after convergence", func(t *testing.T) {
		cfg := testConfig()
		e := NewEngine(cfg)
		e.Load(testPersons(), testLinks())
		positions := e.Run()
		radii := e.Radii()

		ids := []string{domain.SelfID, "a", "b", "c", "d"}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				min := radii[ids[i]] + radii[ids[j]] + cfg.CollisionPadding
				d := distance(positions[ids[i]], positions[ids[j]])
				assert.GreaterOrEqualf(t, d, min-1e-6,
					"%s and %s overlap: %f < %f", ids[i], ids[j], d, min)
			}
		}
	})

	t.Run("same seed gives the same layout", func(t *testing.T) {
		e1 := NewEngine(testConfig())
		e1.Load(testPersons(), testLinks())
		p1 := e1.Run()

		e2 := NewEngine(testConfig())
		e2.Load(testPersons(), testLinks())
		p2 := e2.Run()

		assert.Equal(t, p1, p2)
	})

	t.Run("stronger links sit closer", func(t *testing.T) {
		persons := []domain.Person{
			{ID: domain.SelfID, Name: "Me", Group: "friends"},
			{ID: "near", Name: "N", Group: "friends"},
			{ID: "far", Name: "F", Group: "friends"},
		}
		links := []domain.Link{
			domain.NewLink(domain.SelfID, "near", 10),
			domain.NewLink(domain.SelfID, "far", 1),
		}

		e := NewEngine(testConfig())
		e.Load(persons, links)
		positions := e.Run()

		dNear := distance(positions[domain.SelfID], positions["near"])
		dFar := distance(positions[domain.SelfID], positions["far"])
		assert.Less(t, dNear, dFar)
	})

	t.Run("empty graph is a no-op", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Load(nil, nil)
		assert.Empty(t, e.Run())
	})
}

func TestContinuity(t *testing.T) {
	t.Run("adding a node barely moves the settled ones", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Load(testPersons(), testLinks())
		before := e.Run()

		added := append(testPersons(), domain.Person{ID: "new", Name: "New", Group: "family"})
		e.Load(added, testLinks())
		after := e.Run()

		for _, id := range []string{"a", "b", "c", "d"} {
			assert.Lessf(t, distance(before[id], after[id]), 60.0,
				"node %s jumped on incremental recompute", id)
		}
	})

	t.Run("removing a node evicts it from the cache", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Load(testPersons(), testLinks())
		e.Run()

		trimmed := testPersons()[:4] // drop "d"
		e.Load(trimmed, testLinks())
		positions := e.Run()
		_, ok := positions["d"]
		assert.False(t, ok)
	})

	t.Run("recentering rearranges the whole graph", func(t *testing.T) {
		cfg := testConfig()
		e := NewEngine(cfg)
		e.Load(testPersons(), testLinks())
		e.Run()

		e.SetCenter("b")
		e.Load(testPersons(), testLinks())
		positions := e.Run()

		center := Position{X: cfg.Width / 2, Y: cfg.Height / 2}
		assert.Less(t, distance(positions["b"], center), 40.0)
	})
}

func TestPin(t *testing.T) {
	t.Run("pinned node stays where it is put", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Load(testPersons(), testLinks())
		e.Run()

		e.Pin("c", 100, 100)
		for i := 0; i < 30; i++ {
			e.Step()
		}
		pos := e.Positions()["c"]
		assert.Equal(t, 100.0, pos.X)
		assert.Equal(t, 100.0, pos.Y)
	})

	t.Run("unpinned node settles again", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Load(testPersons(), testLinks())
		e.Run()

		e.Pin("c", 100, 100)
		e.Unpin("c")
		for i := 0; i < 60; i++ {
			e.Step()
		}
		pos := e.Positions()["c"]
		assert.NotEqual(t, Position{X: 100, Y: 100}, pos)
	})

	t.Run("pinning an unknown id is ignored", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Load(testPersons(), testLinks())
		e.Pin("ghost", 0, 0)
	})
}

func TestRadii(t *testing.T) {
	cfg := testConfig()
	e := NewEngine(cfg)

	persons := []domain.Person{
		{ID: domain.SelfID, Name: "Me", Group: "friends"},
		{ID: "hub", Name: "Hub", Group: "friends"},
		{ID: "leaf1", Name: "L1", Group: "friends"},
		{ID: "leaf2", Name: "L2", Group: "friends"},
		{ID: "leaf3", Name: "L3", Group: "friends"},
	}
	links := []domain.Link{
		domain.NewLink("hub", "leaf1", 5),
		domain.NewLink("hub", "leaf2", 5),
		domain.NewLink("hub", "leaf3", 5),
	}
	e.Load(persons, links)
	radii := e.Radii()

	assert.Equal(t, cfg.CenterRadius, radii[domain.SelfID])
	assert.Greater(t, radii["hub"], radii["leaf1"], "radius grows with degree")
	assert.LessOrEqual(t, radii["hub"], cfg.MaxRadius)
}

func TestDanglingLinksAreSkipped(t *testing.T) {
	e := NewEngine(testConfig())
	persons := []domain.Person{
		{ID: domain.SelfID, Name: "Me", Group: "friends"},
		{ID: "a", Name: "A", Group: "friends"},
	}
	links := []domain.Link{
		domain.NewLink(domain.SelfID, "a", 5),
		domain.NewLink("a", "ghost", 5),
	}
	e.Load(persons, links)
	positions := e.Run()
	require.Len(t, positions, 2)
	_, ok := positions["ghost"]
	assert.False(t, ok)
}

func TestGroupAnchorsSeparateGroups(t *testing.T) {
	// Unlinked members of the same group should gather near their
	// anchor, away from a different group's anchor.
	persons := []domain.Person{
		{ID: domain.SelfID, Name: "Me", Group: "friends"},
		{ID: "w1", Name: "W1", Group: "work"},
		{ID: "w2", Name: "W2", Group: "work"},
		{ID: "f1", Name: "F1", Group: "family"},
		{ID: "f2", Name: "F2", Group: "family"},
	}

	e := NewEngine(testConfig())
	e.Load(persons, nil)
	positions := e.Run()

	workSpread := distance(positions["w1"], positions["w2"])
	crossSpread := distance(positions["w1"], positions["f1"])
	assert.Less(t, workSpread, crossSpread,
		"same-group nodes should sit closer than cross-group nodes")
}
