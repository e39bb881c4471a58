package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinship-backend/internal/domain"
	"kinship-backend/internal/layout"
)

func builderInput() Input {
	return Input{
		Persons: []domain.Person{
			{ID: domain.SelfID, Name: "Me", Group: "friends"},
			{ID: "a", Name: "Alex", Group: "work"},
			{ID: "b", Name: "Bea", Group: "family"},
			{ID: "c", Name: "Cato", Group: "work"},
		},
		Links: []domain.Link{
			domain.NewLink(domain.SelfID, "a", 8),
			domain.NewLink("a", "b", 5),
			domain.NewLink("a", "c", 2),
		},
		Categories: domain.DefaultCategories(),
		Positions: map[string]layout.Position{
			domain.SelfID: {X: 600, Y: 400},
			"a":           {X: 400, Y: 300},
			"b":           {X: 200, Y: 500},
			"c":           {X: 410, Y: 310},
		},
		Radii:    map[string]float64{domain.SelfID: 32, "a": 20, "b": 16, "c": 14},
		CenterID: domain.SelfID,
		Width:    1200,
		Height:   800,
	}
}

func nodeByID(t *testing.T, s *Scene, id string) Node {
	t.Helper()
	for _, n := range s.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %s not in scene", id)
	return Node{}
}

func edgeBetween(t *testing.T, s *Scene, a, b string) Edge {
	t.Helper()
	key := domain.PairKey(a, b)
	for _, e := range s.Edges {
		if domain.PairKey(e.A, e.B) == key {
			return e
		}
	}
	t.Fatalf("edge %s not in scene", key)
	return Edge{}
}

func TestBuildEncodings(t *testing.T) {
	s := Build(builderInput())

	t.Run("node fill comes from the category color", func(t *testing.T) {
		n := nodeByID(t, s, "a")
		assert.Equal(t, "#457b9d", n.Fill, "work category color")
	})

	t.Run("unknown group renders under the fallback category", func(t *testing.T) {
		in := builderInput()
		in.Persons[1].Group = "nonexistent"
		n := nodeByID(t, Build(in), "a")
		assert.Equal(t, domain.FallbackCategoryKey, n.Group)
		assert.Equal(t, "#2a9d8f", n.Fill, "fallback category color")
	})

	t.Run("hidden category renders under the fallback category", func(t *testing.T) {
		in := builderInput()
		in.Categories = domain.MergeCategories(nil, nil, []string{"work"})
		n := nodeByID(t, Build(in), "a")
		assert.Equal(t, domain.FallbackCategoryKey, n.Group)
		assert.Equal(t, "#2a9d8f", n.Fill, "no stale color from the hidden category")
	})

	t.Run("edge width and opacity rise with strength", func(t *testing.T) {
		strong := edgeBetween(t, s, domain.SelfID, "a")
		weak := edgeBetween(t, s, "a", "c")
		assert.Greater(t, strong.Width, weak.Width)
		assert.Greater(t, strong.Opacity, weak.Opacity)
	})

	t.Run("zero transform defaults to scale 1", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Transform.Scale)
	})
}

func TestBuildCurves(t *testing.T) {
	t.Run("cross-group edges bow outward", func(t *testing.T) {
		s := Build(builderInput())
		e := edgeBetween(t, s, "a", "b") // work to family, far apart
		assert.True(t, e.Curved)
		assert.NotZero(t, e.CX)
	})

	t.Run("edges touching the self node stay straight", func(t *testing.T) {
		s := Build(builderInput())
		e := edgeBetween(t, s, domain.SelfID, "a")
		assert.False(t, e.Curved, "cross-group but involves self")
	})

	t.Run("short cross-group edges stay straight", func(t *testing.T) {
		in := builderInput()
		in.Positions["b"] = layout.Position{X: 410, Y: 310} // ~14px from a
		s := Build(in)
		assert.False(t, edgeBetween(t, s, "a", "b").Curved)
	})

	t.Run("same-group edges stay straight", func(t *testing.T) {
		s := Build(builderInput())
		assert.False(t, edgeBetween(t, s, "a", "c").Curved)
	})
}

func TestBuildSelection(t *testing.T) {
	in := builderInput()
	in.SelectedID = "a"
	s := Build(in)

	t.Run("selected node gets the highlight stroke", func(t *testing.T) {
		n := nodeByID(t, s, "a")
		assert.True(t, n.Selected)
		assert.Equal(t, selectStroke, n.Stroke)
	})

	t.Run("touching edges are emphasized and recolored", func(t *testing.T) {
		e := edgeBetween(t, s, "a", "b")
		assert.True(t, e.Emphasized)
		assert.GreaterOrEqual(t, e.Opacity, emphasisOpacity)
		assert.Equal(t, "#457b9d", e.Color, "selected node's group color")
	})

	t.Run("other edges are dimmed", func(t *testing.T) {
		base := Build(builderInput())
		plain := edgeBetween(t, base, domain.SelfID, "a")
		_ = plain

		in2 := builderInput()
		in2.SelectedID = "b"
		s2 := Build(in2)
		dimmed := edgeBetween(t, s2, domain.SelfID, "a")
		assert.True(t, dimmed.Dimmed)
		assert.Less(t, dimmed.Opacity, edgeOpacity(8))
	})
}

func TestBuildHalos(t *testing.T) {
	t.Run("bridge nodes get a dashed ring", func(t *testing.T) {
		s := Build(builderInput())
		// a (work) links to b (family): family is foreign.
		n := nodeByID(t, s, "a")
		assert.Equal(t, HaloBridge, n.Halo)
		assert.True(t, n.RingDashed)
		require.Len(t, n.Ring, 1, "one foreign group is a solid ring")
		assert.Equal(t, "#e76f51", n.Ring[0].Color, "family category color")
	})

	t.Run("two foreign groups become gradient stops", func(t *testing.T) {
		in := builderInput()
		in.Persons = append(in.Persons, domain.Person{ID: "d", Name: "Dee", Group: "school"})
		in.Positions["d"] = layout.Position{X: 800, Y: 600}
		in.Radii["d"] = 14
		in.Links = append(in.Links, domain.NewLink("a", "d", 4))

		n := nodeByID(t, Build(in), "a")
		require.Len(t, n.Ring, 2)
		assert.Equal(t, 0.0, n.Ring[0].Offset)
		assert.Equal(t, 1.0, n.Ring[1].Offset)
	})

	t.Run("center halo wins but the ring stays", func(t *testing.T) {
		in := builderInput()
		in.CenterID = "a"
		n := nodeByID(t, Build(in), "a")
		assert.Equal(t, HaloCenter, n.Halo)
		assert.NotEmpty(t, n.Ring)
	})
}

func TestBuildHover(t *testing.T) {
	in := builderInput()
	in.HoveredID = "a"
	s := Build(in)

	n := nodeByID(t, s, "a")
	assert.True(t, n.Hovered)
	assert.Equal(t, 20*hoverScale, n.Radius)
	require.NotNil(t, n.Tooltip)
	assert.Equal(t, "Alex", n.Tooltip.Name)
	assert.Equal(t, "Work", n.Tooltip.Group, "tooltip shows the category label")
	assert.Equal(t, []string{"family"}, n.Tooltip.ForeignGroups)
}

func TestBuildSkipsDanglingReferences(t *testing.T) {
	in := builderInput()
	delete(in.Positions, "c")
	s := Build(in)

	assert.Len(t, s.Nodes, 3, "node without a position is skipped")
	assert.Len(t, s.Edges, 2, "edge to a positionless node is skipped")
}
