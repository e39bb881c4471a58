package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinship-backend/internal/domain"
	"kinship-backend/internal/layout"
)

func newTestSurface(t *testing.T) (*Surface, *layout.Engine) {
	t.Helper()
	cfg := layout.DefaultConfig()
	cfg.Iterations = 150

	persons := []domain.Person{
		{ID: domain.SelfID, Name: "Me", Group: "friends"},
		{ID: "a", Name: "Alex", Group: "work"},
		{ID: "b", Name: "Bea", Group: "family"},
	}
	links := []domain.Link{
		domain.NewLink(domain.SelfID, "a", 6),
		domain.NewLink("a", "b", 3),
	}

	engine := layout.NewEngine(cfg)
	engine.Load(persons, links)
	engine.Run()

	s := NewSurface(engine, cfg.Width, cfg.Height)
	s.Update(persons, links, domain.DefaultCategories())
	return s, engine
}

// toScreen converts a layout position to the screen coordinates the
// pointer would report for it.
func toScreen(s *Surface, pos layout.Position) (float64, float64) {
	v := s.View()
	return pos.X*v.Scale + v.TX, pos.Y*v.Scale + v.TY
}

func TestClickSelection(t *testing.T) {
	s, engine := newTestSurface(t)

	var events []string
	s.SetListener(SelectionListenerFunc(func(id string) { events = append(events, id) }))

	px, py := toScreen(s, engine.Positions()["a"])

	t.Run("click selects", func(t *testing.T) {
		s.PointerDown(px, py)
		s.PointerUp()
		assert.Equal(t, "a", s.Selected())
		assert.Equal(t, []string{"a"}, events)
	})

	t.Run("clicking again toggles off", func(t *testing.T) {
		s.PointerDown(px, py)
		s.PointerUp()
		assert.Equal(t, "", s.Selected())
		assert.Equal(t, []string{"a", ""}, events)
	})

	t.Run("clicking empty canvas clears", func(t *testing.T) {
		s.PointerDown(px, py)
		s.PointerUp() // select a again
		s.PointerDown(1, 1)
		s.PointerUp()
		assert.Equal(t, "", s.Selected())
	})
}

func TestHover(t *testing.T) {
	s, engine := newTestSurface(t)

	px, py := toScreen(s, engine.Positions()["b"])
	s.PointerMove(px, py)
	assert.Equal(t, "b", s.Hovered())

	s.PointerMove(1, 1)
	assert.Equal(t, "", s.Hovered())

	s.PointerMove(px, py)
	s.PointerLeave()
	assert.Equal(t, "", s.Hovered())
}

func TestDrag(t *testing.T) {
	s, engine := newTestSurface(t)

	start := engine.Positions()["a"]
	px, py := toScreen(s, start)

	s.PointerDown(px, py)
	s.PointerMove(px+80, py+80) // well past the drag threshold

	t.Run("node follows the pointer", func(t *testing.T) {
		pos := engine.Positions()["a"]
		wantX := (px + 80 - s.View().TX) / s.View().Scale
		wantY := (py + 80 - s.View().TY) / s.View().Scale
		assert.InDelta(t, wantX, pos.X, 1e-9)
		assert.InDelta(t, wantY, pos.Y, 1e-9)
	})

	t.Run("release is not a click", func(t *testing.T) {
		s.PointerUp()
		assert.Equal(t, "", s.Selected())
	})

	t.Run("node settles after release", func(t *testing.T) {
		dragged := engine.Positions()["a"]
		for i := 0; i < 30; i++ {
			engine.Step()
		}
		settled := engine.Positions()["a"]
		assert.NotEqual(t, dragged, settled, "unpinned node keeps moving")
	})
}

func TestSmallTravelIsAClick(t *testing.T) {
	s, engine := newTestSurface(t)
	px, py := toScreen(s, engine.Positions()["a"])

	s.PointerDown(px, py)
	s.PointerMove(px+1, py+1) // below the threshold
	s.PointerUp()
	assert.Equal(t, "a", s.Selected())
}

func TestPan(t *testing.T) {
	s, _ := newTestSurface(t)

	before := s.View()
	s.PointerDown(2, 2) // empty canvas
	s.PointerMove(52, 32)
	s.PointerUp()

	after := s.View()
	assert.Equal(t, before.TX+50, after.TX)
	assert.Equal(t, before.TY+30, after.TY)
	assert.Equal(t, "", s.Selected(), "a pan is not a click")
}

func TestZoom(t *testing.T) {
	s, _ := newTestSurface(t)

	t.Run("clamped to the allowed range", func(t *testing.T) {
		s.ZoomBy(100, 600, 400)
		assert.Equal(t, maxScale, s.View().Scale)
		s.ZoomBy(0.0001, 600, 400)
		assert.Equal(t, minScale, s.View().Scale)
	})

	t.Run("keeps the cursor point fixed", func(t *testing.T) {
		s2, _ := newTestSurface(t)
		const px, py = 300.0, 200.0

		beforeX := (px - s2.View().TX) / s2.View().Scale
		beforeY := (py - s2.View().TY) / s2.View().Scale
		s2.ZoomBy(1.5, px, py)
		afterX := (px - s2.View().TX) / s2.View().Scale
		afterY := (py - s2.View().TY) / s2.View().Scale

		assert.InDelta(t, beforeX, afterX, 1e-9)
		assert.InDelta(t, beforeY, afterY, 1e-9)
	})

	t.Run("node coordinates are untouched", func(t *testing.T) {
		s2, engine := newTestSurface(t)
		before := engine.Positions()["a"]
		s2.ZoomBy(2, 0, 0)
		assert.Equal(t, before, engine.Positions()["a"])
	})
}

func TestUpdateDropsStaleState(t *testing.T) {
	s, engine := newTestSurface(t)

	px, py := toScreen(s, engine.Positions()["a"])
	s.PointerDown(px, py)
	s.PointerUp()
	require.Equal(t, "a", s.Selected())

	// "a" disappears from the model.
	persons := []domain.Person{
		{ID: domain.SelfID, Name: "Me", Group: "friends"},
		{ID: "b", Name: "Bea", Group: "family"},
	}
	s.Update(persons, nil, domain.DefaultCategories())
	assert.Equal(t, "", s.Selected())
}

func TestHitTestTopmost(t *testing.T) {
	// Two stacked nodes: the later one in model order wins.
	cfg := layout.DefaultConfig()
	persons := []domain.Person{
		{ID: domain.SelfID, Name: "Me", Group: "friends"},
		{ID: "under", Name: "U", Group: "work"},
		{ID: "over", Name: "O", Group: "work"},
	}
	engine := layout.NewEngine(cfg)
	engine.Load(persons, nil)
	engine.Pin("under", 100, 100)
	engine.Pin("over", 102, 100)

	s := NewSurface(engine, cfg.Width, cfg.Height)
	s.Update(persons, nil, domain.DefaultCategories())

	px, py := toScreen(s, layout.Position{X: 101, Y: 100})
	s.PointerMove(px, py)
	assert.Equal(t, "over", s.Hovered())
}
