package scene

import (
	"math"

	"kinship-backend/internal/domain"
	"kinship-backend/internal/layout"
)

// View transform bounds. The initial scale sits slightly below 100% so
// the whole graph is visible on load.
const (
	initialScale = 0.9
	minScale     = 0.4
	maxScale     = 3.0

	// Pointer travel past which a press becomes a drag, in screen px.
	dragThreshold = 4.0
)

// SelectionListener receives node selection changes from the surface.
// An empty id means the selection was cleared. The surface never
// mutates the data model; what the host does with the event is its own
// business.
type SelectionListener interface {
	OnSelectionChanged(nodeID string)
}

// SelectionListenerFunc adapts a plain function to SelectionListener.
type SelectionListenerFunc func(nodeID string)

func (f SelectionListenerFunc) OnSelectionChanged(nodeID string) { f(nodeID) }

// Surface owns interaction state (selection, hover, drag, view
// transform) and translates pointer input into layout-engine pins or
// selection events. Per-node visual state machines:
//
//	idle -> hovered -> idle            (pointer enter/leave)
//	unselected <-> selected            (click; at most one selected)
//	settled <-> dragging -> settled    (pointer down/move/up)
type Surface struct {
	engine   *layout.Engine
	listener SelectionListener

	persons    []domain.Person
	links      []domain.Link
	categories []domain.Category

	width, height float64
	view          Transform

	selected string
	hovered  string

	pressed  string  // node under the initial press, "" for canvas
	pressX   float64 // press position, screen coords
	pressY   float64
	dragging bool
	dragID   string
	panning  bool
	lastX    float64
	lastY    float64
}

// NewSurface wires a surface over a layout engine.
func NewSurface(engine *layout.Engine, width, height float64) *Surface {
	return &Surface{
		engine: engine,
		width:  width,
		height: height,
		view:   Transform{Scale: initialScale},
		pressX: math.NaN(),
		pressY: math.NaN(),
	}
}

// SetListener registers the host's selection callback.
func (s *Surface) SetListener(l SelectionListener) { s.listener = l }

// Update gives the surface the current model view to draw and hit-test
// against. Stale selection or hover referencing a deleted node is
// dropped.
func (s *Surface) Update(persons []domain.Person, links []domain.Link, categories []domain.Category) {
	s.persons = persons
	s.links = links
	s.categories = categories
	if s.selected != "" && s.personIndex(s.selected) < 0 {
		s.setSelected("")
	}
	if s.hovered != "" && s.personIndex(s.hovered) < 0 {
		s.hovered = ""
	}
}

// Scene builds the current frame.
func (s *Surface) Scene() *Scene {
	return Build(Input{
		Persons:    s.persons,
		Links:      s.links,
		Categories: s.categories,
		Positions:  s.engine.Positions(),
		Radii:      s.engine.Radii(),
		CenterID:   s.engine.Center(),
		SelectedID: s.selected,
		HoveredID:  s.hovered,
		Width:      s.width,
		Height:     s.height,
		Transform:  s.view,
	})
}

// Selected returns the currently selected node id, "" when none.
func (s *Surface) Selected() string { return s.selected }

// Hovered returns the currently hovered node id, "" when none.
func (s *Surface) Hovered() string { return s.hovered }

// View returns the current view transform.
func (s *Surface) View() Transform { return s.view }

// PointerDown begins either a node drag or a canvas pan; which one it
// is resolves on release (a press without travel is a click).
func (s *Surface) PointerDown(px, py float64) {
	s.pressX, s.pressY = px, py
	s.lastX, s.lastY = px, py
	x, y := s.toLayout(px, py)
	s.pressed = s.hitTest(x, y)
	s.dragging = false
	s.panning = false
}

// PointerMove updates hover, or drives the active drag/pan.
func (s *Surface) PointerMove(px, py float64) {
	defer func() { s.lastX, s.lastY = px, py }()

	if s.dragging || s.panning || s.pressActive() {
		if !s.dragging && !s.panning {
			if math.Hypot(px-s.pressX, py-s.pressY) < dragThreshold {
				return
			}
			if s.pressed != "" {
				s.dragging = true
				s.dragID = s.pressed
			} else {
				s.panning = true
			}
		}
		if s.dragging {
			x, y := s.toLayout(px, py)
			s.engine.Pin(s.dragID, x, y)
			s.engine.Step()
			return
		}
		if s.panning {
			s.view.TX += px - s.lastX
			s.view.TY += py - s.lastY
			return
		}
	}

	x, y := s.toLayout(px, py)
	s.hovered = s.hitTest(x, y)
}

// PointerUp finishes the gesture: a drag releases its pin, a click
// selects the pressed node or clears the selection on empty canvas.
func (s *Surface) PointerUp() {
	switch {
	case s.dragging:
		s.engine.Unpin(s.dragID)
		s.dragID = ""
		s.dragging = false
	case s.panning:
		s.panning = false
	default:
		// Click. Selecting a different node simply reassigns which
		// single node is selected.
		s.setSelected(s.pressed)
	}
	s.pressed = ""
	s.pressX, s.pressY = math.NaN(), math.NaN()
}

// PointerLeave clears hover and abandons any in-flight gesture.
func (s *Surface) PointerLeave() {
	if s.dragging {
		s.engine.Unpin(s.dragID)
		s.dragID = ""
		s.dragging = false
	}
	s.panning = false
	s.pressed = ""
	s.hovered = ""
	s.pressX, s.pressY = math.NaN(), math.NaN()
}

// ZoomBy scales the view around the given screen point, clamped to the
// allowed range. Node coordinates are untouched.
func (s *Surface) ZoomBy(factor, px, py float64) {
	next := s.view.Scale * factor
	if next < minScale {
		next = minScale
	}
	if next > maxScale {
		next = maxScale
	}
	if next == s.view.Scale {
		return
	}
	// Keep the point under the cursor fixed.
	ratio := next / s.view.Scale
	s.view.TX = px - (px-s.view.TX)*ratio
	s.view.TY = py - (py-s.view.TY)*ratio
	s.view.Scale = next
}

func (s *Surface) setSelected(id string) {
	if id == s.selected {
		if id == "" {
			return
		}
		// Clicking the selected node again toggles it off.
		id = ""
	}
	s.selected = id
	if s.listener != nil {
		s.listener.OnSelectionChanged(id)
	}
}

func (s *Surface) pressActive() bool {
	return !math.IsNaN(s.pressX)
}

// toLayout converts screen coordinates to layout coordinates through
// the inverse view transform.
func (s *Surface) toLayout(px, py float64) (float64, float64) {
	return (px - s.view.TX) / s.view.Scale, (py - s.view.TY) / s.view.Scale
}

// hitTest returns the topmost node whose radius covers the point, ""
// when the point is empty canvas. Later nodes draw on top.
func (s *Surface) hitTest(x, y float64) string {
	positions := s.engine.Positions()
	radii := s.engine.Radii()
	for i := len(s.persons) - 1; i >= 0; i-- {
		id := s.persons[i].ID
		pos, ok := positions[id]
		if !ok {
			continue
		}
		if math.Hypot(x-pos.X, y-pos.Y) <= radii[id] {
			return id
		}
	}
	return ""
}

func (s *Surface) personIndex(id string) int {
	for i := range s.persons {
		if s.persons[i].ID == id {
			return i
		}
	}
	return -1
}
