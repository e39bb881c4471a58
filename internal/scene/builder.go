package scene

import (
	"math"

	"kinship-backend/internal/analytics"
	"kinship-backend/internal/domain"
	"kinship-backend/internal/layout"
)

// Encoding rules. Edge width and opacity both rise monotonically with
// strength; curves only apply past a minimum separation so
// near-coincident nodes don't produce degenerate arcs.
const (
	fallbackColor = "#94a3b8"
	nodeStroke    = "#1e293b"
	selectStroke  = "#f8fafc"

	curveMinDistance = 40.0
	curveBow         = 0.18
	hoverScale       = 1.25

	dimFactor       = 0.25
	emphasisWidth   = 1.8
	emphasisOpacity = 0.95
)

func edgeWidth(strength int) float64 {
	return 1 + 0.35*float64(strength)
}

func edgeOpacity(strength int) float64 {
	o := 0.25 + 0.06*float64(strength)
	if o > 0.9 {
		o = 0.9
	}
	return o
}

// Input bundles everything the builder needs for one frame.
type Input struct {
	Persons    []domain.Person
	Links      []domain.Link
	Categories []domain.Category

	Positions map[string]layout.Position
	Radii     map[string]float64

	CenterID   string
	SelectedID string
	HoveredID  string

	Width, Height float64
	Transform     Transform
}

// Build derives the full scene for one frame. It is read-only over the
// model; selection and hover only restyle, they never reposition.
func Build(in Input) *Scene {
	colors := make(map[string]string, len(in.Categories))
	labels := make(map[string]string, len(in.Categories))
	for _, c := range in.Categories {
		colors[c.Key] = c.Color
		labels[c.Key] = c.Label
	}
	groupColor := func(key string) string {
		if c, ok := colors[key]; ok && c != "" {
			return c
		}
		return fallbackColor
	}

	// Render under the visible group: a person still tagged with a
	// hidden category falls back rather than picking up a stale color.
	groupOf := make(map[string]string, len(in.Persons))
	for _, p := range in.Persons {
		groupOf[p.ID] = domain.VisibleGroupKey(in.Categories, p.Group)
	}
	bridges := analytics.Bridges(in.Persons, in.Links)

	s := &Scene{
		Width:     in.Width,
		Height:    in.Height,
		Transform: in.Transform,
		Nodes:     make([]Node, 0, len(in.Persons)),
		Edges:     make([]Edge, 0, len(in.Links)),
	}
	if s.Transform.Scale == 0 {
		s.Transform.Scale = 1
	}

	selectedColor := ""
	if in.SelectedID != "" {
		selectedColor = groupColor(groupOf[in.SelectedID])
	}

	for _, l := range in.Links {
		pa, okA := in.Positions[l.A]
		pb, okB := in.Positions[l.B]
		if !okA || !okB {
			continue
		}
		e := Edge{
			A: l.A, B: l.B,
			X1: pa.X, Y1: pa.Y,
			X2: pb.X, Y2: pb.Y,
			Width:   edgeWidth(l.Strength),
			Opacity: edgeOpacity(l.Strength),
			Color:   fallbackColor,
		}

		// Cross-group ties bow outward; same-group and self-involving
		// ties stay straight.
		ga, gb := groupOf[l.A], groupOf[l.B]
		if ga != gb && l.A != domain.SelfID && l.B != domain.SelfID {
			dx, dy := pb.X-pa.X, pb.Y-pa.Y
			dist := math.Hypot(dx, dy)
			if dist > curveMinDistance {
				mx, my := (pa.X+pb.X)/2, (pa.Y+pb.Y)/2
				e.Curved = true
				e.CX = mx - dy*curveBow
				e.CY = my + dx*curveBow
			}
		}

		if in.SelectedID != "" {
			if l.HasEndpoint(in.SelectedID) {
				e.Emphasized = true
				e.Width *= emphasisWidth
				if e.Opacity < emphasisOpacity {
					e.Opacity = emphasisOpacity
				}
				e.Color = selectedColor
			} else {
				e.Dimmed = true
				e.Opacity *= dimFactor
			}
		}
		s.Edges = append(s.Edges, e)
	}

	for _, p := range in.Persons {
		pos, ok := in.Positions[p.ID]
		if !ok {
			continue
		}
		group := groupOf[p.ID]
		n := Node{
			ID:     p.ID,
			Label:  p.Name,
			Group:  group,
			X:      pos.X,
			Y:      pos.Y,
			Radius: in.Radii[p.ID],
			Fill:   groupColor(group),

			Stroke:      nodeStroke,
			StrokeWidth: 1.5,
		}

		if foreign := bridges[p.ID]; len(foreign) > 0 {
			n.Halo = HaloBridge
			n.RingDashed = true
			n.Ring = ringStops(foreign, groupColor)
		}
		// The center halo wins over the bridge halo; the ring stays.
		if p.ID == in.CenterID {
			n.Halo = HaloCenter
		}

		if p.ID == in.SelectedID {
			n.Selected = true
			n.Stroke = selectStroke
			n.StrokeWidth = 3
		}
		if p.ID == in.HoveredID {
			n.Hovered = true
			n.Radius *= hoverScale
			tip := &Tooltip{Name: p.Name, Group: group}
			if lbl, ok := labels[group]; ok {
				tip.Group = lbl
			}
			tip.ForeignGroups = bridges[p.ID]
			n.Tooltip = tip
		}
		s.Nodes = append(s.Nodes, n)
	}

	return s
}

// ringStops spreads the foreign-group colors over the ring: a single
// group is a solid ring, more become evenly spaced gradient stops.
func ringStops(foreign []string, groupColor func(string) string) []GradientStop {
	if len(foreign) == 1 {
		return []GradientStop{{Offset: 0, Color: groupColor(foreign[0])}}
	}
	stops := make([]GradientStop, len(foreign))
	for i, g := range foreign {
		stops[i] = GradientStop{
			Offset: float64(i) / float64(len(foreign)-1),
			Color:  groupColor(g),
		}
	}
	return stops
}
