// Package scene turns a computed layout plus the visual-encoding rules
// into a framework-independent scene description: per-node fills,
// halos, bridge rings, per-edge widths/opacities and curved paths,
// selection and hover restyling, and a bounded view transform. The
// scene is what the HTTP layer serves to a canvas frontend and what the
// SVG writer draws.
package scene

// Halo marks the extra glow treatment a node receives.
type Halo string

const (
	HaloNone   Halo = ""
	HaloCenter Halo = "center"
	HaloBridge Halo = "bridge"
)

// GradientStop is one color stop of a bridge ring. A single stop means
// a solid ring; several mean a segmented gradient over the foreign
// groups, in first-encountered order.
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Node is the visual encoding of one person.
type Node struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Group  string  `json:"group"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`

	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Halo        Halo    `json:"halo,omitempty"`

	Ring       []GradientStop `json:"ring,omitempty"`
	RingDashed bool           `json:"ringDashed,omitempty"`

	Selected bool     `json:"selected,omitempty"`
	Hovered  bool     `json:"hovered,omitempty"`
	Tooltip  *Tooltip `json:"tooltip,omitempty"`
}

// Tooltip is the hover payload: name, group label, and the connected
// foreign groups when the node is a bridge.
type Tooltip struct {
	Name          string   `json:"name"`
	Group         string   `json:"group"`
	ForeignGroups []string `json:"foreignGroups,omitempty"`
}

// Edge is the visual encoding of one relationship.
type Edge struct {
	A  string  `json:"a"`
	B  string  `json:"b"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`

	// Curved edges bow along a quadratic control point perpendicular
	// to the chord.
	Curved bool    `json:"curved,omitempty"`
	CX     float64 `json:"cx,omitempty"`
	CY     float64 `json:"cy,omitempty"`

	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
	Color   string  `json:"color"`

	Emphasized bool `json:"emphasized,omitempty"`
	Dimmed     bool `json:"dimmed,omitempty"`
}

// Transform is the view transform applied to the whole scene. It never
// touches underlying node coordinates.
type Transform struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

// Scene is a complete drawable frame.
type Scene struct {
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	Transform Transform `json:"transform"`
}
