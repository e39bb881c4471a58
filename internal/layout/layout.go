// Package layout positions graph nodes with an iterative force
// relaxation: linked nodes attract in proportion to relationship
// strength, all nodes repel within a bounded distance, groups cluster
// around per-group anchors, and the designated center node is held at
// the middle of the layout area. The engine keeps a continuity cache of
// positions keyed by node id so recomputation after an edit does not
// make settled nodes jump.
package layout

// Position is a 2D coordinate in layout space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config holds the tunable layout parameters.
type Config struct {
	Width  float64 // layout area width
	Height float64 // layout area height

	// Iterations is the synchronous relaxation budget of Run.
	Iterations int

	// Node sizing: radius grows with degree up to MaxRadius; the
	// center node always uses CenterRadius, which sits above the cap.
	BaseRadius      float64
	RadiusPerDegree float64
	MaxRadius       float64
	CenterRadius    float64

	// CollisionPadding is the minimum gap enforced between node rims.
	CollisionPadding float64

	// Seed drives the jitter source so layouts are reproducible.
	Seed int64
}

// DefaultConfig returns the parameters used by the application.
func DefaultConfig() Config {
	return Config{
		Width:            1200,
		Height:           800,
		Iterations:       300,
		BaseRadius:       14,
		RadiusPerDegree:  1.5,
		MaxRadius:        26,
		CenterRadius:     32,
		CollisionPadding: 4,
		Seed:             1,
	}
}
