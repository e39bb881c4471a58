package scene

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// WriteSVG renders the scene as a standalone SVG document. Hover-only
// decorations (tooltips) are omitted; halos, dashed bridge rings with
// gradients, curved cross-group edges and selection emphasis are drawn
// exactly as encoded.
func WriteSVG(w io.Writer, s *Scene) error {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	b.WriteString(`<rect width="100%" height="100%" fill="#0f172a"/>` + "\n")

	// Gradient defs for multi-group bridge rings.
	b.WriteString("<defs>\n")
	for _, n := range s.Nodes {
		if len(n.Ring) < 2 {
			continue
		}
		fmt.Fprintf(&b, `<linearGradient id="ring-%s">`+"\n", html.EscapeString(n.ID))
		for _, stop := range n.Ring {
			fmt.Fprintf(&b, `<stop offset="%.0f%%" stop-color="%s"/>`+"\n",
				stop.Offset*100, html.EscapeString(stop.Color))
		}
		b.WriteString("</linearGradient>\n")
	}
	b.WriteString("</defs>\n")

	fmt.Fprintf(&b, `<g transform="translate(%.2f,%.2f) scale(%.3f)">`+"\n",
		s.Transform.TX, s.Transform.TY, s.Transform.Scale)

	for _, e := range s.Edges {
		stroke := html.EscapeString(e.Color)
		if e.Curved {
			fmt.Fprintf(&b, `<path d="M %.2f %.2f Q %.2f %.2f %.2f %.2f" fill="none" stroke="%s" stroke-width="%.2f" stroke-opacity="%.2f"/>`+"\n",
				e.X1, e.Y1, e.CX, e.CY, e.X2, e.Y2, stroke, e.Width, e.Opacity)
		} else {
			fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.2f"/>`+"\n",
				e.X1, e.Y1, e.X2, e.Y2, stroke, e.Width, e.Opacity)
		}
	}

	for _, n := range s.Nodes {
		fill := html.EscapeString(n.Fill)

		switch n.Halo {
		case HaloCenter:
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="0.25"/>`+"\n",
				n.X, n.Y, n.Radius+10, fill)
		case HaloBridge:
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="0.15"/>`+"\n",
				n.X, n.Y, n.Radius+7, fill)
		}

		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
			n.X, n.Y, n.Radius, fill, html.EscapeString(n.Stroke), n.StrokeWidth)

		if len(n.Ring) > 0 {
			ringStroke := html.EscapeString(n.Ring[0].Color)
			if len(n.Ring) > 1 {
				ringStroke = fmt.Sprintf("url(#ring-%s)", html.EscapeString(n.ID))
			}
			dash := ""
			if n.RingDashed {
				dash = ` stroke-dasharray="6 4"`
			}
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="2.5"%s/>`+"\n",
				n.X, n.Y, n.Radius+4, ringStroke, dash)
		}

		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" text-anchor="middle" font-size="11" fill="#e2e8f0">%s</text>`+"\n",
			n.X, n.Y+n.Radius+14, html.EscapeString(n.Label))
	}

	b.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}
