// Package export renders runs as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/viz"
	"github.com/san-kum/motionsim/internal/vmath"
)

// Palette cycles across tracks.
var Palette = []string{"#00ccff", "#ff88ff", "#00ff88", "#ffaa00", "#ff4444", "#aaaaff"}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsW()) * scale
	height := float64(canvas.DotsH()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	r := scale * 0.4
	for y := 0; y < canvas.DotsH(); y++ {
		for x := 0; x < canvas.DotsW(); x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Track is one entity's path.
type Track struct {
	ID     string
	Points []vmath.Vec2
}

// bounds of every point with 10% padding; degenerate extents become 1.
func bounds(tracks []Track) (collision.AABB, bool) {
	first := true
	var b collision.AABB
	for _, t := range tracks {
		for _, p := range t.Points {
			if !p.IsValid() {
				continue
			}
			if first {
				b = collision.AABB{Min: p, Max: p}
				first = false
				continue
			}
			b.Min = vmath.V2(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y))
			b.Max = vmath.V2(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y))
		}
	}
	if first {
		return b, false
	}
	size := b.Size()
	if size.X == 0 {
		size.X = 1
	}
	if size.Y == 0 {
		size.Y = 1
	}
	pad := size.Scale(0.1)
	b.Min, b.Max = b.Min.Sub(pad), b.Max.Add(pad)
	return b, true
}

// TrajectoryToSVG draws every track as a polyline over shared bounds, with a
// dot at each track's final position. Tracks with fewer than two points are
// skipped; it returns "" when nothing can be drawn.
func TrajectoryToSVG(tracks []Track, width, height int) string {
	drawable := tracks[:0:0]
	for _, t := range tracks {
		if len(t.Points) >= 2 {
			drawable = append(drawable, t)
		}
	}
	b, ok := bounds(drawable)
	if !ok {
		return ""
	}
	size := b.Size()
	project := func(p vmath.Vec2) (float64, float64) {
		x := (p.X - b.Min.X) / size.X * float64(width)
		y := float64(height) - (p.Y-b.Min.Y)/size.Y*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, t := range drawable {
		color := Palette[i%len(Palette)]
		fmt.Fprintf(&sb, `<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="`, escape(t.ID), color)
		cmd := "M"
		for _, p := range t.Points {
			if !p.IsValid() {
				continue
			}
			x, y := project(p)
			fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, x, y)
			cmd = "L"
		}
		sb.WriteString("\"/>\n")
		x, y := project(t.Points[len(t.Points)-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", x, y, color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
