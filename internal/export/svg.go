package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
	"github.com/san-kum/particlebox/internal/physics"
)

const (
	background  = "#0a0a0a"
	wallColor   = "#e5e7eb"
	innerColor  = "#6b7280"
	strokeWidth = 2.0
)

// StateToSVG draws the container for cfg at the state's rotation and every
// body filled with its color tag, on a w×h canvas centered on the origin.
func StateToSVG(st physics.State, cfg config.Simulation, w, h float64) string {
	var sb strings.Builder
	cx, cy := w/2, h/2

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background))

	model := physics.NewModel(&cfg)
	env := &physics.Env{Cfg: &cfg, Global: config.DefaultGlobal(), Width: w, Height: h}
	writeContainer(&sb, model.Boundary(&st, env), cx, cy)

	sb.WriteString("<g>\n")
	for _, b := range st.Bodies {
		if !b.Valid() {
			continue
		}
		fill := b.Tag
		if fill == "" {
			fill = physics.TagDefault
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, cx+b.Pos.X, cy+b.Pos.Y, b.Radius, fill))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func writeContainer(sb *strings.Builder, c physics.Container, cx, cy float64) {
	stroke := func(color string) string {
		return fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%.1f"`, color, strokeWidth)
	}

	switch c := c.(type) {
	case physics.Rect:
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>
`, cx-c.HalfW, cy-c.HalfH, 2*c.HalfW, 2*c.HalfH, stroke(wallColor)))
	case physics.Circle:
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" %s/>
`, cx, cy, c.R, stroke(wallColor)))
	case physics.DualRing:
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" %s/>
`, cx, cy, c.OuterR, stroke(wallColor)))
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" %s stroke-dasharray="6 4"/>
`, cx, cy, c.InnerR, stroke(innerColor)))
	case physics.Polygon:
		pts := make([]string, len(c.Verts))
		for i, v := range c.Verts {
			pts[i] = fmt.Sprintf("%.2f,%.2f", cx+v.X, cy+v.Y)
		}
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" %s/>
`, strings.Join(pts, " "), stroke(wallColor)))
	}
}

// SeriesToSVG plots values (one per frame) as a polyline scaled to fill the image.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, v := range values {
		p := dynamo.Vec2{
			X: float64(i) / rangeX * float64(width),
			Y: float64(height) - (v-minY)/rangeY*float64(height),
		}
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
