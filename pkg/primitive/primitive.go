// Package primitive renders Radiance scene-description primitives as text.
package primitive

import (
	"strconv"
	"strings"
)

// Point3 is a point in model space. Coordinates are meters.
type Point3 struct {
	X, Y, Z float64
}

// String returns the point as "x y z" with shortest exact formatting.
func (p Point3) String() string {
	return formatFloat(p.X) + " " + formatFloat(p.Y) + " " + formatFloat(p.Z)
}

// Vector3 is a direction in model space. It is not required to be normalized.
type Vector3 = Point3

// formatFloat renders a coordinate the way Radiance expects: plain decimal
// notation, no exponent, no trailing zeros.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}

// Polygon is a Radiance polygon primitive: an identifier, a modifier name and
// a list of boundary vertices.
type Polygon struct {
	Identifier string
	Modifier   string // name of the modifier; "void" when unmodified
	Vertices   []Point3
}

// NewPolygon returns a Polygon with the given modifier name. An empty modifier
// falls back to "void".
func NewPolygon(identifier, modifier string, vertices []Point3) Polygon {
	if modifier == "" {
		modifier = "void"
	}
	return Polygon{Identifier: identifier, Modifier: modifier, Vertices: vertices}
}

// ToRadiance renders the polygon block. When minimal is true the block is a
// single space-separated line instead of the line-broken diagnostic form.
func (p Polygon) ToRadiance(minimal bool) string {
	var b strings.Builder
	b.WriteString(p.Modifier)
	b.WriteString(" polygon ")
	b.WriteString(p.Identifier)
	args := make([]string, 0, len(p.Vertices))
	for _, v := range p.Vertices {
		args = append(args, v.String())
	}
	writeArgLines(&b, minimal, "0", "0", strconv.Itoa(len(p.Vertices)*3))
	for _, a := range args {
		if minimal {
			b.WriteString(" ")
			b.WriteString(a)
		} else {
			b.WriteString("\n    ")
			b.WriteString(a)
		}
	}
	return b.String()
}

// writeArgLines appends the three argument-count lines shared by all
// primitives, collapsed to spaces in the minimal form.
func writeArgLines(b *strings.Builder, minimal bool, lines ...string) {
	sep := "\n"
	if minimal {
		sep = " "
	}
	for _, l := range lines {
		b.WriteString(sep)
		b.WriteString(l)
	}
}
