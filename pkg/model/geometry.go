// Package model holds the in-memory building-geometry graph consumed by the
// radiance folder writer: rooms, faces, sub-faces, shades, dynamic groups,
// sensor grids and views.
package model

import (
	"fmt"

	"github.com/zha/honeybee-radiance/pkg/modifier"
	"github.com/zha/honeybee-radiance/pkg/primitive"
)

// Kind tags the closed set of geometry variants.
type Kind uint8

// Geometry kinds.
const (
	KindFace Kind = iota
	KindAperture
	KindDoor
	KindShade
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFace:
		return "Face"
	case KindAperture:
		return "Aperture"
	case KindDoor:
		return "Door"
	case KindShade:
		return "Shade"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// BoundaryType describes what a face or sub-face borders.
type BoundaryType string

// Boundary condition types.
const (
	Outdoors BoundaryType = "Outdoors"
	Ground   BoundaryType = "Ground"
	Surface  BoundaryType = "Surface"
)

// Boundary is a geometry object's boundary condition. For Surface boundaries
// Partner names the paired object on the other side; at most one of a
// boundary pair is ever serialized.
type Boundary struct {
	Type    BoundaryType
	Partner string
}

// IsSurface reports whether this is an interior (two-sided) boundary.
func (b Boundary) IsSurface() bool {
	return b.Type == Surface && b.Partner != ""
}

// Geometry is one node of the model graph: a face, aperture, door or shade.
// Faces may carry apertures, doors and shades; apertures and doors may carry
// shades. The kind tag closes the variant set so one serialization function
// can dispatch over it.
type Geometry struct {
	Kind       Kind
	Identifier string
	Vertices   []primitive.Point3

	// Punched holds the face boundary with openings cut out. Empty means
	// the face has no openings and Vertices should be used. Only
	// meaningful for KindFace.
	Punched []primitive.Point3

	// Modifier is the visible material. ModifierBlk, when non-nil,
	// overrides the category-default blacked-out counterpart.
	Modifier    *modifier.Modifier
	ModifierBlk *modifier.Modifier

	Boundary Boundary

	Shades    []*Geometry
	Apertures []*Geometry // faces only
	Doors     []*Geometry // faces only
}

// NewFace returns a face with the given boundary vertices and modifier.
func NewFace(identifier string, vertices []primitive.Point3, mod *modifier.Modifier) *Geometry {
	return &Geometry{Kind: KindFace, Identifier: identifier, Vertices: vertices,
		Modifier: mod, Boundary: Boundary{Type: Outdoors}}
}

// NewAperture returns an aperture with the given vertices and modifier.
func NewAperture(identifier string, vertices []primitive.Point3, mod *modifier.Modifier) *Geometry {
	return &Geometry{Kind: KindAperture, Identifier: identifier, Vertices: vertices,
		Modifier: mod, Boundary: Boundary{Type: Outdoors}}
}

// NewDoor returns a door with the given vertices and modifier.
func NewDoor(identifier string, vertices []primitive.Point3, mod *modifier.Modifier) *Geometry {
	return &Geometry{Kind: KindDoor, Identifier: identifier, Vertices: vertices,
		Modifier: mod, Boundary: Boundary{Type: Outdoors}}
}

// NewShade returns a shade with the given vertices and modifier.
func NewShade(identifier string, vertices []primitive.Point3, mod *modifier.Modifier) *Geometry {
	return &Geometry{Kind: KindShade, Identifier: identifier, Vertices: vertices, Modifier: mod}
}

// PunchedVertices returns the face boundary with openings removed, falling
// back to the full boundary for geometry without openings.
func (g *Geometry) PunchedVertices() []primitive.Point3 {
	if len(g.Punched) != 0 {
		return g.Punched
	}
	return g.Vertices
}

// HasBlkOverride reports whether the object carries an explicit blacked-out
// modifier instead of the category default.
func (g *Geometry) HasBlkOverride() bool {
	return g.ModifierBlk != nil
}

// validate checks the node and its children for the invariants the writer
// relies on: every object has an identifier, vertices and a modifier.
func (g *Geometry) validate() error {
	if g.Identifier == "" {
		return fmt.Errorf("%s geometry with empty identifier", g.Kind)
	}
	if len(g.Vertices) < 3 {
		return fmt.Errorf("%s %q: %d vertices, need at least 3", g.Kind, g.Identifier, len(g.Vertices))
	}
	if g.Modifier == nil {
		return fmt.Errorf("%s %q has no modifier", g.Kind, g.Identifier)
	}
	for _, child := range g.children() {
		if err := child.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Geometry) children() []*Geometry {
	n := len(g.Shades) + len(g.Apertures) + len(g.Doors)
	if n == 0 {
		return nil
	}
	out := make([]*Geometry, 0, n)
	out = append(out, g.Shades...)
	out = append(out, g.Doors...)
	out = append(out, g.Apertures...)
	return out
}
