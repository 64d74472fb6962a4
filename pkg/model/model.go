package model

import (
	"errors"
	"fmt"

	"github.com/zha/honeybee-radiance/pkg/modifier"
)

// Naming errors callers can match with errors.Is. Grid and view files are
// named after their display names, so a collision would silently overwrite
// another grid's or view's output.
var (
	ErrDuplicateGridName = errors.New("duplicate sensor grid display name")
	ErrDuplicateViewName = errors.New("duplicate view display name")
)

// Room owns a set of faces plus any indoor shades assigned to the room.
type Room struct {
	Identifier string
	Faces      []*Geometry
	Shades     []*Geometry
}

// Model is the root of the building graph handed to the folder writer. The
// writer treats it as an immutable snapshot: modifiers are cloned before any
// renaming and no writer mutates the graph.
type Model struct {
	Identifier string
	Rooms      []*Room

	// Free-standing geometry not hosted by any room.
	OrphanedFaces     []*Geometry
	OrphanedApertures []*Geometry
	OrphanedDoors     []*Geometry
	OrphanedShades    []*Geometry

	DynamicSubfaceGroups []*DynamicGroup
	DynamicShadeGroups   []*DynamicGroup

	SensorGrids []*SensorGrid
	Views       []*View
}

// Faces returns every static face in the model, room-hosted first.
func (m *Model) Faces() []*Geometry {
	var out []*Geometry
	for _, r := range m.Rooms {
		out = append(out, r.Faces...)
	}
	return append(out, m.OrphanedFaces...)
}

// Subfaces returns every static aperture and door, whether hosted in a face
// or free-standing.
func (m *Model) Subfaces() []*Geometry {
	var out []*Geometry
	for _, f := range m.Faces() {
		out = append(out, f.Apertures...)
		out = append(out, f.Doors...)
	}
	out = append(out, m.OrphanedApertures...)
	out = append(out, m.OrphanedDoors...)
	return out
}

// Shades returns every static shade: orphaned, room-assigned and the ones
// attached to faces and sub-faces.
func (m *Model) Shades() []*Geometry {
	var out []*Geometry
	for _, f := range m.Faces() {
		out = append(out, f.Shades...)
		for _, sub := range f.Apertures {
			out = append(out, sub.Shades...)
		}
		for _, sub := range f.Doors {
			out = append(out, sub.Shades...)
		}
	}
	for _, sub := range m.OrphanedApertures {
		out = append(out, sub.Shades...)
	}
	for _, sub := range m.OrphanedDoors {
		out = append(out, sub.Shades...)
	}
	for _, r := range m.Rooms {
		out = append(out, r.Shades...)
	}
	return append(out, m.OrphanedShades...)
}

// splitByBlk partitions objects into those using the category-default
// blacked-out modifier and those carrying an explicit override.
func splitByBlk(objs []*Geometry) (defaults, overridden []*Geometry) {
	for _, o := range objs {
		if o.HasBlkOverride() {
			overridden = append(overridden, o)
		} else {
			defaults = append(defaults, o)
		}
	}
	return defaults, overridden
}

// FacesByBlk returns the static faces split by blk override.
func (m *Model) FacesByBlk() (defaults, overridden []*Geometry) {
	return splitByBlk(m.Faces())
}

// SubfacesByBlk returns the static apertures and doors split by blk override.
func (m *Model) SubfacesByBlk() (defaults, overridden []*Geometry) {
	return splitByBlk(m.Subfaces())
}

// ShadesByBlk returns the static shades split by blk override.
func (m *Model) ShadesByBlk() (defaults, overridden []*Geometry) {
	return splitByBlk(m.Shades())
}

// BSDFModifiers returns every unique BSDF modifier referenced anywhere in the
// model, including dynamic group states.
func (m *Model) BSDFModifiers() []*modifier.Modifier {
	set := modifier.NewSet()
	add := func(mod *modifier.Modifier) {
		if mod != nil && mod.Kind == modifier.BSDF {
			set.Add(mod)
		}
	}
	var walk func(g *Geometry)
	walk = func(g *Geometry) {
		add(g.Modifier)
		add(g.ModifierBlk)
		for _, c := range g.children() {
			walk(c)
		}
	}
	for _, f := range m.Faces() {
		walk(f)
	}
	for _, s := range append(m.OrphanedApertures, m.OrphanedDoors...) {
		walk(s)
	}
	for _, r := range m.Rooms {
		for _, s := range r.Shades {
			walk(s)
		}
	}
	for _, s := range m.OrphanedShades {
		walk(s)
	}
	for _, grp := range append(m.DynamicSubfaceGroups, m.DynamicShadeGroups...) {
		for _, obj := range grp.Objects {
			add(obj.Geometry.Modifier)
			add(obj.Geometry.ModifierBlk)
			for _, st := range obj.States {
				add(st.Modifier)
				add(st.ModifierDirect)
			}
		}
	}
	return set.Modifiers()
}

// CheckDuplicateGridNames fails when two sensor grids share a display name.
func (m *Model) CheckDuplicateGridNames() error {
	seen := make(map[string]string, len(m.SensorGrids))
	for _, g := range m.SensorGrids {
		name := g.Name()
		if first, ok := seen[name]; ok {
			return fmt.Errorf("sensor grids %q and %q share display name %q: %w",
				first, g.Identifier, name, ErrDuplicateGridName)
		}
		seen[name] = g.Identifier
	}
	return nil
}

// CheckDuplicateViewNames fails when two views share a display name.
func (m *Model) CheckDuplicateViewNames() error {
	seen := make(map[string]string, len(m.Views))
	for _, v := range m.Views {
		name := v.Name()
		if first, ok := seen[name]; ok {
			return fmt.Errorf("views %q and %q share display name %q: %w",
				first, v.Identifier, name, ErrDuplicateViewName)
		}
		seen[name] = v.Identifier
	}
	return nil
}

// Validate checks the whole graph for the invariants the writer relies on.
func (m *Model) Validate() error {
	if m.Identifier == "" {
		return fmt.Errorf("model has no identifier")
	}
	for _, f := range m.Faces() {
		if err := f.validate(); err != nil {
			return err
		}
	}
	for _, s := range append(m.OrphanedApertures, m.OrphanedDoors...) {
		if err := s.validate(); err != nil {
			return err
		}
	}
	for _, r := range m.Rooms {
		for _, s := range r.Shades {
			if err := s.validate(); err != nil {
				return err
			}
		}
	}
	for _, s := range m.OrphanedShades {
		if err := s.validate(); err != nil {
			return err
		}
	}
	for _, grp := range append(m.DynamicSubfaceGroups, m.DynamicShadeGroups...) {
		if err := grp.Validate(); err != nil {
			return err
		}
	}
	return nil
}
