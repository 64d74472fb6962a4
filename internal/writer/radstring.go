package writer

import (
	"strings"

	"github.com/zha/honeybee-radiance/pkg/model"
	"github.com/zha/honeybee-radiance/pkg/modifier"
	"github.com/zha/honeybee-radiance/pkg/primitive"
)

// This file is the geometry serializer: pure string production from one
// geometry object and its resolved modifier, recursing into attached
// sub-objects. No side effects.

// geoModifier resolves the modifier for one object in the requested mode.
func geoModifier(g *model.Geometry, blk bool) *modifier.Modifier {
	if blk {
		return resolveBlk(g)
	}
	return g.Modifier
}

// ShadeToRad renders one shade block. Modifier definitions are not included.
func ShadeToRad(shade *model.Geometry, blk, minimal bool) string {
	mod := geoModifier(shade, blk)
	poly := primitive.NewPolygon(shade.Identifier, mod.Identifier, shade.Vertices)
	return poly.ToRadiance(minimal)
}

// DoorToRad renders a door block plus any shades assigned to the door.
func DoorToRad(door *model.Geometry, blk, minimal bool) string {
	mod := geoModifier(door, blk)
	poly := primitive.NewPolygon(door.Identifier, mod.Identifier, door.Vertices)
	blocks := []string{poly.ToRadiance(minimal)}
	for _, shd := range door.Shades {
		blocks = append(blocks, ShadeToRad(shd, blk, minimal))
	}
	return strings.Join(blocks, "\n\n")
}

// ApertureToRad renders an aperture block plus any shades assigned to it.
func ApertureToRad(ap *model.Geometry, blk, minimal bool) string {
	mod := geoModifier(ap, blk)
	poly := primitive.NewPolygon(ap.Identifier, mod.Identifier, ap.Vertices)
	blocks := []string{poly.ToRadiance(minimal)}
	for _, shd := range ap.Shades {
		blocks = append(blocks, ShadeToRad(shd, blk, minimal))
	}
	return strings.Join(blocks, "\n\n")
}

// FaceToRad renders a face with punched vertices (openings cut out) followed
// by its shades, doors and apertures, all resolved against the same blk mode.
func FaceToRad(face *model.Geometry, blk, minimal bool) string {
	mod := geoModifier(face, blk)
	poly := primitive.NewPolygon(face.Identifier, mod.Identifier, face.PunchedVertices())
	blocks := []string{poly.ToRadiance(minimal)}
	for _, shd := range face.Shades {
		blocks = append(blocks, ShadeToRad(shd, blk, minimal))
	}
	for _, dr := range face.Doors {
		blocks = append(blocks, DoorToRad(dr, blk, minimal))
	}
	for _, ap := range face.Apertures {
		blocks = append(blocks, ApertureToRad(ap, blk, minimal))
	}
	return strings.Join(blocks, "\n\n")
}

// RoomToRad renders all faces and shades of a room. Only the default state of
// dynamic geometry appears since groups are serialized separately.
func RoomToRad(room *model.Room, blk, minimal bool) string {
	var blocks []string
	for _, face := range room.Faces {
		blocks = append(blocks, FaceToRad(face, blk, minimal))
	}
	for _, shd := range room.Shades {
		blocks = append(blocks, ShadeToRad(shd, blk, minimal))
	}
	return strings.Join(blocks, "\n\n")
}

// ModelToRad renders the whole model as two strings: the geometry blocks and
// the modifier definitions. Faces and sub-faces participating in a shared
// surface boundary appear exactly once, keyed by whichever side is iterated
// first.
func ModelToRad(m *model.Model, blk, minimal bool) (geometry, modifiers string) {
	modSet := modifier.NewSet()
	modBlocks := []string{"#   ============== MODIFIERS ==============\n"}
	collect := func(objs []*model.Geometry) {
		var walk func(g *model.Geometry)
		walk = func(g *model.Geometry) {
			if mod := geoModifier(g, blk); modSet.Add(mod) {
				modBlocks = append(modBlocks, mod.ToRadiance(minimal))
			}
			for _, shd := range g.Shades {
				walk(shd)
			}
			for _, dr := range g.Doors {
				walk(dr)
			}
			for _, ap := range g.Apertures {
				walk(ap)
			}
		}
		for _, o := range objs {
			walk(o)
		}
	}

	geoBlocks := []string{"#   ================ MODEL ================\n"}
	if faces := filterBoundaryPairs(m.Faces()); len(faces) != 0 {
		geoBlocks = append(geoBlocks, "#   ================ FACES ================\n")
		collect(faces)
		for _, face := range faces {
			geoBlocks = append(geoBlocks, FaceToRad(face, blk, minimal))
		}
	}
	if aps := filterBoundaryPairs(m.OrphanedApertures); len(aps) != 0 {
		geoBlocks = append(geoBlocks, "#   ============== APERTURES ==============\n")
		collect(aps)
		for _, ap := range aps {
			geoBlocks = append(geoBlocks, ApertureToRad(ap, blk, minimal))
		}
	}
	if drs := filterBoundaryPairs(m.OrphanedDoors); len(drs) != 0 {
		geoBlocks = append(geoBlocks, "#   ================ DOORS ================\n")
		collect(drs)
		for _, dr := range drs {
			geoBlocks = append(geoBlocks, DoorToRad(dr, blk, minimal))
		}
	}
	var roomShades []*model.Geometry
	for _, room := range m.Rooms {
		roomShades = append(roomShades, room.Shades...)
	}
	if len(roomShades) != 0 {
		geoBlocks = append(geoBlocks, "#   ============== ROOM SHADES ==============\n")
		collect(roomShades)
		for _, shd := range roomShades {
			geoBlocks = append(geoBlocks, ShadeToRad(shd, blk, minimal))
		}
	}
	if len(m.OrphanedShades) != 0 {
		geoBlocks = append(geoBlocks, "#   ============= CONTEXT SHADES =============\n")
		collect(m.OrphanedShades)
		for _, shd := range m.OrphanedShades {
			geoBlocks = append(geoBlocks, ShadeToRad(shd, blk, minimal))
		}
	}
	return strings.Join(geoBlocks, "\n\n"), strings.Join(modBlocks, "\n\n")
}

// filterBoundaryPairs drops the second occurrence of every shared surface
// boundary pair. The returned slice is a read-only partition computed before
// any writer runs, so phase fan-out needs no lock.
func filterBoundaryPairs(objs []*model.Geometry) []*model.Geometry {
	skip := make(map[string]struct{})
	out := make([]*model.Geometry, 0, len(objs))
	for _, o := range objs {
		if o.Boundary.IsSurface() {
			if _, seen := skip[o.Identifier]; seen {
				continue
			}
			skip[o.Boundary.Partner] = struct{}{}
		}
		out = append(out, o)
	}
	return out
}
