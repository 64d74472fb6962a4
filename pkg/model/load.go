package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zha/honeybee-radiance/pkg/modifier"
	"github.com/zha/honeybee-radiance/pkg/primitive"
)

// JSON transfer types. The schema mirrors the fields the writer consumes:
// identifiers, vertex lists, modifiers, boundary conditions, nested children,
// dynamic groups, grids and views.

type modifierJSON struct {
	Identifier string    `json:"identifier"`
	Type       string    `json:"type"`
	Values     []float64 `json:"values,omitempty"`
	BSDFFile   string    `json:"bsdf_file,omitempty"`
}

type boundaryJSON struct {
	Type           string `json:"type"`
	BoundaryObject string `json:"boundary_condition_object,omitempty"`
}

type geometryJSON struct {
	Identifier  string          `json:"identifier"`
	Vertices    [][3]float64    `json:"vertices"`
	Punched     [][3]float64    `json:"punched_vertices,omitempty"`
	Modifier    *modifierJSON   `json:"modifier"`
	ModifierBlk *modifierJSON   `json:"modifier_blk,omitempty"`
	Boundary    *boundaryJSON   `json:"boundary_condition,omitempty"`
	Shades      []*geometryJSON `json:"shades,omitempty"`
	Apertures   []*geometryJSON `json:"apertures,omitempty"`
	Doors       []*geometryJSON `json:"doors,omitempty"`
}

type stateJSON struct {
	Identifier     string          `json:"identifier,omitempty"`
	Modifier       *modifierJSON   `json:"modifier"`
	ModifierDirect *modifierJSON   `json:"modifier_direct,omitempty"`
	Shades         []*geometryJSON `json:"shades,omitempty"`
	VmtxGeometry   []*geometryJSON `json:"vmtx_geometry,omitempty"`
	DmtxGeometry   []*geometryJSON `json:"dmtx_geometry,omitempty"`
}

type dynamicObjectJSON struct {
	Geometry *geometryJSON `json:"geometry"`
	States   []*stateJSON  `json:"states"`
}

type dynamicGroupJSON struct {
	Identifier string               `json:"identifier"`
	IsIndoor   bool                 `json:"is_indoor,omitempty"`
	Objects    []*dynamicObjectJSON `json:"objects"`
}

type sensorJSON struct {
	Position  [3]float64 `json:"pos"`
	Direction [3]float64 `json:"dir"`
}

type gridJSON struct {
	Identifier  string          `json:"identifier"`
	DisplayName string          `json:"display_name,omitempty"`
	Sensors     []sensorJSON    `json:"sensors"`
	Info        json.RawMessage `json:"info,omitempty"`
}

type viewJSON struct {
	Identifier  string          `json:"identifier"`
	DisplayName string          `json:"display_name,omitempty"`
	Type        string          `json:"view_type,omitempty"`
	Position    [3]float64      `json:"position"`
	Direction   [3]float64      `json:"direction"`
	Up          [3]float64      `json:"up_vector,omitempty"`
	HSize       float64         `json:"h_size,omitempty"`
	VSize       float64         `json:"v_size,omitempty"`
	Info        json.RawMessage `json:"info,omitempty"`
}

type roomJSON struct {
	Identifier string          `json:"identifier"`
	Faces      []*geometryJSON `json:"faces"`
	Shades     []*geometryJSON `json:"shades,omitempty"`
}

type modelJSON struct {
	Identifier           string              `json:"identifier"`
	Rooms                []*roomJSON         `json:"rooms,omitempty"`
	OrphanedFaces        []*geometryJSON     `json:"orphaned_faces,omitempty"`
	OrphanedApertures    []*geometryJSON     `json:"orphaned_apertures,omitempty"`
	OrphanedDoors        []*geometryJSON     `json:"orphaned_doors,omitempty"`
	OrphanedShades       []*geometryJSON     `json:"orphaned_shades,omitempty"`
	DynamicSubfaceGroups []*dynamicGroupJSON `json:"dynamic_subface_groups,omitempty"`
	DynamicShadeGroups   []*dynamicGroupJSON `json:"dynamic_shade_groups,omitempty"`
	SensorGrids          []*gridJSON         `json:"sensor_grids,omitempty"`
	Views                []*viewJSON         `json:"views,omitempty"`
}

// loader resolves modifiers while decoding so that repeated occurrences of
// one definition map to a single shared instance. This keeps the writer's
// identity fast path effective for models round-tripped through JSON.
type loader struct {
	mods map[string]*modifier.Modifier
}

func (l *loader) modifier(mj *modifierJSON) (*modifier.Modifier, error) {
	if mj == nil {
		return nil, nil
	}
	if mj.Identifier == "" {
		return nil, fmt.Errorf("modifier with empty identifier")
	}
	mod := &modifier.Modifier{
		Identifier: mj.Identifier,
		Kind:       modifier.Kind(mj.Type),
		Values:     mj.Values,
		BSDFFile:   mj.BSDFFile,
	}
	if seen, ok := l.mods[mj.Identifier]; ok {
		if !seen.Equal(mod) {
			return nil, fmt.Errorf("modifier %q defined twice with different parameters", mj.Identifier)
		}
		return seen, nil
	}
	l.mods[mj.Identifier] = mod
	return mod, nil
}

func points(rows [][3]float64) []primitive.Point3 {
	if len(rows) == 0 {
		return nil
	}
	out := make([]primitive.Point3, len(rows))
	for i, r := range rows {
		out[i] = primitive.Point3{X: r[0], Y: r[1], Z: r[2]}
	}
	return out
}

func (l *loader) geometry(gj *geometryJSON, kind Kind) (*Geometry, error) {
	if gj == nil {
		return nil, fmt.Errorf("missing geometry object")
	}
	mod, err := l.modifier(gj.Modifier)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, gj.Identifier, err)
	}
	if mod == nil {
		return nil, fmt.Errorf("%s %q has no modifier", kind, gj.Identifier)
	}
	blk, err := l.modifier(gj.ModifierBlk)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, gj.Identifier, err)
	}
	g := &Geometry{
		Kind:        kind,
		Identifier:  gj.Identifier,
		Vertices:    points(gj.Vertices),
		Punched:     points(gj.Punched),
		Modifier:    mod,
		ModifierBlk: blk,
		Boundary:    Boundary{Type: Outdoors},
	}
	if gj.Boundary != nil {
		g.Boundary = Boundary{
			Type:    BoundaryType(gj.Boundary.Type),
			Partner: gj.Boundary.BoundaryObject,
		}
	}
	for _, sj := range gj.Shades {
		shd, err := l.geometry(sj, KindShade)
		if err != nil {
			return nil, err
		}
		g.Shades = append(g.Shades, shd)
	}
	if kind == KindFace {
		for _, aj := range gj.Apertures {
			ap, err := l.geometry(aj, KindAperture)
			if err != nil {
				return nil, err
			}
			g.Apertures = append(g.Apertures, ap)
		}
		for _, dj := range gj.Doors {
			dr, err := l.geometry(dj, KindDoor)
			if err != nil {
				return nil, err
			}
			g.Doors = append(g.Doors, dr)
		}
	}
	return g, nil
}

func (l *loader) geometries(gjs []*geometryJSON, kind Kind) ([]*Geometry, error) {
	out := make([]*Geometry, 0, len(gjs))
	for _, gj := range gjs {
		g, err := l.geometry(gj, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (l *loader) group(gj *dynamicGroupJSON, kind Kind) (*DynamicGroup, error) {
	grp := &DynamicGroup{Identifier: gj.Identifier, IsIndoor: gj.IsIndoor}
	for _, oj := range gj.Objects {
		geo, err := l.geometry(oj.Geometry, kind)
		if err != nil {
			return nil, fmt.Errorf("dynamic group %q: %w", gj.Identifier, err)
		}
		obj := &DynamicObject{Geometry: geo}
		for i, sj := range oj.States {
			mod, err := l.modifier(sj.Modifier)
			if err != nil {
				return nil, fmt.Errorf("dynamic group %q state %d: %w", gj.Identifier, i, err)
			}
			direct, err := l.modifier(sj.ModifierDirect)
			if err != nil {
				return nil, fmt.Errorf("dynamic group %q state %d: %w", gj.Identifier, i, err)
			}
			st := &State{Identifier: sj.Identifier, Modifier: mod, ModifierDirect: direct}
			if st.Shades, err = l.geometries(sj.Shades, KindShade); err != nil {
				return nil, err
			}
			if st.VmtxGeometry, err = l.geometries(sj.VmtxGeometry, kind); err != nil {
				return nil, err
			}
			if st.DmtxGeometry, err = l.geometries(sj.DmtxGeometry, kind); err != nil {
				return nil, err
			}
			obj.States = append(obj.States, st)
		}
		grp.Objects = append(grp.Objects, obj)
	}
	return grp, nil
}

// FromJSON decodes a model from its JSON document and validates the graph.
func FromJSON(data []byte) (*Model, error) {
	var mj modelJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return nil, fmt.Errorf("parsing model JSON: %w", err)
	}
	l := &loader{mods: make(map[string]*modifier.Modifier)}
	m := &Model{Identifier: mj.Identifier}
	var err error

	for _, rj := range mj.Rooms {
		room := &Room{Identifier: rj.Identifier}
		if room.Faces, err = l.geometries(rj.Faces, KindFace); err != nil {
			return nil, fmt.Errorf("room %q: %w", rj.Identifier, err)
		}
		if room.Shades, err = l.geometries(rj.Shades, KindShade); err != nil {
			return nil, fmt.Errorf("room %q: %w", rj.Identifier, err)
		}
		m.Rooms = append(m.Rooms, room)
	}
	if m.OrphanedFaces, err = l.geometries(mj.OrphanedFaces, KindFace); err != nil {
		return nil, err
	}
	if m.OrphanedApertures, err = l.geometries(mj.OrphanedApertures, KindAperture); err != nil {
		return nil, err
	}
	if m.OrphanedDoors, err = l.geometries(mj.OrphanedDoors, KindDoor); err != nil {
		return nil, err
	}
	if m.OrphanedShades, err = l.geometries(mj.OrphanedShades, KindShade); err != nil {
		return nil, err
	}
	for _, gj := range mj.DynamicSubfaceGroups {
		grp, err := l.group(gj, KindAperture)
		if err != nil {
			return nil, err
		}
		m.DynamicSubfaceGroups = append(m.DynamicSubfaceGroups, grp)
	}
	for _, gj := range mj.DynamicShadeGroups {
		grp, err := l.group(gj, KindShade)
		if err != nil {
			return nil, err
		}
		m.DynamicShadeGroups = append(m.DynamicShadeGroups, grp)
	}
	for _, gj := range mj.SensorGrids {
		grid := &SensorGrid{Identifier: gj.Identifier, DisplayName: gj.DisplayName, Info: gj.Info}
		for _, sj := range gj.Sensors {
			grid.Sensors = append(grid.Sensors, Sensor{
				Position:  primitive.Point3{X: sj.Position[0], Y: sj.Position[1], Z: sj.Position[2]},
				Direction: primitive.Vector3{X: sj.Direction[0], Y: sj.Direction[1], Z: sj.Direction[2]},
			})
		}
		m.SensorGrids = append(m.SensorGrids, grid)
	}
	for _, vj := range mj.Views {
		m.Views = append(m.Views, &View{
			Identifier:  vj.Identifier,
			DisplayName: vj.DisplayName,
			Type:        ViewType(vj.Type),
			Position:    primitive.Point3{X: vj.Position[0], Y: vj.Position[1], Z: vj.Position[2]},
			Direction:   primitive.Vector3{X: vj.Direction[0], Y: vj.Direction[1], Z: vj.Direction[2]},
			Up:          primitive.Vector3{X: vj.Up[0], Y: vj.Up[1], Z: vj.Up[2]},
			HSize:       vj.HSize,
			VSize:       vj.VSize,
			Info:        vj.Info,
		})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads and decodes a model JSON file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return FromJSON(data)
}
