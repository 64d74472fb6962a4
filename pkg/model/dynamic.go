package model

import (
	"fmt"
	"strings"

	"github.com/zha/honeybee-radiance/pkg/modifier"
	"github.com/zha/honeybee-radiance/pkg/primitive"
)

// State is one configuration of a dynamic group member. Index 0 of a member's
// state list is its default state; state ordering is the addressing key used
// by downstream state-index lookups and must be stable.
type State struct {
	Identifier string

	// Modifier is the material in this state. ModifierDirect, when non-nil,
	// replaces it in direct-only contribution studies.
	Modifier       *modifier.Modifier
	ModifierDirect *modifier.Modifier

	// Shades are extra geometry present only in this state.
	Shades []*Geometry

	// VmtxGeometry and DmtxGeometry override the member's base geometry
	// for the view and daylight matrix artifacts of the three-phase
	// method. Empty means the default matrix configuration.
	VmtxGeometry []*Geometry
	DmtxGeometry []*Geometry
}

// MtxsDefault reports whether the state uses the default matrix geometry for
// both the view and daylight matrices.
func (s *State) MtxsDefault() bool {
	return len(s.VmtxGeometry) == 0 && len(s.DmtxGeometry) == 0
}

// TmtxBSDF returns the state's transmission-matrix BSDF, or nil when the
// state carries no transmission data and cannot participate in three-phase
// simulation.
func (s *State) TmtxBSDF() *modifier.Modifier {
	if s.Modifier != nil && s.Modifier.Kind == modifier.BSDF {
		return s.Modifier
	}
	return nil
}

// directModifier returns the modifier for the direct variant of the state.
func (s *State) directModifier() *modifier.Modifier {
	if s.ModifierDirect != nil {
		return s.ModifierDirect
	}
	return s.Modifier
}

// DynamicObject is one geometry member of a dynamic group together with its
// ordered states.
type DynamicObject struct {
	Geometry *Geometry
	States   []*State
}

// DynamicGroup is an ordered set of mutually exclusive runtime states shared
// by one or more geometry objects under a single identifier.
type DynamicGroup struct {
	Identifier string
	IsIndoor   bool
	Objects    []*DynamicObject
}

// StateCount returns the number of states shared by the group's members.
func (g *DynamicGroup) StateCount() int {
	if len(g.Objects) == 0 {
		return 0
	}
	return len(g.Objects[0].States)
}

// Validate checks that the group is serializable: at least one member, at
// least one state, and an identical state count across members.
func (g *DynamicGroup) Validate() error {
	if g.Identifier == "" {
		return fmt.Errorf("dynamic group with empty identifier")
	}
	if len(g.Objects) == 0 {
		return fmt.Errorf("dynamic group %q has no geometry", g.Identifier)
	}
	count := len(g.Objects[0].States)
	if count == 0 {
		return fmt.Errorf("dynamic group %q has no states", g.Identifier)
	}
	for _, obj := range g.Objects {
		if err := obj.Geometry.validate(); err != nil {
			return fmt.Errorf("dynamic group %q: %w", g.Identifier, err)
		}
		if len(obj.States) != count {
			return fmt.Errorf("dynamic group %q: %q has %d states, expected %d",
				g.Identifier, obj.Geometry.Identifier, len(obj.States), count)
		}
		for i, st := range obj.States {
			if st.Modifier == nil {
				return fmt.Errorf("dynamic group %q: state %d of %q has no modifier",
					g.Identifier, i, obj.Geometry.Identifier)
			}
		}
	}
	return nil
}

// ToRadiance serializes one state of the whole group: the unique modifiers of
// the state followed by one polygon per member plus any state shades. The
// result is self-contained since dynamic folders carry no material files.
// bsdfDir, when non-empty, reroots transmission-data paths into that folder.
func (g *DynamicGroup) ToRadiance(stateIndex int, direct, minimal bool, bsdfDir string) (string, error) {
	if stateIndex < 0 || stateIndex >= g.StateCount() {
		return "", fmt.Errorf("dynamic group %q has no state %d", g.Identifier, stateIndex)
	}
	mods := modifier.NewSet()
	var blocks []string
	for _, obj := range g.Objects {
		st := obj.States[stateIndex]
		mod := st.Modifier
		if direct {
			mod = st.directModifier()
		}
		if mods.Add(mod) {
			blocks = append(blocks, mod.Rebase(bsdfDir).ToRadiance(minimal))
		}
		poly := primitive.NewPolygon(obj.Geometry.Identifier, mod.Identifier, obj.Geometry.Vertices)
		blocks = append(blocks, poly.ToRadiance(minimal))
		for _, shd := range st.Shades {
			if mods.Add(shd.Modifier) {
				blocks = append(blocks, shd.Modifier.Rebase(bsdfDir).ToRadiance(minimal))
			}
			sp := primitive.NewPolygon(shd.Identifier, shd.Modifier.Identifier, shd.Vertices)
			blocks = append(blocks, sp.ToRadiance(minimal))
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}

// BlkToRadiance serializes the shared blacked-out representation of the
// group. A sub-face's blacked representation does not vary by state, so one
// black modifier covers every member.
func (g *DynamicGroup) BlkToRadiance(minimal bool) string {
	blk := modifier.Black()
	blocks := []string{blk.ToRadiance(minimal)}
	for _, obj := range g.Objects {
		poly := primitive.NewPolygon(obj.Geometry.Identifier, blk.Identifier, obj.Geometry.Vertices)
		blocks = append(blocks, poly.ToRadiance(minimal))
	}
	return strings.Join(blocks, "\n\n")
}

// mtxToRadiance serializes the matrix geometry of one state, falling back to
// the member's base geometry for default states.
func (g *DynamicGroup) mtxToRadiance(stateIndex int, daylight, minimal bool, bsdfDir string) (string, error) {
	if stateIndex < 0 || stateIndex >= g.StateCount() {
		return "", fmt.Errorf("dynamic group %q has no state %d", g.Identifier, stateIndex)
	}
	mods := modifier.NewSet()
	var blocks []string
	for _, obj := range g.Objects {
		st := obj.States[stateIndex]
		geos := st.VmtxGeometry
		if daylight {
			geos = st.DmtxGeometry
		}
		if len(geos) == 0 {
			geos = []*Geometry{obj.Geometry}
		}
		for _, geo := range geos {
			mod := st.Modifier
			if geo.Modifier != nil && geo != obj.Geometry {
				mod = geo.Modifier
			}
			if mods.Add(mod) {
				blocks = append(blocks, mod.Rebase(bsdfDir).ToRadiance(minimal))
			}
			poly := primitive.NewPolygon(geo.Identifier, mod.Identifier, geo.Vertices)
			blocks = append(blocks, poly.ToRadiance(minimal))
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}

// VmtxToRadiance serializes the view-matrix geometry of one state.
func (g *DynamicGroup) VmtxToRadiance(stateIndex int, minimal bool, bsdfDir string) (string, error) {
	return g.mtxToRadiance(stateIndex, false, minimal, bsdfDir)
}

// DmtxToRadiance serializes the daylight-matrix geometry of one state.
func (g *DynamicGroup) DmtxToRadiance(stateIndex int, minimal bool, bsdfDir string) (string, error) {
	return g.mtxToRadiance(stateIndex, true, minimal, bsdfDir)
}

// TmtxBSDF returns the transmission-matrix BSDF of one state: the first
// member modifier carrying transmission data, or nil when the state cannot
// participate in three-phase simulation.
func (g *DynamicGroup) TmtxBSDF(stateIndex int) *modifier.Modifier {
	if stateIndex < 0 || stateIndex >= g.StateCount() {
		return nil
	}
	for _, obj := range g.Objects {
		if b := obj.States[stateIndex].TmtxBSDF(); b != nil {
			return b
		}
	}
	return nil
}

// MtxsDefault reports whether every state of every member uses the default
// matrix configuration, in which case one shared matrix file suffices for
// the whole group.
func (g *DynamicGroup) MtxsDefault() bool {
	for _, obj := range g.Objects {
		for _, st := range obj.States {
			if !st.MtxsDefault() {
				return false
			}
		}
	}
	return true
}

// StateRecord is the per-state entry of a group's states.json index. The
// writer fills the fields with root-relative paths; absent artifact kinds
// are omitted from the JSON, not set to null.
type StateRecord struct {
	Identifier string `json:"identifier,omitempty"`
	Default    string `json:"default,omitempty"`
	Direct     string `json:"direct,omitempty"`
	Black      string `json:"black,omitempty"`
	Tmtx       string `json:"tmtx,omitempty"`
	Vmtx       string `json:"vmtx,omitempty"`
	Dmtx       string `json:"dmtx,omitempty"`
}

// DefaultFileName returns the file name of one state's default-mode geometry.
func (g *DynamicGroup) DefaultFileName(stateIndex int) string {
	return fmt.Sprintf("%s..default..%d.rad", g.Identifier, stateIndex)
}

// DirectFileName returns the file name of one state's direct-mode geometry.
func (g *DynamicGroup) DirectFileName(stateIndex int) string {
	return fmt.Sprintf("%s..direct..%d.rad", g.Identifier, stateIndex)
}

// BlackFileName returns the file name of the group's shared blacked-out
// geometry (sub-face groups only).
func (g *DynamicGroup) BlackFileName() string {
	return fmt.Sprintf("%s..black.rad", g.Identifier)
}

// SharedMtxFileName returns the file name of the single matrix file used
// when every state reports the default matrix configuration.
func (g *DynamicGroup) SharedMtxFileName() string {
	return fmt.Sprintf("%s..mtx.rad", g.Identifier)
}

// VmtxFileName returns the per-state view-matrix file name.
func (g *DynamicGroup) VmtxFileName(stateIndex int) string {
	return fmt.Sprintf("%s..vmtx..%d.rad", g.Identifier, stateIndex)
}

// DmtxFileName returns the per-state daylight-matrix file name.
func (g *DynamicGroup) DmtxFileName(stateIndex int) string {
	return fmt.Sprintf("%s..dmtx..%d.rad", g.Identifier, stateIndex)
}

// StateIdentifier returns the optional name of one state, taken from the
// first member.
func (g *DynamicGroup) StateIdentifier(stateIndex int) string {
	if stateIndex < 0 || stateIndex >= g.StateCount() {
		return ""
	}
	return g.Objects[0].States[stateIndex].Identifier
}
