package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zha/honeybee-radiance/pkg/primitive"
)

// ViewType is the Radiance projection type of a view.
type ViewType string

// Radiance view types.
const (
	ViewPerspective   ViewType = "v"
	ViewHemispherical ViewType = "h"
	ViewParallel      ViewType = "l"
	ViewCylindrical   ViewType = "c"
	ViewAngularFull   ViewType = "a"
	ViewStereographic ViewType = "s"
)

// View is a camera definition written as a .vf file plus an opaque info
// payload for downstream tooling.
type View struct {
	Identifier  string
	DisplayName string
	Type        ViewType
	Position    primitive.Point3
	Direction   primitive.Vector3
	Up          primitive.Vector3
	HSize       float64 // horizontal view size in degrees (or length for parallel views)
	VSize       float64 // vertical view size

	Info json.RawMessage
}

// Name returns the user-facing name, falling back to the identifier.
func (v *View) Name() string {
	if v.DisplayName != "" {
		return v.DisplayName
	}
	return v.Identifier
}

// ToRadiance renders the view as a single rvu/rpict option line.
func (v *View) ToRadiance() string {
	vt := v.Type
	if vt == "" {
		vt = ViewPerspective
	}
	up := v.Up
	if up == (primitive.Vector3{}) {
		up = primitive.Vector3{Z: 1}
	}
	h, vv := v.HSize, v.VSize
	if h == 0 {
		h = 60
	}
	if vv == 0 {
		vv = 60
	}
	parts := []string{
		"-vt" + string(vt),
		"-vp", v.Position.String(),
		"-vd", v.Direction.String(),
		"-vu", up.String(),
		"-vh", strconv.FormatFloat(h, 'f', -1, 64),
		"-vv", strconv.FormatFloat(vv, 'f', -1, 64),
	}
	return strings.Join(parts, " ")
}

// WriteFile writes <identifier>.vf into folder and returns its path.
func (v *View) WriteFile(folder string) (string, error) {
	path := filepath.Join(folder, v.Identifier+".vf")
	if err := os.WriteFile(path, []byte(v.ToRadiance()+"\n"), 0644); err != nil {
		return "", fmt.Errorf("writing view %q: %w", v.Identifier, err)
	}
	return path, nil
}

// InfoJSON returns the descriptor payload for the view: the caller-supplied
// payload verbatim, or a minimal generated one.
func (v *View) InfoJSON() ([]byte, error) {
	if len(v.Info) != 0 {
		return v.Info, nil
	}
	return json.MarshalIndent(map[string]any{
		"name":       v.Name(),
		"identifier": v.Identifier,
	}, "", "  ")
}
