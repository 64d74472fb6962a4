package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zha/honeybee-radiance/pkg/primitive"
)

// Sensor is one measurement point of a sensor grid: a position and a
// direction the sensor faces.
type Sensor struct {
	Position  primitive.Point3
	Direction primitive.Vector3
}

// SensorGrid is a set of sensors written as a .pts file plus an opaque info
// payload consumed by downstream visualization tooling.
type SensorGrid struct {
	Identifier  string
	DisplayName string
	Sensors     []Sensor

	// Info is written verbatim as <identifier>.json next to the .pts
	// file. When empty a minimal payload is generated.
	Info json.RawMessage
}

// Name returns the user-facing name, falling back to the identifier.
func (g *SensorGrid) Name() string {
	if g.DisplayName != "" {
		return g.DisplayName
	}
	return g.Identifier
}

// ToRadiance renders the grid as sensor rows: "x y z dx dy dz", one per line.
func (g *SensorGrid) ToRadiance() string {
	rows := make([]string, len(g.Sensors))
	for i, s := range g.Sensors {
		rows[i] = s.Position.String() + " " + s.Direction.String()
	}
	return strings.Join(rows, "\n")
}

// WriteFile writes <identifier>.pts into folder and returns its path.
func (g *SensorGrid) WriteFile(folder string) (string, error) {
	path := filepath.Join(folder, g.Identifier+".pts")
	if err := os.WriteFile(path, []byte(g.ToRadiance()+"\n"), 0644); err != nil {
		return "", fmt.Errorf("writing sensor grid %q: %w", g.Identifier, err)
	}
	return path, nil
}

// InfoJSON returns the descriptor payload for the grid: the caller-supplied
// payload verbatim, or a minimal generated one.
func (g *SensorGrid) InfoJSON() ([]byte, error) {
	if len(g.Info) != 0 {
		return g.Info, nil
	}
	return json.MarshalIndent(map[string]any{
		"name":       g.Name(),
		"identifier": g.Identifier,
		"count":      len(g.Sensors),
	}, "", "  ")
}
