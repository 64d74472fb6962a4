package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zha/honeybee-radiance/pkg/modifier"
)

const sampleModelJSON = `{
  "identifier": "sample",
  "rooms": [
    {
      "identifier": "room_1",
      "faces": [
        {
          "identifier": "room_1..south",
          "vertices": [[0,0,0],[4,0,0],[4,0,3],[0,0,3]],
          "punched_vertices": [[0,0,0],[4,0,0],[4,0,3],[0,0,3],[1,0,1]],
          "modifier": {"identifier": "generic_wall", "type": "plastic", "values": [0.5,0.5,0.5,0,0]},
          "apertures": [
            {
              "identifier": "room_1..window",
              "vertices": [[1,0,1],[3,0,1],[3,0,2],[1,0,2]],
              "modifier": {"identifier": "generic_glass", "type": "glass", "values": [0.96,0.96,0.96]}
            }
          ]
        },
        {
          "identifier": "room_1..east",
          "vertices": [[4,0,0],[4,4,0],[4,4,3],[4,0,3]],
          "modifier": {"identifier": "generic_wall", "type": "plastic", "values": [0.5,0.5,0.5,0,0]},
          "boundary_condition": {"type": "Surface", "boundary_condition_object": "room_2..west"}
        }
      ]
    }
  ],
  "orphaned_shades": [
    {
      "identifier": "tree",
      "vertices": [[10,0,0],[11,0,0],[10.5,0,4]],
      "modifier": {"identifier": "generic_shade", "type": "plastic", "values": [0.2,0.2,0.2,0,0]}
    }
  ],
  "dynamic_subface_groups": [
    {
      "identifier": "south_window",
      "objects": [
        {
          "geometry": {
            "identifier": "dyn_ap",
            "vertices": [[0,4,1],[2,4,1],[2,4,2],[0,4,2]],
            "modifier": {"identifier": "generic_glass", "type": "glass", "values": [0.96,0.96,0.96]}
          },
          "states": [
            {"identifier": "clear", "modifier": {"identifier": "clear_bsdf", "type": "BSDF", "bsdf_file": "clear.xml"}},
            {"identifier": "diffuse", "modifier": {"identifier": "diffuse_bsdf", "type": "BSDF", "bsdf_file": "diffuse.xml"}}
          ]
        }
      ]
    }
  ],
  "sensor_grids": [
    {
      "identifier": "office",
      "display_name": "Office",
      "sensors": [{"pos": [0.5,0.5,0.76], "dir": [0,0,1]}]
    }
  ],
  "views": [
    {
      "identifier": "corner",
      "view_type": "v",
      "position": [5,5,1.6],
      "direction": [-1,-1,0],
      "up_vector": [0,0,1],
      "h_size": 60,
      "v_size": 60
    }
  ]
}`

func TestFromJSON(t *testing.T) {
	m, err := FromJSON([]byte(sampleModelJSON))
	require.NoError(t, err)

	assert.Equal(t, "sample", m.Identifier)
	require.Len(t, m.Rooms, 1)
	require.Len(t, m.Rooms[0].Faces, 2)

	south := m.Rooms[0].Faces[0]
	assert.Equal(t, KindFace, south.Kind)
	assert.Len(t, south.Vertices, 4)
	assert.Len(t, south.Punched, 5)
	require.Len(t, south.Apertures, 1)
	assert.Equal(t, KindAperture, south.Apertures[0].Kind)
	assert.Equal(t, modifier.Glass, south.Apertures[0].Modifier.Kind)

	east := m.Rooms[0].Faces[1]
	assert.True(t, east.Boundary.IsSurface())
	assert.Equal(t, "room_2..west", east.Boundary.Partner)
	assert.Equal(t, Outdoors, south.Boundary.Type, "missing boundary defaults to outdoors")

	require.Len(t, m.DynamicSubfaceGroups, 1)
	grp := m.DynamicSubfaceGroups[0]
	assert.Equal(t, 2, grp.StateCount())
	assert.Equal(t, "clear.xml", grp.TmtxBSDF(0).BSDFFile)

	require.Len(t, m.SensorGrids, 1)
	assert.Equal(t, "Office", m.SensorGrids[0].Name())
	require.Len(t, m.Views, 1)
	assert.Equal(t, ViewPerspective, m.Views[0].Type)
}

func TestFromJSONSharesModifierInstances(t *testing.T) {
	m, err := FromJSON([]byte(sampleModelJSON))
	require.NoError(t, err)

	// generic_wall appears on two faces; the loader must hand out one
	// instance so the writer's identity fast path fires
	wall1 := m.Rooms[0].Faces[0].Modifier
	wall2 := m.Rooms[0].Faces[1].Modifier
	assert.Same(t, wall1, wall2)
}

func TestFromJSONConflictingModifier(t *testing.T) {
	data := `{
	  "identifier": "bad",
	  "orphaned_shades": [
	    {"identifier": "a", "vertices": [[0,0,0],[1,0,0],[0,1,0]],
	     "modifier": {"identifier": "m", "type": "plastic", "values": [0.5,0.5,0.5,0,0]}},
	    {"identifier": "b", "vertices": [[0,0,0],[1,0,0],[0,1,0]],
	     "modifier": {"identifier": "m", "type": "plastic", "values": [0.9,0.9,0.9,0,0]}}
	  ]
	}`
	_, err := FromJSON([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined twice")
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte(`{`))
	assert.Error(t, err)

	// decodes but fails graph validation: no modifier
	_, err = FromJSON([]byte(`{
	  "identifier": "bad",
	  "orphaned_faces": [{"identifier": "f", "vertices": [[0,0,0],[1,0,0],[0,1,0]]}]
	}`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleModelJSON), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", m.Identifier)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
