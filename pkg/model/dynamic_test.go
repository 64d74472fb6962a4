package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zha/honeybee-radiance/pkg/modifier"
)

func testGroup() *DynamicGroup {
	clear := &modifier.Modifier{Identifier: "clear", Kind: modifier.BSDF, BSDFFile: "clear.xml"}
	diffuse := &modifier.Modifier{Identifier: "diffuse", Kind: modifier.BSDF, BSDFFile: "diffuse.xml"}
	return &DynamicGroup{
		Identifier: "south_window",
		Objects: []*DynamicObject{
			{
				Geometry: NewAperture("ap_1", quad(), glassModifier("g")),
				States: []*State{
					{Identifier: "clear", Modifier: clear},
					{Identifier: "diffuse", Modifier: diffuse},
				},
			},
			{
				Geometry: NewAperture("ap_2", quad(), glassModifier("g")),
				States: []*State{
					{Modifier: clear},
					{Modifier: diffuse},
				},
			},
		},
	}
}

func TestGroupValidate(t *testing.T) {
	g := testGroup()
	assert.NoError(t, g.Validate())
	assert.Equal(t, 2, g.StateCount())

	t.Run("no geometry", func(t *testing.T) {
		bad := &DynamicGroup{Identifier: "g"}
		assert.Error(t, bad.Validate())
	})

	t.Run("no states", func(t *testing.T) {
		bad := testGroup()
		bad.Objects[0].States = nil
		assert.Error(t, bad.Validate())
	})

	t.Run("mismatched state counts", func(t *testing.T) {
		bad := testGroup()
		bad.Objects[1].States = bad.Objects[1].States[:1]
		err := bad.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ap_2")
	})

	t.Run("state without modifier", func(t *testing.T) {
		bad := testGroup()
		bad.Objects[0].States[1].Modifier = nil
		assert.Error(t, bad.Validate())
	})
}

func TestGroupToRadiance(t *testing.T) {
	g := testGroup()

	out, err := g.ToRadiance(0, false, false, "")
	require.NoError(t, err)

	// both members share one state modifier, so it appears once
	assert.Equal(t, 1, strings.Count(out, "void BSDF clear"))
	assert.Contains(t, out, "clear polygon ap_1")
	assert.Contains(t, out, "clear polygon ap_2")
	assert.NotContains(t, out, "diffuse")

	out, err = g.ToRadiance(1, false, false, "")
	require.NoError(t, err)
	assert.Contains(t, out, "diffuse polygon ap_1")

	_, err = g.ToRadiance(2, false, false, "")
	assert.Error(t, err, "out-of-range state index")
}

func TestGroupToRadianceDirect(t *testing.T) {
	g := testGroup()
	g.Objects[0].States[0].ModifierDirect = testModifier("direct_sub")
	g.Objects[1].States[0].ModifierDirect = testModifier("direct_sub")

	out, err := g.ToRadiance(0, true, false, "")
	require.NoError(t, err)
	assert.Contains(t, out, "direct_sub polygon ap_1")
	assert.NotContains(t, out, "void BSDF clear")

	// state 1 has no direct override, falls back to the state modifier
	out, err = g.ToRadiance(1, true, false, "")
	require.NoError(t, err)
	assert.Contains(t, out, "diffuse polygon ap_1")
}

func TestGroupToRadianceStateShades(t *testing.T) {
	g := testGroup()
	g.Objects[0].States[1].Shades = []*Geometry{
		NewShade("blind_slats", quad(), testModifier("slat_mod")),
	}

	out, err := g.ToRadiance(1, false, false, "")
	require.NoError(t, err)
	assert.Contains(t, out, "void plastic slat_mod")
	assert.Contains(t, out, "slat_mod polygon blind_slats")

	out, err = g.ToRadiance(0, false, false, "")
	require.NoError(t, err)
	assert.NotContains(t, out, "blind_slats", "shades belong to their state only")
}

func TestGroupToRadianceRebasesBSDF(t *testing.T) {
	g := testGroup()
	g.Objects[0].States[0].Modifier.BSDFFile = "/srv/resources/clear.xml"
	g.Objects[1].States[0].Modifier = g.Objects[0].States[0].Modifier

	out, err := g.ToRadiance(0, false, false, "model/bsdf")
	require.NoError(t, err)
	assert.Contains(t, out, "model/bsdf/clear.xml")
	assert.NotContains(t, out, "/srv/resources")
	assert.Equal(t, "/srv/resources/clear.xml", g.Objects[0].States[0].Modifier.BSDFFile,
		"source modifier stays untouched")
}

func TestGroupBlkToRadiance(t *testing.T) {
	g := testGroup()
	out := g.BlkToRadiance(false)

	assert.Equal(t, 1, strings.Count(out, "void plastic black"), "one shared black modifier")
	assert.Contains(t, out, "black polygon ap_1")
	assert.Contains(t, out, "black polygon ap_2")
}

func TestGroupMtxsDefault(t *testing.T) {
	g := testGroup()
	assert.True(t, g.MtxsDefault())

	g.Objects[1].States[1].VmtxGeometry = []*Geometry{
		NewAperture("ap_2_vmtx", quad(), glassModifier("g")),
	}
	assert.False(t, g.MtxsDefault())
}

func TestGroupMtxToRadiance(t *testing.T) {
	g := testGroup()

	// default configuration serializes the base geometry
	out, err := g.VmtxToRadiance(0, false, "")
	require.NoError(t, err)
	assert.Contains(t, out, "polygon ap_1")
	assert.Contains(t, out, "polygon ap_2")

	custom := NewAperture("ap_1_dmtx", quad(), glassModifier("g"))
	g.Objects[0].States[0].DmtxGeometry = []*Geometry{custom}
	out, err = g.DmtxToRadiance(0, false, "")
	require.NoError(t, err)
	assert.Contains(t, out, "polygon ap_1_dmtx")
	assert.NotContains(t, out, "polygon ap_1\n", "custom geometry replaces the base")
}

func TestGroupTmtxBSDF(t *testing.T) {
	g := testGroup()
	b := g.TmtxBSDF(0)
	require.NotNil(t, b)
	assert.Equal(t, "clear.xml", b.BSDFFile)

	assert.Nil(t, g.TmtxBSDF(5), "out of range")

	for _, obj := range g.Objects {
		obj.States[0].Modifier = glassModifier("g")
	}
	assert.Nil(t, g.TmtxBSDF(0), "no transmission data in state")
}

func TestGroupFileNames(t *testing.T) {
	g := testGroup()
	assert.Equal(t, "south_window..default..0.rad", g.DefaultFileName(0))
	assert.Equal(t, "south_window..direct..1.rad", g.DirectFileName(1))
	assert.Equal(t, "south_window..black.rad", g.BlackFileName())
	assert.Equal(t, "south_window..mtx.rad", g.SharedMtxFileName())
	assert.Equal(t, "south_window..vmtx..0.rad", g.VmtxFileName(0))
	assert.Equal(t, "south_window..dmtx..1.rad", g.DmtxFileName(1))
}

func TestGroupStateIdentifier(t *testing.T) {
	g := testGroup()
	assert.Equal(t, "clear", g.StateIdentifier(0))
	assert.Equal(t, "diffuse", g.StateIdentifier(1))
	assert.Equal(t, "", g.StateIdentifier(9))
}
