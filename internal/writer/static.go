package writer

import (
	"strings"

	"github.com/zha/honeybee-radiance/internal/folder"
	"github.com/zha/honeybee-radiance/pkg/model"
	"github.com/zha/honeybee-radiance/pkg/primitive"
)

// writeStaticFiles emits the three grouped files of one static category into
// dest: <fileID>.rad with the geometry, <fileID>.mat with the unique visible
// modifiers and <fileID>.blk with the unique blacked-out modifiers.
// Default-mode objects come first, blk-overridden objects second, each using
// its combination modifier. An empty category produces no files at all.
func writeStaticFiles(dest, fileID, relBSDF string, geo, geoBlk []*model.Geometry,
	cm categoryModifiers, punched, minimal bool) error {

	if len(geo) == 0 && len(geoBlk) == 0 {
		return nil
	}

	vertsOf := func(g *model.Geometry) []primitive.Point3 {
		if punched {
			return g.PunchedVertices()
		}
		return g.Vertices
	}

	geoBlocks := make([]string, 0, len(geo)+len(geoBlk))
	for _, g := range geo {
		poly := primitive.NewPolygon(g.Identifier, g.Modifier.Identifier, vertsOf(g))
		geoBlocks = append(geoBlocks, poly.ToRadiance(minimal))
	}
	for i, g := range geoBlk {
		comb := cm.combs[cm.names[i]]
		poly := primitive.NewPolygon(g.Identifier, comb.Visible.Identifier, vertsOf(g))
		geoBlocks = append(geoBlocks, poly.ToRadiance(minimal))
	}

	// BSDF definitions reference the copied resource, not the source file
	modBlocks := make([]string, 0, len(cm.mods))
	for _, mod := range cm.mods {
		modBlocks = append(modBlocks, mod.Rebase(relBSDF).ToRadiance(minimal))
	}
	modBlkBlocks := make([]string, 0, len(cm.modsBlk))
	for _, mod := range cm.modsBlk {
		modBlkBlocks = append(modBlkBlocks, mod.Rebase(relBSDF).ToRadiance(minimal))
	}

	if err := folder.WriteFileByName(dest, fileID+".rad", strings.Join(geoBlocks, "\n\n")); err != nil {
		return err
	}
	if err := folder.WriteFileByName(dest, fileID+".mat", strings.Join(modBlocks, "\n\n")); err != nil {
		return err
	}
	return folder.WriteFileByName(dest, fileID+".blk", strings.Join(modBlkBlocks, "\n\n"))
}
