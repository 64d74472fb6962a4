package writer

import (
	"github.com/zha/honeybee-radiance/pkg/model"
	"github.com/zha/honeybee-radiance/pkg/modifier"
)

// modifierPair is a cloned (visible, blacked-out) modifier combination, both
// renamed to the combination key so they can be written into one folder.
type modifierPair struct {
	Visible *modifier.Modifier
	Blk     *modifier.Modifier
}

// categoryModifiers is everything the static writer needs to know about the
// materials of one category: the unique visible and blacked-out modifier
// lists plus the per-object combination lookup for blk-overridden geometry.
type categoryModifiers struct {
	mods    []*modifier.Modifier
	modsBlk []*modifier.Modifier
	combs   map[string]modifierPair
	names   []string // combination name per blk-overridden object, in object order
}

// uniqueModifiers returns the unique visible modifiers across objects in
// first-seen order.
func uniqueModifiers(objs []*model.Geometry) []*modifier.Modifier {
	set := modifier.NewSet()
	for _, o := range objs {
		set.Add(o.Modifier)
	}
	return set.Modifiers()
}

// blkCounterpart returns the blacked-out counterpart of a visible modifier:
// a black modifier renamed to its identifier when the material is opaque or
// the category requires always-black behavior, the modifier itself otherwise.
func blkCounterpart(mod *modifier.Modifier, forceBlack bool) *modifier.Modifier {
	if forceBlack || mod.IsOpaque() {
		return modifier.BlackFor(mod.Identifier)
	}
	return mod
}

// resolveBlk returns the blacked-out modifier of one geometry object,
// honoring an explicit override first. Sub-faces are always blacked since
// transparent openings are exactly what isolation studies switch off.
func resolveBlk(g *model.Geometry) *modifier.Modifier {
	if g.ModifierBlk != nil {
		return g.ModifierBlk
	}
	force := g.Kind == model.KindAperture || g.Kind == model.KindDoor
	return blkCounterpart(g.Modifier, force)
}

// uniqueModifierBlkCombinations groups blk-overridden objects by their
// (visible, blk) modifier pair. Each distinct pair yields exactly one cloned
// pair renamed to the synthetic combination key, and every object maps to its
// combination's name for later lookup. Clones are independently owned; the
// source model is never renamed.
func uniqueModifierBlkCombinations(objs []*model.Geometry) (map[string]modifierPair, []string) {
	combs := make(map[string]modifierPair)
	names := make([]string, 0, len(objs))
	for _, o := range objs {
		blk := resolveBlk(o)
		name := o.Modifier.Identifier + "_" + blk.Identifier
		names = append(names, name)
		if _, ok := combs[name]; ok {
			continue
		}
		vis := o.Modifier.Duplicate()
		vis.Identifier = name
		blkDup := blk.Duplicate()
		blkDup.Identifier = name
		combs[name] = modifierPair{Visible: vis, Blk: blkDup}
	}
	return combs, names
}

// collectModifiers derives the full modifier bookkeeping for one category.
// forceBlack notes that blk counterparts must be black regardless of opacity
// (the static aperture category).
func collectModifiers(geo, geoBlk []*model.Geometry, forceBlack bool) categoryModifiers {
	mods := uniqueModifiers(geo)
	modsBlk := make([]*modifier.Modifier, 0, len(mods))
	for _, mod := range mods {
		modsBlk = append(modsBlk, blkCounterpart(mod, forceBlack))
	}
	combs, names := uniqueModifierBlkCombinations(geoBlk)
	// map iteration order is not stable; walk the per-object names instead
	// so repeated compilations emit byte-identical files
	appended := make(map[string]bool, len(combs))
	for _, name := range names {
		if appended[name] {
			continue
		}
		appended[name] = true
		mods = append(mods, combs[name].Visible)
		modsBlk = append(modsBlk, combs[name].Blk)
	}
	return categoryModifiers{mods: mods, modsBlk: modsBlk, combs: combs, names: names}
}
