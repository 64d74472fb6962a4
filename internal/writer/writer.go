// Package writer compiles a building model into a radiance scene folder: a
// canonical, deduplicated directory tree of scene-description artifacts
// consumed by the simulation engine.
package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/zha/honeybee-radiance/internal/folder"
	"github.com/zha/honeybee-radiance/internal/logger"
	"github.com/zha/honeybee-radiance/pkg/model"
)

// Compilation errors. Structural and configuration errors abort the whole
// compilation: a simulation run against an incomplete folder can produce
// silently wrong physical results.
var (
	// ErrIndoorSubfaceGroup rejects dynamic interior aperture and door
	// groups, whose correct handling needs a light-path model that is not
	// implemented.
	ErrIndoorSubfaceGroup = errors.New("dynamic interior sub-face groups are not supported")

	// ErrMissingBSDF reports a referenced transmission-data file that does
	// not exist at copy time.
	ErrMissingBSDF = errors.New("referenced BSDF file does not exist")
)

// Options control a compilation pass.
type Options struct {
	// Minimal switches geometry and modifier blocks to the compact
	// single-line form.
	Minimal bool

	// Workers > 1 fans the static categories out on a small worker pool.
	// The categories write to disjoint files and read only immutable
	// snapshots, so no locking is needed beyond the error collection.
	Workers int
}

// Compile writes the model into fld. The model graph is treated as an
// immutable snapshot: modifiers are cloned before any renaming and nothing
// in the graph is mutated. Compilation holds no state across invocations.
func Compile(m *model.Model, fld *folder.Folder, opts Options) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	if err := fld.Write(); err != nil {
		return err
	}
	log := logger.Sugar.With("model", m.Identifier, "root", fld.Root)

	// Shared boundary pairs are resolved up front into read-only
	// partitions so the static phases can fan out without a lock.
	subfaces, subfacesBlk := splitByBlkFiltered(m.Subfaces())
	faces, facesBlk := splitByBlkFiltered(m.Faces())
	shades, shadesBlk := m.ShadesByBlk()

	relBSDF := fld.RelBSDFDir()
	staticPhases := []func() error{
		func() error {
			cm := collectModifiers(subfaces, subfacesBlk, true)
			log.Debugw("writing static apertures", "count", len(subfaces)+len(subfacesBlk))
			return writeStaticFiles(fld.ApertureDir(), "aperture", relBSDF,
				subfaces, subfacesBlk, cm, false, opts.Minimal)
		},
		func() error {
			cm := collectModifiers(faces, facesBlk, false)
			log.Debugw("writing envelope", "count", len(faces)+len(facesBlk))
			return writeStaticFiles(fld.SceneDir(), "envelope", relBSDF,
				faces, facesBlk, cm, true, opts.Minimal)
		},
		func() error {
			cm := collectModifiers(shades, shadesBlk, false)
			log.Debugw("writing static shades", "count", len(shades)+len(shadesBlk))
			return writeStaticFiles(fld.SceneDir(), "shades", relBSDF,
				shades, shadesBlk, cm, false, opts.Minimal)
		},
	}
	if err := runPhases(staticPhases, opts.Workers); err != nil {
		return err
	}

	if err := writeDynamicSubfaceGroups(m, fld, opts.Minimal, log); err != nil {
		return err
	}
	if err := writeDynamicShadeGroups(m, fld, opts.Minimal, log); err != nil {
		return err
	}
	if err := copyBSDFResources(m, fld, log); err != nil {
		return err
	}
	if err := writeGrids(m, fld, log); err != nil {
		return err
	}
	if err := writeViews(m, fld, log); err != nil {
		return err
	}
	log.Infow("radiance folder written",
		"faces", len(faces)+len(facesBlk),
		"apertures", len(subfaces)+len(subfacesBlk),
		"shades", len(shades)+len(shadesBlk),
		"aperture_groups", len(m.DynamicSubfaceGroups),
		"shade_groups", len(m.DynamicShadeGroups),
		"grids", len(m.SensorGrids),
		"views", len(m.Views))
	return nil
}

// splitByBlkFiltered drops boundary-pair duplicates, then partitions by blk
// override the way the category writers expect.
func splitByBlkFiltered(objs []*model.Geometry) (defaults, overridden []*model.Geometry) {
	for _, o := range filterBoundaryPairs(objs) {
		if o.HasBlkOverride() {
			overridden = append(overridden, o)
		} else {
			defaults = append(defaults, o)
		}
	}
	return defaults, overridden
}

// runPhases executes the phases sequentially, or on workers goroutines when
// workers > 1, returning the first error.
func runPhases(phases []func() error, workers int) error {
	if workers <= 1 {
		for _, phase := range phases {
			if err := phase(); err != nil {
				return err
			}
		}
		return nil
	}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, workers)
	for _, phase := range phases {
		wg.Add(1)
		go func(run func() error) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if err := run(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(phase)
	}
	wg.Wait()
	return firstErr
}

// writeDynamicSubfaceGroups compiles the dynamic aperture and door groups.
// Indoor-facing groups are rejected before any group file is written.
func writeDynamicSubfaceGroups(m *model.Model, fld *folder.Folder, minimal bool, log *zap.SugaredLogger) error {
	if len(m.DynamicSubfaceGroups) == 0 {
		return nil
	}
	for _, group := range m.DynamicSubfaceGroups {
		if group.IsIndoor {
			return fmt.Errorf("group %q: %w", group.Identifier, ErrIndoorSubfaceGroup)
		}
	}
	dest := fld.ApertureGroupDir()
	relDest := fld.RelApertureGroupDir()
	index := make(map[string][]*model.StateRecord, len(m.DynamicSubfaceGroups))
	for _, group := range m.DynamicSubfaceGroups {
		records, err := writeDynamicGroupFiles(dest, relDest, fld.RelBSDFDir(), group, true, minimal)
		if err != nil {
			return err
		}
		if err := writeMtxFiles(dest, relDest, fld.RelBSDFDir(), group, records, minimal); err != nil {
			return err
		}
		index[group.Identifier] = records
		log.Debugw("wrote aperture group", "group", group.Identifier, "states", len(records))
	}
	return writeStatesJSON(dest, index)
}

// writeDynamicShadeGroups compiles the dynamic shade groups, splitting
// outdoor and indoor destinations.
func writeDynamicShadeGroups(m *model.Model, fld *folder.Folder, minimal bool, log *zap.SugaredLogger) error {
	if len(m.DynamicShadeGroups) == 0 {
		return nil
	}
	outIndex := make(map[string][]*model.StateRecord)
	inIndex := make(map[string][]*model.StateRecord)
	for _, group := range m.DynamicShadeGroups {
		dest := fld.SceneDynamicDir(group.IsIndoor)
		relDest := fld.RelSceneDynamicDir(group.IsIndoor)
		records, err := writeDynamicGroupFiles(dest, relDest, fld.RelBSDFDir(), group, false, minimal)
		if err != nil {
			return err
		}
		if group.IsIndoor {
			inIndex[group.Identifier] = records
		} else {
			outIndex[group.Identifier] = records
		}
		log.Debugw("wrote shade group", "group", group.Identifier,
			"indoor", group.IsIndoor, "states", len(records))
	}
	if err := writeStatesJSON(fld.SceneDynamicDir(false), outIndex); err != nil {
		return err
	}
	return writeStatesJSON(fld.SceneDynamicDir(true), inIndex)
}

// copyBSDFResources copies every referenced binary transmission file into
// the resource folder, deduplicated by destination file name before any copy
// is scheduled so a partially-copied file never collides with a second copy
// of the same resource.
func copyBSDFResources(m *model.Model, fld *folder.Folder, log *zap.SugaredLogger) error {
	mods := m.BSDFModifiers()
	if len(mods) == 0 {
		return nil
	}
	if err := folder.PrepareDir(fld.BSDFDir()); err != nil {
		return err
	}
	copied := make(map[string]struct{}, len(mods))
	for _, mod := range mods {
		name := filepath.Base(mod.BSDFFile)
		if _, done := copied[name]; done {
			continue
		}
		copied[name] = struct{}{}
		if _, err := os.Stat(mod.BSDFFile); err != nil {
			return fmt.Errorf("%w: %s (modifier %q)", ErrMissingBSDF, mod.BSDFFile, mod.Identifier)
		}
		if err := copyFile(mod.BSDFFile, filepath.Join(fld.BSDFDir(), name)); err != nil {
			return err
		}
		log.Debugw("copied BSDF resource", "file", name)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

// writeGrids writes the sensor-grid .pts and descriptor files, rejecting
// duplicate display names before the first write.
func writeGrids(m *model.Model, fld *folder.Folder, log *zap.SugaredLogger) error {
	if len(m.SensorGrids) == 0 {
		return nil
	}
	if err := m.CheckDuplicateGridNames(); err != nil {
		return err
	}
	dir := fld.GridDir()
	if err := folder.PrepareDir(dir); err != nil {
		return err
	}
	for _, grid := range m.SensorGrids {
		if _, err := grid.WriteFile(dir); err != nil {
			return err
		}
		info, err := grid.InfoJSON()
		if err != nil {
			return fmt.Errorf("sensor grid %q info: %w", grid.Identifier, err)
		}
		if err := folder.WriteFileByName(dir, grid.Identifier+".json", string(info)); err != nil {
			return err
		}
	}
	log.Debugw("wrote sensor grids", "count", len(m.SensorGrids))
	return nil
}

// writeViews writes the view .vf and descriptor files, rejecting duplicate
// display names before the first write.
func writeViews(m *model.Model, fld *folder.Folder, log *zap.SugaredLogger) error {
	if len(m.Views) == 0 {
		return nil
	}
	if err := m.CheckDuplicateViewNames(); err != nil {
		return err
	}
	dir := fld.ViewDir()
	if err := folder.PrepareDir(dir); err != nil {
		return err
	}
	for _, view := range m.Views {
		if _, err := view.WriteFile(dir); err != nil {
			return err
		}
		info, err := view.InfoJSON()
		if err != nil {
			return fmt.Errorf("view %q info: %w", view.Identifier, err)
		}
		if err := folder.WriteFileByName(dir, view.Identifier+".json", string(info)); err != nil {
			return err
		}
	}
	log.Debugw("wrote views", "count", len(m.Views))
	return nil
}
