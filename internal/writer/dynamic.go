package writer

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"

	"github.com/zha/honeybee-radiance/internal/folder"
	"github.com/zha/honeybee-radiance/pkg/model"
)

// writeDynamicGroupFiles emits one default-mode and one direct-mode geometry
// file per state of a dynamic group into its own sub-directory under dest,
// plus the single shared blacked-out file for sub-face groups. It returns the
// ordered per-state records with root-relative artifact paths; entry 0 is the
// group's default state and entry ordering matches input state ordering.
//
// dest is the absolute category directory, relDest the same directory
// relative to the compilation root (slash-separated, used in the index).
// relBSDF reroots transmission-data references to the copied resources.
func writeDynamicGroupFiles(dest, relDest, relBSDF string, group *model.DynamicGroup,
	subface, minimal bool) ([]*model.StateRecord, error) {

	groupDir := filepath.Join(dest, group.Identifier)
	relGroup := path.Join(relDest, group.Identifier)

	records := make([]*model.StateRecord, group.StateCount())
	for i := range records {
		defaultStr, err := group.ToRadiance(i, false, minimal, relBSDF)
		if err != nil {
			return nil, err
		}
		directStr, err := group.ToRadiance(i, true, minimal, relBSDF)
		if err != nil {
			return nil, err
		}
		if err := folder.WriteFileByName(groupDir, group.DefaultFileName(i), defaultStr); err != nil {
			return nil, err
		}
		if err := folder.WriteFileByName(groupDir, group.DirectFileName(i), directStr); err != nil {
			return nil, err
		}
		records[i] = &model.StateRecord{
			Identifier: group.StateIdentifier(i),
			Default:    path.Join(relGroup, group.DefaultFileName(i)),
			Direct:     path.Join(relGroup, group.DirectFileName(i)),
		}
	}
	if subface {
		black := group.BlkToRadiance(minimal)
		if err := folder.WriteFileByName(groupDir, group.BlackFileName(), black); err != nil {
			return nil, err
		}
		relBlack := path.Join(relGroup, group.BlackFileName())
		for _, rec := range records {
			rec.Black = relBlack
		}
	}
	return records, nil
}

// writeMtxFiles fills the three-phase matrix fields of the state records and
// writes the matrix geometry files. The shared-vs-per-state decision is
// computed before any file is written and never changes mid-pass: when every
// state of every member reports the default matrix configuration, one matrix
// file at the group level serves as both the view and daylight matrix of all
// states. States lacking transmission data are left without matrix fields.
func writeMtxFiles(dest, relDest, relBSDF string, group *model.DynamicGroup,
	records []*model.StateRecord, minimal bool) error {

	groupDir := filepath.Join(dest, group.Identifier)
	relGroup := path.Join(relDest, group.Identifier)
	oneMtx := group.MtxsDefault()
	sharedRel := path.Join(relGroup, group.SharedMtxFileName())

	tmtxValid := false
	for i, rec := range records {
		bsdf := group.TmtxBSDF(i)
		if bsdf == nil {
			continue
		}
		tmtxValid = true
		rec.Tmtx = path.Join(relBSDF, filepath.Base(bsdf.BSDFFile))
		if oneMtx {
			rec.Vmtx = sharedRel
			rec.Dmtx = sharedRel
			continue
		}
		vmtxStr, err := group.VmtxToRadiance(i, minimal, relBSDF)
		if err != nil {
			return err
		}
		dmtxStr, err := group.DmtxToRadiance(i, minimal, relBSDF)
		if err != nil {
			return err
		}
		if err := folder.WriteFileByName(groupDir, group.VmtxFileName(i), vmtxStr); err != nil {
			return err
		}
		if err := folder.WriteFileByName(groupDir, group.DmtxFileName(i), dmtxStr); err != nil {
			return err
		}
		rec.Vmtx = path.Join(relGroup, group.VmtxFileName(i))
		rec.Dmtx = path.Join(relGroup, group.DmtxFileName(i))
	}

	if oneMtx && tmtxValid {
		mtxStr, err := group.VmtxToRadiance(0, minimal, relBSDF)
		if err != nil {
			return err
		}
		return folder.WriteFileByName(groupDir, group.SharedMtxFileName(), mtxStr)
	}
	return nil
}

// writeStatesJSON writes the state index for a set of groups: a mapping from
// group identifier to its ordered per-state records.
func writeStatesJSON(dest string, index map[string][]*model.StateRecord) error {
	if len(index) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding states index: %w", err)
	}
	return folder.WriteFileByName(dest, "states.json", string(data))
}
