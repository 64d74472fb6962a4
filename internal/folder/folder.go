// Package folder owns the on-disk layout of a radiance model folder: the
// mapping from logical categories to relative paths and idempotent directory
// creation.
package folder

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Names maps logical categories to folder names relative to the model
// folder, slash-separated. Zero-value fields fall back to the defaults.
type Names struct {
	Aperture      string `yaml:"aperture"`
	ApertureGroup string `yaml:"aperture_group"`
	Scene         string `yaml:"scene"`
	SceneDynamic  string `yaml:"scene_dynamic"`
	Indoor        string `yaml:"indoor"` // sub-folder of SceneDynamic for indoor groups
	BSDF          string `yaml:"bsdf"`
	Grid          string `yaml:"grid"`
	View          string `yaml:"view"`
}

// DefaultNames returns the standard radiance folder category names.
func DefaultNames() Names {
	return Names{
		Aperture:      "aperture",
		ApertureGroup: "aperture_group",
		Scene:         "scene",
		SceneDynamic:  "scene/dynamic",
		Indoor:        "indoor",
		BSDF:          "bsdf",
		Grid:          "grid",
		View:          "view",
	}
}

// merge fills zero-value fields of n from the defaults.
func (n Names) merge() Names {
	def := DefaultNames()
	if n.Aperture == "" {
		n.Aperture = def.Aperture
	}
	if n.ApertureGroup == "" {
		n.ApertureGroup = def.ApertureGroup
	}
	if n.Scene == "" {
		n.Scene = def.Scene
	}
	if n.SceneDynamic == "" {
		n.SceneDynamic = def.SceneDynamic
	}
	if n.Indoor == "" {
		n.Indoor = def.Indoor
	}
	if n.BSDF == "" {
		n.BSDF = def.BSDF
	}
	if n.Grid == "" {
		n.Grid = def.Grid
	}
	if n.View == "" {
		n.View = def.View
	}
	return n
}

// Folder is a radiance model folder rooted at Root. All model content lives
// under Root/model; category sub-folders are created lazily by the writers
// so empty categories leave no directories behind.
type Folder struct {
	Root  string
	names Names
}

// New returns a Folder at root using the given category names. Zero-value
// name fields fall back to the defaults.
func New(root string, names Names) *Folder {
	return &Folder{Root: root, names: names.merge()}
}

// abs converts a root-relative slash path to an absolute directory.
func (f *Folder) abs(rel string) string {
	return filepath.Join(f.Root, filepath.FromSlash(rel))
}

// ModelDir returns the model directory underneath the root.
func (f *Folder) ModelDir() string {
	return f.abs("model")
}

// RelApertureDir returns the static aperture folder relative to the root,
// slash-separated. The Rel* forms are what index files record.
func (f *Folder) RelApertureDir() string {
	return path.Join("model", f.names.Aperture)
}

// ApertureDir returns the static aperture folder.
func (f *Folder) ApertureDir() string {
	return f.abs(f.RelApertureDir())
}

// RelApertureGroupDir returns the dynamic sub-face group folder relative to
// the root.
func (f *Folder) RelApertureGroupDir() string {
	return path.Join("model", f.names.ApertureGroup)
}

// ApertureGroupDir returns the dynamic sub-face group folder.
func (f *Folder) ApertureGroupDir() string {
	return f.abs(f.RelApertureGroupDir())
}

// SceneDir returns the static scene folder (envelope and shades).
func (f *Folder) SceneDir() string {
	return f.abs(path.Join("model", f.names.Scene))
}

// RelSceneDynamicDir returns the dynamic shade folder relative to the root.
// Indoor groups live in a separate sub-folder so that outdoor and indoor
// destinations never mix.
func (f *Folder) RelSceneDynamicDir(indoor bool) string {
	rel := path.Join("model", f.names.SceneDynamic)
	if indoor {
		rel = path.Join(rel, f.names.Indoor)
	}
	return rel
}

// SceneDynamicDir returns the dynamic shade folder.
func (f *Folder) SceneDynamicDir(indoor bool) string {
	return f.abs(f.RelSceneDynamicDir(indoor))
}

// RelBSDFDir returns the binary transmission-resource folder relative to
// the root.
func (f *Folder) RelBSDFDir() string {
	return path.Join("model", f.names.BSDF)
}

// BSDFDir returns the binary transmission-resource folder.
func (f *Folder) BSDFDir() string {
	return f.abs(f.RelBSDFDir())
}

// GridDir returns the sensor-grid folder.
func (f *Folder) GridDir() string {
	return f.abs(path.Join("model", f.names.Grid))
}

// ViewDir returns the view folder.
func (f *Folder) ViewDir() string {
	return f.abs(path.Join("model", f.names.View))
}

// Write creates the root and model directories. Category folders are left to
// the writers that fill them.
func (f *Folder) Write() error {
	return PrepareDir(f.ModelDir())
}

// PrepareDir creates dir and any missing parents. Creating an existing
// directory is not an error.
func PrepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("preparing %s: %w", dir, err)
	}
	return nil
}

// WriteFileByName writes content into dir/name, creating dir if needed.
func WriteFileByName(dir, name, content string) error {
	if err := PrepareDir(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
