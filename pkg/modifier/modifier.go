// Package modifier models Radiance material definitions (modifiers) and the
// deduplication rules the folder writer depends on.
package modifier

import (
	"fmt"
	"hash/fnv"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
)

// Kind is the Radiance material type of a modifier.
type Kind string

// Supported modifier kinds.
const (
	Plastic Kind = "plastic"
	Metal   Kind = "metal"
	Glass   Kind = "glass"
	Trans   Kind = "trans"
	Mirror  Kind = "mirror"
	Glow    Kind = "glow"
	Light   Kind = "light"
	BSDF    Kind = "BSDF"
)

// Modifier is a named material definition. Two modifiers are considered the
// same either by pointer identity or by structural equality of identifier,
// kind and defining parameters.
type Modifier struct {
	Identifier string
	Kind       Kind

	// Values are the real arguments of the primitive, in Radiance order
	// (e.g. R G B spec rough for plastic).
	Values []float64

	// BSDFFile is the path to the external transmission-data file. Only
	// meaningful for Kind == BSDF. The file is copied into the model's
	// bsdf folder by the orchestrator, never rewritten here.
	BSDFFile string
}

// IsOpaque reports whether the material blocks light entirely. Glass, trans
// and BSDF modifiers transmit; everything else is treated as opaque.
func (m *Modifier) IsOpaque() bool {
	switch m.Kind {
	case Glass, Trans, BSDF:
		return false
	default:
		return true
	}
}

// Equal reports structural equality of the defining fields.
func (m *Modifier) Equal(other *Modifier) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	if m.Identifier != other.Identifier || m.Kind != other.Kind ||
		m.BSDFFile != other.BSDFFile || len(m.Values) != len(other.Values) {
		return false
	}
	for i, v := range m.Values {
		if v != other.Values[i] {
			return false
		}
	}
	return true
}

// hash returns a stable content hash of the defining fields.
func (m *Modifier) hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(m.Identifier))
	h.Write([]byte{0})
	h.Write([]byte(m.Kind))
	h.Write([]byte{0})
	h.Write([]byte(m.BSDFFile))
	for _, v := range m.Values {
		fmt.Fprintf(h, "|%g", v)
	}
	return h.Sum64()
}

// Duplicate returns an independently owned deep copy.
func (m *Modifier) Duplicate() *Modifier {
	dup := &Modifier{}
	// copier never fails on two identical concrete struct types
	_ = copier.CopyWithOption(dup, m, copier.Option{DeepCopy: true})
	return dup
}

// Rebase returns a copy whose transmission-data path points into dir,
// keeping only the file name. Non-BSDF modifiers and an empty dir return the
// receiver unchanged; the receiver is never modified.
func (m *Modifier) Rebase(dir string) *Modifier {
	if m.Kind != BSDF || m.BSDFFile == "" || dir == "" {
		return m
	}
	dup := m.Duplicate()
	dup.BSDFFile = path.Join(dir, filepath.Base(m.BSDFFile))
	return dup
}

// ToRadiance renders the modifier definition block. When minimal is true the
// block is a single space-separated line.
func (m *Modifier) ToRadiance(minimal bool) string {
	sep := "\n"
	if minimal {
		sep = " "
	}
	var b strings.Builder
	b.WriteString("void ")
	b.WriteString(string(m.Kind))
	b.WriteString(" ")
	b.WriteString(m.Identifier)
	if m.Kind == BSDF {
		// 6 string args: thickness, xml file, up vector, function file
		b.WriteString(sep + "6 0 " + m.BSDFFile + " 0.01 0.01 1.0 .")
		b.WriteString(sep + "0")
		b.WriteString(sep + "0")
		return b.String()
	}
	b.WriteString(sep + "0")
	b.WriteString(sep + "0")
	b.WriteString(sep + strconv.Itoa(len(m.Values)))
	for _, v := range m.Values {
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return b.String()
}

// Black returns the canonical non-reflective modifier used for blacked-out
// representations. Callers rename the copy to the identifier of the modifier
// being substituted.
func Black() *Modifier {
	return &Modifier{
		Identifier: "black",
		Kind:       Plastic,
		Values:     []float64{0, 0, 0, 0, 0},
	}
}

// BlackFor returns a black modifier renamed to the given identifier.
func BlackFor(identifier string) *Modifier {
	blk := Black()
	blk.Identifier = identifier
	return blk
}
