package sky

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHemisphereToRadiance(t *testing.T) {
	got := DefaultHemisphere().ToRadiance()

	want := "skyfunc glow sky_glow\n0\n0\n4 1.000 1.000 1.000 0\n\n" +
		"sky_glow source sky_dome\n0\n0\n4 0 0 1 180"
	if got != want {
		t.Errorf("ToRadiance() = %q, want %q", got, want)
	}
}

func TestGroundToRadiance(t *testing.T) {
	got := DefaultGround().ToRadiance()

	if !strings.Contains(got, "glow ground_glow") {
		t.Errorf("missing ground glow: %q", got)
	}
	if !strings.Contains(got, "4 0 0 -1 180") {
		t.Errorf("ground source must face down: %q", got)
	}
	if !strings.Contains(got, "4 1.000 0.800 0.500 0") {
		t.Errorf("default ground color wrong: %q", got)
	}
}

func TestNewCertainIrradiance(t *testing.T) {
	s := NewCertainIrradiance(400)
	if s.Irradiance != 400 {
		t.Errorf("Irradiance = %v, want 400", s.Irradiance)
	}
	if s.GroundReflectance != 0.2 {
		t.Errorf("GroundReflectance = %v, want 0.2", s.GroundReflectance)
	}

	s = NewCertainIrradiance(0)
	if s.Irradiance != 558.659 {
		t.Errorf("default Irradiance = %v, want 558.659", s.Irradiance)
	}
}

func TestFromIlluminance(t *testing.T) {
	s := FromIlluminance(100000)
	if math.Abs(s.Irradiance-558.659) > 0.001 {
		t.Errorf("Irradiance = %v, want ~558.659", s.Irradiance)
	}
	if math.Abs(s.Illuminance()-100000) > 0.1 {
		t.Errorf("Illuminance() = %v, want ~100000", s.Illuminance())
	}
}

func TestCertainIrradianceToRadiance(t *testing.T) {
	s := NewCertainIrradiance(558.659)
	got := s.ToRadiance()

	if !strings.HasPrefix(got, "!gensky -ang 45 0 -c -B 558.659000 -g 0.200") {
		t.Errorf("gensky command wrong: %q", got)
	}
	if !strings.Contains(got, "source sky_dome") || !strings.Contains(got, "source ground_hemisphere") {
		t.Errorf("hemispheres missing: %q", got)
	}

	s.Uniform = true
	if !strings.Contains(s.ToRadiance(), " -u ") {
		t.Errorf("uniform sky must use -u: %q", s.ToRadiance())
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sky")

	s := NewCertainIrradiance(0)
	path, err := s.WriteFile(dir, "")
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if filepath.Base(path) != "sky.rad" {
		t.Errorf("default name = %q, want sky.rad", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != s.ToRadiance() {
		t.Errorf("content mismatch")
	}

	d := NewDome()
	path, err = d.WriteFile(dir, "")
	if err != nil {
		t.Fatalf("Dome.WriteFile() error: %v", err)
	}
	if filepath.Base(path) != "skydome.rad" {
		t.Errorf("default dome name = %q, want skydome.rad", filepath.Base(path))
	}
}
