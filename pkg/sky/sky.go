// Package sky generates Radiance sky definitions.
package sky

import (
	"fmt"
	"os"
	"path/filepath"
)

// luminousEfficacy is the fixed Radiance conversion factor between
// illuminance (lux) and irradiance (W/m2).
const luminousEfficacy = 179.0

// Hemisphere is the sky glow source covering the upper half of the sky dome.
type Hemisphere struct {
	R, G, B float64
}

// DefaultHemisphere returns the standard white sky glow.
func DefaultHemisphere() Hemisphere {
	return Hemisphere{R: 1, G: 1, B: 1}
}

// ToRadiance renders the sky glow and its source.
func (h Hemisphere) ToRadiance() string {
	return fmt.Sprintf(
		"skyfunc glow sky_glow\n0\n0\n4 %.3f %.3f %.3f 0\n\nsky_glow source sky_dome\n0\n0\n4 0 0 1 180",
		h.R, h.G, h.B)
}

// Ground is the ground glow source covering the lower hemisphere.
type Ground struct {
	R, G, B float64
}

// DefaultGround returns the standard warm ground glow.
func DefaultGround() Ground {
	return Ground{R: 1, G: 0.8, B: 0.5}
}

// ToRadiance renders the ground glow and its source.
func (g Ground) ToRadiance() string {
	return fmt.Sprintf(
		"skyfunc glow ground_glow\n0\n0\n4 %.3f %.3f %.3f 0\n\nground_glow source ground_hemisphere\n0\n0\n4 0 0 -1 180",
		g.R, g.G, g.B)
}

// Dome is the plain sky dome: a sky and ground glow pair with no light
// source, useful as a base for matrix generation.
type Dome struct {
	SkyHemisphere    Hemisphere
	GroundHemisphere Ground
}

// NewDome returns a Dome with the default hemispheres.
func NewDome() Dome {
	return Dome{SkyHemisphere: DefaultHemisphere(), GroundHemisphere: DefaultGround()}
}

// ToRadiance renders the dome definition.
func (d Dome) ToRadiance() string {
	return d.SkyHemisphere.ToRadiance() + "\n\n" + d.GroundHemisphere.ToRadiance() + "\n"
}

// WriteFile writes the dome into folder under name (default "skydome.rad")
// and returns the file path.
func (d Dome) WriteFile(folder, name string) (string, error) {
	if name == "" {
		name = "skydome.rad"
	}
	return writeSkyFile(folder, name, d.ToRadiance())
}

// CertainIrradiance is a cloudy (or uniform) sky with a known horizontal
// diffuse irradiance, equivalent to `gensky -c -B <irradiance>`.
type CertainIrradiance struct {
	// Irradiance is the horizontal diffuse irradiance in W/m2. The default
	// of 558.659 corresponds to 100,000 lux horizontal illuminance.
	Irradiance float64

	// GroundReflectance is the average ground reflectance in [0, 1].
	GroundReflectance float64

	// Uniform switches the distribution from cloudy to uniform.
	Uniform bool

	Dome Dome
}

// NewCertainIrradiance returns the sky for a horizontal irradiance value.
func NewCertainIrradiance(irradiance float64) CertainIrradiance {
	if irradiance <= 0 {
		irradiance = 558.659
	}
	return CertainIrradiance{
		Irradiance:        irradiance,
		GroundReflectance: 0.2,
		Dome:              NewDome(),
	}
}

// FromIlluminance returns the sky for a horizontal illuminance in lux,
// converted to irradiance with the fixed Radiance luminous efficacy.
func FromIlluminance(illuminance float64) CertainIrradiance {
	return NewCertainIrradiance(illuminance / luminousEfficacy)
}

// Illuminance returns the horizontal illuminance of the sky in lux.
func (s CertainIrradiance) Illuminance() float64 {
	return s.Irradiance * luminousEfficacy
}

// ToRadiance renders the gensky command plus the sky and ground hemispheres.
func (s CertainIrradiance) ToRadiance() string {
	skyType := "-c"
	if s.Uniform {
		skyType = "-u"
	}
	command := fmt.Sprintf("!gensky -ang 45 0 %s -B %.6f -g %.3f",
		skyType, s.Irradiance, s.GroundReflectance)
	return fmt.Sprintf("%s\n\n%s\n\n%s\n",
		command, s.Dome.SkyHemisphere.ToRadiance(), s.Dome.GroundHemisphere.ToRadiance())
}

// WriteFile writes the sky into folder under name (default "sky.rad") and
// returns the file path.
func (s CertainIrradiance) WriteFile(folder, name string) (string, error) {
	if name == "" {
		name = "sky.rad"
	}
	return writeSkyFile(folder, name, s.ToRadiance())
}

func writeSkyFile(folder, name, content string) (string, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("preparing %s: %w", folder, err)
	}
	path := filepath.Join(folder, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
