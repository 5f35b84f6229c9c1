/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package sigma

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
)

// TimeStepping selects the explicit time integration pathway.
type TimeStepping string

// Recognized values for Config.TimeStepping.
const (
	Euler TimeStepping = "EULER"
	RK4   TimeStepping = "RK4"
)

// Precision names a floating point precision for Config.WorkingPrecision.
// The dynamical core always computes in float64. Validate checks the value,
// but nothing else reads it: Outputter always writes float32 and Save
// always writes float64.
type Precision string

// Recognized values for Config.WorkingPrecision.
const (
	Float32 Precision = "float32"
	Float64 Precision = "float64"
)

// Config is the full set of recognized run options (spec.md §6). It is built
// once at start-up, validated, and then passed by shared borrow to every
// kernel, following the teacher's immutable-config design note.
type Config struct {
	// Grid size.
	Nx, Ny, Nz int

	// DlatDeg is the meridional resolution in degrees.
	DlatDeg float64
	// Lon0Deg, Lon1Deg are the longitude extent in degrees. Must be 0, 360
	// for the periodic-x halo to be meaningful.
	Lon0Deg, Lon1Deg float64

	// PairTop is the fixed model-top pressure, Pa.
	PairTop float64

	// Dt is the integrator time step, seconds.
	Dt float64

	// TimeStepping selects EULER or RK4.
	TimeStepping TimeStepping

	// Momentum term switches.
	UVFLXMainSwitch    bool
	UVFLXHorAdvSwitch  bool
	UVFLXVertAdvSwitch bool
	UVFLXCoriolisSwitch bool
	UVFLXPreGradSwitch bool
	UVFLXNumDifSwitch  bool

	// COLPMainSwitch enables the continuity equation.
	COLPMainSwitch bool

	// Diffusion coefficients.
	UVFLXDifCoef float64
	POTTDifCoef  float64
	COLPDifCoef  float64

	// Physics switches.
	RadiationSwitch   bool
	MicrophysicsSwitch bool
	SurfaceSchemeSwitch bool

	// Coupling switches.
	MoistMicrophysics bool
	POTTMicrophysics  bool
	POTTRadiation     bool

	// Output.
	OutputPath     string
	OutputInterval int
	OutputFields   map[string]int // name -> 0|1|2

	// WorkingPrecision is validated but not used by output or restart
	// writing (see Precision).
	WorkingPrecision Precision

	// NTopoSmooth is a number of Laplacian smoothing passes for ingested
	// topography. Validate checks that it is non-negative; InterpolateTopography
	// does not read it and always applies the package constant NTopoSmooth.
	NTopoSmooth int

	// NumIterations is the number of steps to run. If <= 0, Run keeps
	// stepping until the orchestrator's termination flag is set externally.
	NumIterations int

	// HTTPPort, if non-empty, starts the optional live-status server.
	HTTPPort string
}

// Default returns a Config populated with the teacher-style sane defaults:
// all dynamics terms on except numerical diffusion, physics off, Euler
// stepping.
func Default() *Config {
	return &Config{
		Nx: 36, Ny: 18, Nz: 10,
		DlatDeg: 10,
		Lon0Deg: 0, Lon1Deg: 360,
		PairTop:      5000,
		Dt:           300,
		TimeStepping: Euler,

		UVFLXMainSwitch:     true,
		UVFLXHorAdvSwitch:   true,
		UVFLXVertAdvSwitch:  true,
		UVFLXCoriolisSwitch: true,
		UVFLXPreGradSwitch:  true,
		UVFLXNumDifSwitch:   false,
		COLPMainSwitch:      true,

		UVFLXDifCoef: 0,
		POTTDifCoef:  0,
		COLPDifCoef:  0,

		RadiationSwitch:     false,
		MicrophysicsSwitch:  false,
		SurfaceSchemeSwitch: false,
		MoistMicrophysics:   false,
		POTTMicrophysics:    false,
		POTTRadiation:       false,

		OutputPath:       "",
		OutputInterval:   0,
		OutputFields:     map[string]int{},
		WorkingPrecision: Float64,
		NTopoSmooth:      0,
		NumIterations:    0,
	}
}

// LoadConfig reads a configuration from file (TOML/YAML/JSON, detected by
// extension) merged with INMAP_-style environment overrides, following
// inmaputil/config.go's use of viper. The "SIGMA" prefix is used for
// environment variable overrides (e.g. SIGMA_DT=120).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SIGMA")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, &IOError{Op: "reading configuration", Path: path, Err: err}
	}

	c := Default()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("sigma: parsing configuration %s: %w", path, err)
	}
	c.OutputPath = os.ExpandEnv(c.OutputPath)
	return c, nil
}

// Validate checks that the configuration is internally consistent. It must
// be called, and must succeed, before any grid-sized array is allocated
// (spec.md §7: configuration errors are fatal at start-up).
func (c *Config) Validate() error {
	if c.Nx <= 0 || c.Ny <= 0 || c.Nz <= 0 {
		return &ConfigError{"Nx,Ny,Nz", "grid dimensions must be positive"}
	}
	if c.Lon0Deg != 0 || c.Lon1Deg != 360 {
		return &ConfigError{"Lon0Deg,Lon1Deg", "longitude extent must be 0,360 for periodic-x boundary to be meaningful"}
	}
	if c.DlatDeg <= 0 || c.DlatDeg >= 180 {
		return &ConfigError{"DlatDeg", "must be in (0, 180)"}
	}
	if c.PairTop < 0 {
		return &ConfigError{"PairTop", "must be >= 0"}
	}
	if c.Dt <= 0 {
		return &ConfigError{"Dt", "must be positive"}
	}
	switch c.TimeStepping {
	case Euler, RK4:
	default:
		return &ConfigError{"TimeStepping", "must be EULER or RK4"}
	}
	if c.RadiationSwitch && !c.SurfaceSchemeSwitch {
		return &ConfigError{"RadiationSwitch", "radiation requires the surface scheme to be enabled"}
	}
	switch c.WorkingPrecision {
	case Float32, Float64, "":
	default:
		return &ConfigError{"WorkingPrecision", "must be float32 or float64"}
	}
	if c.UVFLXDifCoef < 0 || c.POTTDifCoef < 0 || c.COLPDifCoef < 0 {
		return &ConfigError{"*DifCoef", "diffusion coefficients must be non-negative"}
	}
	if c.NTopoSmooth < 0 {
		return &ConfigError{"NTopoSmooth", "must be non-negative"}
	}
	return nil
}
