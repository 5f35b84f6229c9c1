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

import "fmt"

// Orchestrator owns the grid, configuration and field store for one run and
// sequences the per-step Kernel composition, following the teacher's
// InMAPdata/run.go split between state (InMAPdata) and the
// DomainManipulator pipeline (run.go's Calculations) -- generalized here so
// the state (Grid+FieldStore) and the pipeline (the ordered []Kernel) live
// together on one type instead of being threaded through separately.
type Orchestrator struct {
	Grid   *Grid
	Config *Config
	Fields *FieldStore

	radiation RadiationProvider
	steps     []Kernel

	Done      bool
	Iteration int

	rk4Buffers [4]*FieldStore
}

// NewOrchestrator builds a grid and field store from cfg and registers the
// standard field set. It does not run any step; callers append Log or other
// side-effecting kernels with AppendStep before calling Run.
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sigma: building orchestrator: %w", err)
	}
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	RegisterStandardFields(fs)

	o := &Orchestrator{Grid: g, Config: cfg, Fields: fs, radiation: NoRadiation{}}
	o.steps = o.buildStepSequence()
	if cfg.TimeStepping == RK4 {
		for i := range o.rk4Buffers {
			o.rk4Buffers[i] = fs.Clone()
		}
	}
	return o, nil
}

// SetRadiationProvider swaps in a non-default RadiationProvider and
// rebuilds the step sequence to use it. Must be called before Run.
func (o *Orchestrator) SetRadiationProvider(p RadiationProvider) {
	o.radiation = p
	o.steps = o.buildStepSequence()
}

// AppendStep adds a Kernel to the end of the per-step pipeline, used by
// callers that want logging or a live-status push after every step without
// this package depending on an output stream or websocket.
func (o *Orchestrator) AppendStep(k Kernel) {
	o.steps = append(o.steps, k)
}

// buildStepSequence composes the per-step Kernel pipeline in the fixed
// topological order the dynamical core requires: halo exchange, diagnostic
// pressure/geopotential, physics column updates (which write into the
// *DTPHY tendency fields the dynamics terms read), then the time
// integrator itself (spec.md §9 "explicit topological sequencing").
func (o *Orchestrator) buildStepSequence() []Kernel {
	return []Kernel{
		ExchangeAll,
		StepDiagnosePressure,
		StepDiagnoseGeopotential,
		StepMicrophysics,
		StepSurface,
		StepRadiation(o.radiation),
		o.integrate,
		SanityScan,
	}
}

// integrate dispatches to the Euler or RK4 pathway selected by Config, and
// is itself a Kernel so it composes into steps like any other term.
func (o *Orchestrator) integrate(g *Grid, fs *FieldStore, dt float64) error {
	switch o.Config.TimeStepping {
	case RK4:
		return StepRK4(g, fs, o.rk4Buffers, dt)
	default:
		return StepEuler(g, fs, dt)
	}
}

// Step runs one full model time step.
func (o *Orchestrator) Step() error {
	for _, k := range o.steps {
		if err := k(o.Grid, o.Fields, o.Config.Dt); err != nil {
			return err
		}
	}
	o.Iteration++
	if o.Config.NumIterations > 0 && o.Iteration >= o.Config.NumIterations {
		o.Done = true
	}
	return nil
}

// Run steps the model until Done is set, either by NumIterations being
// reached or by an external caller setting o.Done.
func (o *Orchestrator) Run() error {
	for !o.Done {
		if err := o.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RegisterStandardFields allocates every named field the dynamical core and
// its physics columns need (spec.md §3), grouped by subsystem. Kernels
// fetch fields by name via FieldStore.MustGet rather than holding direct
// references, so this is the single place that must stay in sync with the
// field names used throughout the rest of the package.
func RegisterStandardFields(fs *FieldStore) {
	// Continuity / mass.
	fs.Register("COLP", Mass, false, "Pa", "column pressure thickness (surface minus model-top pressure)")
	fs.Register("COLPOLD", Mass, false, "Pa", "COLP snapshot at the start of the current step, used for density-weighted updates")
	fs.Register("DCOLPDT", Mass, false, "Pa/s", "column pressure tendency")
	fs.Register("COLPNEW", Mass, false, "Pa", "column pressure diagnosed at t+dt (spec.md §4.2), read by the vertical-advection terms before COLP itself is advanced")
	fs.Register("UFLX", U, true, "kg/(m s)", "column mass flux, U-grid")
	fs.Register("VFLX", V, true, "kg/(m s)", "column mass flux, V-grid")
	fs.Register("FLXDIV", Mass, true, "Pa/s", "per-layer horizontal mass flux divergence")
	fs.RegisterHalfLevels("WWIND", Mass, "1/s", "diagnosed vertical velocity in sigma coordinate")

	// Momentum.
	fs.Register("UWIND", U, true, "m/s", "zonal wind")
	fs.Register("VWIND", V, true, "m/s", "meridional wind")
	fs.Register("DUWINDDT", U, true, "m/s^2", "zonal wind tendency")
	fs.Register("DVWINDDT", V, true, "m/s^2", "meridional wind tendency")
	fs.Register("BFLX", Mass, true, "kg/(m s)", "mass-centered advecting flux, x-term of the U tendency / mirror of the V tendency's y-term")
	fs.Register("RFLX", Mass, true, "kg/(m s)", "mass-centered advecting flux, y-term of the V tendency / mirror of the U tendency's x-term")
	fs.Register("SFLX", U, true, "kg/(m s)", "U-staggered advecting flux, diagonal term of the V tendency")
	fs.Register("TFLX", U, true, "kg/(m s)", "U-staggered advecting flux, diagonal term of the V tendency")
	fs.Register("DFLX", V, true, "kg/(m s)", "V-staggered advecting flux, diagonal term of the U tendency")
	fs.Register("EFLX", V, true, "kg/(m s)", "V-staggered advecting flux, diagonal term of the U tendency")
	fs.Register("CFLX", Corner, true, "kg/(m s)", "corner advecting flux, y-term of the U tendency / mirror of the V tendency's x-term")
	fs.Register("QFLX", Corner, true, "kg/(m s)", "corner advecting flux, x-term of the V tendency / mirror of the U tendency's y-term")
	fs.RegisterHalfLevels("WWIND_UWIND", U, "kg/(m s^2)", "COLP_NEW*A-weighted vertical flux interpolated onto the U column")
	fs.RegisterHalfLevels("WWIND_VWIND", V, "kg/(m s^2)", "COLP_NEW*A-weighted vertical flux interpolated onto the V column")

	// Thermodynamics.
	fs.Register("POTT", Mass, true, "K", "potential temperature")
	fs.Register("DPOTTDT", Mass, true, "K/s", "potential temperature tendency")
	fs.Register("DPOTTDTPHY", Mass, true, "K/s", "potential temperature tendency from physics (microphysics, radiation, surface)")
	fs.Register("PVTF", Mass, true, "1", "Exner function at layer centers")
	fs.RegisterHalfLevels("PVTFVB", Mass, "1", "Exner function at layer interfaces")
	fs.Register("PHI", Mass, true, "m^2/s^2", "geopotential at layer centers")
	fs.RegisterHalfLevels("PHIVB", Mass, "m^2/s^2", "geopotential at layer interfaces")
	fs.RegisterHalfLevels("POTTVB", Mass, "K", "potential temperature interpolated onto layer interfaces")

	// Moisture tracers.
	for _, name := range tracerNames {
		fs.Register(name, Mass, true, "kg/kg", name+" mixing ratio")
		fs.Register("D"+name+"DT", Mass, true, "kg/(kg s)", name+" tendency")
		fs.Register("D"+name+"DTPHY", Mass, true, "kg/(kg s)", name+" tendency from physics")
	}
	fs.Register("RAINRATE", Mass, false, "kg/m^2 (since last reset)", "accumulated rain since the last reset")
	fs.Register("ACCRAIN", Mass, false, "kg/m^2", "total accumulated rain since run start")

	// Surface / soil column.
	fs.Register("TSOIL", Mass, false, "K", "prognostic soil/slab temperature")
	fs.Register("WSOIL", Mass, false, "m", "prognostic soil moisture bucket depth")
	fs.Register("ALBEDO", Mass, false, "1", "surface albedo")
	fs.Register("SSHFLX", Mass, false, "W/m^2", "surface sensible heat flux, positive upward")
	fs.Register("SLHFLX", Mass, false, "W/m^2", "surface latent heat flux, positive upward, clamped >= 0")
	fs.Register("SWFLXSFC", Mass, false, "W/m^2", "net surface radiative flux")
}
