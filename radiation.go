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

// RadiationProvider is the external collaborator that supplies radiative
// heating (spec.md §1/§6): a per-level heating rate plus the net surface
// radiative flux. The core never computes radiative transfer itself --
// RadiationSwitch only controls whether a provider's output is applied.
type RadiationProvider interface {
	// Heating fills dpottdtPhy[k] (K/s) for one column (i,j), given the
	// column's POTT, PVTF and QV profiles and the surface albedo.
	Heating(g *Grid, fs *FieldStore, i, j int, dpottdtPhy []float64) (surfaceNetFlux float64)
}

// NoRadiation is the default RadiationProvider: it contributes nothing. A
// run with RadiationSwitch enabled but no provider configured falls back to
// this rather than a nil-interface panic.
type NoRadiation struct{}

// Heating implements RadiationProvider by leaving every level unheated.
func (NoRadiation) Heating(g *Grid, fs *FieldStore, i, j int, dpottdtPhy []float64) float64 {
	for k := range dpottdtPhy {
		dpottdtPhy[k] = 0
	}
	return 0
}

// StepRadiation applies the configured RadiationProvider's heating into
// DPOTTDTPHY for every column. No-op if RadiationSwitch is false.
func StepRadiation(provider RadiationProvider) Kernel {
	return func(g *Grid, fs *FieldStore, dt float64) error {
		cfg := fs.Config()
		if cfg == nil || !cfg.RadiationSwitch {
			return nil
		}
		if provider == nil {
			provider = NoRadiation{}
		}
		dpottdtphy := fs.MustGet("DPOTTDTPHY")
		swsfc := fs.MustGet("SWFLXSFC")

		col := make([]float64, g.Nz)
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				netSfc := provider.Heating(g, fs, i, j, col)
				for k := 0; k < g.Nz; k++ {
					prev := dpottdtphy.Data.Get(k, j+g.Nb, i+g.Nb)
					dpottdtphy.Data.Set(prev+col[k], k, j+g.Nb, i+g.Nb)
				}
				swsfc.Data.Set(netSfc, j+g.Nb, i+g.Nb)
			}
		}
		return nil
	}
}
