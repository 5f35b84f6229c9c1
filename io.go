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
	"math"
	"os"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Outputter writes field snapshots to a NetCDF file, following
// vargrid.go's CTMData.Write / io.go's Outputter: named dimensions, float32
// on-disk storage, and derived output fields expressed as govaluate
// expressions over the raw field names (e.g. "RH" -> "QV/QVSAT*100") so a
// user can request a computed diagnostic without this package adding a
// parser of its own.
type Outputter struct {
	requested map[string]string // output name -> expression (raw field name or formula)
	functions map[string]govaluate.ExpressionFunction
}

// NewOutputter builds an Outputter for the given requested output fields,
// with the default exp/log/log10/sum functions available to any expression,
// mirroring the teacher's NewOutputter.
func NewOutputter(requested map[string]string) *Outputter {
	o := &Outputter{
		requested: requested,
		functions: map[string]govaluate.ExpressionFunction{
			"exp": func(args ...interface{}) (interface{}, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("sigma: exp takes 1 argument, got %d", len(args))
				}
				return math.Exp(args[0].(float64)), nil
			},
			"log": func(args ...interface{}) (interface{}, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("sigma: log takes 1 argument, got %d", len(args))
				}
				return math.Log(args[0].(float64)), nil
			},
			"log10": func(args ...interface{}) (interface{}, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("sigma: log10 takes 1 argument, got %d", len(args))
				}
				return math.Log10(args[0].(float64)), nil
			},
			"sum": func(args ...interface{}) (interface{}, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("sigma: sum takes 1 argument, got %d", len(args))
				}
				return floats.Sum(args[0].([]float64)), nil
			},
		},
	}
	return o
}

// evaluateField returns a DenseArray for the named output, either a raw
// registered field (named directly, or as the whole expression of a
// requested output, keeping that field's units and description) or the
// result of evaluating its govaluate expression element-by-element over
// the fields it references.
func (o *Outputter) evaluateField(fs *FieldStore, outName string) (*sparse.DenseArray, string, string, error) {
	if f, err := fs.Get(outName); err == nil {
		return f.Data, f.Units, f.Description, nil
	}
	expr, ok := o.requested[outName]
	if !ok {
		return nil, "", "", fmt.Errorf("sigma: output field %q is neither a registered field nor a requested expression", outName)
	}
	if f, err := fs.Get(expr); err == nil {
		return f.Data, f.Units, f.Description, nil
	}
	evaluable, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.functions)
	if err != nil {
		return nil, "", "", fmt.Errorf("sigma: parsing output expression %q for %q: %w", expr, outName, err)
	}
	vars := removeDuplicateNames(evaluable.Vars())
	var shapeRef *sparse.DenseArray
	operands := make(map[string]*sparse.DenseArray, len(vars))
	for _, v := range vars {
		f, err := fs.Get(v)
		if err != nil {
			return nil, "", "", fmt.Errorf("sigma: output expression %q for %q: %w", expr, outName, err)
		}
		operands[v] = f.Data
		shapeRef = f.Data
	}
	if shapeRef == nil {
		return nil, "", "", fmt.Errorf("sigma: output expression %q for %q references no fields", expr, outName)
	}
	result := sparse.ZerosDense(shapeRef.Shape...)
	params := make(map[string]interface{}, len(vars))
	for idx := range shapeRef.Elements {
		for _, v := range vars {
			params[v] = operands[v].Elements[idx]
		}
		val, err := evaluable.Evaluate(params)
		if err != nil {
			return nil, "", "", fmt.Errorf("sigma: evaluating output expression %q for %q: %w", expr, outName, err)
		}
		result.Elements[idx] = val.(float64)
	}
	return result, "", expr, nil
}

func removeDuplicateNames(s []string) []string {
	out := make([]string, 0, len(s))
	seen := make(map[string]bool, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Write writes every requested output field, plus the latitude and
// longitude coordinate variables, to the NetCDF file w.
func (o *Outputter) Write(w *os.File, g *Grid, fs *FieldStore) error {
	dims := []string{"lon", "lat", "level", "levels"}
	lengths := []int{g.Nx, g.Ny, g.Nz, g.Nz + 1}
	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "dynamical core output")

	names := make([]string, 0, len(o.requested))
	for name := range o.requested {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make(map[string]*sparse.DenseArray, len(names))
	for _, name := range names {
		data, units, desc, err := o.evaluateField(fs, name)
		if err != nil {
			return err
		}
		resolved[name] = data
		varDims := dimsFor(data.Shape, dims)
		h.AddVariable(name, varDims, []float32{0})
		h.AddAttribute(name, "units", units)
		h.AddAttribute(name, "description", desc)
	}
	h.AddVariable("lat", []string{"lat"}, []float32{0})
	h.AddVariable("lon", []string{"lon"}, []float32{0})
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return &IOError{Op: "creating output file", Path: w.Name(), Err: err}
	}
	for _, name := range names {
		if err := writeNCFVar(f, name, resolved[name]); err != nil {
			return &IOError{Op: "writing variable " + name, Path: w.Name(), Err: err}
		}
	}
	if err := writeNCFFloats(f, "lat", g.LatMass); err != nil {
		return &IOError{Op: "writing latitude", Path: w.Name(), Err: err}
	}
	lon := make([]float64, g.Nx)
	for i := range lon {
		lon[i] = float64(i) * g.DlonRad
	}
	if err := writeNCFFloats(f, "lon", lon); err != nil {
		return &IOError{Op: "writing longitude", Path: w.Name(), Err: err}
	}
	return cdf.UpdateNumRecs(w)
}

func dimsFor(shape []int, names []string) []string {
	switch len(shape) {
	case 2:
		return []string{"lat", "lon"}
	case 3:
		if shape[0] == 0 {
			return []string{"level", "lat", "lon"}
		}
		return []string{"level", "lat", "lon"}
	default:
		return names
	}
}

func writeNCFVar(f *cdf.File, name string, data *sparse.DenseArray) error {
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("sigma: dims imply %d elements but array has %d", n, len(data.Elements))
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data32)
	return err
}

func writeNCFFloats(f *cdf.File, name string, vals []float64) error {
	data32 := make([]float32, len(vals))
	for i, v := range vals {
		data32[i] = float32(v)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data32)
	return err
}
