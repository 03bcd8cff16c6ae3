/*
Copyright © 2019 the Trac authors.
This file is part of Trac.

Trac is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Trac is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Trac.  If not, see <http://www.gnu.org/licenses/>.
*/

package met

import (
	"fmt"
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// DataVersion is the version of the snapshot file format.
const DataVersion = "1.0.0"

var fieldUnits = map[string]string{
	"PS": "hPa", "PT": "hPa", "Z": "km", "T": "K", "U": "m/s", "V": "m/s",
	"W": "hPa/s", "PV": "PVU", "H2O": "1", "O3": "1",
}

// Read reads a snapshot from a netCDF file. The file must hold the
// coordinate variables "lon", "lat" and "plev", the global attribute
// "time" and the variables returned by Fields2D and Fields3D.
func Read(rw cdf.ReaderWriterAt) (*Snapshot, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("met.Read: %v", err)
	}
	has := make(map[string]bool)
	for _, v := range f.Header.Variables() {
		has[v] = true
	}

	t, ok := f.Header.GetAttribute("", "time").([]float64)
	if !ok || len(t) != 1 {
		return nil, fmt.Errorf("met.Read: missing or invalid global attribute 'time'")
	}
	if v, ok := f.Header.GetAttribute("", "data_version").(string); !ok || v != DataVersion {
		return nil, fmt.Errorf("met.Read: data version %q is incompatible "+
			"with the required version %s", v, DataVersion)
	}

	coords := make(map[string][]float64)
	for _, name := range []string{"lon", "lat", "plev"} {
		if !has[name] {
			return nil, fmt.Errorf("met.Read: missing coordinate variable %s", name)
		}
		c := make([]float64, f.Header.Lengths(name)[0])
		if _, err := f.Reader(name, nil, nil).Read(c); err != nil {
			return nil, fmt.Errorf("met.Read: reading %s: %v", name, err)
		}
		coords[name] = c
	}

	s := NewSnapshot(t[0], coords["lon"], coords["lat"], coords["plev"])
	fields := s.Fields3D()
	for name, a := range s.Fields2D() {
		fields[name] = a
	}
	for name, a := range fields {
		if !has[name] {
			return nil, fmt.Errorf("met.Read: missing variable %s", name)
		}
		if err := readField(f, name, a); err != nil {
			return nil, fmt.Errorf("met.Read: %v", err)
		}
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

func readField(f *cdf.File, name string, a *sparse.DenseArray) error {
	dims := f.Header.Lengths(name)
	if len(dims) != len(a.Shape) {
		return fmt.Errorf("variable %s has %d dimensions but %d are required", name, len(dims), len(a.Shape))
	}
	for i, d := range dims {
		if d != a.Shape[i] {
			return fmt.Errorf("variable %s has shape %v but the grid is %v", name, dims, a.Shape)
		}
	}
	tmp := make([]float32, len(a.Elements))
	if _, err := f.Reader(name, nil, nil).Read(tmp); err != nil {
		return fmt.Errorf("reading %s: %v", name, err)
	}
	for i, v := range tmp {
		a.Elements[i] = float64(v)
	}
	return nil
}

// Write writes s to netCDF file w in the format expected by Read.
func Write(w *os.File, s *Snapshot) error {
	nx, ny, np := s.Dims()
	h := cdf.NewHeader([]string{"lon", "lat", "plev"}, []int{nx, ny, np})
	h.AddAttribute("", "comment", "Trac meteorological snapshot")
	h.AddAttribute("", "time", []float64{s.Time})
	h.AddAttribute("", "data_version", DataVersion)

	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddAttribute("lon", "units", "degrees_east")
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddAttribute("lat", "units", "degrees_north")
	h.AddVariable("plev", []string{"plev"}, []float64{0})
	h.AddAttribute("plev", "units", "hPa")

	fields := s.Fields3D()
	for name, a := range s.Fields2D() {
		fields[name] = a
	}
	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		if len(fields[name].Shape) == 2 {
			h.AddVariable(name, []string{"lon", "lat"}, []float32{0})
		} else {
			h.AddVariable(name, []string{"lon", "lat", "plev"}, []float32{0})
		}
		h.AddAttribute(name, "units", fieldUnits[name])
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("met.Write: %v", err)
	}
	for name, c := range map[string][]float64{"lon": s.Lon, "lat": s.Lat, "plev": s.P} {
		if _, err := f.Writer(name, nil, nil).Write(c); err != nil {
			return fmt.Errorf("met.Write: writing %s: %v", name, err)
		}
	}
	for _, name := range names {
		a := fields[name]
		data32 := make([]float32, len(a.Elements))
		for i, e := range a.Elements {
			data32[i] = float32(e)
		}
		if _, err := f.Writer(name, nil, nil).Write(data32); err != nil {
			return fmt.Errorf("met.Write: writing %s: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}
