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

// Package met holds gridded meteorological snapshots and the
// interpolation, file and provider functions that serve them to the
// particle integration engine.
package met

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Snapshot holds the meteorological fields valid at a single time.
// Three-dimensional fields have the shape [nx, ny, np] and
// two-dimensional fields have the shape [nx, ny].
type Snapshot struct {
	Time float64 // seconds since 2000-01-01T00:00:00Z

	Lon []float64 // longitudes, regular and ascending [deg]
	Lat []float64 // latitudes, regular and ascending [deg]
	P   []float64 // pressure levels, descending [hPa]

	Ps *sparse.DenseArray // surface pressure [hPa]
	Pt *sparse.DenseArray // tropopause pressure [hPa]

	Z   *sparse.DenseArray // geopotential height [km]
	T   *sparse.DenseArray // temperature [K]
	U   *sparse.DenseArray // zonal wind [m/s]
	V   *sparse.DenseArray // meridional wind [m/s]
	W   *sparse.DenseArray // vertical velocity [hPa/s]
	PV  *sparse.DenseArray // potential vorticity [PVU]
	H2O *sparse.DenseArray // water vapor volume mixing ratio [1]
	O3  *sparse.DenseArray // ozone volume mixing ratio [1]
}

// NewSnapshot allocates a snapshot with zero-valued fields on the
// given grid.
func NewSnapshot(time float64, lon, lat, p []float64) *Snapshot {
	nx, ny, np := len(lon), len(lat), len(p)
	return &Snapshot{
		Time: time,
		Lon:  lon,
		Lat:  lat,
		P:    p,
		Ps:   sparse.ZerosDense(nx, ny),
		Pt:   sparse.ZerosDense(nx, ny),
		Z:    sparse.ZerosDense(nx, ny, np),
		T:    sparse.ZerosDense(nx, ny, np),
		U:    sparse.ZerosDense(nx, ny, np),
		V:    sparse.ZerosDense(nx, ny, np),
		W:    sparse.ZerosDense(nx, ny, np),
		PV:   sparse.ZerosDense(nx, ny, np),
		H2O:  sparse.ZerosDense(nx, ny, np),
		O3:   sparse.ZerosDense(nx, ny, np),
	}
}

// Dims returns the number of longitudes, latitudes and pressure levels.
func (s *Snapshot) Dims() (nx, ny, np int) {
	return len(s.Lon), len(s.Lat), len(s.P)
}

// Fields3D returns the three-dimensional fields by variable name.
func (s *Snapshot) Fields3D() map[string]*sparse.DenseArray {
	return map[string]*sparse.DenseArray{
		"Z": s.Z, "T": s.T, "U": s.U, "V": s.V, "W": s.W,
		"PV": s.PV, "H2O": s.H2O, "O3": s.O3,
	}
}

// Fields2D returns the two-dimensional fields by variable name.
func (s *Snapshot) Fields2D() map[string]*sparse.DenseArray {
	return map[string]*sparse.DenseArray{"PS": s.Ps, "PT": s.Pt}
}

// Check returns an error if the grid of s is too small to interpolate
// on or if any field does not match the grid.
func (s *Snapshot) Check() error {
	nx, ny, np := s.Dims()
	if nx < 2 || ny < 2 || np < 2 {
		return fmt.Errorf("met: grid must have at least 2 points in each dimension; got %dx%dx%d", nx, ny, np)
	}
	for name, f := range s.Fields3D() {
		if f == nil || len(f.Shape) != 3 || f.Shape[0] != nx || f.Shape[1] != ny || f.Shape[2] != np {
			return fmt.Errorf("met: field %s does not match grid %dx%dx%d", name, nx, ny, np)
		}
	}
	for name, f := range s.Fields2D() {
		if f == nil || len(f.Shape) != 2 || f.Shape[0] != nx || f.Shape[1] != ny {
			return fmt.Errorf("met: field %s does not match grid %dx%d", name, nx, ny)
		}
	}
	return nil
}

// LocateReg returns the index of the lower bracketing point of x on
// the regular grid xx, limited to [0, len(xx)-2].
func LocateReg(xx []float64, x float64) int {
	n := len(xx)
	i := int((x - xx[0]) / (xx[1] - xx[0]))
	if i < 0 {
		return 0
	}
	if i > n-2 {
		return n - 2
	}
	return i
}

// LocateIrr returns the index of the lower bracketing point of x on the
// monotonic (ascending or descending) irregular grid xx, limited to
// [0, len(xx)-2].
func LocateIrr(xx []float64, x float64) int {
	n := len(xx)
	ilo, ihi := 0, n-1
	if xx[0] < xx[n-1] {
		for ihi > ilo+1 {
			i := (ihi + ilo) >> 1
			if xx[i] > x {
				ihi = i
			} else {
				ilo = i
			}
		}
	} else {
		for ihi > ilo+1 {
			i := (ihi + ilo) >> 1
			if xx[i] <= x {
				ihi = i
			} else {
				ilo = i
			}
		}
	}
	return ilo
}

// Fill sets every element of field a, which must be one of the fields
// of s, to f evaluated at the grid point. For two-dimensional fields f
// is called with p set to the first pressure level.
func (s *Snapshot) Fill(a *sparse.DenseArray, f func(lon, lat, p float64) float64) {
	for ix, lon := range s.Lon {
		for iy, lat := range s.Lat {
			if len(a.Shape) == 2 {
				a.Set(f(lon, lat, s.P[0]), ix, iy)
				continue
			}
			for ip, p := range s.P {
				a.Set(f(lon, lat, p), ix, iy, ip)
			}
		}
	}
}

// Locate returns the indices of the grid cell holding the point at
// pressure p [hPa], longitude lon and latitude lat [deg].
func (s *Snapshot) Locate(p, lon, lat float64) (ix, iy, ip int) {
	if lon < s.Lon[0] {
		lon += 360
	}
	return LocateReg(s.Lon, lon), LocateReg(s.Lat, lat), LocateIrr(s.P, p)
}
