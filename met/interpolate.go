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

import "github.com/ctessum/sparse"

// Field is a set of meteorological quantities requested from
// Interpolate.
type Field uint16

// Fields that can be requested from Interpolate.
const (
	Ps Field = 1 << iota
	Pt
	Z
	T
	U
	V
	W
	PV
	H2O
	O3

	Wind = U | V | W
	All  = Ps | Pt | Z | T | U | V | W | PV | H2O | O3
)

// Has reports whether all of the fields in g are in f.
func (f Field) Has(g Field) bool { return f&g == g }

// Sample holds interpolated meteorological values. Only the fields that
// were requested are set; the rest are zero.
type Sample struct {
	Ps, Pt, Z, T, U, V, W, PV, H2O, O3 float64
}

// Interpolate returns the requested fields at pressure p [hPa],
// longitude lon and latitude lat [deg], linearly interpolated in time t
// between snapshots m0 and m1.
func Interpolate(m0, m1 *Snapshot, t, p, lon, lat float64, want Field) Sample {
	s0 := m0.interpolateSpace(p, lon, lat, want)
	if m1 == nil || m1 == m0 || m1.Time == m0.Time {
		return s0
	}
	s1 := m1.interpolateSpace(p, lon, lat, want)
	wt := (m1.Time - t) / (m1.Time - m0.Time)
	lin := func(v0, v1 float64) float64 { return wt*(v0-v1) + v1 }
	return Sample{
		Ps:  lin(s0.Ps, s1.Ps),
		Pt:  lin(s0.Pt, s1.Pt),
		Z:   lin(s0.Z, s1.Z),
		T:   lin(s0.T, s1.T),
		U:   lin(s0.U, s1.U),
		V:   lin(s0.V, s1.V),
		W:   lin(s0.W, s1.W),
		PV:  lin(s0.PV, s1.PV),
		H2O: lin(s0.H2O, s1.H2O),
		O3:  lin(s0.O3, s1.O3),
	}
}

// weights holds the bracketing indices and lower-point weights of a
// position on the snapshot grid.
type weights struct {
	ix, iy, ip int
	wx, wy, wp float64
}

func (s *Snapshot) weights(p, lon, lat float64) weights {
	var w weights
	w.ix, w.iy, w.ip = s.Locate(p, lon, lat)
	if lon < s.Lon[0] {
		lon += 360
	}
	w.wx = (s.Lon[w.ix+1] - lon) / (s.Lon[w.ix+1] - s.Lon[w.ix])
	w.wy = (s.Lat[w.iy+1] - lat) / (s.Lat[w.iy+1] - s.Lat[w.iy])
	w.wp = (s.P[w.ip+1] - p) / (s.P[w.ip+1] - s.P[w.ip])
	return w
}

func (w weights) at3d(a *sparse.DenseArray) float64 {
	aux00 := w.wp*(a.Get(w.ix, w.iy, w.ip)-a.Get(w.ix, w.iy, w.ip+1)) + a.Get(w.ix, w.iy, w.ip+1)
	aux01 := w.wp*(a.Get(w.ix, w.iy+1, w.ip)-a.Get(w.ix, w.iy+1, w.ip+1)) + a.Get(w.ix, w.iy+1, w.ip+1)
	aux10 := w.wp*(a.Get(w.ix+1, w.iy, w.ip)-a.Get(w.ix+1, w.iy, w.ip+1)) + a.Get(w.ix+1, w.iy, w.ip+1)
	aux11 := w.wp*(a.Get(w.ix+1, w.iy+1, w.ip)-a.Get(w.ix+1, w.iy+1, w.ip+1)) + a.Get(w.ix+1, w.iy+1, w.ip+1)
	aux0 := w.wy*(aux00-aux01) + aux01
	aux1 := w.wy*(aux10-aux11) + aux11
	return w.wx*(aux0-aux1) + aux1
}

func (w weights) at2d(a *sparse.DenseArray) float64 {
	aux0 := w.wy*(a.Get(w.ix, w.iy)-a.Get(w.ix, w.iy+1)) + a.Get(w.ix, w.iy+1)
	aux1 := w.wy*(a.Get(w.ix+1, w.iy)-a.Get(w.ix+1, w.iy+1)) + a.Get(w.ix+1, w.iy+1)
	return w.wx*(aux0-aux1) + aux1
}

func (s *Snapshot) interpolateSpace(p, lon, lat float64, want Field) Sample {
	w := s.weights(p, lon, lat)
	var o Sample
	if want.Has(Ps) {
		o.Ps = w.at2d(s.Ps)
	}
	if want.Has(Pt) {
		o.Pt = w.at2d(s.Pt)
	}
	if want.Has(Z) {
		o.Z = w.at3d(s.Z)
	}
	if want.Has(T) {
		o.T = w.at3d(s.T)
	}
	if want.Has(U) {
		o.U = w.at3d(s.U)
	}
	if want.Has(V) {
		o.V = w.at3d(s.V)
	}
	if want.Has(W) {
		o.W = w.at3d(s.W)
	}
	if want.Has(PV) {
		o.PV = w.at3d(s.PV)
	}
	if want.Has(H2O) {
		o.H2O = w.at3d(s.H2O)
	}
	if want.Has(O3) {
		o.O3 = w.at3d(s.O3)
	}
	return o
}
