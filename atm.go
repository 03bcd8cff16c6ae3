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

package trac

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Atmosphere holds an ensemble of air parcels. All per-particle slices
// have length Capacity; only the first Np elements are in use. The
// arrays are never resized once a simulation has started.
type Atmosphere struct {
	Capacity int // maximum number of particles
	Np       int // number of particles

	Time []float64 // [s]
	Lon  []float64 // [deg]
	Lat  []float64 // [deg]
	P    []float64 // [hPa]

	// Q holds the quantities by slot and particle.
	Q [][]float64

	// Up, Vp and Wp hold the mesoscale wind fluctuations
	// [m/s, m/s, hPa/s].
	Up, Vp, Wp []float64

	// IsoVar holds the conserved value of the isosurface constraint.
	IsoVar []float64

	// IsoTs and IsoPs hold the balloon time [s] and pressure [hPa]
	// table shared by all particles.
	IsoTs, IsoPs []float64
}

// NewAtmosphere allocates an empty ensemble for up to capacity
// particles carrying nq quantities each.
func NewAtmosphere(capacity, nq int) *Atmosphere {
	a := &Atmosphere{
		Capacity: capacity,
		Time:     make([]float64, capacity),
		Lon:      make([]float64, capacity),
		Lat:      make([]float64, capacity),
		P:        make([]float64, capacity),
		Up:       make([]float64, capacity),
		Vp:       make([]float64, capacity),
		Wp:       make([]float64, capacity),
		IsoVar:   make([]float64, capacity),
		Q:        make([][]float64, nq),
	}
	for i := range a.Q {
		a.Q[i] = make([]float64, capacity)
	}
	return a
}

// Add appends a particle with the given time, position and quantity
// values.
func (a *Atmosphere) Add(time, lon, lat, p float64, q ...float64) error {
	if a.Np >= a.Capacity {
		return fmt.Errorf("trac: atmosphere is full (capacity %d)", a.Capacity)
	}
	if len(q) != len(a.Q) {
		return fmt.Errorf("trac: particle has %d quantities but %d are required", len(q), len(a.Q))
	}
	ip := a.Np
	a.Time[ip], a.Lon[ip], a.Lat[ip], a.P[ip] = time, lon, lat, p
	for i, v := range q {
		a.Q[i][ip] = v
	}
	a.Np++
	return nil
}

// TimeRange returns the earliest and latest particle times.
func (a *Atmosphere) TimeRange() (tmin, tmax float64) {
	t := a.Time[:a.Np]
	return floats.Min(t), floats.Max(t)
}
