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
	"math"
	"sync/atomic"

	"github.com/spatialmodel/trac/met"
	"gonum.org/v1/gonum/stat"
)

// windStats holds the standard deviations of the winds around a grid
// cell, computed from the snapshots starting at Time.
type windStats struct {
	Time             float64
	USig, VSig, WSig float64
}

// WindCache holds the local wind variability of each meteorological
// grid cell. Entries are computed on first use and are valid while the
// earlier snapshot keeps the time they were computed for. Concurrent
// fills of the same cell store identical values, and each entry is
// replaced as a whole, so readers never see a mix of old and new
// components.
type WindCache struct {
	nx, ny, np int
	cells      []atomic.Pointer[windStats]
}

// Resize prepares the cache for a grid of nx by ny by np points,
// dropping all entries if the grid size changed. It must not be called
// concurrently with Get.
func (c *WindCache) Resize(nx, ny, np int) {
	if c.nx == nx && c.ny == ny && c.np == np && c.cells != nil {
		return
	}
	c.nx, c.ny, c.np = nx, ny, np
	c.cells = make([]atomic.Pointer[windStats], nx*ny*np)
}

// Get returns the standard deviations of the zonal, meridional and
// vertical wind around cell (ix, iy, iz), filling the entry if it is
// missing or was computed for a different snapshot.
func (c *WindCache) Get(m0, m1 *met.Snapshot, ix, iy, iz int) (usig, vsig, wsig float64) {
	cell := &c.cells[(ix*c.ny+iy)*c.np+iz]
	if s := cell.Load(); s != nil && s.Time == m0.Time {
		return s.USig, s.VSig, s.WSig
	}
	usig, vsig, wsig = WindStats(m0, m1, ix, iy, iz)
	cell.Store(&windStats{Time: m0.Time, USig: usig, VSig: vsig, WSig: wsig})
	return usig, vsig, wsig
}

// WindStats returns the population standard deviations of the winds at
// the 8 corners of grid cell (ix, iy, iz) in snapshots m0 and m1. If m1
// is nil, m0 is used for both.
func WindStats(m0, m1 *met.Snapshot, ix, iy, iz int) (usig, vsig, wsig float64) {
	if m1 == nil {
		m1 = m0
	}
	var u, v, w [16]float64
	i := 0
	for _, m := range [2]*met.Snapshot{m0, m1} {
		for dz := 0; dz < 2; dz++ {
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					u[i] = m.U.Get(ix+dx, iy+dy, iz+dz)
					v[i] = m.V.Get(ix+dx, iy+dy, iz+dz)
					w[i] = m.W.Get(ix+dx, iy+dy, iz+dz)
					i++
				}
			}
		}
	}
	_, usig = stat.PopMeanStdDev(u[:], nil)
	_, vsig = stat.PopMeanStdDev(v[:], nil)
	_, wsig = stat.PopMeanStdDev(w[:], nil)
	return usig, vsig, wsig
}

// MesoscaleDiffusion returns a function that perturbs particle
// positions with mesoscale wind fluctuations. The fluctuations follow
// a first-order autoregressive process scaled by the local wind
// variability, with a correlation that decreases with the time step
// relative to the spacing of the meteorological data.
func MesoscaleDiffusion() ParticleManipulator {
	return func(d *Trac, ip int, dt float64) {
		a, c := d.Atm, d.Ctl
		ix, iy, iz := d.Met0.Locate(a.P[ip], a.Lon[ip], a.Lat[ip])
		usig, vsig, wsig := d.Cache.Get(d.Met0, d.Met1, ix, iy, iz)

		r := 1 - 2*math.Abs(dt)/c.DtMet
		r2 := math.Sqrt(1 - r*r)
		rs := d.Rs[3*ip : 3*ip+3]

		if c.TurbMesoX > 0 {
			a.Up[ip] = r*a.Up[ip] + r2*rs[0]*c.TurbMesoX*usig
			a.Lon[ip] += DX2DEG(a.Up[ip]*dt/1000, a.Lat[ip])

			a.Vp[ip] = r*a.Vp[ip] + r2*rs[1]*c.TurbMesoX*vsig
			a.Lat[ip] += DY2DEG(a.Vp[ip] * dt / 1000)
		}
		if c.TurbMesoZ > 0 {
			a.Wp[ip] = r*a.Wp[ip] + r2*rs[2]*c.TurbMesoZ*wsig
			a.P[ip] += a.Wp[ip] * dt
		}
	}
}
