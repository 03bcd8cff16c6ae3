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

	"github.com/spatialmodel/trac/clim"
	"github.com/spatialmodel/trac/met"
)

// Advection returns a function that moves particles with the
// resolved wind using the explicit midpoint method: the wind is
// sampled at the particle, used to find the position half a step
// ahead, and the wind sampled there moves the particle over the full
// step. The particle time is advanced by the time step.
func Advection() ParticleManipulator {
	return func(d *Trac, ip int, dt float64) {
		a := d.Atm
		s := met.Interpolate(d.Met0, d.Met1, a.Time[ip], a.P[ip], a.Lon[ip], a.Lat[ip], met.Wind)

		xm0 := a.Lon[ip] + DX2DEG(0.5*dt*s.U/1000, a.Lat[ip])
		xm1 := a.Lat[ip] + DY2DEG(0.5*dt*s.V/1000)
		xm2 := a.P[ip] + 0.5*dt*s.W

		s = met.Interpolate(d.Met0, d.Met1, a.Time[ip]+0.5*dt, xm2, xm0, xm1, met.Wind)

		a.Time[ip] += dt
		a.Lon[ip] += DX2DEG(dt*s.U/1000, xm1)
		a.Lat[ip] += DY2DEG(dt * s.V / 1000)
		a.P[ip] += dt * s.W
	}
}

// TurbulentDiffusion returns a function that applies random
// displacements with diffusivities blended between their tropospheric
// and stratospheric values by the position of the particle relative to
// the climatological tropopause. The random numbers are taken from
// d.Rs, three per particle.
func TurbulentDiffusion() ParticleManipulator {
	return func(d *Trac, ip int, dt float64) {
		a, c := d.Atm, d.Ctl
		w := tropoWeight(a.P[ip], clim.TropopausePressure(a.Time[ip], a.Lat[ip]))
		dx := w*c.TurbDxTrop + (1-w)*c.TurbDxStrat
		dz := w*c.TurbDzTrop + (1-w)*c.TurbDzStrat
		rs := d.Rs[3*ip : 3*ip+3]

		if dx > 0 {
			sigma := math.Sqrt(2 * dx * math.Abs(dt))
			a.Lon[ip] += DX2DEG(rs[0]*sigma/1000, a.Lat[ip])
			a.Lat[ip] += DY2DEG(rs[1] * sigma / 1000)
		}
		if dz > 0 {
			sigma := math.Sqrt(2 * dz * math.Abs(dt))
			a.P[ip] += DZ2DP(rs[2]*sigma/1000, a.P[ip])
		}
	}
}

// Coefficients of the Cunningham slip-flow correction (Kasten, 1968).
const (
	slipA = 1.249
	slipB = 0.42
	slipC = 0.87
)

// airMoleculeMass is the average mass of an air molecule [kg].
const airMoleculeMass = 4.8096e-26

// SettlingVelocity returns the fall velocity [m/s] of a spherical
// particle with radius rp [um] and density rhop [kg/m^3] in air at
// pressure p [hPa] and temperature t [K].
func SettlingVelocity(p, t, rp, rhop float64) float64 {
	p *= 100
	rp *= 1e-6

	// density of dry air
	rho := p / (RA * t)

	// dynamic viscosity of air
	eta := 1.8325e-5 * (416.16 / (t + 120)) * math.Pow(t/296.16, 1.5)

	// thermal velocity and mean free path of an air molecule
	v := math.Sqrt(8 * KB * t / (math.Pi * airMoleculeMass))
	lambda := 2 * eta / (rho * v)

	// Knudsen number and slip-flow correction
	k := lambda / rp
	g := 1 + k*(slipA+slipB*math.Exp(-slipC/k))

	return 2 * rp * rp * (rhop - rho) * G0 / (9 * eta) * g
}

// Sedimentation returns a function that moves particles down at their
// gravitational settling velocity, computed from the particle radius
// and density quantities. The displacement is DZ2DP(-vp*dt/1000, p),
// which increases pressure. MPTRAC's trac.c adds DZ2DP(vp*dt/1000, p)
// and so moves settling particles up; results differ from its output
// by that sign.
func Sedimentation() ParticleManipulator {
	return func(d *Trac, ip int, dt float64) {
		a := d.Atm
		ir, _ := d.Ctl.Quantities.Slot(QntR)
		irho, _ := d.Ctl.Quantities.Slot(QntRho)
		s := met.Interpolate(d.Met0, d.Met1, a.Time[ip], a.P[ip], a.Lon[ip], a.Lat[ip], met.T)
		vp := SettlingVelocity(a.P[ip], s.T, a.Q[ir][ip], a.Q[irho][ip])
		a.P[ip] += DZ2DP(-vp*dt/1000, a.P[ip])
	}
}

// Decay returns a function that decays particle mass exponentially with
// a lifetime blended between its tropospheric and stratospheric values.
func Decay() ParticleManipulator {
	return func(d *Trac, ip int, dt float64) {
		a, c := d.Atm, d.Ctl
		im, _ := c.Quantities.Slot(QntM)
		w := tropoWeight(a.P[ip], clim.TropopausePressure(a.Time[ip], a.Lat[ip]))
		tdec := w*c.TDecTrop + (1-w)*c.TDecStrat
		a.Q[im][ip] *= math.Exp(-dt / tdec)
	}
}
