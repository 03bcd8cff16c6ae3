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

// meteoSlots holds the storage slots of the sampled quantities; -1
// marks a disabled quantity.
type meteoSlots struct {
	ps, pt, p, z, t, u, v, w, h2o, o3   int
	vh, vz, theta, pv, tice, tnat, tsts int
	want                                met.Field
}

func newMeteoSlots(c *Control) *meteoSlots {
	slot := func(q Quantity) int {
		if i, ok := c.Quantities.Slot(q); ok {
			return i
		}
		return -1
	}
	s := &meteoSlots{
		ps: slot(QntPs), pt: slot(QntPt), p: slot(QntP), z: slot(QntZ),
		t: slot(QntT), u: slot(QntU), v: slot(QntV), w: slot(QntW),
		h2o: slot(QntH2O), o3: slot(QntO3), vh: slot(QntVh), vz: slot(QntVz),
		theta: slot(QntTheta), pv: slot(QntPV), tice: slot(QntTice),
		tnat: slot(QntTnat), tsts: slot(QntTsts),
	}
	need := func(f met.Field, slots ...int) {
		for _, i := range slots {
			if i >= 0 {
				s.want |= f
				return
			}
		}
	}
	need(met.Ps, s.ps)
	need(met.Pt, s.pt)
	need(met.Z, s.z)
	need(met.T, s.t, s.theta)
	need(met.U, s.u, s.vh)
	need(met.V, s.v, s.vh)
	need(met.W, s.w, s.vz)
	need(met.PV, s.pv)
	need(met.O3, s.o3)
	need(met.H2O, s.h2o)
	if c.PSCH2O <= 0 {
		need(met.H2O, s.tice, s.tnat)
	}
	return s
}

// Meteo returns a function that, at the sampling times, stores the
// meteorological data at the positions of the active particles in their
// enabled quantities, along with derived quantities.
func Meteo() DomainManipulator {
	var slots *meteoSlots
	return func(d *Trac) error {
		if !d.Ctl.sampleMet(d.T) {
			return nil
		}
		if slots == nil {
			slots = newMeteoSlots(d.Ctl)
		}
		d.forEach(true, meteoSample(slots))
		return nil
	}
}

// TIce returns the frost point [K] (Marti and Mauersberger, 1993) at
// pressure p [hPa] and water vapor volume mixing ratio h2o.
func TIce(p, h2o float64) float64 {
	return -2663.5 / (math.Log10(h2o*p*100) - 12.537)
}

// TNAT returns the existence temperature of nitric acid trihydrate [K]
// (Hanson and Mauersberger, 1988) at pressure p [hPa] and water vapor
// and nitric acid volume mixing ratios h2o and hno3. The second return
// value is false if there is no positive solution.
func TNAT(p, h2o, hno3 float64) (float64, bool) {
	pHNO3 := hno3 * p / 1.333224
	pH2O := h2o * p / 1.333224
	a := 0.009179 - 0.00088*math.Log10(pH2O)
	b := (38.9855 - math.Log10(pHNO3) - 2.7836*math.Log10(pH2O)) / a
	c := -11397.0 / a
	x1 := (-b + math.Sqrt(b*b-4*c)) / 2
	x2 := (-b - math.Sqrt(b*b-4*c)) / 2
	switch {
	case x2 > 0:
		return x2, true
	case x1 > 0:
		return x1, true
	}
	return 0, false
}

func meteoSample(s *meteoSlots) ParticleManipulator {
	return func(d *Trac, ip int, _ float64) {
		a, c := d.Atm, d.Ctl
		p := a.P[ip]
		m := met.Interpolate(d.Met0, d.Met1, a.Time[ip], p, a.Lon[ip], a.Lat[ip], s.want)

		set := func(slot int, v float64) {
			if slot >= 0 {
				a.Q[slot][ip] = v
			}
		}
		set(s.ps, m.Ps)
		set(s.pt, m.Pt)
		set(s.p, p)
		set(s.z, m.Z)
		set(s.t, m.T)
		set(s.u, m.U)
		set(s.v, m.V)
		set(s.w, m.W)
		set(s.h2o, m.H2O)
		set(s.o3, m.O3)
		if s.vh >= 0 {
			a.Q[s.vh][ip] = math.Hypot(m.U, m.V)
		}
		if s.vz >= 0 {
			a.Q[s.vz][ip] = -1e3 * H0 / p * m.W
		}
		if s.theta >= 0 {
			a.Q[s.theta][ip] = Theta(p, m.T)
		}
		set(s.pv, m.PV)

		h2o := m.H2O
		if c.PSCH2O > 0 {
			h2o = c.PSCH2O
		}
		if s.tice >= 0 {
			a.Q[s.tice][ip] = TIce(p, h2o)
		}
		if s.tnat >= 0 {
			hno3 := c.PSCHNO3
			if hno3 <= 0 {
				hno3 = clim.HNO3(a.Time[ip], a.Lat[ip], p) * 1e-9
			}
			if v, ok := TNAT(p, h2o, hno3); ok {
				a.Q[s.tnat][ip] = v
			}
		}
		if s.tsts >= 0 {
			// A disabled T_ice or T_NAT makes T_STS NaN.
			tice, tnat := math.NaN(), math.NaN()
			if s.tice >= 0 {
				tice = a.Q[s.tice][ip]
			}
			if s.tnat >= 0 {
				tnat = a.Q[s.tnat][ip]
			}
			a.Q[s.tsts][ip] = 0.5 * (tice + tnat)
		}
	}
}
