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

// Package clim provides zonal-mean climatologies used where the
// meteorological input does not carry a quantity.
package clim

import (
	"math"

	"gonum.org/v1/gonum/interp"
)

const yearSeconds = 365.25 * 86400

// Zonal-mean tropopause pressure by absolute latitude [hPa], and the
// amplitude of its annual cycle.
var (
	tropoLat = []float64{0, 15, 30, 45, 60, 75, 90}
	tropoP   = []float64{100, 103, 135, 215, 275, 295, 300}
	tropoAmp = []float64{2, 4, 20, 30, 25, 20, 15}
)

// Peak HNO3 volume mixing ratio [ppbv] by absolute latitude, and the
// pressure of the peak [hPa].
var (
	hno3Lat  = []float64{0, 20, 40, 60, 90}
	hno3Peak = []float64{3, 4.5, 7.5, 9.5, 10}
	hno3PPk  = []float64{20, 25, 30, 40, 50}
)

var (
	tropoBase, tropoCycle, hno3Max, hno3Level interp.PiecewiseLinear
)

func init() {
	must := func(pl *interp.PiecewiseLinear, x, y []float64) {
		if err := pl.Fit(x, y); err != nil {
			panic(err)
		}
	}
	must(&tropoBase, tropoLat, tropoP)
	must(&tropoCycle, tropoLat, tropoAmp)
	must(&hno3Max, hno3Lat, hno3Peak)
	must(&hno3Level, hno3Lat, hno3PPk)
}

// season returns the annual cycle phase at time t [s since 2000-01-01]
// and latitude lat, which is 1 in local midwinter and -1 in midsummer.
func season(t, lat float64) float64 {
	doy := math.Mod(t, yearSeconds)
	c := math.Cos(2 * math.Pi * (doy - 15*86400) / yearSeconds)
	if lat < 0 {
		return -c
	}
	return c
}

// TropopausePressure returns the climatological tropopause pressure
// [hPa] at time t [s] and latitude lat [deg].
func TropopausePressure(t, lat float64) float64 {
	a := math.Abs(lat)
	return tropoBase.Predict(a) + tropoCycle.Predict(a)*season(t, lat)
}

// HNO3 returns the climatological nitric acid volume mixing ratio
// [ppbv] at time t [s], latitude lat [deg] and pressure p [hPa].
// Winter polar values are enhanced by up to 10 %.
func HNO3(t, lat, p float64) float64 {
	if !(p > 0) {
		return 0
	}
	a := math.Abs(lat)
	x := math.Log(p / hno3Level.Predict(a))
	v := hno3Max.Predict(a) * math.Exp(-x*x/0.64)
	if a > 50 {
		v *= 1 + 0.1*math.Max(season(t, lat), 0)
	}
	return v
}
