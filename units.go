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

import "math"

// Physical constants.
const (
	// RE is the mean radius of the Earth [km].
	RE = 6367.421
	// H0 is the scale height of the atmosphere [km].
	H0 = 7.0
	// P0 is the reference surface pressure [hPa].
	P0 = 1013.25
	// RA is the specific gas constant of dry air [J/(kg K)].
	RA = 287.058
	// KB is the Boltzmann constant [J/K].
	KB = 1.3806504e-23
	// G0 is the standard gravity [m/s^2].
	G0 = 9.80665
)

// DX2DEG converts a zonal distance dx [km] at latitude lat [deg] to
// degrees of longitude.
func DX2DEG(dx, lat float64) float64 {
	return dx * 180 / (math.Pi * RE * math.Cos(lat/180*math.Pi))
}

// DY2DEG converts a meridional distance dy [km] to degrees of latitude.
func DY2DEG(dy float64) float64 {
	return dy * 180 / (math.Pi * RE)
}

// DZ2DP converts a vertical distance dz [km] at pressure p [hPa] to a
// pressure difference [hPa].
func DZ2DP(dz, p float64) float64 {
	return -dz * p / H0
}

// Z2P converts altitude z [km] to pressure [hPa] in the scale height
// atmosphere.
func Z2P(z float64) float64 {
	return P0 * math.Exp(-z/H0)
}

// P2Z converts pressure p [hPa] to altitude [km].
func P2Z(p float64) float64 {
	return H0 * math.Log(P0/p)
}

// Theta returns the potential temperature [K] at pressure p [hPa] and
// temperature t [K].
func Theta(p, t float64) float64 {
	return t * math.Pow(1000/p, 0.286)
}

// lin linearly interpolates between (x0, y0) and (x1, y1) at x.
func lin(x0, y0, x1, y1, x float64) float64 {
	return y0 + (y1-y0)/(x1-x0)*(x-x0)
}

// fmod is the remainder of x/y truncated toward zero, so it keeps the
// sign of x.
func fmod(x, y float64) float64 {
	return x - y*math.Trunc(x/y)
}

// tropoWeight returns the weight of tropospheric properties for a
// particle at pressure p below a tropopause at pressure pt: 1 in the
// troposphere, 0 in the stratosphere and linear across a transition
// layer around the tropopause.
func tropoWeight(p, pt float64) float64 {
	p1 := pt * 0.866877899
	p0 := pt / 0.866877899
	switch {
	case p > p0:
		return 1
	case p < p1:
		return 0
	default:
		return lin(p0, 1, p1, 0, p)
	}
}
