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

import "github.com/spatialmodel/trac/met"

// Position returns a function that returns particles to the model
// domain. Longitudes are wrapped to [-180, 180), latitudes beyond the
// poles are reflected onto the opposite meridian, and pressures are
// kept between the top model level and, below 300 hPa, the surface
// pressure. Applying it twice has the same effect as applying it once.
func Position() ParticleManipulator {
	return func(d *Trac, ip int, _ float64) {
		a := d.Atm
		lon := fmod(a.Lon[ip], 360)
		lat := fmod(a.Lat[ip], 360)

		for lat < -90 || lat > 90 {
			if lat > 90 {
				lat = 180 - lat
				lon += 180
			}
			if lat < -90 {
				lat = -180 - lat
				lon += 180
			}
		}
		for lon < -180 {
			lon += 360
		}
		for lon >= 180 {
			lon -= 360
		}
		a.Lon[ip], a.Lat[ip] = lon, lat

		if top := d.Met0.P[len(d.Met0.P)-1]; a.P[ip] < top {
			a.P[ip] = top
		} else if a.P[ip] > 300 {
			ps := met.Interpolate(d.Met0, d.Met1, a.Time[ip], a.P[ip], lon, lat, met.Ps).Ps
			if a.P[ip] > ps {
				a.P[ip] = ps
			}
		}
	}
}
