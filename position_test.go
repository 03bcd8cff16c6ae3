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

import "testing"

func TestPosition(t *testing.T) {
	for _, test := range []struct {
		name                    string
		lon, lat, p             float64
		wantLon, wantLat, wantP float64
	}{
		{name: "in domain", lon: 10, lat: 20, p: 500, wantLon: 10, wantLat: 20, wantP: 500},
		{name: "wrap lon", lon: 450, lat: 0, p: 500, wantLon: 90, wantLat: 0, wantP: 500},
		{name: "negative lon", lon: -190, lat: 0, p: 500, wantLon: 170, wantLat: 0, wantP: 500},
		{name: "north pole", lon: 10, lat: 100, p: 500, wantLon: -170, wantLat: 80, wantP: 500},
		{name: "south pole", lon: 0, lat: -95, p: 500, wantLon: -180, wantLat: -85, wantP: 500},
		{name: "lat wraps", lon: 0, lat: 370, p: 500, wantLon: 0, wantLat: 10, wantP: 500},
		{name: "above top", lon: 0, lat: 0, p: 1, wantLon: 0, wantLat: 0, wantP: 10},
		{name: "below surface", lon: 0, lat: 0, p: 1050, wantLon: 0, wantLat: 0, wantP: 1000},
		{name: "upper edge lon", lon: 180, lat: 0, p: 500, wantLon: -180, wantLat: 0, wantP: 500},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctl := &Control{Direction: 1, DtMod: 600, Quantities: mustQuantities(t)}
			atm := onePointAtm(t, ctl.Quantities, 0, test.lon, test.lat, test.p)
			d := newTestTrac(t, ctl, atm, 0, 0, 0)
			Position()(d, 0, 600)
			if absDifferent(atm.Lon[0], test.wantLon, testTolerance) ||
				absDifferent(atm.Lat[0], test.wantLat, testTolerance) ||
				absDifferent(atm.P[0], test.wantP, testTolerance) {
				t.Errorf("got (%g, %g, %g), want (%g, %g, %g)", atm.Lon[0], atm.Lat[0], atm.P[0],
					test.wantLon, test.wantLat, test.wantP)
			}
			lon, lat, p := atm.Lon[0], atm.Lat[0], atm.P[0]
			Position()(d, 0, 600)
			if atm.Lon[0] != lon || atm.Lat[0] != lat || atm.P[0] != p {
				t.Errorf("not idempotent: (%g, %g, %g) != (%g, %g, %g)", atm.Lon[0], atm.Lat[0], atm.P[0],
					lon, lat, p)
			}
		})
	}
}
