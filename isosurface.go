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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/trac/met"
)

// IsosurfaceInit returns a function that records the value each
// particle keeps constant under the isosurface mode of the simulation:
// pressure, density (as p/T), or potential temperature. In balloon mode
// it reads the balloon pressure table instead.
func IsosurfaceInit() DomainManipulator {
	return func(d *Trac) error {
		switch d.Ctl.Isosurf {
		case IsoBalloon:
			f, err := os.Open(d.Ctl.Balloon)
			if err != nil {
				return fmt.Errorf("trac: opening balloon pressure data: %v", err)
			}
			defer f.Close()
			d.Log.WithFields(logrus.Fields{"file": d.Ctl.Balloon}).Info("reading balloon pressure data")
			d.Atm.IsoTs, d.Atm.IsoPs, err = ReadBalloon(f, d.Atm.Capacity)
			return err
		case IsoPressure, IsoDensity, IsoTheta:
			d.forEach(false, isosurfaceSave(d.Ctl.Isosurf))
			return nil
		default:
			return fmt.Errorf("trac: invalid isosurface mode %d", d.Ctl.Isosurf)
		}
	}
}

func isosurfaceSave(mode int) ParticleManipulator {
	return func(d *Trac, ip int, _ float64) {
		a := d.Atm
		if mode == IsoPressure {
			a.IsoVar[ip] = a.P[ip]
			return
		}
		t := met.Interpolate(d.Met0, d.Met1, a.Time[ip], a.P[ip], a.Lon[ip], a.Lat[ip], met.T).T
		if mode == IsoDensity {
			a.IsoVar[ip] = a.P[ip] / t
		} else {
			a.IsoVar[ip] = Theta(a.P[ip], t)
		}
	}
}

// Isosurface returns a function that resets particle pressure from the
// value recorded by IsosurfaceInit, or from the balloon table at the
// particle time. Outside of the table the first or last pressure is
// used.
func Isosurface() ParticleManipulator {
	return func(d *Trac, ip int, _ float64) {
		a := d.Atm
		switch d.Ctl.Isosurf {
		case IsoPressure:
			a.P[ip] = a.IsoVar[ip]
		case IsoDensity:
			t := met.Interpolate(d.Met0, d.Met1, a.Time[ip], a.P[ip], a.Lon[ip], a.Lat[ip], met.T).T
			a.P[ip] = a.IsoVar[ip] * t
		case IsoTheta:
			t := met.Interpolate(d.Met0, d.Met1, a.Time[ip], a.P[ip], a.Lon[ip], a.Lat[ip], met.T).T
			a.P[ip] = 1000 * math.Pow(a.IsoVar[ip]/t, -1/0.286)
		case IsoBalloon:
			a.P[ip] = balloonPressure(a.IsoTs, a.IsoPs, a.Time[ip])
		}
	}
}

func balloonPressure(ts, ps []float64, t float64) float64 {
	n := len(ts)
	switch {
	case t <= ts[0]:
		return ps[0]
	case t >= ts[n-1]:
		return ps[n-1]
	}
	i := met.LocateIrr(ts, t)
	return lin(ts[i], ps[i], ts[i+1], ps[i+1], t)
}

// ReadBalloon reads a balloon pressure table from r. Each line that
// starts with two numbers adds a (time [s], pressure [hPa]) point; all
// other lines are skipped. The times must be ascending. It is an error
// for the table to hold no points or more than capacity points.
func ReadBalloon(r io.Reader, capacity int) (ts, ps []float64, err error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		f := strings.Fields(s.Text())
		if len(f) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			continue
		}
		p, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			continue
		}
		if len(ts) >= capacity {
			return nil, nil, fmt.Errorf("%w: more than %d", ErrBalloonOverflow, capacity)
		}
		ts = append(ts, t)
		ps = append(ps, p)
	}
	if err := s.Err(); err != nil {
		return nil, nil, fmt.Errorf("trac: reading balloon pressure data: %v", err)
	}
	if len(ts) == 0 {
		return nil, nil, ErrNoBalloonData
	}
	return ts, ps, nil
}
