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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsosurfaceRoundTrip(t *testing.T) {
	for _, mode := range []int{IsoPressure, IsoDensity, IsoTheta} {
		ctl := &Control{Direction: 1, DtMod: 600, Isosurf: mode, Quantities: mustQuantities(t)}
		atm := NewAtmosphere(3, 0)
		atm.Add(0, 10, 0, 850)
		atm.Add(0, 100, 45, 321.5)
		atm.Add(0, 250, -60, 42)
		d := newTestTrac(t, ctl, atm, 0, 0, 0)
		want := append([]float64{}, atm.P[:atm.Np]...)

		if err := IsosurfaceInit()(d); err != nil {
			t.Fatal(err)
		}
		for ip := 0; ip < atm.Np; ip++ {
			Isosurface()(d, ip, 0)
			if different(atm.P[ip], want[ip], testTolerance) {
				t.Errorf("mode %d, particle %d: p=%g != %g", mode, ip, atm.P[ip], want[ip])
			}
		}
	}
}

func TestBalloon(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "balloon.tab")
	if err := os.WriteFile(fname, []byte("# time pressure\n0 900\n\n100 800\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ctl := &Control{Direction: 1, DtMod: 600, Isosurf: IsoBalloon, Balloon: fname,
		Quantities: mustQuantities(t)}
	atm := NewAtmosphere(3, 0)
	atm.Add(50, 10, 0, 500)
	atm.Add(-10, 10, 0, 500)
	atm.Add(200, 10, 0, 500)
	d := newTestTrac(t, ctl, atm, 0, 0, 0)
	if err := IsosurfaceInit()(d); err != nil {
		t.Fatal(err)
	}
	for ip, want := range []float64{850, 900, 800} {
		Isosurface()(d, ip, 0)
		if absDifferent(atm.P[ip], want, testTolerance) {
			t.Errorf("t=%g: p=%g != %g", atm.Time[ip], atm.P[ip], want)
		}
	}
}

func TestReadBalloon(t *testing.T) {
	ts, ps, err := ReadBalloon(strings.NewReader("0 900\nnot data\n60 850 extra\n120\n"), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 2 || ts[1] != 60 || ps[1] != 850 {
		t.Errorf("table: %v, %v", ts, ps)
	}

	if _, _, err := ReadBalloon(strings.NewReader("# nothing\n"), 10); !errors.Is(err, ErrNoBalloonData) {
		t.Errorf("expected ErrNoBalloonData, got %v", err)
	}
	if _, _, err := ReadBalloon(strings.NewReader("0 900\n1 899\n2 898\n"), 2); !errors.Is(err, ErrBalloonOverflow) {
		t.Errorf("expected ErrBalloonOverflow, got %v", err)
	}
}

func TestBalloonMissingFile(t *testing.T) {
	ctl := &Control{Direction: 1, DtMod: 600, Isosurf: IsoBalloon,
		Balloon: filepath.Join(t.TempDir(), "missing.tab"), Quantities: mustQuantities(t)}
	atm := NewAtmosphere(1, 0)
	atm.Add(0, 10, 0, 500)
	d := newTestTrac(t, ctl, atm, 0, 0, 0)
	if err := IsosurfaceInit()(d); err == nil {
		t.Error("expected an error")
	}
}
