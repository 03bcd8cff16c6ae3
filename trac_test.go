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
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/trac/met"
)

const testTolerance = 1.e-9

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance {
		return true
	}
	return false
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// uniformMet returns a global snapshot with constant winds [m/s, m/s,
// hPa/s], a temperature that decreases with height, a surface pressure
// of 1000 hPa and a tropopause at 200 hPa.
func uniformMet(time, u, v, w float64) *met.Snapshot {
	var lon, lat []float64
	for x := 0.; x <= 360; x += 10 {
		lon = append(lon, x)
	}
	for y := -90.; y <= 90; y += 10 {
		lat = append(lat, y)
	}
	p := []float64{1000, 850, 700, 500, 300, 200, 100, 50, 10}
	s := met.NewSnapshot(time, lon, lat, p)
	s.Fill(s.U, func(_, _, _ float64) float64 { return u })
	s.Fill(s.V, func(_, _, _ float64) float64 { return v })
	s.Fill(s.W, func(_, _, _ float64) float64 { return w })
	s.Fill(s.T, func(_, _, p float64) float64 { return 200 + 0.09*p })
	s.Fill(s.Z, func(_, _, p float64) float64 { return P2Z(p) })
	s.Fill(s.H2O, func(_, _, _ float64) float64 { return 5e-6 })
	s.Fill(s.O3, func(_, _, p float64) float64 { return 1e-8 * (1000 - p) })
	s.Fill(s.PV, func(_, lat, _ float64) float64 { return lat / 10 })
	s.Fill(s.Ps, func(_, _, _ float64) float64 { return 1000 })
	s.Fill(s.Pt, func(_, _, _ float64) float64 { return 200 })
	return s
}

func mustQuantities(t *testing.T, names ...string) Quantities {
	q, err := NewQuantities(names...)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

// newTestTrac returns a simulation of atm in a steady uniform wind
// field, ready for calling individual manipulators.
func newTestTrac(t *testing.T, ctl *Control, atm *Atmosphere, u, v, w float64, opts ...Option) *Trac {
	m := uniformMet(0, u, v, w)
	m1 := uniformMet(86400, u, v, w)
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	d, err := NewTrac(ctl, atm, met.Static{M0: m, M1: m1}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	d.Met0, d.Met1 = m, m1
	d.Cache.Resize(m.Dims())
	return d
}

type stepCounter struct {
	steps []StepStats
}

func (s *stepCounter) Record(st StepStats) error {
	s.steps = append(s.steps, st)
	return nil
}

func TestDriverSteps(t *testing.T) {
	for _, test := range []struct {
		name       string
		dir        int
		start      float64
		stop       float64
		times      []float64
		nsteps     int
		firstT     float64
		lastT      float64
		windowFrom float64
	}{
		{name: "forward", dir: 1, start: 0, stop: 3600, times: []float64{0}, nsteps: 7, firstT: 0, lastT: 3600},
		{name: "forward clamped", dir: 1, start: 0, stop: 3500, times: []float64{0}, nsteps: 7, firstT: 0, lastT: 3500},
		{name: "backward", dir: -1, start: 3600, stop: 0, times: []float64{3600}, nsteps: 7, firstT: 3600, lastT: 0},
		{name: "from particles", dir: 1, start: math.NaN(), stop: math.Inf(1),
			times: []float64{700, 1900}, nsteps: 4, firstT: 600, lastT: 1900},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctl := &Control{TStart: test.start, TStop: test.stop, Direction: test.dir, DtMod: 600,
				Quantities: mustQuantities(t)}
			atm := NewAtmosphere(len(test.times), 0)
			for _, tt := range test.times {
				if err := atm.Add(tt, 10, 0, 500); err != nil {
					t.Fatal(err)
				}
			}
			sc := new(stepCounter)
			d := newTestTrac(t, ctl, atm, 0, 0, 0, WithStepRecorders(sc))
			d.Met0 = nil
			if err := d.Init(); err != nil {
				t.Fatal(err)
			}
			if err := d.Run(); err != nil {
				t.Fatal(err)
			}
			if err := d.Cleanup(); err != nil {
				t.Fatal(err)
			}
			if len(sc.steps) != test.nsteps {
				t.Fatalf("steps: %d != %d", len(sc.steps), test.nsteps)
			}
			if sc.steps[0].Time != test.firstT {
				t.Errorf("first step time: %g != %g", sc.steps[0].Time, test.firstT)
			}
			if last := sc.steps[len(sc.steps)-1].Time; last != test.lastT {
				t.Errorf("last step time: %g != %g", last, test.lastT)
			}
			for ip := 0; ip < atm.Np; ip++ {
				if atm.Time[ip] != test.lastT {
					t.Errorf("particle %d time %g != %g", ip, atm.Time[ip], test.lastT)
				}
			}
		})
	}
}

func TestEmptyWindow(t *testing.T) {
	for _, dir := range []int{1, -1} {
		ctl := &Control{TStart: 3600, TStop: 3600, Direction: dir, DtMod: 600, Quantities: mustQuantities(t)}
		atm := NewAtmosphere(1, 0)
		atm.Add(3600, 0, 0, 500)
		d := newTestTrac(t, ctl, atm, 0, 0, 0)
		if err := d.Init(); !errors.Is(err, ErrEmptyWindow) {
			t.Errorf("direction %d: expected ErrEmptyWindow, got %v", dir, err)
		}
	}
	ctl := &Control{TStart: 0, TStop: 3600, Direction: -1, DtMod: 600, Quantities: mustQuantities(t)}
	atm := NewAtmosphere(1, 0)
	atm.Add(0, 0, 0, 500)
	d := newTestTrac(t, ctl, atm, 0, 0, 0)
	if err := d.Init(); !errors.Is(err, ErrEmptyWindow) {
		t.Errorf("inverted window: expected ErrEmptyWindow, got %v", err)
	}
}

func TestTooManyStreams(t *testing.T) {
	ctl := &Control{TStart: 0, TStop: 3600, Direction: 1, DtMod: 600, TurbDxTrop: 50,
		Quantities: mustQuantities(t)}
	atm := NewAtmosphere(1, 0)
	atm.Add(0, 0, 0, 500)
	d := newTestTrac(t, ctl, atm, 0, 0, 0,
		WithExecutor(HostExecutor{NumWorkers: 4}), WithRNG(NewHostRNG(1, 2)))
	if err := d.Init(); !errors.Is(err, ErrTooManyStreams) {
		t.Errorf("expected ErrTooManyStreams, got %v", err)
	}
}

func TestCFLWarning(t *testing.T) {
	l, hook := logrus.New(), new(warnCounter)
	l.Out = io.Discard
	l.AddHook(hook)
	ctl := &Control{TStart: 0, TStop: 18000, Direction: 1, DtMod: 9000, Quantities: mustQuantities(t)}
	atm := NewAtmosphere(1, 0)
	atm.Add(0, 0, 0, 500)
	d := newTestTrac(t, ctl, atm, 0, 0, 0, WithLogger(l))
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if hook.n != 1 {
		t.Errorf("expected one CFL warning but got %d", hook.n)
	}
}

type warnCounter struct{ n int }

func (w *warnCounter) Levels() []logrus.Level { return []logrus.Level{logrus.WarnLevel} }
func (w *warnCounter) Fire(*logrus.Entry) error {
	w.n++
	return nil
}

type particleState struct {
	time, lon, lat, p, up, vp, wp, iso float64
	q                                  []float64
}

func stateOf(a *Atmosphere, ip int) particleState {
	s := particleState{a.Time[ip], a.Lon[ip], a.Lat[ip], a.P[ip], a.Up[ip], a.Vp[ip], a.Wp[ip],
		a.IsoVar[ip], nil}
	for _, q := range a.Q {
		s.q = append(s.q, q[ip])
	}
	return s
}

func (s particleState) equal(o particleState) bool {
	if s.time != o.time || s.lon != o.lon || s.lat != o.lat || s.p != o.p ||
		s.up != o.up || s.vp != o.vp || s.wp != o.wp || s.iso != o.iso || len(s.q) != len(o.q) {
		return false
	}
	for i := range s.q {
		if s.q[i] != o.q[i] && !(math.IsNaN(s.q[i]) && math.IsNaN(o.q[i])) {
			return false
		}
	}
	return true
}

// Particles outside of the simulation window must not be changed by any
// module.
func TestInactiveParticles(t *testing.T) {
	for _, ex := range []Executor{HostExecutor{NumWorkers: 3}, DeviceExecutor{BlockSize: 2, Lanes: 2}} {
		ctl := &Control{
			TStart: 0, TStop: 3600, Direction: 1, DtMod: 600, DtMet: 21600,
			TurbDxTrop: 50, TurbDxStrat: 0, TurbDzTrop: 0, TurbDzStrat: 0.1,
			TurbMesoX: 0.16, TurbMesoZ: 0.16,
			TDecTrop: 86400, TDecStrat: 86400 * 10,
			Isosurf:    IsoTheta,
			MetDtOut:   600,
			Quantities: mustQuantities(t, "m", "r", "rho", "t", "theta", "tice", "tnat", "tsts", "vh", "custom"),
		}
		atm := NewAtmosphere(5, ctl.Quantities.Len())
		q := []float64{1, 10, 1000, 1, 2, 3, 4, 5, 6, 7}
		atm.Add(0, 10, 45, 500, q...)
		atm.Add(7200, 20, 30, 700, q...)
		atm.Add(-600, 30, -10, 300, q...)
		atm.Add(300, 40, 10, 850, q...)
		d := newTestTrac(t, ctl, atm, 10, 5, 0.001, WithExecutor(ex))
		if err := d.Init(); err != nil {
			t.Fatal(err)
		}
		before := []particleState{stateOf(atm, 1), stateOf(atm, 2)}
		if err := d.Run(); err != nil {
			t.Fatal(err)
		}
		for i, ip := range []int{1, 2} {
			if !before[i].equal(stateOf(atm, ip)) {
				t.Errorf("%T: inactive particle %d changed: %+v != %+v", ex, ip, stateOf(atm, ip), before[i])
			}
		}
		if atm.Time[0] != 3600 || atm.Time[3] != 3600 {
			t.Errorf("%T: active particles did not reach the stop time: %g, %g", ex, atm.Time[0], atm.Time[3])
		}
		if !(atm.Q[0][0] < 1) {
			t.Errorf("%T: active particle mass did not decay: %g", ex, atm.Q[0][0])
		}
	}
}

// A particle in a calm atmosphere stays where it is.
func TestZeroWind(t *testing.T) {
	ctl := &Control{TStart: 0, TStop: 86400, Direction: 1, DtMod: 3600, Quantities: mustQuantities(t)}
	atm := NewAtmosphere(1, 0)
	atm.Add(0, 179.9, 0, 500)
	d := newTestTrac(t, ctl, atm, 0, 0, 0)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.Run(); err != nil {
		t.Fatal(err)
	}
	if atm.Lat[0] != 0 || atm.P[0] != 500 {
		t.Errorf("position changed: lat=%g, p=%g", atm.Lat[0], atm.P[0])
	}
	if absDifferent(atm.Lon[0], 179.9, testTolerance) || atm.Lon[0] < -180 || atm.Lon[0] >= 180 {
		t.Errorf("longitude %g", atm.Lon[0])
	}
}

func TestStats(t *testing.T) {
	ctl := &Control{TStart: 0, TStop: 3600, Direction: 1, DtMod: 600, Quantities: mustQuantities(t)}
	atm := NewAtmosphere(3, 0)
	atm.Add(0, 10, 0, 400)
	atm.Add(0, 20, 10, 600)
	atm.Add(0, 30, 20, 800)
	d := newTestTrac(t, ctl, atm, 0, 0, 0)
	s := d.Stats()
	if s.Active != 0 || !math.IsNaN(s.MeanP) {
		t.Errorf("no particle should be active: %+v", s)
	}
	d.Dt[0], d.Dt[2] = 600, 600
	s = d.Stats()
	if s.Active != 2 || s.MeanP != 600 || s.StdP != 200 || s.MeanLon != 20 || s.MeanLat != 10 {
		t.Errorf("stats: %+v", s)
	}
}
