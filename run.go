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
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Calculations returns a function that concurrently runs a series of
// calculations on all of the active particles, using the executor of
// the simulation. Particles with a zero time step are left untouched.
func Calculations(calculators ...ParticleManipulator) DomainManipulator {
	return func(d *Trac) error {
		d.forEach(true, calculators...)
		return nil
	}
}

// forEach runs the calculators on every particle, or only on the active
// particles if activeOnly is true.
func (d *Trac) forEach(activeOnly bool, calculators ...ParticleManipulator) {
	d.Exec.Execute(d.Atm.Np, func(_, begin, end int) {
		for ip := begin; ip < end; ip++ {
			dt := d.Dt[ip]
			if activeOnly && dt == 0 {
				continue
			}
			for _, f := range calculators {
				f(d, ip, dt)
			}
		}
	})
}

// CheckRNG returns an error if the random number generator cannot be
// used with the executor of the simulation.
func CheckRNG() DomainManipulator {
	return func(d *Trac) error {
		if !d.Ctl.turbulence() && !d.Ctl.mesoscale() {
			return nil
		}
		return d.RNG.Check(d.Exec)
	}
}

// SetTimeWindow sets the start and stop time of the simulation from the
// control parameters and the particle times.
func SetTimeWindow() DomainManipulator {
	return func(d *Trac) error {
		if d.Atm.Np == 0 {
			return fmt.Errorf("%w: no particles", ErrEmptyWindow)
		}
		tmin, tmax := d.Atm.TimeRange()
		start, stop, err := d.Ctl.window(tmin, tmax)
		if err != nil {
			return err
		}
		d.TStart, d.TStop = start, stop
		d.T = start
		d.Step = 0
		d.Done = false
		d.Log.WithFields(logrus.Fields{
			"start": start,
			"stop":  stop,
		}).Info("set simulation window")
		return nil
	}
}

// GetMet fetches the meteorological snapshots for the current step. The
// snapshots fetched for the start time are kept for the first step.
func GetMet() DomainManipulator {
	return func(d *Trac) error {
		if d.Met0 != nil && d.T == d.TStart {
			return nil
		}
		m0, m1, err := d.Met.Get(context.Background(), d.T)
		if err != nil {
			return fmt.Errorf("trac: getting meteorological data for t=%g: %v", d.T, err)
		}
		d.Met0, d.Met1 = m0, m1
		d.Cache.Resize(m0.Dims())
		return nil
	}
}

// CheckCFL warns if the model time step is too long for the grid
// spacing of the meteorological data.
func CheckCFL() DomainManipulator {
	return func(d *Trac) error {
		dx := math.Abs(d.Met0.Lon[1]-d.Met0.Lon[0]) * 111132 / 150
		if d.Ctl.DtMod > dx {
			d.Log.WithFields(logrus.Fields{
				"dt_mod": d.Ctl.DtMod,
				"limit":  dx,
			}).Warn("violation of CFL criterion; check the model time step")
		}
		return nil
	}
}

// SetTimesteps sets the time step of each particle for the step ending
// at d.T. Particles outside of the simulation window or already at d.T
// get a time step of zero.
func SetTimesteps() DomainManipulator {
	return func(d *Trac) error {
		dir := float64(d.Ctl.Direction)
		d.Exec.Execute(d.Atm.Np, func(_, begin, end int) {
			for ip := begin; ip < end; ip++ {
				t := d.Atm.Time[ip]
				if dir*(t-d.TStart) >= 0 && dir*(t-d.TStop) <= 0 && dir*(t-d.T) < 0 {
					d.Dt[ip] = d.T - t
				} else {
					d.Dt[ip] = 0
				}
			}
		})
		return nil
	}
}

// RandomNumbers fills d.Rs with three standard normal samples per
// particle.
func RandomNumbers() DomainManipulator {
	return func(d *Trac) error {
		return d.RNG.Normal(d.Exec, d.Rs[:3*d.Atm.Np])
	}
}

// Output hands the ensemble to the output writer.
func Output() DomainManipulator {
	return func(d *Trac) error {
		if d.Out == nil {
			return nil
		}
		return d.Out.Output(d.T, d.Ctl, d.Atm)
	}
}

// NextStep advances the model time by one step. The final step is
// shortened so that it ends exactly at the stop time, and d.Done is set
// once the stop time has been simulated.
func NextStep() DomainManipulator {
	return func(d *Trac) error {
		dir := float64(d.Ctl.Direction)
		t := d.T + dir*d.Ctl.DtMod
		if dir*(t-d.TStop) >= d.Ctl.DtMod {
			d.Done = true
			return nil
		}
		if dir*(t-d.TStop) > 0 {
			t = d.TStop
		}
		d.T = t
		d.Step++
		return nil
	}
}

// CloseRNG releases the random number generator.
func CloseRNG() DomainManipulator {
	return func(d *Trac) error {
		return d.RNG.Close()
	}
}

// CloseOutput flushes and closes the output writer.
func CloseOutput() DomainManipulator {
	return func(d *Trac) error {
		if d.Out == nil {
			return nil
		}
		return d.Out.Close()
	}
}

// StepStats summarizes the ensemble after a step.
type StepStats struct {
	Step     int     `csv:"step" yaml:"step"`
	Time     float64 `csv:"time" yaml:"time"`
	Active   int     `csv:"active" yaml:"active"`
	MeanLon  float64 `csv:"mean_lon" yaml:"mean_lon"`
	MeanLat  float64 `csv:"mean_lat" yaml:"mean_lat"`
	MeanP    float64 `csv:"mean_p" yaml:"mean_p"`
	StdP     float64 `csv:"std_p" yaml:"std_p"`
	Walltime float64 `csv:"walltime_s" yaml:"walltime_s"`
}

// A StepRecorder receives statistics after every step.
type StepRecorder interface {
	Record(StepStats) error
}

// Stats returns statistics of the particles that were active in the
// current step. The means are NaN if no particle was active.
func (d *Trac) Stats() StepStats {
	s := StepStats{Step: d.Step, Time: d.T}
	var lon, lat, p []float64
	for ip := 0; ip < d.Atm.Np; ip++ {
		if d.Dt[ip] == 0 {
			continue
		}
		lon = append(lon, d.Atm.Lon[ip])
		lat = append(lat, d.Atm.Lat[ip])
		p = append(p, d.Atm.P[ip])
	}
	s.Active = len(p)
	if s.Active == 0 {
		s.MeanLon, s.MeanLat, s.MeanP, s.StdP = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.MeanLon = stat.Mean(lon, nil)
	s.MeanLat = stat.Mean(lat, nil)
	s.MeanP, s.StdP = stat.PopMeanStdDev(p, nil)
	return s
}

// Log writes simulation status messages to the logger and passes the
// step statistics to the step recorders.
func Log() DomainManipulator {
	startTime := time.Now()
	stepTime := time.Now()

	return func(d *Trac) error {
		s := d.Stats()
		s.Walltime = time.Since(startTime).Seconds()
		d.Log.WithFields(logrus.Fields{
			"step":      s.Step,
			"time":      s.Time,
			"active":    s.Active,
			"mean_p":    s.MeanP,
			"walltime":  fmt.Sprintf("%.3gs", s.Walltime),
			"Δwalltime": fmt.Sprintf("%.2gs", time.Since(stepTime).Seconds()),
		}).Info("completed step")
		stepTime = time.Now()
		for _, r := range d.recorders {
			if err := r.Record(s); err != nil {
				return fmt.Errorf("trac: recording step statistics: %v", err)
			}
		}
		return nil
	}
}
