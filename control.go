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
	"fmt"
	"math"
)

// Fatal configuration and input errors.
var (
	// ErrEmptyWindow is returned when the simulation time window is
	// empty or points against the run direction.
	ErrEmptyWindow = errors.New("trac: nothing to do: empty or inverted time window")

	// ErrTooManyStreams is returned when the executor has more workers
	// than the host random number generator has streams.
	ErrTooManyStreams = errors.New("trac: too many threads for the random number generator")

	// ErrNoBalloonData is returned when the balloon table holds no
	// data points.
	ErrNoBalloonData = errors.New("trac: could not read any balloon data")

	// ErrBalloonOverflow is returned when the balloon table holds more
	// data points than the particle capacity.
	ErrBalloonOverflow = errors.New("trac: too many balloon data points")
)

// Isosurface modes.
const (
	IsoNone        = iota // no isosurface constraint
	IsoPressure           // keep pressure constant
	IsoDensity            // keep density constant
	IsoTheta              // keep potential temperature constant
	IsoBalloon            // follow a balloon pressure time series
)

// Control holds the configuration of a simulation. Times are in seconds
// since 2000-01-01T00:00:00Z.
type Control struct {
	// TStart and TStop bound the simulation. A value that is NaN, infinite
	// or larger than 1e99 in magnitude is unset: TStart then defaults to
	// the earliest (forward) or latest (backward) particle time and TStop
	// to the other extreme.
	TStart float64 `yaml:"t_start"`
	TStop  float64 `yaml:"t_stop"`

	// Direction is 1 for forward and -1 for backward trajectories.
	Direction int `yaml:"direction"`

	// DtMod is the model time step [s].
	DtMod float64 `yaml:"dt_mod"`

	// DtMet is the time between meteorological snapshots [s].
	DtMet float64 `yaml:"dt_met"`

	// Horizontal [m^2/s] and vertical [m^2/s] turbulent diffusivities
	// in the troposphere and stratosphere.
	TurbDxTrop  float64 `yaml:"turb_dx_trop"`
	TurbDxStrat float64 `yaml:"turb_dx_strat"`
	TurbDzTrop  float64 `yaml:"turb_dz_trop"`
	TurbDzStrat float64 `yaml:"turb_dz_strat"`

	// Horizontal and vertical scaling factors for mesoscale wind
	// fluctuations.
	TurbMesoX float64 `yaml:"turb_mesox"`
	TurbMesoZ float64 `yaml:"turb_mesoz"`

	// Tropospheric and stratospheric lifetimes of particle mass [s].
	TDecTrop  float64 `yaml:"tdec_trop"`
	TDecStrat float64 `yaml:"tdec_strat"`

	// Isosurf is the isosurface mode, one of the Iso constants.
	Isosurf int `yaml:"isosurf"`

	// Balloon is the path of the balloon pressure table used when
	// Isosurf is IsoBalloon.
	Balloon string `yaml:"balloon"`

	// MetDtOut is the interval for sampling meteorological data at the
	// particle positions [s]; 0 disables sampling.
	MetDtOut float64 `yaml:"met_dt_out"`

	// PSCH2O and PSCHNO3 are fixed water vapor and nitric acid volume
	// mixing ratios used for PSC formation temperatures. Values <= 0
	// select the meteorological water vapor and the HNO3 climatology.
	PSCH2O  float64 `yaml:"psc_h2o"`
	PSCHNO3 float64 `yaml:"psc_hno3"`

	// AtmDtOut is the interval for writing particle tables [s].
	AtmDtOut float64 `yaml:"atm_dt_out"`

	// Quantities maps quantity names to particle storage slots.
	Quantities Quantities `yaml:"quantities"`
}

func unset(t float64) bool {
	return math.IsNaN(t) || math.Abs(t) > 1e99
}

// Check returns an error if c cannot drive a simulation.
func (c *Control) Check() error {
	if c.Direction != 1 && c.Direction != -1 {
		return fmt.Errorf("trac: direction must be 1 or -1 but is %d", c.Direction)
	}
	if !(c.DtMod > 0) {
		return fmt.Errorf("trac: model time step must be > 0 but is %g", c.DtMod)
	}
	if (c.TurbMesoX > 0 || c.TurbMesoZ > 0) && !(c.DtMet > 0) {
		return fmt.Errorf("trac: mesoscale diffusion requires a meteorological time step > 0")
	}
	if c.Isosurf < IsoNone || c.Isosurf > IsoBalloon {
		return fmt.Errorf("trac: invalid isosurface mode %d", c.Isosurf)
	}
	return nil
}

// window returns the start and stop times of a simulation of
// particles with the given times. An explicit TStart is kept; the
// particle times only fill in unset bounds. The start time is then
// rounded to a multiple of DtMod in the direction of the run.
func (c *Control) window(tmin, tmax float64) (start, stop float64, err error) {
	start, stop = c.TStart, c.TStop
	if c.Direction == 1 {
		if unset(start) {
			start = tmin
		}
		if unset(stop) {
			stop = tmax
		}
	} else {
		if unset(start) {
			start = tmax
		}
		if unset(stop) {
			stop = tmin
		}
	}
	if float64(c.Direction)*(stop-start) <= 0 {
		return start, stop, fmt.Errorf("%w: start=%g, stop=%g, direction=%d",
			ErrEmptyWindow, start, stop, c.Direction)
	}
	if c.Direction == 1 {
		start = math.Floor(start/c.DtMod) * c.DtMod
	} else {
		start = math.Ceil(start/c.DtMod) * c.DtMod
	}
	return start, stop, nil
}

// turbulence reports whether any turbulent diffusivity is positive.
func (c *Control) turbulence() bool {
	return c.TurbDxTrop > 0 || c.TurbDzTrop > 0 || c.TurbDxStrat > 0 || c.TurbDzStrat > 0
}

func (c *Control) mesoscale() bool {
	return c.TurbMesoX > 0 || c.TurbMesoZ > 0
}

func (c *Control) sedimentation() bool {
	return c.Quantities.Enabled(QntR) && c.Quantities.Enabled(QntRho)
}

func (c *Control) isosurface() bool {
	return c.Isosurf >= IsoPressure && c.Isosurf <= IsoBalloon
}

func (c *Control) decay() bool {
	return c.TDecTrop > 0 && c.TDecStrat > 0 && c.Quantities.Enabled(QntM)
}

// sampleMet reports whether meteorological data should be sampled at
// model time t.
func (c *Control) sampleMet(t float64) bool {
	return c.MetDtOut > 0 && (c.MetDtOut < c.DtMod || math.Mod(t, c.MetDtOut) == 0)
}
