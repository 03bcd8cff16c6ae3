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

// Package trac is a Lagrangian particle dispersion engine. It advances
// an ensemble of air parcels through time-varying meteorological
// fields, applying advection, turbulent and mesoscale diffusion,
// sedimentation, decay and isosurface constraints.
package trac

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/trac/met"
)

// Version gives the version number.
const Version = "1.0.0"

// Trac holds the current state of a simulation.
type Trac struct {
	Ctl *Control
	Atm *Atmosphere

	// Met provides the meteorological snapshots; Met0 and Met1 are
	// the snapshots bracketing the current step.
	Met        met.Provider
	Met0, Met1 *met.Snapshot

	Exec  Executor
	RNG   RNG
	Cache *WindCache

	// Out receives the ensemble after every step. It may be nil.
	Out Outputter

	// Log receives status messages and warnings.
	Log logrus.FieldLogger

	// TStart and TStop are the simulation window, set by SetTimeWindow.
	TStart, TStop float64

	// T is the time at the end of the current step [s].
	T float64

	// Step is the number of the current step, starting at 0.
	Step int

	// Dt holds the time step of each particle in the current step;
	// particles with a zero time step are inactive.
	Dt []float64

	// Rs holds three random numbers per particle.
	Rs []float64

	// Done is set when the simulation window is exhausted.
	Done bool

	// InitFuncs are run once by Init.
	InitFuncs []DomainManipulator

	// RunFuncs are run once per step by Run.
	RunFuncs []DomainManipulator

	// CleanupFuncs are run once by Cleanup.
	CleanupFuncs []DomainManipulator

	recorders []StepRecorder
}

// DomainManipulator is a class of functions that operate on the entire
// simulation.
type DomainManipulator func(d *Trac) error

// ParticleManipulator is a class of functions that operate on a single
// particle with time step dt.
type ParticleManipulator func(d *Trac, ip int, dt float64)

// An Outputter writes the state of the ensemble.
type Outputter interface {
	Output(t float64, ctl *Control, atm *Atmosphere) error
	Close() error
}

// Option configures a simulation created with NewTrac.
type Option func(*Trac)

// WithExecutor sets the execution backend. The default is a
// HostExecutor using all processors.
func WithExecutor(ex Executor) Option { return func(d *Trac) { d.Exec = ex } }

// WithRNG sets the random number generator. The default, seeded with
// DefaultSeed, is a DeviceRNG for a DeviceExecutor and a HostRNG
// otherwise.
func WithRNG(r RNG) Option { return func(d *Trac) { d.RNG = r } }

// WithOutput sets the output writer.
func WithOutput(o Outputter) Option { return func(d *Trac) { d.Out = o } }

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option { return func(d *Trac) { d.Log = l } }

// WithStepRecorders adds recorders that receive statistics after every
// step.
func WithStepRecorders(r ...StepRecorder) Option {
	return func(d *Trac) { d.recorders = append(d.recorders, r...) }
}

// NewTrac sets up a simulation of the particles in atm driven by the
// meteorological data from provider. The modules run in each step are
// selected from ctl once, here.
func NewTrac(ctl *Control, atm *Atmosphere, provider met.Provider, opts ...Option) (*Trac, error) {
	if err := ctl.Check(); err != nil {
		return nil, err
	}
	if atm.Np > atm.Capacity {
		return nil, fmt.Errorf("trac: atmosphere holds %d particles but its capacity is %d",
			atm.Np, atm.Capacity)
	}
	if len(atm.Q) != ctl.Quantities.Len() {
		return nil, fmt.Errorf("trac: atmosphere has %d quantities but the control defines %d",
			len(atm.Q), ctl.Quantities.Len())
	}
	d := &Trac{
		Ctl:   ctl,
		Atm:   atm,
		Met:   provider,
		Cache: new(WindCache),
		Dt:    make([]float64, atm.Capacity),
		Rs:    make([]float64, 3*atm.Capacity),
	}
	for _, o := range opts {
		o(d)
	}
	if d.Exec == nil {
		d.Exec = HostExecutor{}
	}
	if d.RNG == nil {
		if _, ok := d.Exec.(DeviceExecutor); ok {
			d.RNG = NewDeviceRNG(DefaultSeed)
		} else {
			d.RNG = NewHostRNG(DefaultSeed, MaxStreams)
		}
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}

	d.InitFuncs = []DomainManipulator{
		CheckRNG(),
		SetTimeWindow(),
		GetMet(),
		CheckCFL(),
	}
	if ctl.isosurface() {
		d.InitFuncs = append(d.InitFuncs, IsosurfaceInit())
	}

	d.RunFuncs = []DomainManipulator{
		SetTimesteps(),
		GetMet(),
		Calculations(Position()),
		Calculations(Advection()),
	}
	if ctl.turbulence() {
		d.RunFuncs = append(d.RunFuncs, RandomNumbers(), Calculations(TurbulentDiffusion()))
	}
	if ctl.mesoscale() {
		d.RunFuncs = append(d.RunFuncs, RandomNumbers(), Calculations(MesoscaleDiffusion()))
	}
	if ctl.sedimentation() {
		d.RunFuncs = append(d.RunFuncs, Calculations(Sedimentation()))
	}
	if ctl.isosurface() {
		d.RunFuncs = append(d.RunFuncs, Calculations(Isosurface()))
	}
	d.RunFuncs = append(d.RunFuncs, Calculations(Position()))
	if ctl.MetDtOut > 0 {
		d.RunFuncs = append(d.RunFuncs, Meteo())
	}
	if ctl.decay() {
		d.RunFuncs = append(d.RunFuncs, Calculations(Decay()))
	}
	d.RunFuncs = append(d.RunFuncs, Output(), Log(), NextStep())

	d.CleanupFuncs = []DomainManipulator{CloseRNG(), CloseOutput()}
	return d, nil
}

// Init initializes the simulation by running d.InitFuncs.
func (d *Trac) Init() error {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	for _, f := range d.InitFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

// Run carries out the simulation by running d.RunFuncs until d.Done is
// true.
func (d *Trac) Run() error {
	for !d.Done {
		for _, f := range d.RunFuncs {
			if err := f(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup finishes the simulation by running d.CleanupFuncs.
func (d *Trac) Cleanup() error {
	for _, f := range d.CleanupFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}
