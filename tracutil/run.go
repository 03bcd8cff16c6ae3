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

package tracutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/trac"
	"github.com/spatialmodel/trac/atmio"
	"github.com/spatialmodel/trac/internal/hash"
	"github.com/spatialmodel/trac/met"
	"github.com/spf13/cobra"
)

// Run runs a trajectory simulation.
//
// CobraCommand is the cobra.Command instance where Run is called from;
// log messages are written to its output as well as to LogFile.
//
// ctl holds the simulation settings. The particles are read from
// AtmFile, which may hold at most Capacity particles, and the
// meteorological snapshots are read from files starting with MetBase.
//
// Particle tables named OutputBase_YYYY_MM_DD_HH_MM.tab and a YAML copy
// of ctl are written to OutputDir. If StepLog is not empty, per-step
// ensemble statistics are written to it as CSV.
//
// NumWorkers is the number of goroutines used to process the
// particles. If device is true the block-scheduled executor with a
// single random number generator is used instead of per-worker
// streams. seed seeds the random number generators.
func Run(CobraCommand *cobra.Command, LogFile string, ctl *trac.Control, AtmFile, MetBase string,
	Capacity int, OutputDir, OutputBase, StepLog string, NumWorkers int, device bool, seed uint64) error {

	startTime := time.Now()

	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("trac: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := logrus.New()
	log.SetOutput(io.MultiWriter(CobraCommand.OutOrStdout(), logfile))
	log.WithFields(logrus.Fields{
		"version": trac.Version,
		"control": hash.Hash(ctl),
	}).Info("starting simulation")

	log.WithField("file", AtmFile).Info("reading particles")
	atm, err := atmio.ReadAtmFile(AtmFile, ctl.Quantities, Capacity)
	if err != nil {
		return err
	}
	log.WithField("np", atm.Np).Info("read particles")

	if err := atmio.WriteControlFile(filepath.Join(OutputDir, OutputBase+"_control.yaml"), ctl); err != nil {
		return err
	}

	opts := []trac.Option{
		trac.WithLogger(log),
		trac.WithOutput(&atmio.Writer{Dir: OutputDir, Base: OutputBase, DtOut: ctl.AtmDtOut}),
	}
	if device {
		opts = append(opts,
			trac.WithExecutor(trac.DeviceExecutor{Lanes: NumWorkers}),
			trac.WithRNG(trac.NewDeviceRNG(seed)))
	} else {
		opts = append(opts,
			trac.WithExecutor(trac.HostExecutor{NumWorkers: NumWorkers}),
			trac.WithRNG(trac.NewHostRNG(seed, trac.MaxStreams)))
	}
	if StepLog != "" {
		sl, err := atmio.NewStepLog(StepLog)
		if err != nil {
			return err
		}
		defer sl.Close()
		opts = append(opts, trac.WithStepRecorders(sl))
	}

	provider := &met.FileProvider{Base: MetBase, DtMet: ctl.DtMet, Direction: ctl.Direction}
	d, err := trac.NewTrac(ctl, atm, provider, opts...)
	if err != nil {
		return err
	}
	if err = d.Init(); err != nil {
		d.Cleanup()
		return err
	}
	if err = d.Run(); err != nil {
		d.Cleanup()
		return err
	}
	if err = d.Cleanup(); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"steps":    d.Step,
		"walltime": time.Since(startTime).String(),
	}).Info("simulation completed")
	return nil
}
