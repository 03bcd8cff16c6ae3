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

// Package tracutil holds the configuration options and commands of the
// trac command-line interface.
package tracutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/trac"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "AtmFile",
			usage: `
              AtmFile is the path to the table of initial particle positions,
              with columns time [s], altitude [km], longitude [deg],
              latitude [deg] and one column per quantity. It can include
              environment variables.`,
			shorthand:  "a",
			defaultVal: "atm_init.tab",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MetBase",
			usage: `
              MetBase is the path prefix of the meteorological snapshot files,
              which are named <MetBase>_YYYY_MM_DD_HH.nc. It can include
              environment variables.`,
			shorthand:  "m",
			defaultVal: "met",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Quantities",
			usage: `
              Quantities are the names of the per-particle quantities, in
              the order of the quantity columns of AtmFile.`,
			defaultVal: []string{"m"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Capacity",
			usage: `
              Capacity is the maximum number of particles.`,
			defaultVal: 10000000,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TStart",
			usage: `
              TStart is the start time of the simulation in seconds since
              2000-01-01T00:00:00Z. Values larger than 1e99 in magnitude
              select the earliest (forward) or latest (backward) particle time.`,
			defaultVal: -1e100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TStop",
			usage: `
              TStop is the stop time of the simulation in seconds since
              2000-01-01T00:00:00Z. Values larger than 1e99 in magnitude
              select the other extreme of the particle times.`,
			defaultVal: -1e100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Direction",
			usage: `
              Direction is 1 for forward and -1 for backward trajectories.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "DtMod",
			usage: `
              DtMod is the model time step [s].`,
			defaultVal: 180.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "DtMet",
			usage: `
              DtMet is the time between meteorological snapshots [s].`,
			defaultVal: 21600.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TurbDxTrop",
			usage: `
              TurbDxTrop is the horizontal turbulent diffusivity in the
              troposphere [m²/s].`,
			defaultVal: 50.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TurbDxStrat",
			usage: `
              TurbDxStrat is the horizontal turbulent diffusivity in the
              stratosphere [m²/s].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TurbDzTrop",
			usage: `
              TurbDzTrop is the vertical turbulent diffusivity in the
              troposphere [m²/s].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TurbDzStrat",
			usage: `
              TurbDzStrat is the vertical turbulent diffusivity in the
              stratosphere [m²/s].`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TurbMesoX",
			usage: `
              TurbMesoX scales the horizontal mesoscale wind fluctuations.`,
			defaultVal: 0.16,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TurbMesoZ",
			usage: `
              TurbMesoZ scales the vertical mesoscale wind fluctuations.`,
			defaultVal: 0.16,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TDecTrop",
			usage: `
              TDecTrop is the lifetime of particle mass in the troposphere [s].
              0 disables decay.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TDecStrat",
			usage: `
              TDecStrat is the lifetime of particle mass in the stratosphere [s].
              0 disables decay.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Isosurf",
			usage: `
              Isosurf selects the isosurface mode: 0 none, 1 pressure,
              2 density, 3 potential temperature and 4 balloon.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Balloon",
			usage: `
              Balloon is the path to the balloon pressure table, with columns
              time [s] and pressure [hPa], used when Isosurf is 4.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MetDtOut",
			usage: `
              MetDtOut is the interval for sampling meteorological data along
              the trajectories [s]. 0 disables sampling.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PSCH2O",
			usage: `
              PSCH2O is a fixed water vapor volume mixing ratio for PSC
              formation temperatures. Values <= 0 use the meteorological data.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PSCHNO3",
			usage: `
              PSCHNO3 is a fixed nitric acid volume mixing ratio for PSC
              formation temperatures. Values <= 0 use the climatology.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "AtmDtOut",
			usage: `
              AtmDtOut is the interval for writing particle tables [s].`,
			defaultVal: 86400.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory where output files are written. It
              can include environment variables.`,
			shorthand:  "o",
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputBase",
			usage: `
              OutputBase is the prefix of the particle table files.`,
			defaultVal: "atm",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StepLog",
			usage: `
              StepLog is the path of a CSV file for per-step ensemble
              statistics. If StepLog is left blank, no statistics are written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be
              saved in OutputDir.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumWorkers",
			usage: `
              NumWorkers is the number of goroutines that process particles.
              0 uses one per processor.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Device",
			usage: `
              Device selects the block-scheduled executor with a single
              random number generator instead of per-worker streams.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Seed",
			usage: `
              Seed seeds the random number generators.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("TRAC")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("trac: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "trac",
	Short: "A Lagrangian particle dispersion model.",
	Long: `Trac computes air parcel trajectories driven by gridded meteorological
data, with turbulent and mesoscale diffusion, sedimentation, isosurface
constraints and exponential decay.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'TRAC_var' where 'var' is the
name of the variable to be set. Path configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Trac.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Trac v%s\n", trac.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a trajectory simulation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run computes the trajectories of the particles in AtmFile using the
meteorological snapshots starting with MetBase. Particle tables are
written to OutputDir every AtmDtOut seconds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := ControlConfig(Cfg)
		if err != nil {
			return err
		}
		outputDir, err := checkOutputDir(Cfg.GetString("OutputDir"))
		if err != nil {
			return err
		}
		return Run(
			cmd,
			checkLogFile(Cfg.GetString("LogFile"), outputDir),
			ctl,
			os.ExpandEnv(Cfg.GetString("AtmFile")),
			os.ExpandEnv(Cfg.GetString("MetBase")),
			Cfg.GetInt("Capacity"),
			outputDir,
			Cfg.GetString("OutputBase"),
			os.ExpandEnv(Cfg.GetString("StepLog")),
			Cfg.GetInt("NumWorkers"),
			Cfg.GetBool("Device"),
			uint64(Cfg.GetInt("Seed")),
		)
	},
	DisableAutoGenTag: true,
}
