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
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/trac"
	"github.com/spf13/cast"
)

// ControlConfig creates a simulation control from the configuration
// information in cfg.
func ControlConfig(cfg *viper.Viper) (*trac.Control, error) {
	names, err := cast.ToStringSliceE(cfg.Get("Quantities"))
	if err != nil {
		return nil, fmt.Errorf("trac: reading 'Quantities': %v", err)
	}
	q, err := trac.NewQuantities(names...)
	if err != nil {
		return nil, err
	}
	num := func(name string) (float64, error) {
		v, err := cast.ToFloat64E(cfg.Get(name))
		if err != nil {
			return 0, fmt.Errorf("trac: reading '%s': %v", name, err)
		}
		return v, nil
	}
	ctl := &trac.Control{
		Direction:  cfg.GetInt("Direction"),
		Isosurf:    cfg.GetInt("Isosurf"),
		Balloon:    os.ExpandEnv(cfg.GetString("Balloon")),
		Quantities: q,
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"TStart", &ctl.TStart},
		{"TStop", &ctl.TStop},
		{"DtMod", &ctl.DtMod},
		{"DtMet", &ctl.DtMet},
		{"TurbDxTrop", &ctl.TurbDxTrop},
		{"TurbDxStrat", &ctl.TurbDxStrat},
		{"TurbDzTrop", &ctl.TurbDzTrop},
		{"TurbDzStrat", &ctl.TurbDzStrat},
		{"TurbMesoX", &ctl.TurbMesoX},
		{"TurbMesoZ", &ctl.TurbMesoZ},
		{"TDecTrop", &ctl.TDecTrop},
		{"TDecStrat", &ctl.TDecStrat},
		{"MetDtOut", &ctl.MetDtOut},
		{"PSCH2O", &ctl.PSCH2O},
		{"PSCHNO3", &ctl.PSCHNO3},
		{"AtmDtOut", &ctl.AtmDtOut},
	} {
		if *f.v, err = num(f.name); err != nil {
			return nil, err
		}
	}
	if err := ctl.Check(); err != nil {
		return nil, err
	}
	return ctl, nil
}

// checkOutputDir expands any environment variables in the output
// directory and makes sure that it exists.
func checkOutputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf(`you need to specify an output directory configuration variable (for example: OutputDir="out")`)
	}
	dir = os.ExpandEnv(dir)
	if _, err := os.Stat(dir); err != nil {
		return dir, fmt.Errorf("trac: the OutputDir directory doesn't exist: %v", err)
	}
	return dir, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputDir string) string {
	if logFile == "" {
		return filepath.Join(outputDir, "trac.log")
	}
	return os.ExpandEnv(logFile)
}
