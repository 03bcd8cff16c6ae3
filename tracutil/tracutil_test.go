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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/trac"
	"github.com/spatialmodel/trac/atmio"
	"github.com/spatialmodel/trac/met"
)

func writeMet(t *testing.T, base string, dtMet float64, n int) {
	lon := []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330, 360}
	lat := []float64{-90, -60, -30, 0, 30, 60, 90}
	p := []float64{1000, 500, 100}
	fp := &met.FileProvider{Base: base, DtMet: dtMet}
	for i := 0; i < n; i++ {
		s := met.NewSnapshot(float64(i)*dtMet, lon, lat, p)
		s.Fill(s.Ps, func(lon, lat, p float64) float64 { return 1000 })
		s.Fill(s.Pt, func(lon, lat, p float64) float64 { return 200 })
		s.Fill(s.T, func(lon, lat, p float64) float64 { return 250 })
		s.Fill(s.U, func(lon, lat, p float64) float64 { return 10 })
		f, err := os.Create(fp.Filename(s.Time))
		if err != nil {
			t.Fatal(err)
		}
		if err := met.Write(f, s); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestVersion(t *testing.T) {
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("Trac v%s\n", trac.Version); b.String() != want {
		t.Errorf("%q != %q", b.String(), want)
	}
}

func TestControlConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Quantities", []string{"m", "t"})
	cfg.Set("Direction", -1)
	cfg.Set("DtMod", 360.0)
	cfg.Set("DtMet", "3600")
	cfg.Set("TStart", -1e100)
	cfg.Set("TStop", 7200.0)
	cfg.Set("Isosurf", trac.IsoTheta)
	ctl, err := ControlConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ctl.Direction != -1 || ctl.DtMod != 360 || ctl.DtMet != 3600 || ctl.TStop != 7200 {
		t.Errorf("wrong control: %+v", ctl)
	}
	if !ctl.Quantities.Enabled(trac.QntT) {
		t.Error("quantity t should be enabled")
	}

	t.Run("bad direction", func(t *testing.T) {
		cfg.Set("Direction", 0)
		defer cfg.Set("Direction", -1)
		if _, err := ControlConfig(cfg); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("duplicate quantity", func(t *testing.T) {
		cfg.Set("Quantities", []string{"m", "m"})
		if _, err := ControlConfig(cfg); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestCheckLogFile(t *testing.T) {
	if got := checkLogFile("", "out"); got != filepath.Join("out", "trac.log") {
		t.Errorf("got %s", got)
	}
	if got := checkLogFile("x.log", "out"); got != "x.log" {
		t.Errorf("got %s", got)
	}
	if _, err := checkOutputDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	const dtMet = 21600.
	writeMet(t, filepath.Join(dir, "met"), dtMet, 3)

	atmFile := filepath.Join(dir, "atm_init.tab")
	if err := os.WriteFile(atmFile, []byte("# time z lon lat m\n0 5 10 0 1\n0 5 100 30 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	Cfg.Set("AtmFile", atmFile)
	Cfg.Set("MetBase", filepath.Join(dir, "met"))
	Cfg.Set("Quantities", []string{"m"})
	Cfg.Set("TStart", 0.0)
	Cfg.Set("TStop", dtMet)
	Cfg.Set("DtMet", dtMet)
	Cfg.Set("AtmDtOut", dtMet)
	Cfg.Set("OutputDir", dir)
	Cfg.Set("StepLog", filepath.Join(dir, "steps.csv"))
	Cfg.Set("NumWorkers", 2)

	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "simulation completed") {
		t.Errorf("missing completion message in log:\n%s", b.String())
	}

	for _, f := range []string{"atm_2000_01_01_00_00.tab", "atm_2000_01_01_06_00.tab",
		"atm_control.yaml", "steps.csv", "trac.log"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "atm_2000_01_01_06_00.tab"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	q, _ := trac.NewQuantities("m")
	atm, err := atmio.ReadAtm(f, q, 2)
	if err != nil {
		t.Fatal(err)
	}
	if atm.Np != 2 {
		t.Fatalf("np = %d", atm.Np)
	}
	// 10 m/s eastward for 6 hours at the equator is about 1.94 degrees.
	if dlon := atm.Lon[0] - 10; dlon < 1.5 || dlon > 2.5 {
		t.Errorf("particle moved %g degrees", dlon)
	}
}
