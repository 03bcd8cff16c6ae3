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

package atmio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/spatialmodel/trac"
	"github.com/spatialmodel/trac/met"
)

// Writer writes particle tables named "<Base>_YYYY_MM_DD_HH_MM.tab" in
// directory Dir every DtOut seconds of simulation time.
type Writer struct {
	Dir   string
	Base  string
	DtOut float64 // [s]
}

// Filename returns the path of the table written at time t.
func (w *Writer) Filename(t float64) string {
	tt := met.ToTime(t)
	return filepath.Join(w.Dir, fmt.Sprintf("%s_%04d_%02d_%02d_%02d_%02d.tab", w.Base,
		tt.Year(), int(tt.Month()), tt.Day(), tt.Hour(), tt.Minute()))
}

// Output implements trac.Outputter. Nothing is written unless t is a
// multiple of DtOut. Only particles whose time is within half a model
// time step of t are written.
func (w *Writer) Output(t float64, ctl *trac.Control, atm *trac.Atmosphere) error {
	if !(w.DtOut > 0) || math.Mod(t, w.DtOut) != 0 {
		return nil
	}
	f, err := os.Create(w.Filename(t))
	if err != nil {
		return fmt.Errorf("atmio: writing particles: %v", err)
	}
	if err := WriteAtm(f, t, ctl, atm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close implements trac.Outputter.
func (w *Writer) Close() error { return nil }

// WriteAtm writes the particles of atm that are valid at time t as a
// table ReadAtm can read.
func WriteAtm(out io.Writer, t float64, ctl *trac.Control, atm *trac.Atmosphere) error {
	b := bufio.NewWriter(out)
	fmt.Fprintln(b, "# $1 = time [s]")
	fmt.Fprintln(b, "# $2 = altitude [km]")
	fmt.Fprintln(b, "# $3 = longitude [deg]")
	fmt.Fprintln(b, "# $4 = latitude [deg]")
	for i, q := range ctl.Quantities.Names() {
		fmt.Fprintf(b, "# $%d = %s [%s]\n", i+5, q, trac.Quantity(q).Units())
	}
	fmt.Fprintln(b)

	nq := ctl.Quantities.Len()
	for ip := 0; ip < atm.Np; ip++ {
		if math.Abs(atm.Time[ip]-t) > 0.5*ctl.DtMod {
			continue
		}
		fmt.Fprintf(b, "%.2f %g %g %g", atm.Time[ip], trac.P2Z(atm.P[ip]), atm.Lon[ip], atm.Lat[ip])
		for iq := 0; iq < nq; iq++ {
			fmt.Fprintf(b, " %g", atm.Q[iq][ip])
		}
		fmt.Fprintln(b)
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("atmio: writing particles: %v", err)
	}
	return nil
}
