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
	"fmt"
	"io"
	"os"

	"github.com/spatialmodel/trac"
	"gopkg.in/yaml.v3"
)

// WriteControl writes ctl as YAML.
func WriteControl(w io.Writer, ctl *trac.Control) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ctl); err != nil {
		return fmt.Errorf("atmio: writing control: %w", err)
	}
	return enc.Close()
}

// WriteControlFile writes ctl as YAML to file fname.
func WriteControlFile(fname string, ctl *trac.Control) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("atmio: writing control: %w", err)
	}
	if err := WriteControl(f, ctl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadControl reads a control written by WriteControl.
func ReadControl(r io.Reader) (*trac.Control, error) {
	ctl := new(trac.Control)
	if err := yaml.NewDecoder(r).Decode(ctl); err != nil {
		return nil, fmt.Errorf("atmio: reading control: %w", err)
	}
	return ctl, nil
}
