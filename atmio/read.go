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

// Package atmio reads and writes particle ensembles, step logs and
// control snapshots.
package atmio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spatialmodel/trac"
)

// ReadAtm reads an ensemble from a whitespace-separated table with the
// columns time [s], altitude [km], longitude [deg], latitude [deg] and
// one column per quantity in q. Lines whose first field is not a number
// are comments. Altitudes are converted to pressure with trac.Z2P.
func ReadAtm(r io.Reader, q trac.Quantities, capacity int) (*trac.Atmosphere, error) {
	atm := trac.NewAtmosphere(capacity, q.Len())
	ncol := 4 + q.Len()
	vals := make([]float64, ncol)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
			continue
		}
		if len(fields) < ncol {
			return nil, fmt.Errorf("atmio: line %d has %d columns but %d are required", line, len(fields), ncol)
		}
		for i := range vals {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("atmio: line %d column %d: %v", line, i+1, err)
			}
			vals[i] = v
		}
		if atm.Np >= capacity {
			return nil, fmt.Errorf("atmio: more than %d particles", capacity)
		}
		if err := atm.Add(vals[0], vals[2], vals[3], trac.Z2P(vals[1]), vals[4:]...); err != nil {
			return nil, fmt.Errorf("atmio: line %d: %v", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("atmio: reading particles: %v", err)
	}
	if atm.Np == 0 {
		return nil, fmt.Errorf("atmio: no particles found")
	}
	return atm, nil
}

// ReadAtmFile is ReadAtm for a named file.
func ReadAtmFile(fname string, q trac.Quantities, capacity int) (*trac.Atmosphere, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("atmio: opening particle file: %v", err)
	}
	defer f.Close()
	atm, err := ReadAtm(f, q, capacity)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, fname)
	}
	return atm, nil
}
