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

package hash

import (
	"math"
	"testing"
)

type cfg struct {
	A     float64
	names []string
}

func TestHash(t *testing.T) {
	a := Hash(cfg{A: math.NaN(), names: []string{"m"}})
	b := Hash(&cfg{A: math.NaN(), names: []string{"m"}})
	if a != b {
		t.Errorf("%s != %s", a, b)
	}
	if c := Hash(cfg{A: math.NaN(), names: []string{"t"}}); c == a {
		t.Error("unexported fields should change the hash")
	}
	if len(a) != 16 {
		t.Errorf("hash %q has the wrong length", a)
	}
}
