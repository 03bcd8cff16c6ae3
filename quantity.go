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

import "fmt"

// Quantity identifies a per-particle quantity.
type Quantity string

// Quantities known to the physics modules.
const (
	QntM     Quantity = "m"     // mass [kg]
	QntR     Quantity = "r"     // particle radius [um]
	QntRho   Quantity = "rho"   // particle density [kg/m^3]
	QntPs    Quantity = "ps"    // surface pressure [hPa]
	QntPt    Quantity = "pt"    // tropopause pressure [hPa]
	QntZ     Quantity = "z"     // geopotential height [km]
	QntP     Quantity = "p"     // pressure [hPa]
	QntT     Quantity = "t"     // temperature [K]
	QntU     Quantity = "u"     // zonal wind [m/s]
	QntV     Quantity = "v"     // meridional wind [m/s]
	QntW     Quantity = "w"     // vertical velocity [hPa/s]
	QntH2O   Quantity = "h2o"   // water vapor volume mixing ratio [1]
	QntO3    Quantity = "o3"    // ozone volume mixing ratio [1]
	QntTheta Quantity = "theta" // potential temperature [K]
	QntVh    Quantity = "vh"    // horizontal wind speed [m/s]
	QntVz    Quantity = "vz"    // vertical velocity [m/s]
	QntPV    Quantity = "pv"    // potential vorticity [PVU]
	QntTice  Quantity = "tice"  // T_ice [K]
	QntTsts  Quantity = "tsts"  // T_STS [K]
	QntTnat  Quantity = "tnat"  // T_NAT [K]
)

var knownQuantities = map[Quantity]bool{
	QntM: true, QntR: true, QntRho: true, QntPs: true, QntPt: true,
	QntZ: true, QntP: true, QntT: true, QntU: true, QntV: true, QntW: true,
	QntH2O: true, QntO3: true, QntTheta: true, QntVh: true, QntVz: true,
	QntPV: true, QntTice: true, QntTsts: true, QntTnat: true,
}

// Known reports whether q is used by any physics module.
func (q Quantity) Known() bool { return knownQuantities[q] }

// Quantities maps quantity identifiers to storage slots. A quantity is
// enabled if and only if it has a slot. The zero value has no enabled
// quantities.
type Quantities struct {
	names []Quantity
	slot  map[Quantity]int
}

// NewQuantities returns a mapping in which each name is stored in the
// slot equal to its position in names. Names that no module uses are
// kept as passive quantities that are read and written but never
// changed.
func NewQuantities(names ...string) (Quantities, error) {
	q := Quantities{slot: make(map[Quantity]int, len(names))}
	for i, n := range names {
		if n == "" {
			return Quantities{}, fmt.Errorf("trac: empty quantity name at position %d", i)
		}
		if _, ok := q.slot[Quantity(n)]; ok {
			return Quantities{}, fmt.Errorf("trac: duplicate quantity %q", n)
		}
		q.slot[Quantity(n)] = i
		q.names = append(q.names, Quantity(n))
	}
	return q, nil
}

// Slot returns the storage slot of quantity n and whether it is enabled.
func (q Quantities) Slot(n Quantity) (int, bool) {
	i, ok := q.slot[n]
	return i, ok
}

// Enabled reports whether quantity n has a slot.
func (q Quantities) Enabled(n Quantity) bool {
	_, ok := q.slot[n]
	return ok
}

// Len returns the number of slots.
func (q Quantities) Len() int { return len(q.names) }

// Names returns the quantity names in slot order.
func (q Quantities) Names() []string {
	o := make([]string, len(q.names))
	for i, n := range q.names {
		o[i] = string(n)
	}
	return o
}

// MarshalYAML writes the mapping as the ordered list of names.
func (q Quantities) MarshalYAML() (interface{}, error) {
	return q.Names(), nil
}

// UnmarshalYAML reads the mapping from an ordered list of names.
func (q *Quantities) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var names []string
	if err := unmarshal(&names); err != nil {
		return err
	}
	v, err := NewQuantities(names...)
	if err != nil {
		return err
	}
	*q = v
	return nil
}

var quantityUnits = map[Quantity]string{
	QntM: "kg", QntR: "um", QntRho: "kg/m^3", QntPs: "hPa", QntPt: "hPa",
	QntZ: "km", QntP: "hPa", QntT: "K", QntU: "m/s", QntV: "m/s",
	QntW: "hPa/s", QntH2O: "1", QntO3: "1", QntTheta: "K", QntVh: "m/s",
	QntVz: "m/s", QntPV: "PVU", QntTice: "K", QntTsts: "K", QntTnat: "K",
}

// Units returns the units of q, or "-" for passive quantities.
func (q Quantity) Units() string {
	if u, ok := quantityUnits[q]; ok {
		return u
	}
	return "-"
}
