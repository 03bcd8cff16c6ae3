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

package met

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/ctessum/requestcache"
)

// Epoch is the reference time of all simulation times.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ToTime converts seconds since Epoch to a time.Time.
func ToTime(t float64) time.Time {
	return Epoch.Add(time.Duration(math.Round(t * float64(time.Second))))
}

// FromTime converts a time.Time to seconds since Epoch.
func FromTime(t time.Time) float64 {
	return t.Sub(Epoch).Seconds()
}

// A Provider returns the pair of snapshots that bracket time t.
type Provider interface {
	Get(ctx context.Context, t float64) (m0, m1 *Snapshot, err error)
}

// Static is a Provider that always returns the same snapshot pair.
type Static struct {
	M0, M1 *Snapshot
}

// Get implements Provider.
func (s Static) Get(ctx context.Context, t float64) (*Snapshot, *Snapshot, error) {
	return s.M0, s.M1, nil
}

// FileProvider reads snapshots from netCDF files named
// "<Base>_YYYY_MM_DD_HH.nc", spaced DtMet seconds apart. Recently read
// snapshots are kept in memory, so advancing the pair only reads the
// new file.
type FileProvider struct {
	Base      string
	DtMet     float64 // seconds between snapshots
	Direction int     // 1 for forward, -1 for backward simulations

	// CacheSize is the number of snapshots kept in memory; 4 if zero.
	CacheSize int

	cacheInit sync.Once
	cache     *requestcache.Cache
}

// Filename returns the name of the file holding the snapshot valid at t.
func (p *FileProvider) Filename(t float64) string {
	tt := ToTime(t)
	return fmt.Sprintf("%s_%04d_%02d_%02d_%02d.nc", p.Base,
		tt.Year(), int(tt.Month()), tt.Day(), tt.Hour())
}

// Get implements Provider. For forward runs the pair is
// [floor(t), floor(t)+DtMet]; for backward runs it is
// [ceil(t)-DtMet, ceil(t)], with floor and ceil taken on multiples of
// DtMet.
func (p *FileProvider) Get(ctx context.Context, t float64) (*Snapshot, *Snapshot, error) {
	if !(p.DtMet > 0) {
		return nil, nil, fmt.Errorf("met: FileProvider.DtMet must be > 0 but is %g", p.DtMet)
	}
	var t0, t1 float64
	if p.Direction >= 0 {
		t0 = math.Floor(t/p.DtMet) * p.DtMet
		t1 = t0 + p.DtMet
	} else {
		t1 = math.Ceil(t/p.DtMet) * p.DtMet
		t0 = t1 - p.DtMet
	}
	m0, err := p.read(ctx, t0)
	if err != nil {
		return nil, nil, err
	}
	m1, err := p.read(ctx, t1)
	if err != nil {
		return nil, nil, err
	}
	return m0, m1, nil
}

func (p *FileProvider) read(ctx context.Context, t float64) (*Snapshot, error) {
	p.cacheInit.Do(func() {
		n := p.CacheSize
		if n <= 0 {
			n = 4
		}
		p.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			return readFile(request.(string))
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(n))
	})
	fname := p.Filename(t)
	req := p.cache.NewRequest(ctx, fname, fname)
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

func readFile(fname string) (*Snapshot, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("met: opening snapshot file: %v", err)
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("met: reading %s: %v", fname, err)
	}
	return s, nil
}
