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

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// MaxStreams is the default number of host random number streams, and
// so the maximum number of host workers that can draw random numbers.
const MaxStreams = 512

// DefaultSeed is the seed of the first random number stream.
const DefaultSeed = 0

var errRNGClosed = errors.New("trac: random number generator is closed")

// An RNG fills arrays with independent standard normal samples.
// Samples are reproducible for a given seed, backend and worker count.
type RNG interface {
	// Check returns an error if the RNG cannot serve executor ex.
	Check(ex Executor) error

	// Normal fills rs with standard normal samples using ex.
	Normal(ex Executor, rs []float64) error

	// Close releases the generator state.
	Close() error
}

// HostRNG holds one independent stream per host worker. Stream i is
// seeded with seed+i.
type HostRNG struct {
	streams []*rand.Rand
}

// NewHostRNG creates a host RNG with n streams, or MaxStreams if n <= 0.
func NewHostRNG(seed uint64, n int) *HostRNG {
	if n <= 0 {
		n = MaxStreams
	}
	r := &HostRNG{streams: make([]*rand.Rand, n)}
	for i := range r.streams {
		s := seed + uint64(i)
		r.streams[i] = rand.New(rand.NewPCG(s, s))
	}
	return r
}

// Check implements RNG.
func (r *HostRNG) Check(ex Executor) error {
	if r.streams == nil {
		return errRNGClosed
	}
	if w := ex.Workers(); w > len(r.streams) {
		return fmt.Errorf("%w: %d workers, %d streams", ErrTooManyStreams, w, len(r.streams))
	}
	return nil
}

// Normal implements RNG. Each worker draws from its own stream.
func (r *HostRNG) Normal(ex Executor, rs []float64) error {
	if err := r.Check(ex); err != nil {
		return err
	}
	ex.Execute(len(rs), func(worker, begin, end int) {
		s := r.streams[worker]
		for i := begin; i < end; i++ {
			rs[i] = s.NormFloat64()
		}
	})
	return nil
}

// Close implements RNG.
func (r *HostRNG) Close() error {
	r.streams = nil
	return nil
}

// DeviceRNG holds a single generator that fills the whole array, the
// way an accelerator library generates one sequence per device.
type DeviceRNG struct {
	gen *rand.Rand
}

// NewDeviceRNG creates a device RNG.
func NewDeviceRNG(seed uint64) *DeviceRNG {
	return &DeviceRNG{gen: rand.New(rand.NewPCG(seed, seed))}
}

// Check implements RNG.
func (r *DeviceRNG) Check(Executor) error {
	if r.gen == nil {
		return errRNGClosed
	}
	return nil
}

// Normal implements RNG. The samples do not depend on the executor.
func (r *DeviceRNG) Normal(ex Executor, rs []float64) error {
	if r.gen == nil {
		return errRNGClosed
	}
	for i := range rs {
		rs[i] = r.gen.NormFloat64()
	}
	return nil
}

// Close implements RNG.
func (r *DeviceRNG) Close() error {
	r.gen = nil
	return nil
}
