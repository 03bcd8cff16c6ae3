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
	"runtime"
	"sync"
)

// An Executor runs a data-parallel kernel over the index range [0, n).
// Execute calls f with disjoint ranges [begin, end) that together cover
// [0, n), and returns after all calls have finished. worker is the
// index of the worker running the call, in [0, Workers()).
type Executor interface {
	Workers() int
	Execute(n int, f func(worker, begin, end int))
}

// HostExecutor runs kernels on host goroutines, giving each worker a
// single contiguous range.
type HostExecutor struct {
	// NumWorkers is the number of goroutines. If <= 0,
	// runtime.GOMAXPROCS(0) is used.
	NumWorkers int
}

// Workers implements Executor.
func (e HostExecutor) Workers() int {
	if e.NumWorkers > 0 {
		return e.NumWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// Execute implements Executor.
func (e HostExecutor) Execute(n int, f func(worker, begin, end int)) {
	nprocs := e.Workers()
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			begin := pp * n / nprocs
			end := (pp + 1) * n / nprocs
			if begin < end {
				f(pp, begin, end)
			}
		}(pp)
	}
	wg.Wait()
}

// DeviceExecutor emulates an accelerator kernel: the whole index range
// is swept as fixed-size blocks, and lane l runs blocks l, l+lanes,
// l+2*lanes and so on, in order.
type DeviceExecutor struct {
	// BlockSize is the number of elements per block; 256 if <= 0.
	BlockSize int

	// Lanes is the number of concurrent lanes. If <= 0,
	// runtime.GOMAXPROCS(0) is used.
	Lanes int
}

// Workers implements Executor.
func (e DeviceExecutor) Workers() int {
	if e.Lanes > 0 {
		return e.Lanes
	}
	return runtime.GOMAXPROCS(0)
}

// Execute implements Executor.
func (e DeviceExecutor) Execute(n int, f func(worker, begin, end int)) {
	bs := e.BlockSize
	if bs <= 0 {
		bs = 256
	}
	lanes := e.Workers()
	var wg sync.WaitGroup
	wg.Add(lanes)
	for l := 0; l < lanes; l++ {
		go func(l int) {
			defer wg.Done()
			for begin := l * bs; begin < n; begin += lanes * bs {
				end := begin + bs
				if end > n {
					end = n
				}
				f(l, begin, end)
			}
		}(l)
	}
	wg.Wait()
}
