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
	"os"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/spatialmodel/trac"
)

// StepLog records per-step ensemble statistics to a CSV file.
type StepLog struct {
	mu            sync.Mutex
	f             *os.File
	headerWritten bool
}

// NewStepLog creates the CSV file fname.
func NewStepLog(fname string) (*StepLog, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("atmio: creating step log: %w", err)
	}
	return &StepLog{f: f}, nil
}

// Record implements trac.StepRecorder.
func (l *StepLog) Record(s trac.StepStats) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	records := []trac.StepStats{s}
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.f); err != nil {
			return fmt.Errorf("atmio: writing step log: %w", err)
		}
		l.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, l.f); err != nil {
		return fmt.Errorf("atmio: writing step log: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *StepLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
