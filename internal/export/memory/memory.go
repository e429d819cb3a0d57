// Package memory is an in-memory export sink used in tests and as a
// no-op target when no file sink is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"cashmentor/internal/export"
)

// Sink records every written row set.
type Sink struct {
	mu     sync.Mutex
	writes [][]export.Row
	fail   error
}

var _ export.Sink = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

// FailWith makes every subsequent Write return err. Tests use it to
// exercise sink-failure propagation.
func (s *Sink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *Sink) Ext() string { return "" }

// Write stores the rows and returns a synthetic reference.
func (s *Sink) Write(_ context.Context, name string, rows []export.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	cp := make([]export.Row, len(rows))
	copy(cp, rows)
	s.writes = append(s.writes, cp)
	return fmt.Sprintf("mem:%s:%d", name, len(s.writes)), nil
}

// Writes returns the recorded row sets.
func (s *Sink) Writes() [][]export.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]export.Row, len(s.writes))
	copy(out, s.writes)
	return out
}

// Last returns the most recent row set, or nil.
func (s *Sink) Last() []export.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.writes) == 0 {
		return nil
	}
	return s.writes[len(s.writes)-1]
}
