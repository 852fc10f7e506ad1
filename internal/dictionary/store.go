package dictionary

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pterm/pterm"

	"kame/internal/schema"
)

// LoadFunc produces the entries of a new snapshot.
type LoadFunc func(ctx context.Context) ([]schema.Entry, error)

// Store holds the current snapshot. Readers call Load once per query and
// use that snapshot throughout.
type Store struct {
	current atomic.Pointer[Snapshot]
	logger  *pterm.Logger
}

// NewStore creates a store serving s. logger may be nil.
func NewStore(s *Snapshot, logger *pterm.Logger) *Store {
	if s == nil {
		s = NewSnapshot(nil)
	}
	st := &Store{logger: logger}
	st.current.Store(s)
	return st
}

// Load returns the current snapshot.
func (st *Store) Load() *Snapshot {
	return st.current.Load()
}

// Swap installs s and returns the previous snapshot.
func (st *Store) Swap(s *Snapshot) *Snapshot {
	old := st.current.Swap(s)
	if st.logger != nil {
		st.logger.Debug("dictionary swapped", st.logger.Args(
			"generation", s.Generation(),
			"entries", s.Len(),
		))
	}
	return old
}

// Reload builds a new snapshot from load and swaps it in. On error the
// current snapshot stays in place.
func (st *Store) Reload(ctx context.Context, load LoadFunc) (*Snapshot, error) {
	entries, err := load(ctx)
	if err != nil {
		if st.logger != nil {
			st.logger.Error("dictionary reload failed", st.logger.Args("error", err))
		}
		return nil, fmt.Errorf("dictionary: reload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: reload: %w", err)
	}

	s := NewSnapshot(entries)
	st.Swap(s)
	if st.logger != nil {
		st.logger.Info("dictionary loaded", st.logger.Args("entries", s.Len()))
	}
	return s, nil
}
