package memory

import (
	"context"
	"fmt"
	"sync"

	"my/internal/core"
)

// Store is an in-memory expense source keyed by path. It backs tests and
// fixtures that should not touch the filesystem.
type Store struct {
	mu     sync.Mutex
	tables map[string][]core.Expense
	errs   map[string]error
	reads  []string
}

func New() *Store {
	return &Store{tables: map[string][]core.Expense{}, errs: map[string]error{}}
}

// Put registers the expenses returned for path. Missing sources get the path
// and their 1-based position filled in.
func (s *Store) Put(path string, expenses ...core.Expense) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]core.Expense, len(expenses))
	for i, e := range expenses {
		if e.Source.File == "" {
			e.Source = core.Source{File: path, Row: i + 1}
		}
		rows[i] = e
	}
	s.tables[path] = rows
	return s
}

// Fail makes every read of path return err.
func (s *Store) Fail(path string, err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[path] = err
	return s
}

// ReadExpenses implements sheets.ExpenseReader.
func (s *Store) ReadExpenses(ctx context.Context, path string) ([]core.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads = append(s.reads, path)
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	rows, ok := s.tables[path]
	if !ok {
		return nil, &core.FileAccessError{Path: path, Err: fmt.Errorf("no such table")}
	}
	return append([]core.Expense(nil), rows...), nil
}

// Reads returns the paths read so far, in call order.
func (s *Store) Reads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reads...)
}
