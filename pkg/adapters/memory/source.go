package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/tabula/pkg/ports"
)

// Source implements ports.TableSource, ports.TablePublisher and ports.Watchable in memory.
// Safe for concurrent use.
type Source struct {
	mu       sync.RWMutex
	tables   map[string][]map[string]any
	watchers []chan struct{}
}

// NewSource creates a new in-memory source holding the given tables.
func NewSource(tables map[string][]map[string]any) *Source {
	s := &Source{tables: make(map[string][]map[string]any, len(tables))}
	for name, rows := range tables {
		s.tables[name] = rows
	}
	return s
}

// NewSourceFromJSON creates a source from raw JSON arrays, one per table.
// Numbers are kept as json.Number so 64-bit identifiers survive intact.
func NewSourceFromJSON(data map[string]string) (*Source, error) {
	tables := make(map[string][]map[string]any, len(data))
	for name, raw := range data {
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		var rows []map[string]any
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to parse table %s: %w", name, err)
		}
		tables[name] = rows
	}
	return NewSource(tables), nil
}

// Rows returns the rows of a table in input order.
func (s *Source) Rows(ctx context.Context, table string) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrTableNotFound, table)
	}
	out := make([]map[string]any, len(rows))
	copy(out, rows)
	return out, nil
}

// Tables lists every table name, sorted.
func (s *Source) Tables(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

// Publish replaces the rows of a table and notifies watchers.
func (s *Source) Publish(ctx context.Context, table string, rows []map[string]any) error {
	s.mu.Lock()
	s.tables[table] = rows
	watchers := s.watchers
	s.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- struct{}{}:
		default: // a reload is already pending
		}
	}
	return nil
}

// Watch returns a channel signaled after every Publish. It is closed when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

var (
	_ ports.TableSource    = (*Source)(nil)
	_ ports.TablePublisher = (*Source)(nil)
	_ ports.Watchable      = (*Source)(nil)
)
