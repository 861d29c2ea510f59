package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Memory is the ephemeral engine. It backs tests and DATA_PATH-less runs with
// the same contract as the SQLite engine.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]*memTable
	closed bool
}

type memTable struct {
	schema Schema
	seq    int64
	rows   map[int64][]byte
	idx    map[int64]map[string]string
	order  []int64
}

func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*memTable)}
}

func (m *Memory) CreateTable(_ context.Context, schema Schema) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, ok := m.tables[schema.Name]; ok {
		return nil
	}
	m.tables[schema.Name] = &memTable{
		schema: schema,
		rows:   make(map[int64][]byte),
		idx:    make(map[int64]map[string]string),
	}
	return nil
}

func (m *Memory) table(name string) (*memTable, error) {
	if m.closed {
		return nil, ErrClosed
	}
	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("store: unknown table %q", name)
	}
	return t, nil
}

func (m *Memory) Insert(_ context.Context, table string, data []byte, idx map[string]string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return 0, err
	}
	t.seq++
	id := t.seq
	t.rows[id] = cloneBytes(data)
	t.idx[id] = cloneIndex(idx)
	t.order = append(t.order, id)
	return id, nil
}

func (m *Memory) Get(_ context.Context, table string, id int64) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.table(table)
	if err != nil {
		return nil, false, err
	}
	data, ok := t.rows[id]
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(data), true, nil
}

func (m *Memory) Update(_ context.Context, table string, id int64, data []byte, idx map[string]string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return false, err
	}
	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	t.rows[id] = cloneBytes(data)
	t.idx[id] = cloneIndex(idx)
	return true, nil
}

func (m *Memory) Delete(_ context.Context, table string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return err
	}
	if _, ok := t.rows[id]; !ok {
		return nil
	}
	delete(t.rows, id)
	delete(t.idx, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) All(_ context.Context, table string) ([]Raw, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	out := make([]Raw, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, Raw{ID: id, Data: cloneBytes(t.rows[id])})
	}
	return out, nil
}

func (m *Memory) Equals(_ context.Context, table, field, value string) ([]Raw, error) {
	return m.scan(table, func(idx map[string]string) bool {
		return idx[field] == value
	})
}

func (m *Memory) PrefixFold(_ context.Context, table, field, prefix string) ([]Raw, error) {
	lower := strings.ToLower(prefix)
	return m.scan(table, func(idx map[string]string) bool {
		return strings.HasPrefix(strings.ToLower(idx[field]), lower)
	})
}

func (m *Memory) scan(table string, match func(map[string]string) bool) ([]Raw, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	var out []Raw
	for _, id := range t.order {
		if match(t.idx[id]) {
			out = append(out, Raw{ID: id, Data: cloneBytes(t.rows[id])})
		}
	}
	return out, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.tables = nil
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneIndex(idx map[string]string) map[string]string {
	out := make(map[string]string, len(idx))
	for k, v := range idx {
		out[k] = v
	}
	return out
}
