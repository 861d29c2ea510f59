// Package store implements the local record store backing every entity
// collection: keyed tables with store-assigned auto-increment identifiers,
// insertion-order iteration, and secondary indexes supporting equality and
// case-insensitive prefix lookups. Two engines implement the same contract, an
// in-memory one and a durable SQLite file, so callers never branch on which
// backend is active.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
)

// ErrClosed is returned by engines once Close has been called.
var ErrClosed = errors.New("store: closed")

// SyncStatus tags a record with the state of its (simulated) outbound
// synchronization.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

// Record is implemented by every entity stored in a Table. Identifiers are
// assigned by the store on insert, never by the caller.
type Record interface {
	RecordID() int64
	SetRecordID(int64)
}

// Schema declares a table and the fields it maintains secondary indexes on.
type Schema struct {
	Name    string
	Indexes []string
}

func (s Schema) hasIndex(field string) bool {
	for _, f := range s.Indexes {
		if f == field {
			return true
		}
	}
	return false
}

// Raw is an engine-level row: the assigned identifier plus the encoded record.
type Raw struct {
	ID   int64
	Data []byte
}

// Engine is the storage backend contract. Index values are plain strings; the
// typed Table layer extracts them from records.
type Engine interface {
	CreateTable(ctx context.Context, schema Schema) error
	Insert(ctx context.Context, table string, data []byte, idx map[string]string) (int64, error)
	Get(ctx context.Context, table string, id int64) ([]byte, bool, error)
	Update(ctx context.Context, table string, id int64, data []byte, idx map[string]string) (bool, error)
	Delete(ctx context.Context, table string, id int64) error
	All(ctx context.Context, table string) ([]Raw, error)
	Equals(ctx context.Context, table, field, value string) ([]Raw, error)
	PrefixFold(ctx context.Context, table, field, prefix string) ([]Raw, error)
	Close() error
}

// Open returns the SQLite engine at path, or the in-memory engine when path
// is blank.
func Open(path string) (Engine, error) {
	if path == "" {
		return NewMemory(), nil
	}
	return OpenSQLite(path)
}

// Table is a typed view over one engine table. It handles record
// encoding/decoding and identifier bookkeeping; one Table instance per entity
// type replaces per-entity CRUD plumbing.
type Table[T Record] struct {
	engine Engine
	schema Schema
	index  func(T) map[string]string
}

// NewTable binds a typed table to its engine, creating the underlying table
// and its indexes if needed.
func NewTable[T Record](ctx context.Context, engine Engine, schema Schema, index func(T) map[string]string) (*Table[T], error) {
	if err := engine.CreateTable(ctx, schema); err != nil {
		return nil, wrapEngineErr(err, "create table "+schema.Name)
	}
	return &Table[T]{engine: engine, schema: schema, index: index}, nil
}

// Add inserts rec, assigns the next identifier and sets it on rec.
func (t *Table[T]) Add(ctx context.Context, rec T) (int64, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("encode %s record: %w", t.schema.Name, err)
	}
	id, err := t.engine.Insert(ctx, t.schema.Name, data, t.index(rec))
	if err != nil {
		return 0, wrapEngineErr(err, "insert into "+t.schema.Name)
	}
	rec.SetRecordID(id)
	return id, nil
}

// Get returns the record and whether it exists.
func (t *Table[T]) Get(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	data, ok, err := t.engine.Get(ctx, t.schema.Name, id)
	if err != nil {
		return zero, false, wrapEngineErr(err, "get from "+t.schema.Name)
	}
	if !ok {
		return zero, false, nil
	}
	rec, err := t.decode(id, data)
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

// Update replaces the record stored under id. It reports false, without
// error, when id is absent.
func (t *Table[T]) Update(ctx context.Context, id int64, rec T) (bool, error) {
	rec.SetRecordID(id)
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encode %s record: %w", t.schema.Name, err)
	}
	ok, err := t.engine.Update(ctx, t.schema.Name, id, data, t.index(rec))
	if err != nil {
		return false, wrapEngineErr(err, "update "+t.schema.Name)
	}
	return ok, nil
}

// Delete removes the record if present.
func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	if err := t.engine.Delete(ctx, t.schema.Name, id); err != nil {
		return wrapEngineErr(err, "delete from "+t.schema.Name)
	}
	return nil
}

// All returns every record in insertion order.
func (t *Table[T]) All(ctx context.Context) ([]T, error) {
	raws, err := t.engine.All(ctx, t.schema.Name)
	if err != nil {
		return nil, wrapEngineErr(err, "scan "+t.schema.Name)
	}
	return t.decodeAll(raws)
}

// FindEquals returns the records whose indexed field equals value, in
// insertion order.
func (t *Table[T]) FindEquals(ctx context.Context, field, value string) ([]T, error) {
	if !t.schema.hasIndex(field) {
		return nil, fmt.Errorf("%s: no index on field %q", t.schema.Name, field)
	}
	raws, err := t.engine.Equals(ctx, t.schema.Name, field, value)
	if err != nil {
		return nil, wrapEngineErr(err, "query "+t.schema.Name)
	}
	return t.decodeAll(raws)
}

// FindPrefixFold returns the records whose indexed field starts with prefix,
// compared case-insensitively, in insertion order.
func (t *Table[T]) FindPrefixFold(ctx context.Context, field, prefix string) ([]T, error) {
	if !t.schema.hasIndex(field) {
		return nil, fmt.Errorf("%s: no index on field %q", t.schema.Name, field)
	}
	raws, err := t.engine.PrefixFold(ctx, t.schema.Name, field, prefix)
	if err != nil {
		return nil, wrapEngineErr(err, "query "+t.schema.Name)
	}
	return t.decodeAll(raws)
}

func (t *Table[T]) decode(id int64, data []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s record %d: %w", t.schema.Name, id, err)
	}
	// The row id is authoritative.
	rec.SetRecordID(id)
	return rec, nil
}

func (t *Table[T]) decodeAll(raws []Raw) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, r := range raws {
		rec, err := t.decode(r.ID, r.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func wrapEngineErr(err error, msg string) error {
	if errors.Is(err, ErrClosed) {
		return apperr.Wrap(apperr.KindUnavailable, err, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
