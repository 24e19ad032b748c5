package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

// tableState is the type-erased view of a table used for persistence.
type tableState interface {
	tableName() string
	storageKey() string
	currentRevision() uint64
	setRevision(rev uint64)
	isDirty() bool
	setDirty(dirty bool)
	encode(codec Codec) ([]rawRecord, error)
	reset(codec Codec, validate *validator.Validate, snap snapshot, now time.Time) []Quarantined
}

// table is an in-memory, id-indexed copy of one persisted table. Rows keep
// their insertion order; index maps a secondary key (author, participant,
// recipient) to row ids in insertion order.
type table[T any] struct {
	name    string
	key     string
	idOf    func(*T) string
	clone   func(T) T
	indexOf func(*T) []string

	rows     map[string]*T
	order    []string
	index    map[string][]string
	revision uint64
	dirty    bool
}

func newTable[T any](name, key string, idOf func(*T) string, clone func(T) T, indexOf func(*T) []string) *table[T] {
	return &table[T]{
		name:    name,
		key:     key,
		idOf:    idOf,
		clone:   clone,
		indexOf: indexOf,
		rows:    make(map[string]*T),
		index:   make(map[string][]string),
	}
}

func (t *table[T]) tableName() string { return t.name }
func (t *table[T]) storageKey() string { return t.key }
func (t *table[T]) currentRevision() uint64 { return t.revision }
func (t *table[T]) setRevision(rev uint64) { t.revision = rev }
func (t *table[T]) isDirty() bool { return t.dirty }
func (t *table[T]) setDirty(dirty bool) { t.dirty = dirty }

func (t *table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(*row), true
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.clone(*t.rows[id]))
	}
	return out
}

func (t *table[T]) lookup(key string) []T {
	ids := t.index[key]
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.clone(*t.rows[id]))
	}
	return out
}

// insertRaw adds rec at position pos of the order, or appends when pos < 0.
func (t *table[T]) insertRaw(rec T, pos int) {
	id := t.idOf(&rec)
	t.rows[id] = &rec
	if pos < 0 || pos >= len(t.order) {
		t.order = append(t.order, id)
		t.addIndex(&rec)
		return
	}
	t.order = append(t.order, "")
	copy(t.order[pos+1:], t.order[pos:])
	t.order[pos] = id
	for _, k := range t.keysOf(&rec) {
		t.reindex(k)
	}
}

func (t *table[T]) deleteRaw(id string) (T, int, bool) {
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, -1, false
	}
	t.dropIndex(row)
	delete(t.rows, id)
	pos := -1
	for i, v := range t.order {
		if v == id {
			pos = i
			break
		}
	}
	if pos >= 0 {
		t.order = append(t.order[:pos], t.order[pos+1:]...)
	}
	return *row, pos, true
}

func (t *table[T]) replaceRaw(rec T) (T, bool) {
	id := t.idOf(&rec)
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	prev := *row
	t.rows[id] = &rec
	if !slices.Equal(t.keysOf(&prev), t.keysOf(&rec)) {
		for _, k := range t.keysOf(&prev) {
			t.reindex(k)
		}
		for _, k := range t.keysOf(&rec) {
			t.reindex(k)
		}
	}
	return prev, true
}

func (t *table[T]) keysOf(rec *T) []string {
	if t.indexOf == nil {
		return nil
	}
	return t.indexOf(rec)
}

func (t *table[T]) addIndex(rec *T) {
	id := t.idOf(rec)
	for _, k := range t.keysOf(rec) {
		t.index[k] = append(t.index[k], id)
	}
}

// reindex rebuilds the id list of key k in row order.
func (t *table[T]) reindex(k string) {
	var ids []string
	for _, id := range t.order {
		for _, rk := range t.keysOf(t.rows[id]) {
			if rk == k {
				ids = append(ids, id)
				break
			}
		}
	}
	if len(ids) == 0 {
		delete(t.index, k)
	} else {
		t.index[k] = ids
	}
}

func (t *table[T]) dropIndex(rec *T) {
	id := t.idOf(rec)
	for _, k := range t.keysOf(rec) {
		ids := t.index[k]
		for i, v := range ids {
			if v == id {
				ids = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(t.index, k)
		} else {
			t.index[k] = ids
		}
	}
}

func (t *table[T]) encode(codec Codec) ([]rawRecord, error) {
	out := make([]rawRecord, 0, len(t.order))
	for _, id := range t.order {
		data, err := codec.Marshal(t.rows[id])
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", t.name, id, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// reset replaces the contents with the records of snap. Records that fail
// to decode or validate, and repeated ids, are returned for quarantine.
func (t *table[T]) reset(codec Codec, validate *validator.Validate, snap snapshot, now time.Time) []Quarantined {
	t.rows = make(map[string]*T, len(snap.Records))
	t.order = make([]string, 0, len(snap.Records))
	t.index = make(map[string][]string)
	t.revision = snap.Revision
	t.dirty = false

	var bad []Quarantined
	for _, raw := range snap.Records {
		var rec T
		if err := codec.Unmarshal(raw, &rec); err != nil {
			bad = append(bad, Quarantined{Table: t.name, Reason: err.Error(), Raw: raw, At: now})
			continue
		}
		id := t.idOf(&rec)
		if err := validate.Struct(rec); err != nil {
			bad = append(bad, Quarantined{Table: t.name, RecordID: id, Reason: err.Error(), Raw: raw, At: now})
			continue
		}
		if t.has(id) {
			bad = append(bad, Quarantined{Table: t.name, RecordID: id, Reason: "duplicate id", Raw: raw, At: now})
			continue
		}
		t.insertRaw(rec, -1)
	}
	return bad
}
