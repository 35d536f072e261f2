package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var errMemoryNotFound = errors.New("item not found")

// MemoryStore keeps items as decoded JSON objects. Items round-trip through
// encoding/json, so json tags define field names exactly like the wire contract.
type MemoryStore struct {
	mu    sync.RWMutex
	seq   map[string]uint
	items map[string]map[uint]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seq:   map[string]uint{},
		items: map[string]map[uint]map[string]any{},
	}
}

func (m *MemoryStore) Find(ctx context.Context, collection string, q Query, dest any) error {
	if err := ctx.Err(); err != nil {
		return newError(KindUnavailable, "find", collection, err)
	}
	conds, err := normalizeConditions(q.Filters)
	if err != nil {
		return newError(KindUnavailable, "find", collection, err)
	}

	m.mu.RLock()
	var matched []map[string]any
	for _, item := range m.items[collection] {
		if matches(item, conds) {
			matched = append(matched, project(item, nil))
		}
	}
	m.mu.RUnlock()

	sortItems(matched, q.Sort)
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	if len(q.Fields) > 0 {
		for i, item := range matched {
			matched[i] = project(item, q.Fields)
		}
	}
	if matched == nil {
		matched = []map[string]any{}
	}
	raw, err := json.Marshal(matched)
	if err != nil {
		return newError(KindUnavailable, "find", collection, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return newError(KindUnavailable, "find", collection, err)
	}
	return nil
}

func (m *MemoryStore) Create(ctx context.Context, collection string, item any) error {
	if err := ctx.Err(); err != nil {
		return newError(KindUnavailable, "create", collection, err)
	}
	obj, err := toObject(item)
	if err != nil {
		return newError(KindUnavailable, "create", collection, err)
	}

	m.mu.Lock()
	m.seq[collection]++
	id := m.seq[collection]
	obj["id"] = float64(id)
	if m.items[collection] == nil {
		m.items[collection] = map[uint]map[string]any{}
	}
	m.items[collection][id] = obj
	m.mu.Unlock()

	raw, err := json.Marshal(obj)
	if err != nil {
		return newError(KindUnavailable, "create", collection, err)
	}
	if err := json.Unmarshal(raw, item); err != nil {
		return newError(KindUnavailable, "create", collection, err)
	}
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection string, id uint, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return newError(KindUnavailable, "update", collection, err)
	}
	patch, err := toObject(map[string]any(fields))
	if err != nil {
		return newError(KindUnavailable, "update", collection, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.items[collection][id]
	if !ok {
		return newError(KindNotFound, "update", collection, fmt.Errorf("%w: id %d", errMemoryNotFound, id))
	}
	for k, v := range patch {
		obj[k] = v
	}
	return nil
}

// Len reports how many items a collection holds.
func (m *MemoryStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items[collection])
}

func toObject(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	obj := map[string]any{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func normalizeConditions(conds []Condition) ([]Condition, error) {
	out := make([]Condition, len(conds))
	for i, c := range conds {
		out[i] = c
		if c.Op != OpEq {
			continue
		}
		raw, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out[i].Value = v
	}
	return out, nil
}

func matches(item map[string]any, conds []Condition) bool {
	for _, c := range conds {
		v, ok := item[c.Field]
		switch c.Op {
		case OpNull:
			if ok && v != nil {
				return false
			}
		default:
			if !ok || !reflect.DeepEqual(v, c.Value) {
				return false
			}
		}
	}
	return true
}

func project(item map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(item))
	if len(fields) == 0 {
		for k, v := range item {
			out[k] = v
		}
		return out
	}
	for _, f := range fields {
		if v, ok := item[f]; ok {
			out[f] = v
		}
	}
	return out
}

func sortItems(items []map[string]any, keys []string) {
	if len(keys) == 0 {
		// Insertion order, which for generated ids is ascending id.
		keys = []string{"id"}
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, k := range keys {
			field, desc := parseSort(k)
			c := compareValues(items[i][field], items[j][field])
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues orders nil before numbers before strings.
func compareValues(a, b any) int {
	rank := func(v any) int {
		switch v.(type) {
		case nil:
			return 0
		case float64:
			return 1
		case string:
			return 2
		default:
			return 3
		}
	}
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}
