package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used in demo mode (no Firebase
// credentials configured) and in tests. Documents keep insertion order,
// which stands in for the backend's store-assigned order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	order       map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
		order:       make(map[string][]string),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
	}
	return Document{ID: id, Data: cloneMap(data)}, nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data interface{}) (string, error) {
	m, err := toMap(data)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.put(collection, id, m)
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data interface{}) error {
	m, err := toMap(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(collection, id, m)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	for k, v := range updates {
		normalized, err := toValue(v)
		if err != nil {
			return err
		}
		data[k] = normalized
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, spec QuerySpec) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for _, id := range s.order[collection] {
		data := s.collections[collection][id]
		if matchesAll(data, spec.Filters) {
			docs = append(docs, Document{ID: id, Data: cloneMap(data)})
		}
	}

	if spec.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			cmp, ok := compareValues(docs[i].Data[spec.OrderBy], docs[j].Data[spec.OrderBy])
			if !ok {
				return false
			}
			if spec.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if spec.Limit > 0 && len(docs) > spec.Limit {
		docs = docs[:spec.Limit]
	}
	return docs, nil
}

func (s *MemoryStore) GetAll(ctx context.Context, collection string, ids []string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		if data, ok := s.collections[collection][id]; ok {
			docs = append(docs, Document{ID: id, Data: cloneMap(data)})
		}
	}
	return docs, nil
}

func (s *MemoryStore) BatchAdd(ctx context.Context, collection string, docs []interface{}) error {
	maps := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		m, err := toMap(d)
		if err != nil {
			return err
		}
		maps = append(maps, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range maps {
		s.put(collection, uuid.NewString(), m)
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return s.Set(ctx, CollectionTest, "connection-test", map[string]interface{}{
		"timestamp": time.Now(),
		"message":   "Connection test successful",
	})
}

// put assumes the write lock is held.
func (s *MemoryStore) put(collection, id string, data map[string]interface{}) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}
	if _, exists := s.collections[collection][id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	s.collections[collection][id] = data
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// toValue normalizes a single field value the way toMap normalizes whole
// records, so filters behave the same for Set and Update writes.
func toValue(v interface{}) (interface{}, error) {
	m, err := toMap(map[string]interface{}{"v": v})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

func matchesAll(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if !matches(data[f.Field], f.Op, f.Value) {
			return false
		}
	}
	return true
}

func matches(docVal interface{}, op string, filterVal interface{}) bool {
	if op == "in" {
		values, ok := filterVal.([]interface{})
		if !ok {
			return false
		}
		for _, v := range values {
			if cmp, ok := compareValues(docVal, v); ok && cmp == 0 {
				return true
			}
		}
		return false
	}

	cmp, ok := compareValues(docVal, filterVal)
	if !ok {
		return false
	}
	switch op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

// compareValues compares two loosely-typed field values. Stored values
// have passed through JSON (numbers become float64, timestamps become
// RFC3339 strings) while filter values are still native Go types, so both
// sides are normalized before comparing.
func compareValues(a, b interface{}) (int, bool) {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
	}
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			switch {
			case ta.Before(tb):
				return -1, true
			case ta.After(tb):
				return 1, true
			}
			return 0, true
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb), true
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			if ba == bb {
				return 0, true
			}
			return 1, true
		}
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
