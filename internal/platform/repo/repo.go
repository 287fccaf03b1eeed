// Package repo provides an in-memory keyed collection whose iteration order is
// ascending by key, so listings built on it are deterministic.
package repo

import (
	"cmp"
	"slices"
)

// Repository holds one entity type's live records. It is not safe for
// concurrent use; callers serialize access.
type Repository[K cmp.Ordered, V any] struct {
	items map[K]V
}

// New returns an empty repository.
func New[K cmp.Ordered, V any]() *Repository[K, V] {
	return &Repository[K, V]{items: make(map[K]V)}
}

// Insert stores v under id, replacing any previous value, and returns id.
func (r *Repository[K, V]) Insert(id K, v V) K {
	r.items[id] = v
	return id
}

// Get returns the record stored under id.
func (r *Repository[K, V]) Get(id K) (V, bool) {
	v, ok := r.items[id]
	return v, ok
}

// Has reports whether id is present.
func (r *Repository[K, V]) Has(id K) bool {
	_, ok := r.items[id]
	return ok
}

// Update replaces an existing record. It reports false when id is absent.
func (r *Repository[K, V]) Update(id K, v V) bool {
	if _, ok := r.items[id]; !ok {
		return false
	}
	r.items[id] = v
	return true
}

// Delete removes id and reports whether it was present.
func (r *Repository[K, V]) Delete(id K) bool {
	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	return true
}

// Keys returns all keys in ascending order.
func (r *Repository[K, V]) Keys() []K {
	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Scan returns the records matching pred in ascending key order. A nil pred
// matches everything.
func (r *Repository[K, V]) Scan(pred func(V) bool) []V {
	var out []V
	for _, k := range r.Keys() {
		v := r.items[k]
		if pred == nil || pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// All returns every record in ascending key order.
func (r *Repository[K, V]) All() []V {
	return r.Scan(nil)
}

// Len returns the number of records.
func (r *Repository[K, V]) Len() int {
	return len(r.items)
}

// MaxKey returns the largest key, or false when empty.
func (r *Repository[K, V]) MaxKey() (K, bool) {
	var top K
	found := false
	for k := range r.items {
		if !found || k > top {
			top, found = k, true
		}
	}
	return top, found
}

// Reset drops every record.
func (r *Repository[K, V]) Reset() {
	clear(r.items)
}
