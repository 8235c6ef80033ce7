// Package dict maintains the suggestion corpus behind the autocomplete
// endpoint: per-field term indexes with use counts, seedable from TSV
// files and persistable as msgpack snapshots.
//
// Terms live in one patricia trie per field and scope. A scope narrows a
// field's corpus to a parent context, e.g. item names under one work
// type; the empty scope is the unscoped corpus.
package dict

import (
	"sort"
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

type entry struct {
	term  string
	count int
}

// Dict is a thread-safe suggestion corpus.
type Dict struct {
	mu    sync.RWMutex
	tries map[string]*patricia.Trie
	size  int
}

// New returns an empty corpus.
func New() *Dict {
	return &Dict{tries: make(map[string]*patricia.Trie)}
}

func trieKey(field, scope string) string {
	return field + "\x00" + scope
}

// Add records one use of term under field and scope. Empty terms are
// ignored.
func (d *Dict) Add(field, scope, term string) {
	d.AddCount(field, scope, term, 1)
}

// AddCount records count uses of term, for seeding ranked corpora.
func (d *Dict) AddCount(field, scope, term string, count int) {
	term = strings.TrimSpace(term)
	if field == "" || term == "" || count <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := trieKey(field, scope)
	trie, ok := d.tries[key]
	if !ok {
		trie = patricia.NewTrie()
		d.tries[key] = trie
	}

	prefix := patricia.Prefix(strings.ToLower(term))
	if item := trie.Get(prefix); item != nil {
		item.(*entry).count += count
		return
	}
	trie.Insert(prefix, &entry{term: term, count: count})
	d.size++
}

// Search returns up to limit terms of field/scope starting with prefix,
// most used first, ties in byte order. The match is case-insensitive and
// the exact input itself is excluded; suggesting back what was typed
// helps nobody. A non-positive limit means no cap. Callers wanting
// locale-aware display order sort the result themselves.
func (d *Dict) Search(field, scope, prefix string, limit int) []string {
	lower := strings.ToLower(prefix)

	d.mu.RLock()
	trie, ok := d.tries[trieKey(field, scope)]
	if !ok {
		d.mu.RUnlock()
		return nil
	}

	// Entries are copied out so a concurrent Add cannot race the sort.
	var found []entry
	trie.VisitSubtree(patricia.Prefix(lower), func(p patricia.Prefix, item patricia.Item) error {
		if string(p) == lower {
			return nil
		}
		found = append(found, *item.(*entry))
		return nil
	})
	d.mu.RUnlock()

	sort.Slice(found, func(i, j int) bool {
		if found[i].count != found[j].count {
			return found[i].count > found[j].count
		}
		return found[i].term < found[j].term
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	terms := make([]string, len(found))
	for i, e := range found {
		terms[i] = e.term
	}
	return terms
}

// Fields lists the distinct field names with any terms, sorted.
func (d *Dict) Fields() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := make(map[string]struct{})
	for key := range d.tries {
		f := key[:strings.IndexByte(key, 0)]
		seen[f] = struct{}{}
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Stats reports corpus size counters.
func (d *Dict) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return map[string]int{
		"terms":   d.size,
		"indexes": len(d.tries),
	}
}

// ScopeFromParams canonicalizes extra filter parameters into a scope
// string: keys sorted, empty values dropped, joined as k=v pairs.
func ScopeFromParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	return strings.Join(pairs, "&")
}
