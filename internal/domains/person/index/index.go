// Package index holds the in-process view of every person this instance knows about.
package index

import (
	"strings"
	"sync"

	"person-registry/internal/domains/person/model"
)

// DefaultSearchLimit caps search results when the caller passes no limit.
const DefaultSearchLimit = 50

// searchEntry pairs a lowercase search blob with the id of the person it was built from.
type searchEntry struct {
	blob string
	id   string
}

// PersonIndex maps id -> person, tracks seen nicknames and keeps the search entries
// in insertion order. Insert takes the write lock for its whole duration, so no
// reader ever observes a person that is visible to lookup but not to search.
type PersonIndex struct {
	mu        sync.RWMutex
	people    map[string]model.Person
	nicknames map[string]struct{}
	entries   []searchEntry
}

// New creates an empty index.
func New() *PersonIndex {
	return &PersonIndex{
		people:    make(map[string]model.Person),
		nicknames: make(map[string]struct{}),
	}
}

// Lookup returns a copy of the person stored under id.
func (x *PersonIndex) Lookup(id string) (model.Person, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	p, ok := x.people[id]
	if !ok {
		return model.Person{}, false
	}
	return p.Clone(), true
}

// NicknameTaken reports whether nickname has been seen by this index.
func (x *PersonIndex) NicknameTaken(nickname string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()

	_, ok := x.nicknames[nickname]
	return ok
}

// Insert upserts p. A search entry is appended only the first time an id is seen;
// re-inserting an id overwrites the stored record and leaves the entry list alone.
func (x *PersonIndex) Insert(p model.Person) {
	p = p.Clone()
	blob := p.SearchText()

	x.mu.Lock()
	defer x.mu.Unlock()

	_, seen := x.people[p.ID]
	x.people[p.ID] = p
	x.nicknames[p.Nickname] = struct{}{}
	if !seen {
		x.entries = append(x.entries, searchEntry{blob: blob, id: p.ID})
	}
}

// Search returns up to limit people whose search blob contains term, case-insensitively,
// oldest insert first. limit <= 0 means DefaultSearchLimit.
func (x *PersonIndex) Search(term string, limit int) []model.Person {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(term)

	x.mu.RLock()
	defer x.mu.RUnlock()

	result := make([]model.Person, 0, min(limit, len(x.entries)))
	for _, e := range x.entries {
		if !strings.Contains(e.blob, needle) {
			continue
		}
		result = append(result, x.people[e.id].Clone())
		if len(result) == limit {
			break
		}
	}
	return result
}

// Len returns the number of distinct people in the index.
func (x *PersonIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.people)
}
