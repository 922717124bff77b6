package dialogue

import "sort"

// Store maps node keys to node content. It is owned by whoever loaded it
// and is never mutated by an Engine.
type Store map[string]*Node

// Get returns the node stored under key, or nil if absent.
func (s Store) Get(key string) *Node {
	if s == nil {
		return nil
	}
	return s[key]
}

// Keys returns all node keys in sorted order.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DanglingRef records an option whose Next key is not in the store.
type DanglingRef struct {
	Node   string // Key of the node holding the option
	Option int    // Zero-based option index
	Next   string // The unresolved target key
}

// DanglingRefs lists every option that links to a missing node, ordered by
// node key and option index. The engine tolerates these at runtime; tooling
// uses this to flag content bugs early.
func (s Store) DanglingRefs() []DanglingRef {
	var refs []DanglingRef
	for _, key := range s.Keys() {
		node := s[key]
		if node == nil {
			continue
		}
		for i, opt := range node.Options {
			if opt.Terminal() {
				continue
			}
			if _, ok := s[opt.Next]; !ok {
				refs = append(refs, DanglingRef{Node: key, Option: i, Next: opt.Next})
			}
		}
	}
	return refs
}
