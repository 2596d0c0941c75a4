package hamt

import (
	"github.com/mhaupt/persist/maybe"
	"github.com/mhaupt/persist/rc"
)

// Map is an immutable persistent key-value mapping. The zero value is a valid
// empty map with the default degree and hash function:
//
//	m := hamt.Map[string, int]{}.Set("a", 1)
//
// Every mutating operation returns a new map version and leaves the receiver
// untouched. Versions share unchanged trie nodes with each other.
type Map[K comparable, V any] struct {
	props[K]
	size uint32
	root *mnode[K, V]
}

// Immutable constructs an empty map with options, if you need any.
func Immutable[K comparable, V any](opts ...Option[K]) Map[K, V] {
	m := Map[K, V]{}
	for _, option := range opts {
		m.props = option.config(m.props)
	}
	return m
}

// Option is a type to help initializing maps at creation time.
type Option[K comparable] struct {
	config func(props[K]) props[K]
}

// BitsPerLevel is an option to set the number of hash bits consumed per trie
// level, and thereby the degree (2^n) of the trie. Accepted values are [1…5];
// default is 5, i.e. a degree of 32.
//
// Use it like this:
//
//	m := hamt.Immutable[string, int](hamt.BitsPerLevel[string](2))
func BitsPerLevel[K comparable](n int) Option[K] {
	conf := func(p props[K]) props[K] {
		if n < 1 {
			n = 1
		} else if n > 5 {
			n = 5
		}
		p.bits = uint32(n)
		p.degree = 1 << p.bits
		p.mask = p.degree - 1
		return p
	}
	return Option[K]{config: conf}
}

// Hasher is an option to replace the default key hash function.
func Hasher[K comparable](h func(K) uint64) Option[K] {
	conf := func(p props[K]) props[K] {
		p.hash = h
		return p
	}
	return Option[K]{config: conf}
}

// --- API -------------------------------------------------------------------

// Len returns the number of entries. O(1).
func (m Map[K, V]) Len() int {
	return int(m.size)
}

// IsEmpty is true for a map without entries.
func (m Map[K, V]) IsEmpty() bool {
	return m.size == 0
}

// Get returns the value associated with key, or false if the key is absent.
// O(log n) expected.
func (m Map[K, V]) Get(key K) (V, bool) {
	var none V
	if m.root == nil {
		return none, false
	}
	m.props = m.props.init()
	h := m.hash(key)
	node, depth := m.root, uint32(0)
	for !node.isLeaf() {
		i, ok := node.slot(m.chunkOf(h, depth))
		if !ok {
			return none, false
		}
		node = node.children[i]
		depth += m.bits
	}
	for _, e := range node.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return none, false
}

// Contains reports whether key has an associated value.
func (m Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Lookup returns the value associated with key, if any.
func (m Map[K, V]) Lookup(key K) maybe.Maybe[V] {
	if value, ok := m.Get(key); ok {
		return maybe.Just(value)
	}
	return maybe.Nothing[V]()
}

// Set returns a new map in which key is associated with value, replacing a
// previous association if there was one. The receiver is left untouched.
// O(log n) expected.
func (m Map[K, V]) Set(key K, value V) Map[K, V] {
	m.props = m.props.init()
	tok := rc.NewToken()
	e := entry[K, V]{key: key, value: value, hash: m.hash(key)}
	tracer().Debugf("set %v (hash %016x)", key, e.hash)
	if m.root == nil {
		return Map[K, V]{props: m.props, size: 1, root: newLeaf(tok, e)}
	}
	newRoot, added := m.assoc(m.root, 0, e, tok)
	size := m.size
	if added {
		size++
	}
	return Map[K, V]{props: m.props, size: size, root: newRoot}
}

// assoc returns a new incarnation of node with e inserted, and whether the
// entry count grew. The returned node carries one reference owned by the
// caller, which installs it in place of node.
func (m Map[K, V]) assoc(node *mnode[K, V], depth uint32, e entry[K, V], tok rc.Token) (*mnode[K, V], bool) {
	if node.isLeaf() {
		for i := range node.entries {
			if node.entries[i].key == e.key { // replace value for existing key
				cow := node.mutable(tok)
				cow.entries[i].value = e.value
				return cow, false
			}
		}
		if node.entries[0].hash == e.hash || depth >= hashBits {
			// hashes collide on all bits ⇒ extend the collision list
			tracer().Debugf("full hash collision of %v at depth %d", e.key, depth)
			cow := node.mutable(tok)
			cow.entries = append(cow.entries, e)
			return cow, true
		}
		return m.split(node, depth, e, tok), true
	}
	chunk := m.chunkOf(e.hash, depth)
	i, ok := node.slot(chunk)
	if !ok { // free slot ⇒ hang in a new leaf
		cow := node.mutable(tok)
		cow.insertChild(i, chunk, newLeaf(tok, e))
		return cow, true
	}
	newChild, added := m.assoc(node.children[i], depth+m.bits, e, tok)
	cow := node.mutable(tok)
	cow.setChild(i, newChild)
	return cow, added
}

// split pushes an existing leaf one level down and places e next to it,
// descending further while the two hashes still collide on the current chunk.
func (m Map[K, V]) split(leaf *mnode[K, V], depth uint32, e entry[K, V], tok rc.Token) *mnode[K, V] {
	assertThat(depth < hashBits, "attempt to split a leaf below the hash width")
	lc := m.chunkOf(leaf.entries[0].hash, depth)
	ec := m.chunkOf(e.hash, depth)
	node := newInternal[K, V](tok)
	if lc == ec {
		node.insertChild(0, lc, m.split(leaf, depth+m.bits, e, tok))
		return node
	}
	leaf.Retain() // the new inner node becomes an additional parent
	li, _ := node.slot(lc)
	node.insertChild(li, lc, leaf)
	ei, _ := node.slot(ec)
	node.insertChild(ei, ec, newLeaf(tok, e))
	return node
}

// Without returns a map with the entry for key removed. The receiver is left
// untouched. Removing an absent key is a no-op returning the receiver
// unchanged, root handle included.
func (m Map[K, V]) Without(key K) Map[K, V] {
	if m.root == nil {
		return m
	}
	m.props = m.props.init()
	h := m.hash(key)
	tok := rc.NewToken()
	newRoot, removed := m.dissoc(m.root, 0, key, h, tok)
	if !removed {
		return m
	}
	tracer().Debugf("removed %v (hash %016x)", key, h)
	return Map[K, V]{props: m.props, size: m.size - 1, root: newRoot}
}

// dissoc returns a new incarnation of node with the entry for key removed,
// and whether a removal took place. A nil new incarnation means the node
// vanished entirely. Inner nodes left with a single leaf child collapse into
// that leaf, propagating upward. Until a removal is found the walk is
// read-only, so a miss allocates nothing.
func (m Map[K, V]) dissoc(node *mnode[K, V], depth uint32, key K, h uint64, tok rc.Token) (*mnode[K, V], bool) {
	if node.isLeaf() {
		at := -1
		for i := range node.entries {
			if node.entries[i].key == key {
				at = i
				break
			}
		}
		if at < 0 {
			return node, false
		}
		if len(node.entries) == 1 {
			return nil, true
		}
		cow := node.mutable(tok) // shrink a collision list
		cow.entries = append(cow.entries[:at], cow.entries[at+1:]...)
		return cow, true
	}
	chunk := m.chunkOf(h, depth)
	i, ok := node.slot(chunk)
	if !ok {
		return node, false
	}
	newChild, removed := m.dissoc(node.children[i], depth+m.bits, key, h, tok)
	if !removed {
		return node, false
	}
	width := len(node.children)
	if newChild == nil { // the child vanished
		switch {
		case width == 1: // …and took this node with it
			return nil, true
		case width == 2: // …leaving a single sibling, which may collapse up
			if sibling := node.children[1-i]; sibling.isLeaf() {
				sibling.Retain()
				return sibling, true
			}
		}
		cow := node.mutable(tok)
		cow.removeChild(chunk)
		return cow, true
	}
	if width == 1 && newChild.isLeaf() { // singular chain link collapses away
		return newChild, true
	}
	cow := node.mutable(tok)
	cow.setChild(i, newChild)
	return cow, true
}

// Release drops this version's references deterministically. It is optional —
// an unreleased version is reclaimed by the garbage collector eventually. The
// version, and any plain copy of its value, must not be used after Release.
func (m Map[K, V]) Release() {
	m.root.forget()
}

// --- Internals -------------------------------------------------------------

// chunkOf extracts the hash chunk routing keys at the given trie depth.
func (m Map[K, V]) chunkOf(h uint64, depth uint32) uint32 {
	return uint32(h>>depth) & m.mask
}
