package hamt

// Iterator walks the entries of one map version. It can be used like this:
//
//	for it := m.Iterator(); it.HasElem(); it.Next() {
//	    key, value := it.Elem()
//	    // do something with the entry…
//	}
//
// Enumeration order follows the trie (i.e. the key hashes) and is therefore
// unspecified, but stable: two iterators over the same version yield the same
// sequence. Iteration never mutates or invalidates the source.
type Iterator[K comparable, V any] struct {
	stack []cursor[K, V]
}

// cursor marks a position inside one node: a child index for inner nodes, an
// entry index for leaves.
type cursor[K comparable, V any] struct {
	node *mnode[K, V]
	inx  int
}

// Iterator creates an iterator positioned at the first entry.
func (m Map[K, V]) Iterator() *Iterator[K, V] {
	it := &Iterator[K, V]{}
	if m.root != nil {
		it.descend(m.root)
	}
	return it
}

// descend pushes node and walks down to its leftmost leaf.
func (it *Iterator[K, V]) descend(node *mnode[K, V]) {
	for {
		it.stack = append(it.stack, cursor[K, V]{node: node})
		if node.isLeaf() {
			return
		}
		node = node.children[0]
	}
}

// HasElem returns whether the iterator is pointing to an entry.
func (it *Iterator[K, V]) HasElem() bool {
	return len(it.stack) > 0
}

// Elem returns the current key-value pair.
func (it *Iterator[K, V]) Elem() (K, V) {
	top := it.stack[len(it.stack)-1]
	e := top.node.entries[top.inx]
	return e.key, e.value
}

// Next moves the iterator to the next entry.
func (it *Iterator[K, V]) Next() {
	top := &it.stack[len(it.stack)-1]
	top.inx++
	if top.inx < len(top.node.entries) {
		return
	}
	it.stack = it.stack[:len(it.stack)-1] // leaf exhausted ⇒ pop and advance
	for len(it.stack) > 0 {
		parent := &it.stack[len(it.stack)-1]
		parent.inx++
		if parent.inx < len(parent.node.children) {
			it.descend(parent.node.children[parent.inx])
			return
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
}

// Each calls f for every entry, stopping early when f returns false.
func (m Map[K, V]) Each(f func(K, V) bool) {
	for it := m.Iterator(); it.HasElem(); it.Next() {
		if k, v := it.Elem(); !f(k, v) {
			return
		}
	}
}

// Keys returns the keys of one map version in iteration order.
func (m Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Each(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}
