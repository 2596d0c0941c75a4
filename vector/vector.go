package vector

import (
	"github.com/mhaupt/persist/maybe"
	"github.com/mhaupt/persist/rc"
	"github.com/mhaupt/persist/result"
)

// Vector is an immutable persistent sequence. The zero value is a valid empty
// vector with the default degree:
//
//	v := vector.Vector[int]{}.Push(42)
//
// Every mutating operation returns a new vector version and leaves the
// receiver untouched. Versions share unchanged tree nodes with each other.
type Vector[T any] struct {
	props
	length uint32
	tail   []T
	root   *vnode[T]
}

// Immutable constructs an empty vector with options, if you need any.
func Immutable[T any](opts ...Option) Vector[T] {
	v := Vector[T]{}
	for _, option := range opts {
		v.props = option.config(v.props)
	}
	return v
}

// Option is a type to help initializing vectors at creation time.
type Option struct {
	config func(props) props
}

// DegreeExponent is an option to indirectly set the degree of the underlying
// tree for a vector. The degree of the tree will be 2^exp. Accepted exponents
// are [1…5]; default is 5, i.e. a degree of 32.
//
// Use it like this:
//
//	vec := vector.Immutable[int](vector.DegreeExponent(2))
func DegreeExponent(n int) Option {
	conf := func(p props) props {
		if n < 1 {
			n = 1
		} else if n > 5 {
			n = 5
		}
		p = props{bits: uint32(n)}
		p.degree = 1 << p.bits
		p.mask = p.degree - 1
		return p
	}
	return Option{config: conf}
}

// --- API -------------------------------------------------------------------

// Len returns the number of elements. O(1).
func (v Vector[T]) Len() int {
	return int(v.length)
}

// IsEmpty is true for a vector of length 0.
func (v Vector[T]) IsEmpty() bool {
	return v.length == 0
}

// Get returns the element at index i, or false if i is out of range. O(log n).
func (v Vector[T]) Get(i int) (T, bool) {
	if i < 0 || uint32(i) >= v.length {
		var none T
		return none, false
	}
	v.props = v.props.init()
	return v.sliceFor(uint32(i))[uint32(i)&v.mask], true
}

// First returns the element at index 0, if any.
func (v Vector[T]) First() maybe.Maybe[T] {
	if first, ok := v.Get(0); ok {
		return maybe.Just(first)
	}
	return maybe.Nothing[T]()
}

// Last returns the element at the highest index, if any.
func (v Vector[T]) Last() maybe.Maybe[T] {
	if len(v.tail) == 0 {
		return maybe.Nothing[T]()
	}
	return maybe.Just(v.tail[len(v.tail)-1])
}

// Set returns a new vector with the element at index i replaced by value.
// The receiver is left untouched. An index out of range yields an IndexError.
// O(log n).
func (v Vector[T]) Set(i int, value T) (Vector[T], error) {
	v.props = v.props.init()
	if i < 0 || uint32(i) >= v.length {
		return v, IndexError{Requested: i, Length: int(v.length)}
	}
	if uint32(i) >= v.tailOffset() { // element lives in the tail
		newTail := cloneTail(v.tail, len(v.tail))
		newTail[uint32(i)&v.mask] = value
		if v.root != nil {
			v.root.Retain()
		}
		return Vector[T]{length: v.length, props: v.props, root: v.root, tail: newTail}, nil
	}
	tok := rc.NewToken()
	newRoot := v.root.mutable(tok)
	node := newRoot
	for level := v.shift; level > 0; level -= v.bits {
		node = node.mutateChild((uint32(i)>>level)&v.mask, tok)
	}
	node.leafs[uint32(i)&v.mask] = value
	return Vector[T]{length: v.length, props: v.props, root: newRoot, tail: v.tail}, nil
}

// TrySet is Set with an Elm-style result.
func (v Vector[T]) TrySet(i int, value T) result.Result[Vector[T]] {
	w, err := v.Set(i, value)
	if err != nil {
		return result.Err[Vector[T]](err)
	}
	return result.Ok(w)
}

// Push returns a new vector with value appended. The receiver is left
// untouched. Amortized O(1): appends go to the tail bucket, which is pushed
// down into the tree only when full.
func (v Vector[T]) Push(value T) Vector[T] {
	v.props = v.props.init()
	if !v.tailFull() { // just append value to the tail
		tracer().Debugf("tail not full, appending %v to %v", value, v.tail)
		newTail := cloneTail(v.tail, len(v.tail)+1)
		newTail[len(newTail)-1] = value
		if v.root != nil {
			v.root.Retain()
		}
		return Vector[T]{length: v.length + 1, props: v.props, root: v.root, tail: newTail}
	}
	// tail is full ⇒ have to move the tail into the tree
	tok := rc.NewToken()
	newTail := []T{value}
	assertThat(v.length >= v.degree, "inconsistency: vector.length expected to be ≥ degree")
	if v.length == v.degree { // old content fits a single bucket ⇒ tail becomes the root
		assertThat(v.root == nil, "inconsistency: vector.root expected to be nil")
		leaf := newLeaf(v.tail, tok)
		return Vector[T]{length: v.length + 1, props: v.props.withShift(0), root: leaf, tail: newTail}
	}
	if (v.length >> v.bits) > (1 << v.shift) { // root is full ⇒ grow the tree by one level
		newRoot := emptyNode[T](v.degree, tok)
		v.root.Retain()
		newRoot.children[0] = v.root
		newRoot.children[1] = newPath(v.shift, v.bits, v.degree, v.tail, tok)
		tracer().Debugf("tree full, new root with shift %d", v.shift+v.bits)
		return Vector[T]{length: v.length + 1, props: v.props.withShift(v.shift + v.bits), root: newRoot, tail: newTail}
	}
	// still space under the current root
	newRoot := v.pushLeaf(v.length-1, tok)
	return Vector[T]{length: v.length + 1, props: v.props, root: newRoot, tail: newTail}
}

// pushLeaf hangs the (full) tail as a new rightmost leaf into the tree,
// path-copying the rightmost spine.
func (v Vector[T]) pushLeaf(i uint32, tok rc.Token) *vnode[T] {
	newRoot := v.root.mutable(tok)
	node := newRoot
	for level := v.shift; level > v.bits; level -= v.bits {
		subidx := (i >> level) & v.mask
		if node.children[subidx] == nil {
			node.children[subidx] = newPath(level-v.bits, v.bits, v.degree, v.tail, tok)
			return newRoot
		}
		node = node.mutateChild(subidx, tok)
	}
	subidx := (i >> v.bits) & v.mask
	assertThat(node.children[subidx] == nil, "inconsistency: new leaf slot expected to be empty")
	node.children[subidx] = newLeaf(v.tail, tok)
	return newRoot
}

// Pop returns a new vector with the last element removed. The receiver is left
// untouched. Popping an empty vector yields ErrEmpty. O(log n).
func (v Vector[T]) Pop() (Vector[T], error) {
	v.props = v.props.init()
	if v.length == 0 {
		return v, ErrEmpty
	}
	if v.length == 1 {
		w := Vector[T]{props: v.props}
		w.shift = 0
		return w, nil
	}
	if ((v.length - 1) & v.mask) > 0 { // tail keeps at least one element
		newTail := cloneTail(v.tail, len(v.tail)-1)
		if v.root != nil {
			v.root.Retain()
		}
		return Vector[T]{length: v.length - 1, props: v.props, root: v.root, tail: newTail}, nil
	}
	newTrieSize := v.length - v.degree - 1
	if newTrieSize == 0 { // root vanishes into the tail
		w := Vector[T]{length: v.degree, props: v.props, root: nil, tail: v.root.leafs}
		w.shift = 0
		return w, nil
	}
	if newTrieSize == 1<<v.shift { // can lower the tree by one level
		return v.lowerTrie(), nil
	}
	return v.popTrie(), nil
}

// TryPop is Pop with an Elm-style result.
func (v Vector[T]) TryPop() result.Result[Vector[T]] {
	w, err := v.Pop()
	if err != nil {
		return result.Err[Vector[T]](err)
	}
	return result.Ok(w)
}

// lowerTrie removes the root, whose single remaining child takes its place.
func (v Vector[T]) lowerTrie() Vector[T] {
	lowerShift := v.shift - v.bits
	newRoot := v.root.children[0]
	newRoot.Retain()
	// the rightmost leaf becomes the new tail
	node := v.root.children[1]
	for level := lowerShift; level > 0; level -= v.bits {
		node = node.children[0]
	}
	w := Vector[T]{length: v.length - 1, props: v.props, root: newRoot, tail: node.leafs}
	w.shift = lowerShift
	return w
}

// popTrie unlinks the rightmost leaf, whose content becomes the new tail.
func (v Vector[T]) popTrie() Vector[T] {
	newTrieSize := v.length - v.degree - 1
	forkPoint := newTrieSize ^ (newTrieSize - 1) // where does the node path fork?
	var forked bool
	var orphan *vnode[T]
	tok := rc.NewToken()
	newRoot := v.root.mutable(tok)
	node := newRoot
	for level := v.shift; level > 0; level -= v.bits {
		subidx := (newTrieSize >> level) & v.mask
		switch {
		case forked: // below the fork the walk is read-only
			node = node.children[subidx]
		case (forkPoint >> level) != 0:
			forked = true
			orphan = node.children[subidx]
			node.children[subidx] = nil
			node = orphan
		default:
			node = node.mutateChild(subidx, tok)
		}
	}
	w := Vector[T]{length: v.length - 1, props: v.props, root: newRoot, tail: node.leafs}
	if orphan != nil {
		orphan.forget() // drop the new spine's reference to the unlinked subtree
	}
	return w
}

// Take returns a vector holding the first n elements. n larger than the length
// is clamped; a negative n yields the empty vector.
func (v Vector[T]) Take(n int) Vector[T] {
	if n < 0 {
		n = 0
	}
	cur, owned := v, false
	for cur.Len() > n {
		w, err := cur.Pop()
		assertThat(err == nil, "pop from a non-empty vector cannot fail")
		if owned {
			cur.Release()
		}
		cur, owned = w, true
	}
	return cur
}

// Release drops this version's references deterministically. It is optional —
// an unreleased version is reclaimed by the garbage collector eventually — but
// lets node memory of long-lived lineages be dropped eagerly. The version, and
// any plain copy of its value, must not be used after Release.
func (v Vector[T]) Release() {
	v.root.forget()
}

// --- Internals -------------------------------------------------------------

// sliceFor returns the bucket holding element i. i must be in range.
func (v Vector[T]) sliceFor(i uint32) []T {
	if i >= v.tailOffset() {
		return v.tail
	}
	node := v.root
	for level := v.shift; level > 0; level -= v.bits {
		node = node.children[(i>>level)&v.mask]
	}
	return node.leafs
}

func (v Vector[T]) tailOffset() uint32 {
	return (v.length - 1) &^ v.mask
}

func (v Vector[T]) tailFull() bool {
	return len(v.tail) >= int(v.degree)
}
