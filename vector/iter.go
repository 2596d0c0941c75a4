package vector

// Iterator walks a vector version from index 0 upwards. It can be used like
// this:
//
//	for it := v.Iterator(); it.HasElem(); it.Next() {
//	    elem := it.Elem()
//	    // do something with elem…
//	}
//
// Iteration never mutates or invalidates the source; a fresh iterator restarts
// the traversal. Advancing is amortized O(1): the iterator walks bucket by
// bucket and re-descends the tree only on bucket boundaries.
type Iterator[T any] struct {
	v      Vector[T]
	index  int
	bucket []T
	inx    int
}

// Iterator creates an iterator positioned at index 0.
func (v Vector[T]) Iterator() *Iterator[T] {
	v.props = v.props.init()
	it := &Iterator[T]{v: v}
	if v.length > 0 {
		it.load(0)
	}
	return it
}

// HasElem returns whether the iterator is pointing to an element.
func (it *Iterator[T]) HasElem() bool {
	return it.index < it.v.Len()
}

// Elem returns the current element.
func (it *Iterator[T]) Elem() T {
	return it.bucket[it.inx]
}

// Next moves the iterator to the next position.
func (it *Iterator[T]) Next() {
	it.index++
	it.inx++
	if it.inx >= len(it.bucket) && it.index < it.v.Len() {
		it.load(uint32(it.index))
	}
}

func (it *Iterator[T]) load(i uint32) {
	it.bucket = it.v.sliceFor(i)
	it.inx = int(i & it.v.mask)
}

// Each calls f for every element in index order, stopping early when f
// returns false.
func (v Vector[T]) Each(f func(T) bool) {
	for it := v.Iterator(); it.HasElem(); it.Next() {
		if !f(it.Elem()) {
			return
		}
	}
}

// Fold reduces a vector left to right.
func Fold[T, S any](v Vector[T], f func(S, T) S, zero S) S {
	r := zero
	v.Each(func(elem T) bool {
		r = f(r, elem)
		return true
	})
	return r
}
