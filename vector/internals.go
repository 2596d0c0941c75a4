package vector

import (
	"fmt"
	"strings"

	"github.com/mhaupt/persist/rc"
)

const defaultBits uint32 = 5 // will produce nodes with degree 2 ^ 5 = 32

type props struct {
	bits   uint32 // number of bits to use per level
	degree uint32 // degree is always 2 ^ bits
	mask   uint32 // mask is degree - 1, i.e. a bit pattern with trailing 1s of length 'bits'
	shift  uint32 // we do not store the height, but rather bits*height
}

func (p props) init() props {
	if p.degree == 0 {
		p.bits = defaultBits
		p.degree = 1 << p.bits
		p.mask = p.degree - 1
	}
	return p
}

func (p props) withShift(shift uint32) props {
	p.shift = shift
	return p
}

// vnode represents a node in the tree a vector is made of: either an inner
// node with child links, or a bucket of leafs. Nodes are shared between vector
// versions; the embedded cell counts the owners (parent nodes plus versions).
type vnode[T any] struct {
	rc.Cell
	children []*vnode[T]
	leafs    []T
}

func emptyNode[T any](k uint32, tok rc.Token) *vnode[T] {
	node := &vnode[T]{
		children: make([]*vnode[T], int(k)),
	}
	node.Init(tok)
	return node
}

func newLeaf[T any](tail []T, tok rc.Token) *vnode[T] {
	l := make([]T, len(tail))
	copy(l, tail)
	node := &vnode[T]{leafs: l}
	node.Init(tok)
	return node
}

// clone copies a single node's direct slots. Child links are shared with the
// original, i.e. every child gains an owner; nothing below node is copied.
func (node *vnode[T]) clone(tok rc.Token) *vnode[T] {
	n := &vnode[T]{}
	n.Init(tok)
	if node.leafs != nil {
		n.leafs = make([]T, len(node.leafs))
		copy(n.leafs, node.leafs)
	}
	if node.children != nil {
		n.children = make([]*vnode[T], len(node.children))
		copy(n.children, node.children)
		for _, ch := range n.children {
			if ch != nil {
				ch.Retain()
			}
		}
	}
	return n
}

// mutable is the copy-on-write decision point used by every mutator: a node
// exclusively owned by the mutation walk tok is handed back for in-place
// mutation, a shared node is cloned.
func (node *vnode[T]) mutable(tok rc.Token) *vnode[T] {
	if node.Exclusive(tok) {
		return node
	}
	return node.clone(tok)
}

// mutateChild replaces the child at slot i of an exclusively owned parent with
// a mutable incarnation of that child and returns it. The parent's reference
// to the replaced child is dropped.
func (node *vnode[T]) mutateChild(i uint32, tok rc.Token) *vnode[T] {
	child := node.children[i]
	if child.Exclusive(tok) {
		return child
	}
	cow := child.clone(tok)
	node.children[i] = cow
	child.forget()
	return cow
}

// forget drops one owner of node. When the last owner is gone, the node's
// contents are dropped as well, releasing all children transitively.
func (node *vnode[T]) forget() {
	if node == nil {
		return
	}
	if node.Release() {
		for _, ch := range node.children {
			ch.forget()
		}
		node.children = nil
		node.leafs = nil
	}
}

func cloneTail[T any](tail []T, l int) []T {
	newTail := make([]T, l)
	if tail != nil {
		copy(newTail, tail[:min(l, len(tail))])
	}
	return newTail
}

// newPath builds a minimal spine of inner nodes down to a single new leaf
// holding tail. With levels == 0 the leaf itself is returned.
func newPath[T any](levels, bits, k uint32, tail []T, tok rc.Token) *vnode[T] {
	topNode := newLeaf(tail, tok)
	for level := levels; level > 0; level -= bits {
		newTop := emptyNode[T](k, tok)
		newTop.children[0] = topNode
		topNode = newTop
	}
	return topNode
}

func (node *vnode[T]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	if node.leafs != nil {
		for i, l := range node.leafs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%v", l))
		}
	} else {
		for i, c := range node.children {
			if i > 0 {
				b.WriteByte(',')
			}
			if c == nil {
				b.WriteByte('_')
			} else {
				b.WriteString("▪︎")
			}
		}
	}
	b.WriteByte(']')
	return b.String()
}

// ---------------------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("persist.vector: "+msg, msgargs...)
		panic(msg)
	}
}
