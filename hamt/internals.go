package hamt

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mhaupt/persist/rc"
)

const defaultBits uint32 = 5 // will produce nodes with degree 2 ^ 5 = 32

// hashBits is the width of a key hash; a trie path can consume at most this
// many bits before leaves degrade into collision lists.
const hashBits uint32 = 64

type props[K comparable] struct {
	bits   uint32 // number of hash bits to consume per level
	degree uint32 // degree is always 2 ^ bits
	mask   uint32 // mask is degree - 1
	hash   func(K) uint64
}

func (p props[K]) init() props[K] {
	if p.degree == 0 {
		p.bits = defaultBits
		p.degree = 1 << p.bits
		p.mask = p.degree - 1
	}
	if p.hash == nil {
		p.hash = defaultHasher[K]()
	}
	return p
}

// defaultHasher hashes a key's fmt rendition with xxhash. It works for every
// comparable key type; performance-sensitive clients provide their own hash
// via the Hasher option.
func defaultHasher[K comparable]() func(K) uint64 {
	return func(key K) uint64 {
		d := xxhash.New()
		fmt.Fprintf(d, "%v", key)
		return d.Sum64()
	}
}

type entry[K comparable, V any] struct {
	key   K
	value V
	hash  uint64
}

// mnode represents a node in the trie a map is made of: either an inner node
// with a bitmap of occupied slots and a packed child array, or a leaf holding
// one entry (several after a full-hash collision). Nodes are shared between
// map versions; the embedded cell counts the owners.
type mnode[K comparable, V any] struct {
	rc.Cell
	bitmap   uint32
	children []*mnode[K, V]
	entries  []entry[K, V]
}

func (node *mnode[K, V]) isLeaf() bool {
	return node.children == nil
}

func newLeaf[K comparable, V any](tok rc.Token, entries ...entry[K, V]) *mnode[K, V] {
	node := &mnode[K, V]{entries: entries}
	node.Init(tok)
	return node
}

func newInternal[K comparable, V any](tok rc.Token) *mnode[K, V] {
	node := &mnode[K, V]{children: []*mnode[K, V]{}}
	node.Init(tok)
	return node
}

// slot returns the packed-array position for a hash chunk and whether the
// slot is occupied.
func (node *mnode[K, V]) slot(chunk uint32) (int, bool) {
	bit := uint32(1) << chunk
	return bits.OnesCount32(node.bitmap & (bit - 1)), node.bitmap&bit != 0
}

// clone copies a single node's direct slots. Child links are shared with the
// original, i.e. every child gains an owner; nothing below node is copied.
func (node *mnode[K, V]) clone(tok rc.Token) *mnode[K, V] {
	n := &mnode[K, V]{bitmap: node.bitmap}
	n.Init(tok)
	if node.entries != nil {
		n.entries = make([]entry[K, V], len(node.entries))
		copy(n.entries, node.entries)
	}
	if node.children != nil {
		n.children = make([]*mnode[K, V], len(node.children))
		copy(n.children, node.children)
		for _, ch := range n.children {
			ch.Retain()
		}
	}
	return n
}

// mutable is the copy-on-write decision point used by every mutator: a node
// exclusively owned by the mutation walk tok is handed back for in-place
// mutation, a shared node is cloned.
func (node *mnode[K, V]) mutable(tok rc.Token) *mnode[K, V] {
	if node.Exclusive(tok) {
		return node
	}
	return node.clone(tok)
}

// insertChild links child into the free slot for chunk of an exclusively
// owned node. The child's reference is taken over by the node.
func (node *mnode[K, V]) insertChild(i int, chunk uint32, child *mnode[K, V]) {
	node.children = append(node.children, nil)
	copy(node.children[i+1:], node.children[i:])
	node.children[i] = child
	node.bitmap |= uint32(1) << chunk
}

// removeChild unlinks the child in the slot for chunk of an exclusively owned
// node, dropping the node's reference to it.
func (node *mnode[K, V]) removeChild(chunk uint32) {
	bit := uint32(1) << chunk
	i := bits.OnesCount32(node.bitmap & (bit - 1))
	node.children[i].forget()
	node.children = append(node.children[:i], node.children[i+1:]...)
	node.bitmap &^= bit
}

// setChild replaces the child at packed position i of an exclusively owned
// node, dropping the node's reference to the replaced child.
func (node *mnode[K, V]) setChild(i int, child *mnode[K, V]) {
	if old := node.children[i]; old != nil && old != child {
		old.forget()
	}
	node.children[i] = child
}

// forget drops one owner of node. When the last owner is gone, the node's
// contents are dropped as well, releasing all children transitively.
func (node *mnode[K, V]) forget() {
	if node == nil {
		return
	}
	if node.Release() {
		for _, ch := range node.children {
			ch.forget()
		}
		node.children = nil
		node.entries = nil
	}
}

func (node *mnode[K, V]) String() string {
	b := strings.Builder{}
	b.WriteByte('{')
	if node.isLeaf() {
		for i, e := range node.entries {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%v=%v", e.key, e.value))
		}
	} else {
		b.WriteString(fmt.Sprintf("%032b:%d", node.bitmap, len(node.children)))
	}
	b.WriteByte('}')
	return b.String()
}

// ---------------------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("persist.hamt: "+msg, msgargs...)
		panic(msg)
	}
}
