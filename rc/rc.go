/*
Package rc provides reference-counted ownership cells for shared tree nodes.

A Cell is meant to be embedded into a node type. Its count reflects how many
logical owners — container versions and internal parent nodes — currently point
at the node. A node whose count is greater than one is shared between versions
and must never be altered; mutating operations replace it with a copy instead.

The copy-on-write fast path needs a proof of exclusivity. A count of one alone
is not proof enough in a garbage-collected language with value semantics: the
receiver of a mutating operation stays alive after the operation returns, so
even a singly-owned node of the receiver's tree must be preserved. Exclusivity
is therefore established with a Token: every mutation walk creates one, stamps
it onto the nodes it allocates, and may freely re-mutate exactly those nodes.

Counts are maintained atomically, so cells may be retained and released from
multiple goroutines.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Martin Haupt

*/
package rc

import (
	"fmt"
	"sync/atomic"
)

// Token is the identity of a single mutation walk. Nodes carrying the walk's
// token are exclusively owned by it and may be mutated in place.
// The zero Token matches nothing.
type Token *byte

// NewToken creates a fresh token, distinct from every other token.
func NewToken() Token {
	return new(byte)
}

// Cell is an embeddable reference count with an owner stamp.
// Its zero value is unusable; nodes initialize it with Init at allocation time.
type Cell struct {
	refs  int32
	owner Token
}

// Init marks the cell as owned by tok with a single reference. It is called
// once, before the node is published to any other owner.
func (c *Cell) Init(tok Token) {
	c.owner = tok
	atomic.StoreInt32(&c.refs, 1)
}

// Retain records an additional owner.
func (c *Cell) Retain() {
	atomic.AddInt32(&c.refs, 1)
}

// Release drops one owner and reports whether the count reached zero, i.e.
// whether the node is now unreferenced and its contents may be dropped.
func (c *Cell) Release() bool {
	n := atomic.AddInt32(&c.refs, -1)
	assertThat(n >= 0, "release of a cell that already reached zero")
	return n == 0
}

// Refs returns the current owner count.
func (c *Cell) Refs() int32 {
	return atomic.LoadInt32(&c.refs)
}

// Shared is true if more than one owner points at the cell.
func (c *Cell) Shared() bool {
	return c.Refs() > 1
}

// Exclusive is true if the cell was allocated by the mutation walk identified
// by tok and no other owner has appeared since. Only then may the node be
// mutated in place.
func (c *Cell) Exclusive(tok Token) bool {
	return tok != nil && c.owner == tok && c.Refs() == 1
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("rc: "+msg, msgargs...)
		panic(msg)
	}
}
