/*
Package hamt implements an immutable persistent map as a hash-array-mapped
trie.

Keys are routed by their 64-bit hash: every tree level consumes a fixed-width
chunk of the hash (5 bits by default, configurable via BitsPerLevel) to select
a child slot. Inner nodes keep a bitmap of occupied slots and store children in
a packed array, so sparse nodes stay small. Entries live in leaves; keys whose
hashes collide on all 64 bits share a leaf with a small collision list.

Like the vector, the map has copy-on-write behaviour: Set and Without return a
new map version and leave the receiver untouched, sharing all unaffected nodes
with it. Lookups never error — a missing key is an expected outcome and is
reported as absence.

Immutable maps are inherently safe for concurrent readers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Martin Haupt

*/
package hamt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persist.hamt'.
func tracer() tracing.Trace {
	return tracing.Select("persist.hamt")
}
