/*
Package history provides an undo/redo cursor over recorded snapshots.

A History stores successive snapshots of some state in a persistent vector and
keeps a cursor on the current one. Recording appends; Undo and Redo move the
cursor. Recording while the cursor sits in the middle of the history discards
the snapshots behind it — the abandoned “future” branch — before appending,
the way editors treat redo after a fresh edit.

Snapshots are typically themselves persistent values (a vector or hamt.Map
version), which makes recording O(1) in space: versions share structure, so a
history of n snapshots is far cheaper than n copies.

History values follow the same value-semantics discipline as the containers:
operations return a new History and leave the receiver usable.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Martin Haupt

*/
package history

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persist.history'.
func tracer() tracing.Trace {
	return tracing.Select("persist.history")
}
