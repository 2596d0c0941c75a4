/*
Package vector implements an immutable persistent vector, designed for
use-cases similar to Go slices.

An immutable persistent vector has copy-on-write behaviour: Each “modification”
of the vector (appending, replacement or removal) creates a copy, leaving the
original unmodified. Under the hood, copy-on-write retains most of the memory
held by the original, and creates a new incarnation of parts of the structure
only. Thus, most of the structure/memory is shared between original and copy,
transparently to clients.

The vector is a shallow, wide tree: elements live in leaf buckets of a fixed
degree (32 by default, configurable via DegreeExponent), inner nodes fan out
with the same degree, and the rightmost bucket is kept outside the tree as a
tail buffer, which makes Push amortized O(1). Every node carries a reference
count (see package rc); a mutation allocates at most one node per tree level
and re-shares everything else with the prior version.

Immutable vectors are inherently safe for concurrent readers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Martin Haupt

*/
package vector

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persist.vector'.
func tracer() tracing.Trace {
	return tracing.Select("persist.vector")
}
