/*
Package persist provides persistent, structurally shared collections.

A persistent data structure treats every “mutation” as the creation of a new
version: the operation returns a fresh value while the original stays valid and
unchanged. Versions share all unmodified sub-trees, so deriving a new version
costs O(log n) allocations rather than a full copy, and holding on to many
versions is cheap.

The module contains

  ▪︎ vector   — an indexable, append-friendly persistent sequence
  ▪︎ hamt     — a persistent map built as a hash-array-mapped trie
  ▪︎ history  — an undo/redo snapshot cursor on top of vector
  ▪︎ rc       — the reference-counted ownership cells the containers share
  ▪︎ maybe, result — Elm-style optional and fallible values used by the APIs

All container values are safe for concurrent readers without locking, because
shared tree nodes are never altered, only replaced. A single version that is
handed to multiple concurrent writers has to be guarded externally.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Martin Haupt

*/
package persist
