package hamt

import (
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	tp "github.com/xlab/treeprint"
)

func TestMapConstructor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m := Immutable[string, int](BitsPerLevel[string](2))
	if m.mask != 0x03 {
		t.Errorf("expected mask to be 0011, is %x", m.mask)
	}
	m = Immutable[string, int]().Set("a", 1)
	if m.degree != 32 {
		t.Errorf("expected default degree to be 32, is %d", m.degree)
	}
}

func TestMapZeroValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	var m Map[string, int]
	if !m.IsEmpty() {
		t.Error("expected zero value map to be empty, isn't")
	}
	if _, ok := m.Get("a"); ok {
		t.Error("expected lookup in empty map to miss, didn't")
	}
	m = m.Set("a", 7)
	x, ok := m.Get("a")
	if !ok || x != 7 {
		t.Errorf("expected 'a' to map to 7, maps to %d (ok=%v)", x, ok)
	}
}

func TestMapSetLeavesOriginalUntouched(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m1 := Immutable[string, int]().Set("a", 1).Set("b", 2)
	assert.Equal(t, 2, m1.Len())
	m2 := m1.Without("a")
	assert.Equal(t, 1, m2.Len())
	if _, ok := m2.Get("a"); ok {
		t.Error("expected 'a' to be gone from the new version, isn't")
	}
	x, ok := m2.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, x)
	x, ok = m1.Get("a") // the older version keeps both entries
	assert.True(t, ok)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, m1.Len())
}

func TestMapReplaceValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m1 := Immutable[string, int]().Set("a", 1)
	m2 := m1.Set("a", 99)
	assert.Equal(t, 1, m2.Len(), "replacing a value must not grow the map")
	x, _ := m2.Get("a")
	assert.Equal(t, 99, x)
	x, _ = m1.Get("a")
	assert.Equal(t, 1, x)
}

func TestMapManyEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	const n = 1000
	m := Immutable[string, int]()
	for i := 0; i < n; i++ {
		m = m.Set(fmt.Sprintf("key-%d", i), i)
	}
	assert.Equal(t, n, m.Len())
	for i := 0; i < n; i++ {
		x, ok := m.Get(fmt.Sprintf("key-%d", i))
		if !ok || x != i {
			t.Fatalf("expected key-%d to map to %d, maps to %d (ok=%v)", i, i, x, ok)
		}
	}
	for i := 0; i < n; i += 2 {
		m = m.Without(fmt.Sprintf("key-%d", i))
	}
	assert.Equal(t, n/2, m.Len())
	for i := 0; i < n; i++ {
		_, ok := m.Get(fmt.Sprintf("key-%d", i))
		if i%2 == 0 && ok {
			t.Fatalf("expected key-%d to be removed, isn't", i)
		}
		if i%2 == 1 && !ok {
			t.Fatalf("expected key-%d to survive, didn't", i)
		}
	}
}

func TestMapWithoutAbsentKeyIsNoOp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m1 := Immutable[string, int]().Set("a", 1).Set("b", 2)
	m2 := m1.Without("zebra")
	assert.Equal(t, 2, m2.Len())
	if m2.root != m1.root {
		t.Error("expected removal of an absent key to hand back the same tree, doesn't")
	}
}

func TestMapContainsAndLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m := Immutable[string, int]().Set("a", 1)
	assert.True(t, m.Contains("a"))
	assert.False(t, m.Contains("b"))
	assert.Equal(t, 1, m.Lookup("a").WithDefault(-1))
	assert.Equal(t, -1, m.Lookup("b").WithDefault(-1))
}

// A hash function with only 16 distinct results: collisions guaranteed with a
// few dozen keys, exercising both leaf splits and full collision lists.
func crampedHasher(k int) uint64 {
	return uint64(k % 16)
}

func TestMapHashCollisions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	const n = 100
	m := Immutable[int, int](Hasher(crampedHasher))
	for i := 0; i < n; i++ {
		m = m.Set(i, i*i)
	}
	t.Logf("%s", printMap(m))
	assert.Equal(t, n, m.Len())
	for i := 0; i < n; i++ {
		x, ok := m.Get(i)
		if !ok || x != i*i {
			t.Fatalf("expected %d to map to %d, maps to %d (ok=%v)", i, i*i, x, ok)
		}
	}
	for i := 0; i < n; i += 3 {
		m = m.Without(i)
	}
	for i := 0; i < n; i++ {
		x, ok := m.Get(i)
		if i%3 == 0 {
			if ok {
				t.Fatalf("expected %d to be removed, isn't", i)
			}
		} else if !ok || x != i*i {
			t.Fatalf("expected %d to survive with value %d, has %d (ok=%v)", i, i*i, x, ok)
		}
	}
}

// A hash function that differs only in the topmost bits: every insert splits
// down the full trie depth, and every removal collapses the chain again.
func topHeavyHasher(k int) uint64 {
	return uint64(k) << 60
}

func TestMapDeepSplitAndCollapse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m := Immutable[int, int](Hasher(topHeavyHasher))
	for i := 0; i < 16; i++ {
		m = m.Set(i, i)
	}
	t.Logf("%s", printMap(m))
	assert.Equal(t, 16, m.Len())
	for i := 0; i < 16; i++ {
		x, ok := m.Get(i)
		if !ok || x != i {
			t.Fatalf("expected %d to map to %d after deep split, maps to %d (ok=%v)", i, i, x, ok)
		}
	}
	for i := 1; i < 16; i++ { // remove down to a single entry
		m = m.Without(i)
	}
	assert.Equal(t, 1, m.Len())
	if m.root == nil || !m.root.isLeaf() {
		t.Logf("%s", printMap(m))
		t.Error("expected the chain to collapse back into a single leaf, didn't")
	}
	x, ok := m.Get(0)
	assert.True(t, ok)
	assert.Equal(t, 0, x)
}

func TestMapRemoveLastEntry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m := Immutable[string, int]().Set("a", 1).Without("a")
	assert.True(t, m.IsEmpty())
	if m.root != nil {
		t.Error("expected the tree of an emptied map to vanish, didn't")
	}
}

func TestMapSharingBetweenVersions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m1 := Immutable[string, int]()
	for i := 0; i < 64; i++ {
		m1 = m1.Set(fmt.Sprintf("key-%d", i), i)
	}
	m2 := m1.Set("one-more", 1)
	shared := 0
	old := nodesOfMap(m1)
	for node := range nodesOfMap(m2) {
		if old[node] {
			shared++
		}
	}
	if shared == 0 {
		t.Error("expected the two versions to share subtrees, share none")
	}
	for i := 0; i < 64; i++ {
		x, ok := m1.Get(fmt.Sprintf("key-%d", i))
		if !ok || x != i {
			t.Fatalf("original version damaged at key-%d: %d (ok=%v)", i, x, ok)
		}
	}
}

func TestMapReleaseDropsToZero(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	var m Map[string, int]
	for i := 0; i < 40; i++ {
		next := m.Set(fmt.Sprintf("key-%d", i), i)
		m.Release()
		m = next
	}
	root := m.root
	if root.Refs() != 1 {
		t.Fatalf("expected sole ownership of the root, have %d owners", root.Refs())
	}
	m.Release()
	if root.Refs() != 0 {
		t.Errorf("expected released root to have 0 owners, has %d", root.Refs())
	}
	if root.children != nil || root.entries != nil {
		t.Error("expected released root to have dropped its content, didn't")
	}
}

func TestMapIteratorIsStable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m := Immutable[string, int]()
	for i := 0; i < 100; i++ {
		m = m.Set(fmt.Sprintf("key-%d", i), i)
	}
	first := m.Keys()
	second := m.Keys()
	assert.Equal(t, first, second, "two walks over one version must agree")
	assert.Equal(t, m.Len(), len(first))
	seen := map[string]bool{}
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		x, ok := m.Get(k)
		assert.True(t, ok)
		assert.Equal(t, x, v)
		seen[k] = true
	}
	assert.Equal(t, m.Len(), len(seen), "iteration must visit every key exactly once")
}

func TestMapEachStopsEarly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.hamt")
	defer teardown()
	//
	m := Immutable[string, int]().Set("a", 1).Set("b", 2).Set("c", 3)
	count := 0
	m.Each(func(string, int) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

// --- Helpers ---------------------------------------------------------------

func nodesOfMap[K comparable, V any](m Map[K, V]) map[*mnode[K, V]]bool {
	seen := map[*mnode[K, V]]bool{}
	var walk func(*mnode[K, V])
	walk = func(node *mnode[K, V]) {
		if node == nil || seen[node] {
			return
		}
		seen[node] = true
		for _, ch := range node.children {
			walk(ch)
		}
	}
	walk(m.root)
	return seen
}

func printMap[K comparable, V any](m Map[K, V]) string {
	header := fmt.Sprintf("\nMap(size=%d, degree=%d)\n", m.size, m.degree)
	printer := tp.New()
	printMnode(printer, m.root)
	return header + printer.String() + "\n"
}

func printMnode[K comparable, V any](printer tp.Tree, node *mnode[K, V]) {
	if node == nil {
		return
	}
	if node.isLeaf() {
		printer.AddNode(node.String() + fmt.Sprintf(" ×%d", node.Refs()))
		return
	}
	branch := printer.AddBranch(node.String() + fmt.Sprintf(" ×%d", node.Refs()))
	for _, ch := range node.children {
		printMnode(branch, ch)
	}
}
