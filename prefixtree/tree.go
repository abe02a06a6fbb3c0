package prefixtree

import "sort"

// nilNode marks an absent child reference.
const nilNode = int32(-1)

// node is a single tree node. Nodes live in Tree.nodes and reference children
// by slice index, never by pointer (appends may relocate the backing array).
type node[V any] struct {
	// label is the edge label leading into this node from its parent.
	// The root has an empty label.
	label string

	// children are indexes into Tree.nodes. Kept in first-byte order so
	// child lookup is a short linear scan and enumeration is deterministic.
	children []int32

	// key is the full stored key. Set only when hasValue is true.
	key      string
	value    V
	hasValue bool

	// seq is the key's insertion sequence number, used for
	// insertion-stable result ordering.
	seq uint32

	// hits is the embedded usage counter, incremented via Bump.
	hits uint64
}

// Match is a single prefix-search result.
type Match[V any] struct {
	Key   string
	Value V

	// Hits is the key's embedded usage counter at query time.
	Hits uint64
}

// Tree is a compressed radix tree mapping string keys to values of type V.
//
// All nodes live in a single growable slice (an index-based arena); child
// links are int32 indexes. The zero value is not usable; call New.
type Tree[V any] struct {
	nodes   []node[V]
	size    int
	nextSeq uint32
}

// New creates an empty Tree.
func New[V any]() *Tree[V] {
	t := &Tree[V]{
		nodes: make([]node[V], 1, 64),
	}
	t.nodes[0] = node[V]{} // root
	return t
}

// Len returns the number of stored keys.
func (t *Tree[V]) Len() int {
	return t.size
}

// NodeCount returns the number of allocated tree nodes, including the root
// and split nodes. Exposed for stats and tests.
func (t *Tree[V]) NodeCount() int {
	return len(t.nodes)
}

// Clear removes all keys and resets the arena to a single root node.
func (t *Tree[V]) Clear() {
	t.nodes = t.nodes[:1]
	t.nodes[0] = node[V]{}
	t.size = 0
	t.nextSeq = 0
}

// Insert stores value under key, overwriting any previous value. Empty keys
// are accepted; key content is never validated here.
func (t *Tree[V]) Insert(key string, value V) {
	cur := int32(0)
	rest := key

	for {
		if rest == "" {
			n := &t.nodes[cur]
			if !n.hasValue {
				n.hasValue = true
				n.key = key
				n.seq = t.nextSeq
				t.nextSeq++
				t.size++
			}
			n.value = value
			return
		}

		child := t.findChild(cur, rest[0])
		if child == nilNode {
			leaf := t.newNode(node[V]{
				label:    rest,
				key:      key,
				value:    value,
				hasValue: true,
				seq:      t.nextSeq,
			})
			t.nextSeq++
			t.size++
			t.attachChild(cur, leaf)
			return
		}

		cl := commonPrefixLen(t.nodes[child].label, rest)
		if cl == len(t.nodes[child].label) {
			// Full edge consumed, descend.
			cur = child
			rest = rest[cl:]
			continue
		}

		// Partial match: split the edge at cl.
		cur = t.splitEdge(cur, child, cl)
		rest = rest[cl:]
	}
}

// Get returns the value stored under key.
func (t *Tree[V]) Get(key string) (V, bool) {
	idx, ok := t.locate(key)
	if !ok || !t.nodes[idx].hasValue {
		var zero V
		return zero, false
	}
	return t.nodes[idx].value, true
}

// Bump adds delta to the usage counter embedded in the key's node. Unknown
// keys are ignored.
func (t *Tree[V]) Bump(key string, delta uint64) {
	idx, ok := t.locate(key)
	if !ok || !t.nodes[idx].hasValue {
		return
	}
	t.nodes[idx].hits += delta
}

// Hits returns the embedded usage counter for key, or zero if absent.
func (t *Tree[V]) Hits(key string) uint64 {
	idx, ok := t.locate(key)
	if !ok || !t.nodes[idx].hasValue {
		return 0
	}
	return t.nodes[idx].hits
}

// PrefixSearch returns all stored keys that begin with prefix, in
// insertion-stable order, truncated to limit. limit <= 0 means no limit.
// An empty prefix enumerates every key.
func (t *Tree[V]) PrefixSearch(prefix string, limit int) []Match[V] {
	start, ok := t.subtreeRoot(prefix)
	if !ok {
		return nil
	}

	found := t.collect(start)
	sort.Slice(found, func(i, j int) bool {
		return t.nodes[found[i]].seq < t.nodes[found[j]].seq
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	out := make([]Match[V], len(found))
	for i, idx := range found {
		n := &t.nodes[idx]
		out[i] = Match[V]{Key: n.key, Value: n.value, Hits: n.hits}
	}
	return out
}

// Keys returns all stored keys in insertion order.
func (t *Tree[V]) Keys() []string {
	type seqKey struct {
		seq uint32
		key string
	}
	tmp := make([]seqKey, 0, t.size)
	for i := range t.nodes {
		if t.nodes[i].hasValue {
			tmp = append(tmp, seqKey{seq: t.nodes[i].seq, key: t.nodes[i].key})
		}
	}
	sort.Slice(tmp, func(i, j int) bool { return tmp[i].seq < tmp[j].seq })

	keys := make([]string, len(tmp))
	for i, sk := range tmp {
		keys[i] = sk.key
	}
	return keys
}

// locate descends to the node holding key exactly. The boolean is false if
// the path does not exist or ends mid-edge.
func (t *Tree[V]) locate(key string) (int32, bool) {
	cur := int32(0)
	rest := key
	for rest != "" {
		child := t.findChild(cur, rest[0])
		if child == nilNode {
			return 0, false
		}
		label := t.nodes[child].label
		if len(rest) < len(label) || rest[:len(label)] != label {
			return 0, false
		}
		cur = child
		rest = rest[len(label):]
	}
	return cur, true
}

// subtreeRoot finds the highest node whose subtree contains exactly the keys
// starting with prefix. The prefix may end mid-edge; the edge's node is the
// subtree root in that case.
func (t *Tree[V]) subtreeRoot(prefix string) (int32, bool) {
	cur := int32(0)
	rest := prefix
	for rest != "" {
		child := t.findChild(cur, rest[0])
		if child == nilNode {
			return 0, false
		}
		label := t.nodes[child].label
		if len(rest) <= len(label) {
			if label[:len(rest)] != rest {
				return 0, false
			}
			return child, true
		}
		if rest[:len(label)] != label {
			return 0, false
		}
		cur = child
		rest = rest[len(label):]
	}
	return cur, true
}

// collect returns every value-bearing node in the subtree rooted at idx.
// Iterative DFS; the explicit stack avoids recursion on degenerate shapes.
func (t *Tree[V]) collect(idx int32) []int32 {
	var found []int32
	stack := make([]int32, 0, 16)
	stack = append(stack, idx)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[cur]
		if n.hasValue {
			found = append(found, cur)
		}
		stack = append(stack, n.children...)
	}
	return found
}

// findChild returns the child of parent whose label starts with b.
// Children are few (bounded by distinct next bytes), so a linear scan wins
// over binary search for realistic fan-out.
func (t *Tree[V]) findChild(parent int32, b byte) int32 {
	for _, c := range t.nodes[parent].children {
		label := t.nodes[c].label
		if len(label) > 0 && label[0] == b {
			return c
		}
	}
	return nilNode
}

// attachChild inserts child into parent's child list, keeping first-byte order.
func (t *Tree[V]) attachChild(parent, child int32) {
	p := &t.nodes[parent]
	b := t.nodes[child].label[0]
	pos := len(p.children)
	for i, c := range p.children {
		if t.nodes[c].label[0] > b {
			pos = i
			break
		}
	}
	p.children = append(p.children, 0)
	copy(p.children[pos+1:], p.children[pos:])
	p.children[pos] = child
}

// splitEdge splits the edge into child at offset cl, creating an intermediate
// node that takes over the shared label head. Returns the intermediate node.
func (t *Tree[V]) splitEdge(parent, child int32, cl int) int32 {
	head := t.nodes[child].label[:cl]
	mid := t.newNode(node[V]{
		label:    head,
		children: []int32{child},
	})

	// newNode may have relocated the arena; re-take pointers by index.
	t.nodes[child].label = t.nodes[child].label[cl:]

	p := &t.nodes[parent]
	for i, c := range p.children {
		if c == child {
			p.children[i] = mid
			break
		}
	}
	return mid
}

// newNode appends n to the arena and returns its index.
func (t *Tree[V]) newNode(n node[V]) int32 {
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
