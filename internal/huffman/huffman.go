// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package huffman builds length-limited canonical Huffman codes from symbol
// weights, and the decoder trees that walk them back to symbols. It backs
// both the DEFLATE block coder's litlen/distance/code-length alphabets and
// the standalone archiver in internal/huffutil.
package huffman

import (
	"container/heap"
	"errors"
)

// ErrNoSymbols is returned by BuildLengths when every weight is zero.
var ErrNoSymbols = errors.New("huffman: no symbols with non-zero weight")

// ErrInvalidCode is returned by DecoderTree.Decode when the bit sequence
// read does not correspond to any assigned codeword.
var ErrInvalidCode = errors.New("huffman: bit sequence does not match any code")

// mnode is a node in the weight-merge tree used to derive code lengths, and
// later reused as the shape of the canonical decode tree.
type mnode struct {
	left, right *mnode
	symbol      int
	weight      int
	height      int
	order       int // insertion sequence, used only to break weight ties
}

func (n *mnode) isLeaf() bool { return n.left == nil && n.right == nil }

// mheap is a min-heap of *mnode ordered by weight, insertion order breaking
// ties so that construction is deterministic.
type mheap []*mnode

func (h mheap) Len() int { return len(h) }
func (h mheap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].order < h[j].order
}
func (h mheap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mheap) Push(x interface{}) { *h = append(*h, x.(*mnode)) }
func (h *mheap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// BuildLengths computes length-limited code lengths for the given
// per-symbol weights (weights[s] is symbol s's frequency; zero means the
// symbol is unused), such that no length exceeds maxLen. Symbols with zero
// weight get length 0 (unused).
func BuildLengths(weights []int, maxLen int) ([]uint8, error) {
	h := make(mheap, 0, len(weights))
	order := 0
	for sym, w := range weights {
		if w <= 0 {
			continue
		}
		h = append(h, &mnode{symbol: sym, weight: w, order: order})
		order++
	}
	if len(h) == 0 {
		return nil, ErrNoSymbols
	}
	lengths := make([]uint8, len(weights))
	if len(h) == 1 {
		lengths[h[0].symbol] = 1
		return lengths, nil
	}

	heap.Init(&h)
	for h.Len() > 1 {
		first := heap.Pop(&h).(*mnode)
		second := heap.Pop(&h).(*mnode)

		longer := second
		if first.height > second.height {
			longer = first
		}
		shorter := first
		if longer == first {
			shorter = second
		}

		parent := &mnode{left: shorter, right: longer, order: order}
		order++
		if shorter.height > longer.height {
			parent.height = shorter.height + 1
		} else {
			parent.height = longer.height + 1
		}
		parent.weight = shorter.weight + longer.weight
		heap.Push(&h, parent)
	}
	root := heap.Pop(&h).(*mnode)

	assignDepths(root, 0, lengths)

	if maxLen > 0 && treeHeight(root) > maxLen {
		// Rebuild as the canonical bit-trie before truncating: the
		// truncation walk below operates on codeword structure, not
		// merge-order structure.
		canon := Canonical(lengths)
		ctree, err := buildCanonicalTree(canon)
		if err != nil {
			return nil, err
		}
		truncate(&ctree, maxLen)
		for i := range lengths {
			lengths[i] = 0
		}
		assignDepths(ctree, 0, lengths)
	}
	return lengths, nil
}

func assignDepths(n *mnode, depth int, lengths []uint8) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		lengths[n.symbol] = uint8(depth)
		return
	}
	assignDepths(n.left, depth+1, lengths)
	assignDepths(n.right, depth+1, lengths)
}

func treeHeight(n *mnode) int {
	if n == nil || n.isLeaf() {
		return 0
	}
	lh, rh := treeHeight(n.left), treeHeight(n.right)
	if lh > rh {
		return lh + 1
	}
	return rh + 1
}

func countLeaves(n *mnode) int {
	if n == nil {
		return 0
	}
	if n.isLeaf() {
		return 1
	}
	return countLeaves(n.left) + countLeaves(n.right)
}

func inorderLeaves(n *mnode, out *[]int) {
	if n == nil {
		return
	}
	inorderLeaves(n.left, out)
	if n.isLeaf() {
		*out = append(*out, n.symbol)
		return
	}
	inorderLeaves(n.right, out)
}

func log2Floor(x int) int {
	res := -1
	for x > 0 {
		x >>= 1
		res++
	}
	return res
}

func constructFlattened(leaves []int, st, end int) *mnode {
	if end-st <= 1 {
		return &mnode{symbol: leaves[st]}
	}
	diff := end - st - 1
	fl := log2Floor(diff)
	bound := end - (1 << uint(fl))
	return &mnode{
		left:  constructFlattened(leaves, st, bound),
		right: constructFlattened(leaves, bound, end),
	}
}

func flatten(p **mnode) {
	var leaves []int
	inorderLeaves(*p, &leaves)
	*p = constructFlattened(leaves, 0, len(leaves))
}

// truncate walks down the right spine of the tree rooted at *root,
// flattening the first subtree whose right child holds more leaves than a
// tree of the remaining permitted depth could hold.
func truncate(root **mnode, maxLen int) {
	p := root
	for {
		leafRight := countLeaves((*p).right)
		if leafRight > (1 << uint(maxLen-1)) {
			flatten(p)
			return
		}
		maxLen--
		p = &(*p).right
	}
}

// CodeTuple is the canonical-code row for one symbol.
type CodeTuple struct {
	Symbol int
	Length uint8
	Code   uint32
}

// Canonical assigns canonical codes to the supplied per-symbol lengths
// (indexed by symbol; a zero length means the symbol is unused) and returns
// the used entries sorted by symbol.
func Canonical(lengths []uint8) []CodeTuple {
	tuples := make([]CodeTuple, 0, len(lengths))
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		tuples = append(tuples, CodeTuple{Symbol: sym, Length: l})
	}
	sortByLengthThenSymbol(tuples)
	for i := 1; i < len(tuples); i++ {
		tuples[i].Code = (tuples[i-1].Code + 1) << (tuples[i].Length - tuples[i-1].Length)
	}
	sortBySymbol(tuples)
	return tuples
}

func sortByLengthThenSymbol(t []CodeTuple) {
	// Insertion sort: alphabets here are at most a few hundred entries,
	// and keeping this dependency-free avoids pulling in sort.Slice's
	// closure overhead for what is a small, one-shot table build.
	for i := 1; i < len(t); i++ {
		for j := i; j > 0 && less(t[j], t[j-1]); j-- {
			t[j], t[j-1] = t[j-1], t[j]
		}
	}
}

func less(a, b CodeTuple) bool {
	if a.Length != b.Length {
		return a.Length < b.Length
	}
	return a.Symbol < b.Symbol
}

func sortBySymbol(t []CodeTuple) {
	for i := 1; i < len(t); i++ {
		for j := i; j > 0 && t[j].Symbol < t[j-1].Symbol; j-- {
			t[j], t[j-1] = t[j-1], t[j]
		}
	}
}

// dnode is a decode-tree node: either an internal node with up to two
// children, or a leaf holding a symbol.
type dnode struct {
	left, right *dnode
	leaf        bool
	symbol      int
}

// DecoderTree walks canonical codewords bit by bit (bit 0 = left, bit 1 =
// right) down to their symbol.
type DecoderTree struct {
	root *dnode
}

func buildCanonicalTree(codes []CodeTuple) (*mnode, error) {
	root := &mnode{}
	for _, c := range codes {
		cur := root
		for j := int(c.Length) - 1; j > 0; j-- {
			bit := (c.Code >> uint(j)) & 1
			if bit == 0 {
				if cur.left == nil {
					cur.left = &mnode{}
				}
				cur = cur.left
			} else {
				if cur.right == nil {
					cur.right = &mnode{}
				}
				cur = cur.right
			}
		}
		bit := c.Code & 1
		leaf := &mnode{symbol: c.Symbol}
		if bit == 0 {
			cur.left = leaf
		} else {
			cur.right = leaf
		}
	}
	return root, nil
}

// NewDecoderTree builds a DecoderTree from a canonical code table.
func NewDecoderTree(codes []CodeTuple) *DecoderTree {
	root := &dnode{}
	for _, c := range codes {
		cur := root
		for j := int(c.Length) - 1; j > 0; j-- {
			bit := (c.Code >> uint(j)) & 1
			if bit == 0 {
				if cur.left == nil {
					cur.left = &dnode{}
				}
				cur = cur.left
			} else {
				if cur.right == nil {
					cur.right = &dnode{}
				}
				cur = cur.right
			}
		}
		leaf := &dnode{leaf: true, symbol: c.Symbol}
		if c.Code&1 == 0 {
			cur.left = leaf
		} else {
			cur.right = leaf
		}
	}
	return &DecoderTree{root: root}
}

// BitSource supplies one bit at a time to Decode.
type BitSource interface {
	ReadBit() (bit int, err error)
}

// Decode walks the tree, reading one bit at a time from r, until it reaches
// a leaf, and returns that leaf's symbol.
func (t *DecoderTree) Decode(r BitSource) (int, error) {
	n := t.root
	for !n.leaf {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			n = n.left
		} else {
			n = n.right
		}
		if n == nil {
			return 0, ErrInvalidCode
		}
	}
	return n.symbol, nil
}
