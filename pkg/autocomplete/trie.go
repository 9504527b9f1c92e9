package autocomplete

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/pkg/term"
	"github.com/bastiangx/wordrank/pkg/topk"
)

// node is one rune edge of the trie. Every node is owned by its parent's
// children map; there are no back references.
type node struct {
	char       rune
	children   map[rune]*node
	isWord     bool
	entry      term.Term // defined only when isWord
	subtreeMax float64   // heaviest weight at or below this node, 0 when none
}

// recompute rebuilds subtreeMax from the node's own weight and its children.
func (n *node) recompute() {
	maxWeight := 0.0
	if n.isWord {
		maxWeight = n.entry.Weight()
	}
	for _, c := range n.children {
		if c.subtreeMax > maxWeight {
			maxWeight = c.subtreeMax
		}
	}
	n.subtreeMax = maxWeight
}

// TrieIndex answers prefix queries with a best-first walk over a rune trie.
// Each node caches the heaviest weight in its subtree, which bounds what any
// unexplored branch can contribute and lets the walk stop early.
//
// Queries hold a read lock and Add holds the write lock, so an index may be
// updated while it is being queried.
type TrieIndex struct {
	mu    sync.RWMutex
	root  *node
	words int
	nodes int
}

// NewTrie validates the vocabulary and inserts every word.
// words[i] has weight weights[i].
func NewTrie(words []string, weights []float64) (*TrieIndex, error) {
	terms, err := validateVocabulary(words, weights)
	if err != nil {
		return nil, err
	}
	t := &TrieIndex{root: &node{}, nodes: 1}
	for _, tm := range terms {
		t.insert(tm)
	}
	return t, nil
}

// Add inserts word with weight. Adding a stored word overwrites its weight
// and creates no nodes.
func (t *TrieIndex) Add(word string, weight float64) error {
	tm, err := term.New(word, weight)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insert(tm)
	return nil
}

func (t *TrieIndex) insert(tm term.Term) {
	weight := tm.Weight()
	path := make([]*node, 0, len(tm.Word())+1)

	cur := t.root
	path = append(path, cur)
	for _, r := range tm.Word() {
		child, ok := cur.children[r]
		if !ok {
			if cur.children == nil {
				cur.children = make(map[rune]*node)
			}
			child = &node{char: r}
			cur.children[r] = child
			t.nodes++
		}
		cur = child
		path = append(path, cur)
	}

	lowered := cur.isWord && weight < cur.entry.Weight()
	if !cur.isWord {
		t.words++
	}
	cur.isWord = true
	cur.entry = tm

	if lowered {
		// the old weight may have been the maximum somewhere up the path
		for i := len(path) - 1; i >= 0; i-- {
			path[i].recompute()
		}
		return
	}
	for _, n := range path {
		if n.subtreeMax < weight {
			n.subtreeMax = weight
		}
	}
}

// find walks the runes of s from the root, returning nil if the path breaks.
// Stored words are valid UTF-8, so a malformed s matches nothing.
func (t *TrieIndex) find(s string) *node {
	if !utf8.ValidString(s) {
		return nil
	}
	cur := t.root
	for _, r := range s {
		next, ok := cur.children[r]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// TopMatches returns the k heaviest words starting with prefix, heaviest
// first. Fewer than k matches returns all of them.
func (t *TrieIndex) TopMatches(prefix string, k int) ([]string, error) {
	if err := checkLimit(k); err != nil {
		return nil, err
	}
	if k == 0 {
		return []string{}, nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	start := t.find(prefix)
	if start == nil {
		return []string{}, nil
	}
	best, _ := t.search(start, k)
	return words(best), nil
}

// search runs the best-first walk below start and reports how many nodes it
// popped. The walk stops once k words are held and the best unexplored
// subtree is strictly lighter than the lightest of them; a subtree of equal
// weight may still win the word-order tiebreak so it is explored.
func (t *TrieIndex) search(start *node, k int) (best []term.Term, popped int) {
	frontier := topk.NewHeap(func(a, b *node) bool {
		return a.subtreeMax > b.subtreeMax
	}, 16)
	held := topk.NewBounded(k, term.ByWeight)

	frontier.Push(start)
	for frontier.Len() > 0 {
		if held.Full() {
			next, _ := frontier.Peek()
			lightest, _ := held.Min()
			if next.subtreeMax < lightest.Weight() {
				break
			}
		}
		n, _ := frontier.Pop()
		popped++
		if n.isWord {
			held.Offer(n.entry)
		}
		for _, c := range n.children {
			frontier.Push(c)
		}
	}
	return held.Drain(), popped
}

// TopMatch returns the heaviest word starting with prefix, or "".
//
// This is the best-first search with k = 1. Descending greedily toward the
// child whose cached maximum equals the parent's is cheaper but can follow
// the wrong branch when siblings tie, so it is not used.
func (t *TrieIndex) TopMatch(prefix string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	start := t.find(prefix)
	if start == nil {
		return "", nil
	}
	best, _ := t.search(start, 1)
	if len(best) == 0 {
		return "", nil
	}
	return best[0].Word(), nil
}

// WeightOf returns the stored weight of word, or 0 when it is not stored.
// A path that exists only as a prefix of longer words weighs 0.
func (t *TrieIndex) WeightOf(word string) (float64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.find(word)
	if n == nil || !n.isWord {
		return 0, nil
	}
	return n.entry.Weight(), nil
}

// Len returns the number of stored words.
func (t *TrieIndex) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.words
}

// NodeCount returns the number of trie nodes, root included.
func (t *TrieIndex) NodeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes
}
