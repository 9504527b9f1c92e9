// Package autocomplete is the core, providing weighted prefix lookups over a
// fixed vocabulary through two independent indexes: a lexically sorted slice
// searched by binary search, and a trie whose nodes cache the heaviest weight
// in their subtree so a best-first walk can stop early.
//
// Both satisfy Autocompletor, so callers never need to know which one backs
// them:
//
//	ac, err := autocomplete.New(autocomplete.KindTrie, words, weights)
//	best, err := ac.TopMatches("b", 2) // ["bell", "bat"]
//
// Results are ordered by descending weight; equal weights are ordered by
// ascending word, identically in both indexes.
package autocomplete

import (
	"fmt"
	"strings"
)

// Autocompletor defines the capability set shared by every index.
type Autocompletor interface {
	// TopMatches returns up to k words starting with prefix, heaviest first.
	TopMatches(prefix string, k int) ([]string, error)

	// TopMatch returns the heaviest word starting with prefix, or "".
	TopMatch(prefix string) (string, error)

	// WeightOf returns the weight of term, or 0 when term is not stored.
	WeightOf(term string) (float64, error)
}

// Updater is implemented by indexes that accept re-insertion after build.
// Adding a stored word overwrites its weight.
type Updater interface {
	Add(word string, weight float64) error
}

// Sizer reports how many words an index holds.
type Sizer interface {
	Len() int
}

// Kind names an index implementation.
type Kind string

const (
	KindTrie   Kind = "trie"
	KindBinary Kind = "binary"
)

// ParseKind maps a config or flag value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTrie, KindBinary:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown index kind %q", ErrInvalidArgument, s)
}

// New builds the index named by kind over the given vocabulary.
func New(kind Kind, words []string, weights []float64) (Autocompletor, error) {
	var (
		ac  Autocompletor
		err error
	)
	switch kind {
	case KindTrie:
		ac, err = NewTrie(words, weights)
	case KindBinary:
		ac, err = NewBinarySearch(words, weights)
	default:
		return nil, fmt.Errorf("%w: unknown index kind %q", ErrInvalidArgument, kind)
	}
	if err != nil {
		// a typed nil pointer must not escape as a non-nil interface
		return nil, err
	}
	return ac, nil
}
