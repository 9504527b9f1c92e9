// Package dictionary loads weighted vocabularies from text and binary files
// into a Vocabulary, the parallel word/weight slices every index is built from.
package dictionary

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bastiangx/wordrank/pkg/term"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/unicode/norm"
)

// ErrDuplicateWord is returned when a word is added twice.
var ErrDuplicateWord = errors.New("duplicate word")

// Vocabulary collects distinct words with their weights in insertion order.
// A patricia trie maps each word to its position, which gives duplicate
// detection on insert and prefix enumeration for free.
type Vocabulary struct {
	trie    *patricia.Trie
	words   []string
	weights []float64
	sources []string
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{trie: patricia.NewTrie()}
}

// Normalize returns s in Unicode normalization form C. Words are stored
// normalized, so prefixes must be normalized the same way before lookup.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Add appends word with weight. source names where the entry came from and
// is only used in error messages. Canonically equivalent spellings of a word
// are duplicates.
func (v *Vocabulary) Add(word string, weight float64, source string) error {
	// validate before normalizing so malformed bytes are reported, not rewritten
	if _, err := term.New(word, weight); err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	word = Normalize(word)
	if !v.trie.Insert(patricia.Prefix(word), len(v.words)) {
		first := v.sources[v.trie.Get(patricia.Prefix(word)).(int)]
		return fmt.Errorf("%s: %w %q (first seen at %s)", source, ErrDuplicateWord, word, first)
	}
	v.words = append(v.words, word)
	v.weights = append(v.weights, weight)
	v.sources = append(v.sources, source)
	return nil
}

// Merge appends every entry of other, failing on the first duplicate.
func (v *Vocabulary) Merge(other *Vocabulary) error {
	for i, w := range other.words {
		if err := v.Add(w, other.weights[i], other.sources[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int { return len(v.words) }

// Words returns the words in insertion order.
func (v *Vocabulary) Words() []string { return slices.Clone(v.words) }

// Weights returns the weights, parallel to Words.
func (v *Vocabulary) Weights() []float64 { return slices.Clone(v.weights) }

// WeightOf returns the weight of word and whether it is present.
func (v *Vocabulary) WeightOf(word string) (float64, bool) {
	if word == "" {
		return 0, false
	}
	word = Normalize(word)
	item := v.trie.Get(patricia.Prefix(word))
	if item == nil {
		return 0, false
	}
	return v.weights[item.(int)], true
}

// VisitPrefix calls fn for every entry whose word starts with prefix, in no
// particular order. A non-nil error from fn stops the walk and is returned.
func (v *Vocabulary) VisitPrefix(prefix string, fn func(word string, weight float64) error) error {
	visit := func(p patricia.Prefix, item patricia.Item) error {
		i := item.(int)
		return fn(v.words[i], v.weights[i])
	}
	if prefix == "" {
		return v.trie.Visit(visit)
	}
	return v.trie.VisitSubtree(patricia.Prefix(Normalize(prefix)), visit)
}
