package autocomplete

import (
	"slices"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/pkg/term"
	"github.com/bastiangx/wordrank/pkg/topk"
)

// BinarySearchIndex answers prefix queries over a lexically sorted slice.
// Words sharing a prefix are contiguous in that order, so two binary searches
// bound the matching run and a bounded heap ranks it.
// The slice is never modified after NewBinarySearch returns.
type BinarySearchIndex struct {
	terms []term.Term
}

// NewBinarySearch validates the vocabulary and sorts it lexically.
// words[i] has weight weights[i].
func NewBinarySearch(words []string, weights []float64) (*BinarySearchIndex, error) {
	terms, err := validateVocabulary(words, weights)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(terms, term.Lexical)
	return &BinarySearchIndex{terms: terms}, nil
}

// FirstIndexOf returns the first index i for which cmp(a[i], key) == 0, or -1.
// a must be sorted consistently with cmp. It calls cmp at most
// 1 + ceil(log2(len(a))) times.
func FirstIndexOf(a []term.Term, key term.Term, cmp term.Comparator) int {
	low, high := 0, len(a)-1
	found := -1
	for low <= high {
		mid := low + (high-low)/2
		switch c := cmp(a[mid], key); {
		case c == 0:
			found = mid
			high = mid - 1
		case c > 0:
			high = mid - 1
		default:
			low = mid + 1
		}
	}
	return found
}

// LastIndexOf is FirstIndexOf for the last equal element.
func LastIndexOf(a []term.Term, key term.Term, cmp term.Comparator) int {
	low, high := 0, len(a)-1
	found := -1
	for low <= high {
		mid := low + (high-low)/2
		switch c := cmp(a[mid], key); {
		case c == 0:
			found = mid
			low = mid + 1
		case c > 0:
			high = mid - 1
		default:
			low = mid + 1
		}
	}
	return found
}

// matchRange returns the inclusive bounds of the run of terms starting with
// prefix, with ok false when there is none.
func (b *BinarySearchIndex) matchRange(prefix string) (first, last int, ok bool) {
	key := term.Key(prefix)
	cmp := term.PrefixOrder(utf8.RuneCountInString(prefix))
	first = FirstIndexOf(b.terms, key, cmp)
	if first == -1 {
		return 0, 0, false
	}
	last = LastIndexOf(b.terms, key, cmp)
	return first, last, true
}

// TopMatches returns the k heaviest words starting with prefix, heaviest
// first. Fewer than k matches returns all of them.
func (b *BinarySearchIndex) TopMatches(prefix string, k int) ([]string, error) {
	if err := checkLimit(k); err != nil {
		return nil, err
	}
	first, last, ok := b.matchRange(prefix)
	if !ok || k == 0 {
		return []string{}, nil
	}

	best := topk.NewBounded(k, term.ByWeight)
	for _, t := range b.terms[first : last+1] {
		best.Offer(t)
	}
	return words(best.Drain()), nil
}

// TopMatch returns the heaviest word starting with prefix, or "".
func (b *BinarySearchIndex) TopMatch(prefix string) (string, error) {
	first, last, ok := b.matchRange(prefix)
	if !ok {
		return "", nil
	}
	best := b.terms[first]
	for _, t := range b.terms[first+1 : last+1] {
		if term.ByWeight(t, best) < 0 {
			best = t
		}
	}
	return best.Word(), nil
}

// WeightOf returns the stored weight of word, or 0 when it is not stored.
// A stored word that merely starts with word does not count.
func (b *BinarySearchIndex) WeightOf(word string) (float64, error) {
	i := FirstIndexOf(b.terms, term.Key(word), term.Lexical)
	if i == -1 {
		return 0, nil
	}
	return b.terms[i].Weight(), nil
}

// Len returns the number of stored words.
func (b *BinarySearchIndex) Len() int { return len(b.terms) }

// Terms returns a copy of the sorted vocabulary.
func (b *BinarySearchIndex) Terms() []term.Term {
	return slices.Clone(b.terms)
}

func words(terms []term.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Word()
	}
	return out
}
