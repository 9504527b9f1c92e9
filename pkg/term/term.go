// Package term defines the weighted vocabulary entry shared by every index,
// along with the orderings used to sort, range-find and rank entries.
package term

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ErrInvalidArgument is returned for empty or malformed words and for
// negative or NaN weights.
var ErrInvalidArgument = errors.New("invalid argument")

// Term is a word paired with a non-negative weight.
type Term struct {
	word   string
	weight float64
}

// Comparator orders two terms the way cmp.Compare does: negative when a sorts
// before b, zero when they are equal under the ordering, positive otherwise.
type Comparator func(a, b Term) int

// New validates and builds a Term.
func New(word string, weight float64) (Term, error) {
	if word == "" {
		return Term{}, fmt.Errorf("%w: empty word", ErrInvalidArgument)
	}
	if !utf8.ValidString(word) {
		return Term{}, fmt.Errorf("%w: word %q is not valid UTF-8", ErrInvalidArgument, word)
	}
	if err := CheckWeight(weight); err != nil {
		return Term{}, fmt.Errorf("%w for %q", err, word)
	}
	return Term{word: word, weight: weight}, nil
}

// Key builds an unvalidated Term used only as a search key.
func Key(word string) Term {
	return Term{word: word}
}

// CheckWeight rejects negative and NaN weights.
func CheckWeight(weight float64) error {
	if math.IsNaN(weight) || weight < 0 {
		return fmt.Errorf("%w: illegal weight %v", ErrInvalidArgument, weight)
	}
	return nil
}

// Word returns the term's word.
func (t Term) Word() string { return t.word }

// Weight returns the term's weight.
func (t Term) Weight() float64 { return t.weight }

func (t Term) String() string {
	return fmt.Sprintf("%s\t%g", t.word, t.weight)
}

// ByWeight sorts higher weights first. Equal weights fall back to Lexical so
// that rankings never depend on insertion or traversal order.
func ByWeight(a, b Term) int {
	switch {
	case a.weight > b.weight:
		return -1
	case a.weight < b.weight:
		return 1
	}
	return Lexical(a, b)
}

// Lexical sorts words in ascending byte order, which for UTF-8 is also
// code point order.
func Lexical(a, b Term) int {
	return strings.Compare(a.word, b.word)
}

// PrefixOrder compares only the first r runes of each word. A word shorter
// than r is compared in full, so "ab" sorts before "abc" when r is 3; this
// agrees with Lexical and keeps every prefix run contiguous in sorted order.
func PrefixOrder(r int) Comparator {
	return func(a, b Term) int {
		return strings.Compare(truncate(a.word, r), truncate(b.word, r))
	}
}

// truncate returns the first r runes of s.
func truncate(s string, r int) string {
	if r <= 0 {
		return ""
	}
	// a string of n bytes never holds more than n runes
	if len(s) <= r {
		return s
	}
	i := 0
	for n := 0; n < r && i < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
