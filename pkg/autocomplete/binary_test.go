package autocomplete

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/bastiangx/wordrank/pkg/term"
)

func sortedTerms(t testing.TB, words ...string) []term.Term {
	t.Helper()
	terms := make([]term.Term, len(words))
	for i, w := range words {
		tm, err := term.New(w, float64(i))
		if err != nil {
			t.Fatal(err)
		}
		terms[i] = tm
	}
	slices.SortFunc(terms, term.Lexical)
	return terms
}

func TestFirstLastIndexOf(t *testing.T) {
	terms := sortedTerms(t, "air", "bat", "bell", "boy", "cat", "cow", "dog")

	testCases := []struct {
		key   string
		r     int
		first int
		last  int
		desc  string
	}{
		{"b", 1, 1, 3, "run in the middle"},
		{"a", 1, 0, 0, "single at the start"},
		{"d", 1, 6, 6, "single at the end"},
		{"c", 1, 4, 5, "two element run"},
		{"e", 1, -1, -1, "absent after the end"},
		{"0", 1, -1, -1, "absent before the start"},
		{"be", 2, 2, 2, "two rune prefix"},
		{"", 0, 0, 6, "empty prefix spans everything"},
		{"bells", 5, -1, -1, "key longer than every match"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cmp := term.PrefixOrder(tc.r)
			if got := FirstIndexOf(terms, term.Key(tc.key), cmp); got != tc.first {
				t.Errorf("FirstIndexOf(%q) = %d, want %d", tc.key, got, tc.first)
			}
			if got := LastIndexOf(terms, term.Key(tc.key), cmp); got != tc.last {
				t.Errorf("LastIndexOf(%q) = %d, want %d", tc.key, got, tc.last)
			}
		})
	}
}

func TestIndexOfEmptySlice(t *testing.T) {
	if got := FirstIndexOf(nil, term.Key("a"), term.Lexical); got != -1 {
		t.Errorf("FirstIndexOf(nil) = %d", got)
	}
	if got := LastIndexOf(nil, term.Key("a"), term.Lexical); got != -1 {
		t.Errorf("LastIndexOf(nil) = %d", got)
	}
}

// Both searches must stay within 1 + ceil(log2 n) comparator calls.
func TestIndexOfComparatorCalls(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 8, 100, 1000, 4096} {
		words := make([]string, n)
		for i := range words {
			words[i] = fmt.Sprintf("w%06d", i)
		}
		terms := sortedTerms(t, words...)
		limit := 1 + int(math.Ceil(math.Log2(float64(n))))

		for _, key := range []string{words[0], words[n/2], words[n-1], "w", "x", "a"} {
			calls := 0
			counting := func(a, b term.Term) int {
				calls++
				return term.PrefixOrder(len(key))(a, b)
			}

			FirstIndexOf(terms, term.Key(key), counting)
			if calls > limit {
				t.Errorf("n=%d key=%q: FirstIndexOf made %d calls, limit %d", n, key, calls, limit)
			}
			calls = 0
			LastIndexOf(terms, term.Key(key), counting)
			if calls > limit {
				t.Errorf("n=%d key=%q: LastIndexOf made %d calls, limit %d", n, key, calls, limit)
			}
		}
	}
}

func TestBinarySearchIndexIsSorted(t *testing.T) {
	idx, err := NewBinarySearch([]string{"boy", "air", "bell", "bat"}, []float64{1, 3, 4, 2})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, tm := range idx.Terms() {
		got = append(got, tm.Word())
	}
	if want := []string{"air", "bat", "bell", "boy"}; !slices.Equal(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
	if idx.Len() != 4 {
		t.Errorf("Len() = %d", idx.Len())
	}
}
