package term

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func mustTerm(t *testing.T, word string, weight float64) Term {
	t.Helper()
	tm, err := New(word, weight)
	if err != nil {
		t.Fatalf("New(%q, %v): %v", word, weight, err)
	}
	return tm
}

func TestNewValidation(t *testing.T) {
	testCases := []struct {
		word    string
		weight  float64
		wantErr bool
		desc    string
	}{
		{"air", 3, false, "plain term"},
		{"zero", 0, false, "zero weight is allowed"},
		{"big", math.Inf(1), false, "infinite weight is allowed"},
		{"neg", -1, true, "negative weight"},
		{"nan", math.NaN(), true, "NaN weight"},
		{"", 1, true, "empty word"},
		{"a\xff", 1, true, "word is not valid UTF-8"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			tm, err := New(tc.word, tc.weight)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tm.Word() != tc.word || tm.Weight() != tc.weight {
				t.Errorf("got (%q, %v), want (%q, %v)", tm.Word(), tm.Weight(), tc.word, tc.weight)
			}
		})
	}
}

func TestByWeight(t *testing.T) {
	terms := []Term{
		mustTerm(t, "boy", 1),
		mustTerm(t, "bell", 4),
		mustTerm(t, "bat", 2),
		mustTerm(t, "air", 3),
		mustTerm(t, "ant", 3),
	}
	slices.SortFunc(terms, ByWeight)

	var got []string
	for _, tm := range terms {
		got = append(got, tm.Word())
	}
	want := []string{"bell", "air", "ant", "bat", "boy"}
	if !slices.Equal(got, want) {
		t.Errorf("ByWeight order = %v, want %v", got, want)
	}
}

func TestLexical(t *testing.T) {
	terms := []Term{
		mustTerm(t, "boy", 1),
		mustTerm(t, "Bell", 4),
		mustTerm(t, "bat", 2),
		mustTerm(t, "b", 3),
		mustTerm(t, "été", 3),
	}
	slices.SortFunc(terms, Lexical)

	var got []string
	for _, tm := range terms {
		got = append(got, tm.Word())
	}
	want := []string{"Bell", "b", "bat", "boy", "été"}
	if !slices.Equal(got, want) {
		t.Errorf("Lexical order = %v, want %v", got, want)
	}
}

func TestPrefixOrder(t *testing.T) {
	testCases := []struct {
		a, b string
		r    int
		want int
		desc string
	}{
		{"bell", "bat", 1, 0, "same first rune"},
		{"bell", "bat", 2, 1, "differs at second rune"},
		{"air", "bat", 1, -1, "differs at first rune"},
		{"ab", "abc", 3, -1, "shorter word sorts before longer match"},
		{"abc", "ab", 3, 1, "longer word sorts after shorter match"},
		{"ab", "ab", 5, 0, "both shorter than r and identical"},
		{"anything", "else", 0, 0, "zero length prefix matches everything"},
		{"été", "étoile", 2, 0, "multi-byte runes counted as characters"},
		{"été", "étoile", 3, 1, "third rune decides"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := PrefixOrder(tc.r)(Key(tc.a), Key(tc.b))
			if sign(got) != tc.want {
				t.Errorf("PrefixOrder(%d)(%q, %q) = %d, want sign %d", tc.r, tc.a, tc.b, got, tc.want)
			}
		})
	}
}

// Prefix runs must be contiguous in lexical order for the range search to work.
func TestPrefixOrderAgreesWithLexical(t *testing.T) {
	words := []string{"a", "ab", "abc", "abd", "ac", "b", "ba", "été", "étoile", "z"}
	for r := 0; r < 4; r++ {
		cmp := PrefixOrder(r)
		for _, a := range words {
			for _, b := range words {
				ka, kb := Key(a), Key(b)
				if Lexical(ka, kb) < 0 && cmp(ka, kb) > 0 {
					t.Errorf("r=%d: %q < %q lexically but PrefixOrder says greater", r, a, b)
				}
			}
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
