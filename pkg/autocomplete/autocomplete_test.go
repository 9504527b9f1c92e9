package autocomplete

import (
	"errors"
	"math"
	"slices"
	"testing"
)

var (
	sampleWords   = []string{"air", "bat", "bell", "boy"}
	sampleWeights = []float64{3, 2, 4, 1}
)

var kinds = []Kind{KindBinary, KindTrie}

func build(t testing.TB, kind Kind, words []string, weights []float64) Autocompletor {
	t.Helper()
	ac, err := New(kind, words, weights)
	if err != nil {
		t.Fatalf("New(%s): %v", kind, err)
	}
	return ac
}

func TestSampleVocabulary(t *testing.T) {
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ac := build(t, kind, sampleWords, sampleWeights)

			matches := []struct {
				prefix string
				k      int
				want   []string
			}{
				{"b", 2, []string{"bell", "bat"}},
				{"a", 2, []string{"air"}},
				{"z", 5, []string{}},
				{"b", 0, []string{}},
				{"", 0, []string{}},
				{"", 3, []string{"bell", "air", "bat"}},
				{"", 10, []string{"bell", "air", "bat", "boy"}},
				{"bell", 3, []string{"bell"}},
				{"bells", 3, []string{}},
				{"bo", 1, []string{"boy"}},
			}
			for _, m := range matches {
				got, err := ac.TopMatches(m.prefix, m.k)
				if err != nil {
					t.Fatalf("TopMatches(%q, %d): %v", m.prefix, m.k, err)
				}
				if got == nil || !slices.Equal(got, m.want) {
					t.Errorf("TopMatches(%q, %d) = %#v, want %#v", m.prefix, m.k, got, m.want)
				}
			}

			tops := map[string]string{"b": "bell", "a": "air", "": "bell", "bo": "boy", "c": "", "bat": "bat"}
			for prefix, want := range tops {
				got, err := ac.TopMatch(prefix)
				if err != nil {
					t.Fatal(err)
				}
				if got != want {
					t.Errorf("TopMatch(%q) = %q, want %q", prefix, got, want)
				}
			}

			weights := map[string]float64{"boy": 1, "bell": 4, "cat": 0, "b": 0, "be": 0, "": 0, "bells": 0}
			for word, want := range weights {
				got, err := ac.WeightOf(word)
				if err != nil {
					t.Fatal(err)
				}
				if got != want {
					t.Errorf("WeightOf(%q) = %v, want %v", word, got, want)
				}
			}
		})
	}
}

func TestConstructionErrors(t *testing.T) {
	testCases := []struct {
		words   []string
		weights []float64
		want    error
		desc    string
	}{
		{nil, []float64{1}, ErrMissingArgument, "nil words"},
		{[]string{"a"}, nil, ErrMissingArgument, "nil weights"},
		{[]string{"a", "b"}, []float64{1}, ErrInvalidArgument, "length mismatch"},
		{[]string{"a", "b"}, []float64{1, -2}, ErrInvalidArgument, "negative weight"},
		{[]string{"a"}, []float64{math.NaN()}, ErrInvalidArgument, "NaN weight"},
		{[]string{"a", "b", "a"}, []float64{1, 2, 3}, ErrInvalidArgument, "duplicate word"},
		{[]string{"a", ""}, []float64{1, 2}, ErrInvalidArgument, "empty word"},
	}

	for _, kind := range kinds {
		for _, tc := range testCases {
			t.Run(string(kind)+"/"+tc.desc, func(t *testing.T) {
				ac, err := New(kind, tc.words, tc.weights)
				if !errors.Is(err, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
				if ac != nil {
					t.Error("failed construction must not return an index")
				}
			})
		}
	}
}

func TestEmptyVocabulary(t *testing.T) {
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ac := build(t, kind, []string{}, []float64{})
			got, err := ac.TopMatches("", 5)
			if err != nil || len(got) != 0 {
				t.Errorf("TopMatches on empty index = %v, %v", got, err)
			}
			if top, _ := ac.TopMatch(""); top != "" {
				t.Errorf("TopMatch on empty index = %q", top)
			}
		})
	}
}

func TestNegativeK(t *testing.T) {
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ac := build(t, kind, sampleWords, sampleWeights)
			if _, err := ac.TopMatches("b", -1); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for k=-1, got %v", err)
			}
		})
	}
}

// Words shorter than the prefix sort before it and must never match.
func TestShortWordsAroundPrefix(t *testing.T) {
	words := []string{"a", "ab", "abc", "abd", "abcd", "b"}
	weights := []float64{9, 1, 5, 7, 6, 8}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ac := build(t, kind, words, weights)

			got, _ := ac.TopMatches("abc", 5)
			if want := []string{"abcd", "abc"}; !slices.Equal(got, want) {
				t.Errorf("TopMatches(abc) = %v, want %v", got, want)
			}
			got, _ = ac.TopMatches("ab", 5)
			if want := []string{"abd", "abcd", "abc", "ab"}; !slices.Equal(got, want) {
				t.Errorf("TopMatches(ab) = %v, want %v", got, want)
			}
			if w, _ := ac.WeightOf("abc"); w != 5 {
				t.Errorf("WeightOf(abc) = %v, want 5", w)
			}
			if w, _ := ac.WeightOf("abcde"); w != 0 {
				t.Errorf("WeightOf(abcde) = %v, want 0", w)
			}
		})
	}
}

func TestTiesBreakByWord(t *testing.T) {
	words := []string{"cab", "caa", "cb", "ca", "c"}
	weights := []float64{2, 2, 2, 1, 2}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ac := build(t, kind, words, weights)
			got, _ := ac.TopMatches("c", 3)
			if want := []string{"c", "caa", "cab"}; !slices.Equal(got, want) {
				t.Errorf("TopMatches(c, 3) = %v, want %v", got, want)
			}
			if top, _ := ac.TopMatch("c"); top != "c" {
				t.Errorf("TopMatch(c) = %q, want c", top)
			}
		})
	}
}

func TestUnicodeWords(t *testing.T) {
	words := []string{"été", "étoile", "était", "eta"}
	weights := []float64{3, 5, 4, 10}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ac := build(t, kind, words, weights)
			got, _ := ac.TopMatches("ét", 2)
			if want := []string{"étoile", "était"}; !slices.Equal(got, want) {
				t.Errorf("TopMatches(ét) = %v, want %v", got, want)
			}
			got, _ = ac.TopMatches("é", 5)
			if want := []string{"étoile", "était", "été"}; !slices.Equal(got, want) {
				t.Errorf("TopMatches(é) = %v, want %v", got, want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"trie": KindTrie, " Binary ": KindBinary} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("hash"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseKind(hash) error = %v", err)
	}
	if _, err := New("hash", sampleWords, sampleWeights); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("New(hash) error = %v", err)
	}
}
