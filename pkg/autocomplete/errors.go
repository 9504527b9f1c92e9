package autocomplete

import (
	"errors"
	"fmt"

	"github.com/bastiangx/wordrank/pkg/term"
)

var (
	// ErrMissingArgument is returned when a required argument is nil.
	ErrMissingArgument = errors.New("missing argument")
	// ErrInvalidArgument covers mismatched lengths, bad weights, duplicate
	// words and negative k. It is the same value as term.ErrInvalidArgument.
	ErrInvalidArgument = term.ErrInvalidArgument
)

// validateVocabulary runs the construction checks shared by both indexes and
// returns the validated terms in input order.
func validateVocabulary(words []string, weights []float64) ([]term.Term, error) {
	if words == nil || weights == nil {
		return nil, fmt.Errorf("%w: words and weights are required", ErrMissingArgument)
	}
	if len(words) != len(weights) {
		return nil, fmt.Errorf("%w: %d words but %d weights", ErrInvalidArgument, len(words), len(weights))
	}

	seen := make(map[string]struct{}, len(words))
	terms := make([]term.Term, len(words))
	for i, w := range words {
		if _, dup := seen[w]; dup {
			return nil, fmt.Errorf("%w: duplicate word %q", ErrInvalidArgument, w)
		}
		seen[w] = struct{}{}

		t, err := term.New(w, weights[i])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		terms[i] = t
	}
	return terms, nil
}

func checkLimit(k int) error {
	if k < 0 {
		return fmt.Errorf("%w: illegal value of k: %d", ErrInvalidArgument, k)
	}
	return nil
}
