package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsSeparator reports whether r may appear inside a compound word.
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/' || r == '\''
}

// IsOnlyNumbers reports whether s is non-empty and all digits.
func IsOnlyNumbers(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars reports whether s holds anything other than letters,
// digits and separators.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive reports whether s is one rune repeated three or more times.
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidInput filters interactive input that is unlikely to be a word
// prefix: empty strings, bare numbers, symbols and key mashing.
func IsValidInput(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	return !IsOnlyNumbers(s) && !ContainsSpecialChars(s) && !IsRepetitive(s)
}

// CreateRankList returns the ranks 1..count for an already sorted list.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
