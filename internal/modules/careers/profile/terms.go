package profile

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsTerm reports whether term occurs in text as a whole word or phrase,
// case-insensitively. "go" does not match "algorithms"; "c++" matches "C++ and Rust".
func ContainsTerm(text, term string) bool {
	text = strings.ToLower(text)
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

// MatchTerms returns the vocabulary entries found in text, in vocabulary order.
func MatchTerms(text string, vocab []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, term := range vocab {
		if ContainsTerm(text, term) {
			out = append(out, term)
		}
	}
	return out
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
