// Package lexicon holds the fixed vocabularies used by the conversation
// analyzers and the matching helpers they share.
package lexicon

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalize lowercases text and pads it so phrase lookups can rely on
// boundaries at both ends.
func Normalize(text string) string {
	return " " + strings.ToLower(text) + " "
}

// Has reports whether phrase occurs in text delimited by non-word characters.
// A trailing '*' makes the phrase a prefix stem ("sustainab*").
func Has(text, phrase string) bool {
	lower := strings.ToLower(text)
	stem := strings.HasSuffix(phrase, "*")
	p := strings.ToLower(strings.TrimSuffix(phrase, "*"))
	if p == "" {
		return false
	}
	from := 0
	for {
		idx := strings.Index(lower[from:], p)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(p)
		if boundaryBefore(lower, start) && (stem || boundaryAfter(lower, end)) {
			return true
		}
		from = start + 1
	}
}

// Index returns the byte offset in text just past the first bounded
// occurrence of phrase, or -1.
func Index(text, phrase string) int {
	lower, offsets := lowerWithOffsets(text)
	p := strings.ToLower(strings.TrimSuffix(phrase, "*"))
	stem := strings.HasSuffix(phrase, "*")
	if p == "" {
		return -1
	}
	from := 0
	for {
		idx := strings.Index(lower[from:], p)
		if idx < 0 {
			return -1
		}
		start := from + idx
		end := start + len(p)
		if boundaryBefore(lower, start) && (stem || boundaryAfter(lower, end)) {
			return offsets[end]
		}
		from = start + 1
	}
}

// lowerWithOffsets lowercases text rune by rune. offsets[i] is the byte
// offset in text of the rune that produced byte i of the result, and
// offsets[len(result)] is len(text).
func lowerWithOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		n, _ := b.WriteRune(unicode.ToLower(r))
		for j := 0; j < n; j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	return !isWordByte(s[i])
}

func isWordByte(b byte) bool {
	return b == '\'' || b == '_' || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b >= 0x80
}

// Hits returns the entries of list that occur in text, in list order.
func Hits(text string, list []string) []string {
	var found []string
	for _, p := range list {
		if Has(text, p) {
			found = append(found, p)
		}
	}
	return found
}

// Count returns how many entries of list occur in text.
func Count(text string, list []string) int {
	n := 0
	for _, p := range list {
		if Has(text, p) {
			n++
		}
	}
	return n
}

// Any reports whether at least one entry of list occurs in text.
func Any(text string, list []string) bool {
	for _, p := range list {
		if Has(text, p) {
			return true
		}
	}
	return false
}

// Ratio is the share of list entries found in text. Empty lists yield 0.
func Ratio(text string, list []string) float64 {
	if len(list) == 0 {
		return 0
	}
	return float64(Count(text, list)) / float64(len(list))
}

// Words splits text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordCount is len(Words(text)).
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Tokens returns the lowercased letter/digit runs of text.
func Tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Sentences splits text on terminal punctuation and drops empty pieces.
func Sentences(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }
