// Package normalize provides utilities for normalizing and comparing text.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes runes and drops combining marks, so
// "ficção" and "ficcao" normalize to the same string.
//
//nolint:gochecknoglobals // Static transformer chain
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Text normalizes a string for comparison: null bytes dropped,
// diacritics stripped, lowercased, and whitespace trimmed.
// Returns empty string for empty input.
func Text(raw string) string {
	s := sanitizeString(raw)
	if folded, _, err := transform.String(stripDiacritics, s); err == nil {
		s = folded
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// Similarity returns a ratio in [0, 1] measuring how alike two strings
// are, computed over their lowercased forms. 1 means identical.
//
// The ratio is 2*M/T where M is the number of characters in matching
// blocks and T is the total length of both strings. Matching blocks
// are found by recursively taking the longest common substring, the
// same scheme difflib-style matchers use, so thresholds tuned against
// those carry over.
func Similarity(a, b string) float64 {
	ar := []rune(strings.ToLower(a))
	br := []rune(strings.ToLower(b))

	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}

	b2j := make(map[rune][]int, len(br))
	for j, r := range br {
		b2j[r] = append(b2j[r], j)
	}

	matched := matchingSize(ar, 0, len(ar), 0, len(br), b2j)
	return 2 * float64(matched) / float64(total)
}

// matchingSize finds the longest common block within the given ranges,
// then recurses on the pieces to either side of it.
func matchingSize(a []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) int {
	besti, bestj, bestsize := alo, blo, 0

	// j2len[j] is the length of the longest match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	if bestsize == 0 {
		return 0
	}

	size := bestsize
	size += matchingSize(a, alo, besti, blo, bestj, b2j)
	size += matchingSize(a, besti+bestsize, ahi, bestj+bestsize, bhi, b2j)
	return size
}

// sanitizeString removes null bytes from strings, which can cause
// issues in databases and JSON parsing. Some upstream metadata sources
// include null terminators in strings.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 { // null byte
			return -1 // drop it
		}
		return r
	}, s)
}
