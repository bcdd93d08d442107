package utils

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/unicode/norm"
)

// CollapseWhitespace trims s and folds runs of whitespace into one space.
// The text itself is left as written; scoring normalizes separately.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TokenSortRatio scores a and b on 0..100 ignoring case, punctuation, word
// order and Unicode composition. The score is the indel similarity of the
// sorted token strings: 100 * (len(a)+len(b)-indel) / (len(a)+len(b)), where
// indel counts the insertions and deletions turning one into the other.
func TokenSortRatio(a, b string) int {
	left, right := sortedTokens(a), sortedTokens(b)
	if left == right {
		return 100
	}

	total := utf8.RuneCountInString(left) + utf8.RuneCountInString(right)
	if total == 0 {
		return 0
	}

	indel := total - 2*commonSubsequence(left, right)
	return int(math.Round(100 * float64(total-indel) / float64(total)))
}

// commonSubsequence returns the length in runes of the longest common
// subsequence of a and b.
func commonSubsequence(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if fuzzy.Match(string(short), string(long)) {
		return len(short)
	}

	prev := make([]int, len(short)+1)
	curr := make([]int, len(short)+1)
	for _, r := range long {
		for j, s := range short {
			if r == s {
				curr[j+1] = prev[j] + 1
			} else {
				curr[j+1] = max(prev[j+1], curr[j])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(short)]
}

func sortedTokens(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
