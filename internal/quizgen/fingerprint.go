package quizgen

import (
	"strings"
	"unicode"
)

// fingerprintPrefixLen bounds how much of the question text contributes to
// the fingerprint. Short enough to tolerate minor phrasing drift at the
// end of a question, long enough to keep distinct questions apart.
const fingerprintPrefixLen = 50

// Fingerprint computes a normalized identity key for a question: the
// trimmed, lowercased text truncated to a fixed prefix, concatenated with
// the correct-answer letter.
func Fingerprint(text, correct string) string {
	norm := strings.ToLower(strings.TrimSpace(text))
	if runes := []rune(norm); len(runes) > fingerprintPrefixLen {
		norm = string(runes[:fingerprintPrefixLen])
	}
	return norm + "|" + NormalizeLetter(correct)
}

// Similarity returns a bag-of-words Jaccard ratio between two text blobs,
// in [0, 1]. Tokens are words longer than 3 characters. Returns 0 when
// either token set is empty.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

// NormalizeLetter reduces a correct-answer value to a single uppercase
// letter: trim, take the first rune, uppercase. Tolerates provider output
// like "b", "C)", or "a.", since casing and punctuation vary across models.
func NormalizeLetter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(string([]rune(s)[0]))
}

func tokenSet(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) > 3 {
			set[w] = struct{}{}
		}
	}
	return set
}
