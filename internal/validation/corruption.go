package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Garbled tokens image models have produced in place of real words.
// Matching is case-insensitive so the patterns survive casing changes
// applied downstream of the model.
var knownGarbagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bAUTTENG\b`),
	regexp.MustCompile(`(?i)\bBAMALE\b`),
	regexp.MustCompile(`(?i)\bCOMEASUE\b`),
}

// looksCorrupted reports whether the text carries any of the known
// garbage modes: a blocklisted token, mojibake, or, when the
// constraints require English words, a word whose letter structure no
// real language produces.
func looksCorrupted(text string, c Constraints) bool {
	for _, p := range knownGarbagePatterns {
		if p.MatchString(text) {
			return true
		}
	}

	for _, p := range c.ForbidPatterns {
		if p != nil && p.MatchString(text) {
			return true
		}
	}

	if hasMojibake(text) {
		return true
	}

	if c.RequireEnglishWords {
		for _, word := range strings.Fields(text) {
			if isGarbledWord(word) {
				return true
			}
		}
	}

	return false
}

// hasMojibake detects replacement runes and control characters that
// indicate an encoding failure rather than content.
func hasMojibake(text string) bool {
	for _, r := range text {
		if r == utf8.RuneError {
			return true
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return true
		}
	}
	return false
}

// isGarbledWord applies structural checks to a single word: five or more
// letters with no vowel at all, a consonant run longer than English
// allows, or the same letter repeated four-plus times. Y counts as a
// vowel so words like "rhythm" pass.
func isGarbledWord(word string) bool {
	letters := make([]rune, 0, len(word))
	for _, r := range word {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToLower(r))
		}
	}

	if len(letters) < 5 {
		return false
	}

	var (
		vowels    int
		run       int
		maxRun    int
		repeat    = 1
		maxRepeat = 1
		prev      rune
	)

	for _, r := range letters {
		if isVowel(r) {
			vowels++
			run = 0
		} else {
			run++
			if run > maxRun {
				maxRun = run
			}
		}

		if r == prev {
			repeat++
			if repeat > maxRepeat {
				maxRepeat = repeat
			}
		} else {
			repeat = 1
		}
		prev = r
	}

	if vowels == 0 {
		return true
	}
	if maxRun >= 6 {
		return true
	}
	if maxRepeat >= 4 {
		return true
	}

	return false
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	default:
		return false
	}
}
