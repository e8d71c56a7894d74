package validation

import (
	"regexp"
	"strings"
)

// Word limits for the content kinds the engine produces. Headlines and
// sub-headlines are rendered onto creatives, so their limits are hard
// readability bounds rather than style preferences.
const (
	HeadlineMaxWords    = 6
	SubheadlineMaxWords = 25
)

// IssueKind names one class of validation failure.
type IssueKind string

// Issue kinds a verdict can carry.
const (
	IssueEmptyText        IssueKind = "empty_text"
	IssueOverLength       IssueKind = "over_length"
	IssueCorruptedPattern IssueKind = "corrupted_pattern"
)

// Constraints bound one validation pass. MaxWords of zero means
// unlimited length. RequireEnglishWords enables the structural word
// checks; the blocklist and mojibake detection run regardless.
// ForbidPatterns extends the built-in corruption patterns with
// caller-supplied ones.
type Constraints struct {
	MaxWords            int
	RequireEnglishWords bool
	ForbidPatterns      []*regexp.Regexp
}

// HeadlineConstraints returns the constraints for headline text.
func HeadlineConstraints() Constraints {
	return Constraints{MaxWords: HeadlineMaxWords, RequireEnglishWords: true}
}

// SubheadlineConstraints returns the constraints for sub-headline text.
func SubheadlineConstraints() Constraints {
	return Constraints{MaxWords: SubheadlineMaxWords, RequireEnglishWords: true}
}

// CaptionConstraints returns the constraints for caption text. Captions
// have no hard length bound; only corruption checks apply.
func CaptionConstraints() Constraints {
	return Constraints{RequireEnglishWords: true}
}

// Verdict is the outcome of one validation pass. CleanedText is always
// usable: the input itself when nothing was wrong with its length, or
// the truncated form when it ran over. Corruption is flagged but never
// auto-fixed, because rewriting garbled output produces different
// garbage, not content.
type Verdict struct {
	IsValid     bool
	CleanedText string
	Issues      []IssueKind
}

// Has reports whether the verdict carries the given issue.
func (v Verdict) Has(kind IssueKind) bool {
	for _, issue := range v.Issues {
		if issue == kind {
			return true
		}
	}
	return false
}

// Validate checks text against the given constraints. Checks run in a
// fixed order: emptiness, then length (with deterministic truncation to
// the first MaxWords whitespace-delimited words), then corruption
// detection over the cleaned text.
func Validate(text string, c Constraints) Verdict {
	if strings.TrimSpace(text) == "" {
		return Verdict{CleanedText: "", Issues: []IssueKind{IssueEmptyText}}
	}

	var issues []IssueKind
	cleaned := text

	if c.MaxWords > 0 {
		words := strings.Fields(text)
		if len(words) > c.MaxWords {
			cleaned = strings.Join(words[:c.MaxWords], " ")
			issues = append(issues, IssueOverLength)
		}
	}

	if looksCorrupted(cleaned, c) {
		issues = append(issues, IssueCorruptedPattern)
	}

	return Verdict{
		IsValid:     len(issues) == 0,
		CleanedText: cleaned,
		Issues:      issues,
	}
}
