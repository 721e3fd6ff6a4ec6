// Package normalize cleans and bounds extracted interview text so it fits a
// generation prompt.
package normalize

import (
	"log/slog"
	"strings"
	"unicode"
)

// Result is the normalized, bounded text plus its data-loss signal.
type Result struct {
	Text string
	// Truncated is set when the text exceeded the budget and was cut. The
	// pipeline surfaces it as non-fatal metadata.
	Truncated bool
}

// Normalize collapses whitespace runs, strips control characters, and
// truncates to maxChars runes. The truncation point aligns to the nearest
// sentence boundary and never splits a word.
func Normalize(text string, maxChars int, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}

	cleaned := collapseWhitespace(text)
	runes := []rune(cleaned)
	if maxChars <= 0 || len(runes) <= maxChars {
		return Result{Text: cleaned}
	}

	cut := truncationPoint(runes, maxChars)
	logger.Warn("normalize.truncated",
		"original_chars", len(runes),
		"kept_chars", cut,
		"budget", maxChars,
	)
	return Result{
		Text:      strings.TrimSpace(string(runes[:cut])),
		Truncated: true,
	}
}

// collapseWhitespace reduces whitespace runs to a single space and drops
// non-printable runes.
func collapseWhitespace(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		if !unicode.IsPrint(r) {
			continue
		}
		sb.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimSpace(sb.String())
}

// truncationPoint finds where to cut runes so that at most maxChars survive:
// preferably just after the last sentence end, otherwise at the last word
// boundary. Only a single unbroken token longer than the budget is ever cut
// mid-sequence.
func truncationPoint(runes []rune, maxChars int) int {
	lastSentence := -1
	lastSpace := -1
	for i := 0; i < maxChars; i++ {
		switch {
		case runes[i] == ' ':
			lastSpace = i
			if i > 0 && isSentenceEnd(runes[i-1]) {
				lastSentence = i
			}
		}
	}
	// A sentence end right at the budget edge also counts.
	if isSentenceEnd(runes[maxChars-1]) {
		lastSentence = maxChars
	}

	if lastSentence > 0 {
		return lastSentence
	}
	if lastSpace > 0 {
		return lastSpace
	}
	return maxChars
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	}
	return false
}
