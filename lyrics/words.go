package lyrics

import (
	"strings"
	"unicode"
)

// newWord builds a word record. End is not guaranteed to be past start at
// construction time; sanitizeWordDurations is the stage that enforces it.
func newWord(text string, start, end float64) Word {
	return Word{StartTime: start, EndTime: end, Text: text}
}

// isPunctuationOnly reports whether s contains no letters or digits.
func isPunctuationOnly(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// mergePunctuationWords folds words that are pure punctuation/whitespace
// into their predecessor so trailing punctuation never renders as an
// isolated highlighted token. The predecessor keeps the punctuation word's
// end time. A punctuation word with no predecessor is left standing.
func mergePunctuationWords(words []Word) []Word {
	if len(words) == 0 {
		return words
	}
	merged := make([]Word, 0, len(words))
	for _, w := range words {
		if len(merged) > 0 && w.Text != "" && isPunctuationOnly(w.Text) {
			prev := &merged[len(merged)-1]
			prev.Text += w.Text
			prev.EndTime = w.EndTime
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// hasMeaningfulContent reports whether the entry's display text carries
// actual lyric content rather than emptiness or bare punctuation.
func hasMeaningfulContent(p parsedLine) bool {
	text := strings.TrimSpace(displayText(p))
	return text != "" && !isPunctuationOnly(text)
}

// displayText reconstructs the entry's text from its words when they exist
// and yield non-empty content, otherwise falls back to the raw parsed text.
func displayText(p parsedLine) string {
	if len(p.words) > 0 {
		var b strings.Builder
		for _, w := range p.words {
			b.WriteString(w.Text)
		}
		if s := b.String(); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return p.text
}

// sanitizeWordDurations clamps runaway word durations in a single line.
// Word-synced sources occasionally carry garbage duration values, so each
// word is capped at opts.MaxWordDuration and at the next word's start (the
// next line's start for the last word, or its own start plus the cap when
// there is no next line). A word that collapses to a non-positive duration
// is forced to opts.MinWordDuration.
func sanitizeWordDurations(words []Word, nextLineStart float64, hasNextLine bool, opts Options) {
	for i := range words {
		w := &words[i]

		maxEnd := w.StartTime + opts.MaxWordDuration
		switch {
		case i+1 < len(words):
			if words[i+1].StartTime < maxEnd {
				maxEnd = words[i+1].StartTime
			}
		case hasNextLine:
			if nextLineStart < maxEnd {
				maxEnd = nextLineStart
			}
		}

		if w.EndTime > maxEnd {
			w.EndTime = maxEnd
		}
		if w.EndTime <= w.StartTime {
			w.EndTime = w.StartTime + opts.MinWordDuration
		}
	}
}
