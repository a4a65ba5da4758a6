package lyrics

import (
	"regexp"
	"strings"
)

// Credit-line detection is lexical. Sources label songwriter/performer
// credits either with a keyword prefix followed by a (full- or half-width)
// colon, or as a bracket-wrapped pure label line. Both parsers and the
// translation merger must agree on this classification, so it lives here
// and nowhere else.
var (
	creditKeywordRegex = regexp.MustCompile(`(?i)^\s*(作词|作詞|作曲|编曲|編曲|制作人?|製作人?|监制|監製|混音|母带|母帶|录音|錄音|和声|吉他|贝斯|鼓|词|曲|出品|发行|發行|lyrics?\s*by|composed?\s*by|music\s*by|arranged?\s*by|produced?\s*by|mixed\s*by|mastered\s*by|lyricist|composer|arranger|producer)\s*[:：]`)

	// A line that is nothing but a bracketed label, e.g. "【间奏】" or "(Interlude)"
	bracketLabelRegex = regexp.MustCompile(`^\s*[\[(【（][^\[\]()【】（）]*[\])】）]\s*$`)
)

// isMetadataLine reports whether the display text is a non-lyrical
// credit/metadata line.
func isMetadataLine(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if creditKeywordRegex.MatchString(text) {
		return true
	}
	return bracketLabelRegex.MatchString(text)
}
