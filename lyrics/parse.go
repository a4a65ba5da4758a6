// Package lyrics converts raw lyric-file text in several competing timestamp
// formats into one canonical, time-ordered sequence of display lines with
// optional word-level timing and optional translations.
//
// Two grammars are supported: line-timestamp text ([mm:ss.xx] tags, with
// optional inline <mm:ss.xx>word tags) and word-synced text
// ([startMs,durationMs](wordStartMs,wordDurationMs,flag)word...), with
// brace-delimited metadata objects and line-timestamp fallback lines mixed
// into the latter. A separately supplied translation blob can be merged in
// by time proximity.
//
// Parsing is a pure computation over immutable input: every call allocates
// fresh state, so concurrent calls need no synchronization. Malformed lines
// are skipped, never surfaced as errors; fully unparseable input yields an
// empty sequence.
package lyrics

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dingyi222666/aura-music/logcolors"
)

// Format identifies which grammar a lyric blob was parsed with.
type Format string

const (
	FormatLRC Format = "lrc"
	FormatYRC Format = "yrc"
)

// DetectFormat reports which grammar applies to content: word-synced when
// any line carries a [startMs,durationMs] header or is an object line with
// the fragment-array marker, line-timestamp otherwise.
func DetectFormat(content string) Format {
	for _, raw := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(raw)
		if wordSyncedHeaderRegex.MatchString(trimmed) {
			return FormatYRC
		}
		if strings.HasPrefix(trimmed, "{") && strings.Contains(trimmed, `"c"`) {
			return FormatYRC
		}
	}
	return FormatLRC
}

// Parse converts content into the final ordered line sequence using
// DefaultOptions. translation, when non-blank, is an external translation
// track merged in by time proximity.
func Parse(content, translation string) []Line {
	return ParseWithOptions(content, translation, DefaultOptions())
}

// ParseWithOptions is Parse with explicit tolerances.
func ParseWithOptions(content, translation string, opts Options) []Line {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	format := DetectFormat(content)
	log.Debugf("%s Detected %s format (%d bytes)", logcolors.LogDetect, format, len(content))

	var lines []Line
	if format == FormatYRC {
		lines = parseYRC(content, opts)
	} else {
		lines = parseLRC(content, opts)
	}

	if strings.TrimSpace(translation) != "" {
		lines = mergeTranslation(lines, translation, opts)
	}

	return applyDurations(lines, opts)
}
