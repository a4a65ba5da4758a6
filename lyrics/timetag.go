package lyrics

import (
	"math"
	"regexp"
	"strconv"
)

// The grammar dispatch order is fixed and shared by the lyric parser and the
// translation-track parser: metadata object -> word-synced -> line-timestamp
// fallback. Keeping every pattern here is what stops the two call sites from
// drifting apart.
var (
	// LRC timestamp tag: [mm:ss.xx] or [mm:ss.xxx], dot or colon separator
	lrcTimeRegex = regexp.MustCompile(`\[(\d{1,3}):(\d{1,2})[.:](\d{2,3})\]`)

	// Inline word tag inside an LRC line: <mm:ss.xx>word
	inlineWordRegex = regexp.MustCompile(`<(\d{1,3}):(\d{1,2})[.:](\d{2,3})>`)

	// Word-synced line header: [startMs,durationMs]
	wordSyncedHeaderRegex = regexp.MustCompile(`^\[(\d+),(\d+)\]`)

	// Word-synced word group: (startMs,durationMs,flag)text
	wordSyncedWordRegex = regexp.MustCompile(`\((\d+),(\d+),(-?\d+)\)([^(]*)`)
)

// parseTimeTag converts the three captured groups of an LRC time tag into
// seconds. The fractional part is centiseconds when two digits, milliseconds
// when three. Callers only pass groups that already matched the tag pattern,
// so a failure here means a malformed numeric group.
func parseTimeTag(minutes, seconds, fraction string) (float64, error) {
	m, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil {
		return 0, err
	}
	s, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return 0, err
	}
	frac, err := strconv.ParseInt(fraction, 10, 64)
	if err != nil {
		return 0, err
	}
	ms := frac
	if len(fraction) == 2 {
		ms *= 10 // centiseconds to milliseconds
	}
	return float64(m*60*1000+s*1000+ms) / 1000.0, nil
}

// normalizeTimeKey quantizes a time to an integer millisecond bucket.
// 1ms resolution keeps genuinely different lines (sub-10ms apart) in
// separate buckets while absorbing float rounding noise.
func normalizeTimeKey(t float64) int64 {
	return int64(math.Round(t * 1000))
}
