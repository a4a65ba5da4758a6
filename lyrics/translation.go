package lyrics

import (
	"math"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dingyi222666/aura-music/logcolors"
)

// translationTimeline is an explicit ordered multimap from quantized time
// key to a FIFO queue of translation texts. Consumption is a pop with
// removal-on-empty, so one translation entry can never attach to two lines.
type translationTimeline struct {
	keys    []int64
	entries map[int64][]string
}

// newTranslationTimeline parses a translation text blob under the same
// grammar precedence as the word-synced parser (metadata object ->
// word-synced -> line-timestamp fallback), keeping only display text of
// non-metadata lines.
func newTranslationTimeline(content string, opts Options) *translationTimeline {
	tl := &translationTimeline{entries: make(map[int64][]string)}
	for i, raw := range strings.Split(content, "\n") {
		for _, e := range parseYRCEntries(raw, i, opts) {
			if e.isMetadata {
				continue
			}
			key := normalizeTimeKey(e.time)
			if _, ok := tl.entries[key]; !ok {
				tl.keys = append(tl.keys, key)
			}
			tl.entries[key] = append(tl.entries[key], displayText(e))
		}
	}
	sort.Slice(tl.keys, func(i, j int) bool { return tl.keys[i] < tl.keys[j] })
	return tl
}

func (tl *translationTimeline) removeKey(key int64) {
	delete(tl.entries, key)
	for i, k := range tl.keys {
		if k == key {
			tl.keys = append(tl.keys[:i], tl.keys[i+1:]...)
			break
		}
	}
}

// pop removes and returns the oldest entry at exactly key.
func (tl *translationTimeline) pop(key int64) (string, bool) {
	queue, ok := tl.entries[key]
	if !ok || len(queue) == 0 {
		return "", false
	}
	value := queue[0]
	if len(queue) == 1 {
		tl.removeKey(key)
	} else {
		tl.entries[key] = queue[1:]
	}
	return value, true
}

// popNearest removes and returns the oldest entry of the bucket closest in
// time to t, provided the distance does not exceed tolerance seconds.
func (tl *translationTimeline) popNearest(t, tolerance float64) (string, bool) {
	bestKey := int64(0)
	bestDiff := math.Inf(1)
	found := false
	for _, key := range tl.keys {
		diff := math.Abs(float64(key)/1000.0 - t)
		if diff < bestDiff {
			bestDiff = diff
			bestKey = key
			found = true
		}
	}
	if !found || bestDiff > tolerance {
		return "", false
	}
	return tl.pop(bestKey)
}

// mergeTranslation attaches an external translation track to finalized
// lines by time proximity. Exact key matches win; otherwise the nearest
// bucket within tolerance is consumed. The tolerance follows the line's
// precision: word-synced secondary tracks drift far more than line-timed
// ones. Lines that find no candidate are returned unmodified.
func mergeTranslation(lines []Line, content string, opts Options) []Line {
	tl := newTranslationTimeline(content, opts)
	log.Debugf("%s Built translation timeline with %d buckets", logcolors.LogTranslate, len(tl.keys))

	matched := 0
	for i := range lines {
		if lines[i].IsInterlude {
			continue
		}
		value, ok := tl.pop(normalizeTimeKey(lines[i].Time))
		if !ok {
			tolerance := opts.LineMatchTolerance
			if lines[i].IsPreciseTiming {
				tolerance = opts.PreciseMatchTolerance
			}
			value, ok = tl.popNearest(lines[i].Time, tolerance)
		}
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			// Consumed but blank: the line keeps whatever translation it had.
			continue
		}
		if strings.EqualFold(value, strings.TrimSpace(lines[i].Text)) {
			continue
		}
		lines[i].Translation = value
		matched++
	}
	log.Debugf("%s Attached %d of %d translation entries", logcolors.LogTranslate, matched, len(lines))
	return lines
}
