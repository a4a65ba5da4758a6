package lyrics

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dingyi222666/aura-music/logcolors"
)

// metaObjectLine is the brace-delimited metadata line some word-synced
// sources interleave with lyric content: {"t": <ms>, "c": [{"tx": ...}]}.
type metaObjectLine struct {
	T int64 `json:"t"`
	C []struct {
		Tx string `json:"tx"`
	} `json:"c"`
}

// parseYRCEntries parses one raw line of a word-synced file. The grammar
// attempts run in fixed precedence: metadata object, then word-synced, then
// the plain line-timestamp fallback. First match wins; a line matching
// nothing contributes nothing.
func parseYRCEntries(raw string, index int, opts Options) []parsedLine {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var obj metaObjectLine
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && len(obj.C) > 0 {
			var b strings.Builder
			for _, frag := range obj.C {
				b.WriteString(frag.Tx)
			}
			return []parsedLine{{
				time:          float64(obj.T) / 1000.0,
				text:          b.String(),
				originalIndex: index,
				isMetadata:    true,
			}}
		}
		// Brace-wrapped but not a valid metadata object: fall through.
	}

	if m := wordSyncedHeaderRegex.FindStringSubmatch(trimmed); m != nil {
		startMs, _ := strconv.ParseInt(m[1], 10, 64)
		content := trimmed[len(m[0]):]

		entry := parsedLine{
			time:          float64(startMs) / 1000.0,
			originalIndex: index,
		}

		groups := wordSyncedWordRegex.FindAllStringSubmatch(content, -1)
		if len(groups) == 0 {
			entry.text = strings.TrimSpace(content)
			entry.tagCount = wordSyncedTagBase
		} else {
			words := make([]Word, 0, len(groups))
			for _, g := range groups {
				ws, _ := strconv.ParseInt(g[1], 10, 64)
				wd, _ := strconv.ParseInt(g[2], 10, 64)
				start := float64(ws) / 1000.0
				words = append(words, newWord(g[4], start, start+float64(wd)/1000.0))
			}
			entry.words = mergePunctuationWords(words)
			entry.tagCount = wordSyncedTagBase + len(entry.words)
		}
		entry.isMetadata = isMetadataLine(displayText(entry))
		return []parsedLine{entry}
	}

	return parseLRCLine(raw, index, opts)
}

// parseYRC parses word-synced format lyrics. Word-synced entries become
// buckets; every other non-metadata entry is attached to its nearest bucket
// as a translation candidate, within a wide tolerance that reflects this
// format's typically drifting secondary track. Entries outside tolerance
// surface as independent lines.
func parseYRC(content string, opts Options) []Line {
	var entries []parsedLine
	for i, raw := range strings.Split(content, "\n") {
		entries = append(entries, parseYRCEntries(raw, i, opts)...)
	}
	log.Debugf("%s Parsed %d entries", logcolors.LogYRCParser, len(entries))
	if len(entries) == 0 {
		return nil
	}

	sortEntries(entries, opts.SortEpsilon)

	// Word-synced sources are known to carry runaway word durations; clamp
	// them while the next entry's start time is at hand, before any grouping.
	for i := range entries {
		if len(entries[i].words) == 0 {
			continue
		}
		hasNext := i+1 < len(entries)
		var nextStart float64
		if hasNext {
			nextStart = entries[i+1].time
		}
		sanitizeWordDurations(entries[i].words, nextStart, hasNext, opts)
	}

	type bucket struct {
		main         parsedLine
		translations []string
	}
	var buckets []bucket
	var others []parsedLine
	for _, e := range entries {
		if e.tagCount >= wordSyncedTagBase {
			buckets = append(buckets, bucket{main: e})
		} else {
			others = append(others, e)
		}
	}

	if len(buckets) == 0 {
		// No word-synced content anywhere: degrade to plain line-timed output.
		log.Debugf("%s No word-synced entries, falling back to plain lines", logcolors.LogYRCParser)
		var lines []Line
		for _, e := range others {
			if e.isMetadata || !hasMeaningfulContent(e) {
				continue
			}
			lines = append(lines, Line{Time: e.time, Text: displayText(e), Words: e.words})
		}
		return applyDurations(lines, opts)
	}

	var orphans []parsedLine
	for _, e := range others {
		if e.isMetadata {
			continue
		}
		best := -1
		bestDiff := math.Inf(1)
		for i := range buckets {
			diff := math.Abs(buckets[i].main.time - e.time)
			if diff < bestDiff {
				bestDiff = diff
				best = i
			}
		}
		if best >= 0 && bestDiff < opts.PreciseMatchTolerance {
			buckets[best].translations = append(buckets[best].translations, displayText(e))
		} else {
			orphans = append(orphans, e)
		}
	}

	type indexedLine struct {
		line  Line
		time  float64
		index int
	}
	var out []indexedLine
	for _, b := range buckets {
		if b.main.isMetadata {
			log.Debugf("%s Dropping credit line at %.2fs: %q", logcolors.LogYRCParser, b.main.time, displayText(b.main))
			continue
		}
		mainText := displayText(b.main)
		var kept []string
		for _, tr := range b.translations {
			tr = strings.TrimSpace(tr)
			if tr == "" || strings.EqualFold(tr, strings.TrimSpace(mainText)) {
				continue
			}
			kept = append(kept, tr)
		}
		out = append(out, indexedLine{
			line: Line{
				Time:            b.main.time,
				Text:            mainText,
				Words:           b.main.words,
				Translation:     strings.Join(kept, "\n"),
				IsPreciseTiming: true,
			},
			time:  b.main.time,
			index: b.main.originalIndex,
		})
	}
	for _, e := range orphans {
		out = append(out, indexedLine{
			line:  Line{Time: e.time, Text: displayText(e), Words: e.words},
			time:  e.time,
			index: e.originalIndex,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		d := out[i].time - out[j].time
		if d < opts.SortEpsilon && d > -opts.SortEpsilon {
			return out[i].index < out[j].index
		}
		return d < 0
	})

	lines := make([]Line, len(out))
	for i := range out {
		lines[i] = out[i].line
	}
	return applyDurations(lines, opts)
}
