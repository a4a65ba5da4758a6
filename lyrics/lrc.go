package lyrics

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dingyi222666/aura-music/logcolors"
)

// parseLRCLine parses one raw line of line-timestamp lyrics into zero or
// more entries. A line may carry several leading time tags sharing one
// content (the shared-timestamp idiom); each tag yields an independent entry
// with identical text/words but its own time. Content may contain inline
// <mm:ss.xx>word tags; a word's end time is the next tag's start, or
// opts.WordTagTail past its own start for the last tag of the line.
func parseLRCLine(raw string, index int, opts Options) []parsedLine {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var times []float64
	rest := raw
	for {
		loc := lrcTimeRegex.FindStringSubmatchIndex(rest)
		if loc == nil || loc[0] != 0 {
			break
		}
		t, err := parseTimeTag(rest[loc[2]:loc[3]], rest[loc[4]:loc[5]], rest[loc[6]:loc[7]])
		if err != nil {
			log.Warnf("%s Skipping malformed time tag in line %d: %v", logcolors.LogLRCParser, index, err)
			return nil
		}
		times = append(times, t)
		rest = rest[loc[1]:]
	}
	if len(times) == 0 {
		return nil
	}

	var words []Word
	tagCount := 0
	text := strings.TrimSpace(rest)

	if tags := inlineWordRegex.FindAllStringSubmatchIndex(rest, -1); len(tags) > 0 {
		tagCount = len(tags)
		for i, m := range tags {
			start, err := parseTimeTag(rest[m[2]:m[3]], rest[m[4]:m[5]], rest[m[6]:m[7]])
			if err != nil {
				log.Warnf("%s Skipping malformed word tag in line %d: %v", logcolors.LogLRCParser, index, err)
				continue
			}
			textEnd := len(rest)
			if i+1 < len(tags) {
				textEnd = tags[i+1][0]
			}
			end := start + opts.WordTagTail
			if i+1 < len(tags) {
				if next, err := parseTimeTag(rest[tags[i+1][2]:tags[i+1][3]], rest[tags[i+1][4]:tags[i+1][5]], rest[tags[i+1][6]:tags[i+1][7]]); err == nil {
					end = next
				}
			}
			words = append(words, newWord(rest[m[1]:textEnd], start, end))
		}
		words = mergePunctuationWords(words)
		text = strings.TrimSpace(inlineWordRegex.ReplaceAllString(rest, ""))
	}

	entries := make([]parsedLine, 0, len(times))
	for _, t := range times {
		entry := parsedLine{
			time:          t,
			text:          text,
			tagCount:      tagCount,
			originalIndex: index,
		}
		if len(words) > 0 {
			// Each duplicate gets its own copy: the final clamp pass mutates
			// word end times per emitted line.
			entry.words = append([]Word(nil), words...)
		}
		entry.isMetadata = isMetadataLine(displayText(entry))
		entries = append(entries, entry)
	}
	return entries
}

// sortEntries stable-sorts entries ascending by time; times closer than
// epsilon compare equal and fall back to original input order.
func sortEntries(entries []parsedLine, epsilon float64) {
	sort.SliceStable(entries, func(i, j int) bool {
		di := entries[i].time - entries[j].time
		if di < epsilon && di > -epsilon {
			return entries[i].originalIndex < entries[j].originalIndex
		}
		return di < 0
	})
}

// parseLRC parses line-timestamp format lyrics. Entries whose times fall
// within opts.GroupWindow of the group's first entry are folded into one
// output line: the highest-priority member becomes the line, the remaining
// meaningful members become its inline translation.
func parseLRC(content string, opts Options) []Line {
	var entries []parsedLine
	for i, raw := range strings.Split(content, "\n") {
		entries = append(entries, parseLRCLine(raw, i, opts)...)
	}
	log.Debugf("%s Parsed %d timed entries", logcolors.LogLRCParser, len(entries))
	if len(entries) == 0 {
		return nil
	}

	sortEntries(entries, 1e-6)

	var lines []Line
	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[end].time-entries[start].time < opts.GroupWindow {
			end++
		}
		group := entries[start:end]
		start = end

		mainIdx := electMain(group)
		main := group[mainIdx]
		if main.isMetadata {
			log.Debugf("%s Dropping credit group at %.2fs: %q", logcolors.LogLRCParser, main.time, displayText(main))
			continue
		}

		mainText := displayText(main)
		var translations []string
		for i := range group {
			if i == mainIdx {
				continue
			}
			if group[i].isMetadata || !hasMeaningfulContent(group[i]) {
				continue
			}
			text := displayText(group[i])
			if strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(mainText)) {
				continue
			}
			translations = append(translations, text)
		}

		lines = append(lines, Line{
			Time:        main.time,
			Text:        mainText,
			Words:       main.words,
			Translation: strings.Join(translations, "\n"),
		})
	}

	// Final clamp: no word may outlive the next line's start.
	for i := range lines {
		if i+1 >= len(lines) {
			break
		}
		next := lines[i+1].Time
		for w := range lines[i].Words {
			word := &lines[i].Words[w]
			if word.EndTime > next {
				word.EndTime = next
			}
			if word.EndTime <= word.StartTime {
				word.EndTime = word.StartTime + opts.MinWordDuration
			}
		}
	}

	return applyDurations(lines, opts)
}

// electMain picks the authoritative entry of a same-time group: the highest
// tagCount among non-metadata entries with meaningful content, else any
// entry with meaningful content, else the group's first entry. Ties go to
// the earlier original index. Returns the index within group.
func electMain(group []parsedLine) int {
	best := -1
	for i := range group {
		if group[i].isMetadata || !hasMeaningfulContent(group[i]) {
			continue
		}
		if best < 0 || group[i].tagCount > group[best].tagCount ||
			(group[i].tagCount == group[best].tagCount && group[i].originalIndex < group[best].originalIndex) {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	for i := range group {
		if hasMeaningfulContent(group[i]) {
			return i
		}
	}
	return 0
}
