package lyrics

// interludeText is the placeholder rendered while no lyric line is active.
const interludeText = "♪"

// applyDurations derives each line's on-screen duration from its successor
// and, when enabled, synthesizes a placeholder interlude line inside gaps
// larger than opts.InterludeThreshold. The previous line then stays visible
// for opts.InterludeHold before the interlude takes over. Interludes are
// never inserted after an existing interlude line, which makes the pass
// idempotent. The final line, having no successor, gets
// opts.LastLineDuration.
func applyDurations(lines []Line, opts Options) []Line {
	if len(lines) == 0 {
		return lines
	}

	for i := range lines {
		if i+1 < len(lines) {
			lines[i].Duration = lines[i+1].Time - lines[i].Time
		} else {
			lines[i].Duration = opts.LastLineDuration
		}
	}

	if !opts.InsertInterludes {
		return lines
	}

	out := make([]Line, 0, len(lines))
	for i := range lines {
		out = append(out, lines[i])
		if i+1 >= len(lines) {
			break
		}
		cur := &out[len(out)-1]
		gap := lines[i+1].Time - cur.Time
		if cur.IsInterlude || gap <= opts.InterludeThreshold || gap <= opts.InterludeHold {
			continue
		}
		start := cur.Time + opts.InterludeHold
		cur.Duration = opts.InterludeHold
		out = append(out, Line{
			Time:        start,
			Text:        interludeText,
			Duration:    lines[i+1].Time - start,
			IsInterlude: true,
		})
	}
	return out
}
