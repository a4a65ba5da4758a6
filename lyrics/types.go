package lyrics

// Word represents a single word with its own highlight timing, in seconds.
type Word struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

// Line is one display line of the final lyric sequence.
// Time and Duration are in seconds. Words is only populated for word-synced
// sources; IsPreciseTiming reports whether those word times are authoritative.
type Line struct {
	Time            float64 `json:"time"`
	Text            string  `json:"text"`
	Words           []Word  `json:"words,omitempty"`
	Translation     string  `json:"translation,omitempty"`
	IsPreciseTiming bool    `json:"isPreciseTiming"`
	Duration        float64 `json:"duration,omitempty"`
	IsInterlude     bool    `json:"isInterlude,omitempty"`
}

// parsedLine is the parser-local intermediate record. It never escapes a
// parse call. tagCount ranks competing candidates at the same timestamp:
// 0 for plain lines, the inline word-tag count for enhanced LRC lines, and
// wordSyncedTagBase+wordCount for word-synced lines so they always outrank
// line-only candidates.
type parsedLine struct {
	time          float64
	text          string
	words         []Word
	tagCount      int
	originalIndex int
	isMetadata    bool
}

// wordSyncedTagBase is the tagCount offset for word-synced lines.
const wordSyncedTagBase = 1000

// Options holds the tunable tolerances of the parsing pipeline. All values
// are in seconds unless noted. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// GroupWindow is the strict threshold for merging same-time LRC entries.
	GroupWindow float64
	// SortEpsilon is the window within which two times are considered equal
	// for ordering purposes (ties fall back to original input order).
	SortEpsilon float64
	// WordTagTail is the duration given to the last inline word tag of a line.
	WordTagTail float64
	// MaxWordDuration caps a single word's highlight duration.
	MaxWordDuration float64
	// MinWordDuration is the floor a word is forced to after clamping.
	MinWordDuration float64
	// PreciseMatchTolerance is the external-translation match window for
	// word-synced lines, which typically carry a drifting secondary track.
	PreciseMatchTolerance float64
	// LineMatchTolerance is the external-translation match window for
	// line-timed lines.
	LineMatchTolerance float64
	// LastLineDuration is assigned to the final line, which has no successor.
	LastLineDuration float64
	// InterludeThreshold is the gap size that triggers interlude insertion.
	InterludeThreshold float64
	// InterludeHold is how long the previous line stays visible before the
	// synthesized interlude line takes over.
	InterludeHold float64
	// InsertInterludes toggles interlude synthesis in the post-processor.
	InsertInterludes bool
}

// DefaultOptions returns the tolerances the pipeline was tuned with.
func DefaultOptions() Options {
	return Options{
		GroupWindow:           0.1,
		SortEpsilon:           0.01,
		WordTagTail:           1.0,
		MaxWordDuration:       2.0,
		MinWordDuration:       0.1,
		PreciseMatchTolerance: 3.0,
		LineMatchTolerance:    0.25,
		LastLineDuration:      5.0,
		InterludeThreshold:    10.0,
		InterludeHold:         5.0,
		InsertInterludes:      true,
	}
}
