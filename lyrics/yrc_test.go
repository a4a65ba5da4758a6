package lyrics

import (
	"math"
	"testing"
)

func TestParseYRC_WordSyncedLine(t *testing.T) {
	lines := parseYRC("[12340,2500](12340,500,0)Hello(12840,600,0)World", DefaultOptions())

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if math.Abs(line.Time-12.34) > 1e-9 {
		t.Errorf("Expected time 12.34, got %v", line.Time)
	}
	if !line.IsPreciseTiming {
		t.Error("Word-synced line must report precise timing")
	}
	if len(line.Words) != 2 {
		t.Fatalf("Expected 2 words, got %d", len(line.Words))
	}
	expected := []Word{
		{StartTime: 12.34, EndTime: 12.84, Text: "Hello"},
		{StartTime: 12.84, EndTime: 13.44, Text: "World"},
	}
	for i, want := range expected {
		got := line.Words[i]
		if got.Text != want.Text ||
			math.Abs(got.StartTime-want.StartTime) > 1e-9 ||
			math.Abs(got.EndTime-want.EndTime) > 1e-9 {
			t.Errorf("Word %d: expected %+v, got %+v", i, want, got)
		}
	}
	if line.Text != "HelloWorld" {
		t.Errorf("Expected reconstructed text 'HelloWorld', got %q", line.Text)
	}
}

func TestParseYRC_MetadataObjectSkipped(t *testing.T) {
	content := `{"t":0,"c":[{"tx":"作词: "},{"tx":"someone"}]}
[10000,2000](10000,500,0)Hello(10500,700,0)World`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line (metadata object skipped), got %d", len(lines))
	}
	if lines[0].Text != "HelloWorld" {
		t.Errorf("Expected 'HelloWorld', got %q", lines[0].Text)
	}
}

func TestParseYRC_MalformedObjectFallsThrough(t *testing.T) {
	// Brace-wrapped but not a valid metadata object: the line falls through
	// the dispatch chain and, matching nothing, contributes nothing.
	content := `{not valid json
[10000,2000](10000,500,0)Hi`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
}

func TestParseYRC_FallbackLineBecomesTranslation(t *testing.T) {
	content := `[10000,2000](10000,500,0)Hello(10500,700,0)World
[00:10.50]你好世界`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 1 {
		t.Fatalf("Expected 1 bucketed line, got %d", len(lines))
	}
	if lines[0].Translation != "你好世界" {
		t.Errorf("Expected translation '你好世界', got %q", lines[0].Translation)
	}
	if !lines[0].IsPreciseTiming {
		t.Error("Bucketed line must keep precise timing")
	}
}

func TestParseYRC_FarFallbackBecomesOrphan(t *testing.T) {
	// 8 seconds past the only bucket is outside the 3s tolerance.
	content := `[10000,2000](10000,500,0)Hello
[00:18.00]Stray line`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 2 {
		t.Fatalf("Expected bucket plus orphan, got %d lines", len(lines))
	}
	if lines[0].Translation != "" {
		t.Errorf("Bucket should have no translation, got %q", lines[0].Translation)
	}
	orphan := lines[1]
	if orphan.Text != "Stray line" {
		t.Errorf("Expected orphan 'Stray line', got %q", orphan.Text)
	}
	if orphan.IsPreciseTiming {
		t.Error("Orphan lines are not precisely timed")
	}
}

func TestParseYRC_NearestBucketWins(t *testing.T) {
	content := `[10000,2000](10000,500,0)First
[20000,2000](20000,500,0)Second
[00:19.50]translation near second`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0].Translation != "" {
		t.Errorf("First bucket should be empty, got %q", lines[0].Translation)
	}
	if lines[1].Translation != "translation near second" {
		t.Errorf("Expected translation on second bucket, got %q", lines[1].Translation)
	}
}

func TestParseYRC_CreditWordSyncedLineDropped(t *testing.T) {
	content := `[1000,2000](1000,500,0)作曲：(1500,500,0)某人
[10000,2000](10000,500,0)Real(10500,500,0)Lyrics`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 1 {
		t.Fatalf("Expected credit bucket dropped, got %d lines", len(lines))
	}
	if lines[0].Text != "RealLyrics" {
		t.Errorf("Expected 'RealLyrics', got %q", lines[0].Text)
	}
}

func TestParseYRC_BareHeaderLine(t *testing.T) {
	lines := parseYRC("[5000,3000]Spoken intro without word groups", DefaultOptions())

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "Spoken intro without word groups" {
		t.Errorf("Expected bracket content as text, got %q", lines[0].Text)
	}
	if len(lines[0].Words) != 0 {
		t.Errorf("Expected no words, got %d", len(lines[0].Words))
	}
	if !lines[0].IsPreciseTiming {
		t.Error("Header-matched line still counts as word-synced")
	}
}

func TestParseYRC_NoWordSyncedEntriesFallsBack(t *testing.T) {
	content := `{"t":0,"c":[{"tx":"info"}]}
[00:10.00]Plain one
[00:12.00]Plain two`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 2 {
		t.Fatalf("Expected 2 plain lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line.IsPreciseTiming {
			t.Errorf("Fallback-only output must not be precise, line %q", line.Text)
		}
	}
}

func TestParseYRC_RunawayWordDurationSanitized(t *testing.T) {
	// 5s word duration gets clamped to the 2s ceiling and the next line's
	// start, whichever is sooner.
	content := `[10000,6000](10000,5000,0)Looong
[11000,1000](11000,500,0)Next`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	w := lines[0].Words[0]
	if w.EndTime > lines[1].Time+1e-9 {
		t.Errorf("Word ends at %v, past next line start %v", w.EndTime, lines[1].Time)
	}
	if w.EndTime > w.StartTime+DefaultOptions().MaxWordDuration+1e-9 {
		t.Errorf("Word duration exceeds ceiling: %v", w.EndTime-w.StartTime)
	}
	if w.EndTime <= w.StartTime {
		t.Error("Sanitized word must keep a positive duration")
	}
}

func TestParseYRC_PunctuationMerged(t *testing.T) {
	content := `[10000,3000](10000,500,0)Hello(10500,200,0)!(10700,600,0)World`

	lines := parseYRC(content, DefaultOptions())

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if len(lines[0].Words) != 2 {
		t.Fatalf("Expected punctuation merged into 2 words, got %d", len(lines[0].Words))
	}
	if lines[0].Words[0].Text != "Hello!" {
		t.Errorf("Expected merged word 'Hello!', got %q", lines[0].Words[0].Text)
	}
	if math.Abs(lines[0].Words[0].EndTime-10.7) > 1e-9 {
		t.Errorf("Merged word should keep the punctuation end time, got %v", lines[0].Words[0].EndTime)
	}
}
