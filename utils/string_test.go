package utils

import (
	"strings"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Plain text", "[00:12.34]Hello world"},
		{"Empty string", ""},
		{"UTF-8 lyrics", "[00:15.00]故事的小黄花"},
		{"Large repetitive payload", strings.Repeat("[00:10.00]la la la\n", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := CompressString(tt.input)
			if err != nil {
				t.Fatalf("CompressString failed: %v", err)
			}

			decompressed, err := DecompressString(compressed)
			if err != nil {
				t.Fatalf("DecompressString failed: %v", err)
			}

			if decompressed != tt.input {
				t.Errorf("Round trip mismatch: got %q, expected %q", decompressed, tt.input)
			}
		})
	}
}

func TestDecompressString_InvalidInput(t *testing.T) {
	if _, err := DecompressString("not-valid-base64!!!"); err == nil {
		t.Error("Expected error for invalid base64")
	}
	if _, err := DecompressString("bm90IGd6aXA="); err == nil {
		t.Error("Expected error for non-gzip data")
	}
}

func TestCompressString_Reduces(t *testing.T) {
	input := strings.Repeat("[00:10.00]same line again\n", 200)

	compressed, err := CompressString(input)
	if err != nil {
		t.Fatalf("CompressString failed: %v", err)
	}

	if len(compressed) >= len(input) {
		t.Errorf("Expected compression to shrink repetitive input: %d -> %d", len(input), len(compressed))
	}
}
