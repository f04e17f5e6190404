package codec

import (
	"errors"
	"testing"

	"github.com/MadAppGang/sourcemap/internal/sourcemaperr"
	"github.com/MadAppGang/sourcemap/internal/table"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	// S1 from spec.md §8.
	input := "AAAA;AAAA,EAAA,OAAO,CAAC,GAAR,CAAY,aAAZ,CAAA,CAAA;AAAA"

	segs, err := Decode(input, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	tab := table.New()
	for _, s := range segs {
		tab.Append(s)
	}

	got := Encode(tab)
	if got != input {
		t.Errorf("round trip mismatch:\n got: %q\nwant: %q", got, input)
	}
}

func TestDecodeEmptyLines(t *testing.T) {
	segs, err := Decode("AAAA;;AAEA", DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[1].GeneratedLine != 2 {
		t.Errorf("second segment line = %d, want 2 (line skip preserved)", segs[1].GeneratedLine)
	}
}

func TestDecodeBias(t *testing.T) {
	segs, err := Decode("AAAA", DecodeOptions{SourceBias: 3, NameBias: 7})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if segs[0].Source != 3 {
		t.Errorf("Source = %d, want 3 (bias applied)", segs[0].Source)
	}
}

func TestDecodeRejectsBadSegmentLength(t *testing.T) {
	// Three fields is not a valid segment length (only 1, 4, 5 allowed).
	_, err := Decode("AAA", DecodeOptions{})
	if err == nil {
		t.Fatal("expected error for 3-field segment")
	}
	if !errors.Is(err, sourcemaperr.ErrMalformedMappings) {
		t.Errorf("expected ErrMalformedMappings, got %v", err)
	}
}

func TestDecodeRejectsInvalidDigit(t *testing.T) {
	_, err := Decode("!!!!", DecodeOptions{})
	if !errors.Is(err, sourcemaperr.ErrMalformedMappings) {
		t.Errorf("expected ErrMalformedMappings, got %v", err)
	}
}

func TestDecodeRejectsNegativeAbsolute(t *testing.T) {
	// A 4-field segment at column 0 followed by a 4-field segment whose
	// generated-column delta (-1) would drive the running column negative.
	_, err := Decode("AAAA,DAAA", DecodeOptions{})
	if err == nil {
		t.Fatal("expected error for negative absolute generated column")
	}
}

func TestEncodeEmptyTable(t *testing.T) {
	if got := Encode(table.New()); got != "" {
		t.Errorf("Encode(empty) = %q, want \"\"", got)
	}
}

func TestEncodeTrailingEmptyLinesTrimmed(t *testing.T) {
	tab := table.New()
	tab.Append(table.Segment{GeneratedLine: 0, GeneratedColumn: 0, Source: table.Absent, OriginalLine: table.Absent, OriginalColumn: table.Absent, Name: table.Absent})
	// No segments on lines 1, 2, ... so nothing should follow the first ';'-less emission.
	got := Encode(tab)
	if got != "A" {
		t.Errorf("Encode = %q, want %q", got, "A")
	}
}

func TestEncodeTrailingEmptyLinesPreservedUpToHighest(t *testing.T) {
	tab := table.New()
	tab.Append(table.Segment{GeneratedLine: 0, GeneratedColumn: 0, Source: table.Absent, OriginalLine: table.Absent, OriginalColumn: table.Absent, Name: table.Absent})
	tab.Append(table.Segment{GeneratedLine: 3, GeneratedColumn: 0, Source: table.Absent, OriginalLine: table.Absent, OriginalColumn: table.Absent, Name: table.Absent})

	got := Encode(tab)
	want := "A;;;A"
	if got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}
