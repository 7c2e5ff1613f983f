package journal

import (
	"testing"

	"shutter/internal/shot"
)

func TestRecordAndLookup(t *testing.T) {
	j, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	id := shot.NewID()
	j.Record(Entry{
		ID:         id,
		URL:        "https://example.com",
		Status:     StatusOK,
		FileName:   id + "_shot.png",
		SizeBytes:  1234,
		DurationMS: 850,
	})

	got := j.Lookup(id)
	if got == nil {
		t.Fatal("Lookup returned nil for recorded entry")
	}
	if got.URL != "https://example.com" {
		t.Errorf("URL = %q, want https://example.com", got.URL)
	}
	if got.Status != StatusOK {
		t.Errorf("Status = %q, want %q", got.Status, StatusOK)
	}
	if got.SizeBytes != 1234 {
		t.Errorf("SizeBytes = %d, want 1234", got.SizeBytes)
	}
	if got.CreatedAt == 0 {
		t.Error("CreatedAt was not defaulted")
	}
}

func TestRecord_FailedAttempt(t *testing.T) {
	j, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	id := shot.NewID()
	j.Record(Entry{
		ID:        id,
		URL:       "https://example.com",
		Status:    StatusFailed,
		ErrorCode: "NO_OUTPUT",
	})

	got := j.Lookup(id)
	if got == nil {
		t.Fatal("Lookup returned nil")
	}
	if got.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", got.Status, StatusFailed)
	}
	if got.ErrorCode != "NO_OUTPUT" {
		t.Errorf("ErrorCode = %q, want NO_OUTPUT", got.ErrorCode)
	}
}

func TestLookup_Unknown(t *testing.T) {
	j, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	if got := j.Lookup(shot.NewID()); got != nil {
		t.Errorf("Lookup = %+v, want nil for unknown id", got)
	}
}

func TestNilJournalIsSafe(t *testing.T) {
	var j *Journal

	// A disabled journal must be a no-op, not a panic.
	j.Record(Entry{ID: shot.NewID(), URL: "x", Status: StatusOK})
	if got := j.Lookup("anything"); got != nil {
		t.Errorf("Lookup on nil journal = %+v, want nil", got)
	}
	if err := j.Close(); err != nil {
		t.Errorf("Close on nil journal = %v, want nil", err)
	}
}
