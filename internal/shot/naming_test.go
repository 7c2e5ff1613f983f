package shot

import (
	"strings"
	"testing"
	"time"
)

func TestNewID_Canonical(t *testing.T) {
	id := NewID()

	if len(id) != 36 {
		t.Fatalf("len(id) = %d, want 36", len(id))
	}
	if id != strings.ToLower(id) {
		t.Errorf("id %q is not lowercase", id)
	}
	for _, pos := range []int{8, 13, 18, 23} {
		if id[pos] != '-' {
			t.Errorf("id %q missing hyphen at position %d", id, pos)
		}
	}
}

func TestNewID_Unique(t *testing.T) {
	const n = 1000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestPartitionFor(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "plain date",
			in:   time.Date(2024, 6, 15, 12, 30, 0, 0, time.Local),
			want: "2024-06-15",
		},
		{
			name: "month boundary before",
			in:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.Local),
			want: "2024-01-31",
		},
		{
			name: "month boundary after",
			in:   time.Date(2024, 2, 1, 0, 0, 1, 0, time.Local),
			want: "2024-02-01",
		},
		{
			name: "year boundary",
			in:   time.Date(2023, 12, 31, 23, 59, 59, 0, time.Local),
			want: "2023-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PartitionFor(tt.in); got != tt.want {
				t.Errorf("PartitionFor(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPartitionFor_BoundaryDistinct(t *testing.T) {
	before := PartitionFor(time.Date(2024, 1, 31, 23, 59, 59, 0, time.Local))
	after := PartitionFor(time.Date(2024, 2, 1, 0, 0, 1, 0, time.Local))
	if before == after {
		t.Errorf("timestamps across midnight share partition %q", before)
	}
}

func TestValidPartition(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"2024-06-15", true},
		{"1999-01-01", true},
		{"2024-6-15", false},
		{"2024-13-01", false},
		{"notadate", false},
		{"2024-06-15x", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidPartition(tt.name); got != tt.valid {
			t.Errorf("ValidPartition(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestComposeFileName(t *testing.T) {
	got := ComposeFileName("abc", "page.png")
	if got != "abc_page.png" {
		t.Errorf("ComposeFileName = %q, want abc_page.png", got)
	}
}

func TestMatchID(t *testing.T) {
	id := NewID()
	fileName := ComposeFileName(id, "shot.png")

	if !MatchID(fileName, id) {
		t.Errorf("MatchID(%q, %q) = false, want true", fileName, id)
	}

	// Substring containment without the separator must not match.
	if MatchID("prefix-"+id+".png", id) {
		t.Error("MatchID matched without separator after id")
	}
	if MatchID(id+".png", id) {
		t.Error("MatchID matched id followed by non-separator")
	}
	if MatchID(fileName, "") {
		t.Error("MatchID matched empty id")
	}
}

func TestParseFileName(t *testing.T) {
	id := NewID()

	t.Run("well-formed", func(t *testing.T) {
		gotID, gotOriginal, ok := ParseFileName(ComposeFileName(id, "example.com.png"))
		if !ok {
			t.Fatal("ok = false, want true")
		}
		if gotID != id {
			t.Errorf("id = %q, want %q", gotID, id)
		}
		if gotOriginal != "example.com.png" {
			t.Errorf("original = %q, want example.com.png", gotOriginal)
		}
	})

	t.Run("rejects non-uuid prefix", func(t *testing.T) {
		if _, _, ok := ParseFileName("screenshot_001.png"); ok {
			t.Error("ok = true for non-uuid prefix")
		}
	})

	t.Run("rejects uppercase uuid", func(t *testing.T) {
		if _, _, ok := ParseFileName(strings.ToUpper(id) + "_x.png"); ok {
			t.Error("ok = true for non-canonical uuid form")
		}
	})

	t.Run("rejects missing original name", func(t *testing.T) {
		if _, _, ok := ParseFileName(id + "_"); ok {
			t.Error("ok = true for empty original name")
		}
	})

	t.Run("rejects no separator", func(t *testing.T) {
		if _, _, ok := ParseFileName("plainfile.png"); ok {
			t.Error("ok = true for name without separator")
		}
	})
}

func TestClaimed(t *testing.T) {
	if !Claimed(ComposeFileName(NewID(), "a.png")) {
		t.Error("Claimed = false for claimed file")
	}
	if Claimed("render-output-17.png") {
		t.Error("Claimed = true for renderer-named file")
	}
}
