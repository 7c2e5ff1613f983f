package shot

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// separator joins the identifier and the original file name. The matcher
// checks it explicitly rather than relying on fixed-width ids.
const separator = "_"

// partitionLayout is the calendar-date form used for partition directories.
const partitionLayout = "2006-01-02"

// NewID produces a cryptographically random 128-bit identifier rendered in
// canonical lowercase hyphenated form.
func NewID() string {
	return uuid.NewString()
}

// PartitionFor returns the partition key for a capture started at t: the
// calendar date in the system's local timezone.
func PartitionFor(t time.Time) string {
	return t.Local().Format(partitionLayout)
}

// ValidPartition reports whether name is a well-formed partition directory
// name. No other directory names are expected under the storage root.
func ValidPartition(name string) bool {
	t, err := time.ParseInLocation(partitionLayout, name, time.Local)
	return err == nil && t.Format(partitionLayout) == name
}

// ComposeFileName returns the stored file name for an id and the renderer's
// original output name.
func ComposeFileName(id, original string) string {
	return id + separator + original
}

// MatchID reports whether fileName belongs to id. Membership is exact prefix
// plus separator, never substring containment.
func MatchID(fileName, id string) bool {
	if id == "" {
		return false
	}
	return strings.HasPrefix(fileName, id+separator)
}

// ParseFileName splits a stored file name into its identifier and original
// name. ok is false when the name does not begin with a well-formed
// identifier followed by the separator.
func ParseFileName(fileName string) (id, original string, ok bool) {
	idx := strings.Index(fileName, separator)
	if idx <= 0 || idx == len(fileName)-1 {
		return "", "", false
	}
	candidate := fileName[:idx]
	parsed, err := uuid.Parse(candidate)
	if err != nil || parsed.String() != candidate {
		return "", "", false
	}
	return candidate, fileName[idx+1:], true
}

// Claimed reports whether fileName already carries a well-formed identifier
// prefix. The invoker uses this to skip files claimed by prior captures when
// reconciling renderer output.
func Claimed(fileName string) bool {
	_, _, ok := ParseFileName(fileName)
	return ok
}
