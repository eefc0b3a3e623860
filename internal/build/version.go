package build

import (
	"strconv"
	"strings"
)

// Version is a parsed dotted build number. The original text is kept for display.
type Version struct {
	raw      string
	segments []int
}

// ParseVersion splits s on dots and converts each segment to an integer.
// Segments that are not plain integers count as 0, so any string has a position
// in the ordering.
func ParseVersion(s string) Version {
	parts := strings.Split(s, ".")
	segments := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			n = 0
		}
		segments[i] = n
	}
	return Version{raw: s, segments: segments}
}

// String returns the text the version was parsed from
func (v Version) String() string {
	return v.raw
}

// Compare returns -1, 0 or +1. Segments are compared left to right; when one
// version is a prefix of the other the shorter one sorts first.
func (v Version) Compare(o Version) int {
	for i := 0; i < len(v.segments) && i < len(o.segments); i++ {
		switch {
		case v.segments[i] < o.segments[i]:
			return -1
		case v.segments[i] > o.segments[i]:
			return 1
		}
	}
	switch {
	case len(v.segments) < len(o.segments):
		return -1
	case len(v.segments) > len(o.segments):
		return 1
	}
	// Keep the order total for keys like "1.01" and "1.1"
	return strings.Compare(v.raw, o.raw)
}

// Less reports whether v sorts before o
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Compare orders two build strings
func Compare(a, b string) int {
	return ParseVersion(a).Compare(ParseVersion(b))
}
