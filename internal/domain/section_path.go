package domain

import (
	"fmt"
	"strings"
)

// SectionPathSeparator joins the squid and heading ids of a section path.
const SectionPathSeparator = "/"

// SectionPath is an ordered, non-empty sequence [page_squid, heading_1, ..., heading_n]
// naming one heading of an outline page. The canonical serialized form joins the
// elements with "/".
type SectionPath []string

// ParseSectionPath splits a serialized section path into its elements.
// Every element must be non-empty; further validity (ASCII, outline membership)
// is the validator's concern.
func ParseSectionPath(s string) (SectionPath, error) {
	if s == "" {
		return nil, fmt.Errorf("section path is empty")
	}
	parts := strings.Split(s, SectionPathSeparator)
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("section path %q has empty element at position %d", s, i)
		}
	}
	return SectionPath(parts), nil
}

// String returns the canonical serialized form.
func (p SectionPath) String() string {
	return strings.Join(p, SectionPathSeparator)
}

// Squid returns the page squid, the first element of the path.
func (p SectionPath) Squid() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Headings returns the heading ids below the squid, possibly empty for a
// whole-page path.
func (p SectionPath) Headings() []string {
	if len(p) <= 1 {
		return nil
	}
	return p[1:]
}
