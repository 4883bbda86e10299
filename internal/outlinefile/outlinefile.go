// Package outlinefile reads outline files in JSON-lines form into the domain
// outline. One line describes one page:
//
//	{"squid": "tqa2:Foo", "title": "Foo", "headings": [{"id": "h1", "title": "H1", "children": [...]}]}
//
// Parsing the benchmark's binary outline format is out of scope; this package
// consumes its JSON export.
package outlinefile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/outline"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/fileio"
)

const maxLineSize = 16 << 20

type headingRecord struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Children []headingRecord `json:"children,omitempty"`
}

type pageRecord struct {
	Squid    string          `json:"squid"`
	Title    string          `json:"title"`
	Headings []headingRecord `json:"headings"`
}

// Load reads an outline file, possibly compressed, and builds the outline.
func Load(path string) (*outline.Outline, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var pages []*outline.Page
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec pageRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: parse outline page: %w", path, lineNo, err)
		}
		pages = append(pages, toPage(rec))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	o, err := outline.New(pages)
	if err != nil {
		return nil, fmt.Errorf("outline %s: %w", path, err)
	}
	return o, nil
}

func toPage(rec pageRecord) *outline.Page {
	return &outline.Page{
		Squid:    rec.Squid,
		Title:    rec.Title,
		Headings: toHeadings(rec.Headings),
	}
}

func toHeadings(recs []headingRecord) []*outline.Heading {
	if len(recs) == 0 {
		return nil
	}
	headings := make([]*outline.Heading, len(recs))
	for i, r := range recs {
		headings[i] = &outline.Heading{
			ID:       r.ID,
			Title:    r.Title,
			Children: toHeadings(r.Children),
		}
	}
	return headings
}
