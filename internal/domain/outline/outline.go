// Package outline holds the static page/heading structure that defines the
// valid targets for page population and submission validation. An Outline is
// built once, is immutable afterwards, and is shared read-only across all
// queries and files of a run.
package outline

import (
	"fmt"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
)

// Heading is one node of a page's section tree.
type Heading struct {
	ID       string
	Title    string
	Children []*Heading
}

// Page is one outline page: a squid, a display title and an ordered tree of
// headings.
type Page struct {
	Squid    string
	Title    string
	Headings []*Heading
}

// Facet is one enumerated section of a page: the full section path plus the
// heading title, in depth-first declaration order.
type Facet struct {
	Path    string
	Heading string
}

// Outline is the ownership root for a forest of page definitions.
type Outline struct {
	pages        []*Page
	bySquid      map[string]*Page
	facets       map[string][]Facet // squid -> depth-first facet enumeration
	sectionPaths map[string]struct{}
}

// New validates the page forest and builds the derived lookups.
func New(pages []*Page) (*Outline, error) {
	if len(pages) == 0 {
		return nil, domain.ErrEmptyOutline
	}

	o := &Outline{
		pages:        pages,
		bySquid:      make(map[string]*Page, len(pages)),
		facets:       make(map[string][]Facet, len(pages)),
		sectionPaths: make(map[string]struct{}),
	}

	for _, p := range pages {
		if p.Squid == "" {
			return nil, fmt.Errorf("outline page with empty squid")
		}
		if _, dup := o.bySquid[p.Squid]; dup {
			return nil, fmt.Errorf("squid %q: %w", p.Squid, domain.ErrDuplicateSquid)
		}
		o.bySquid[p.Squid] = p
		// the bare squid is the page's whole-page section path
		o.sectionPaths[p.Squid] = struct{}{}

		var facets []Facet
		for _, h := range p.Headings {
			facets = walk(facets, p.Squid, h)
		}
		o.facets[p.Squid] = facets
		for _, f := range facets {
			o.sectionPaths[f.Path] = struct{}{}
		}
	}

	return o, nil
}

// walk appends the facet for h and all its descendants, depth-first.
func walk(facets []Facet, prefix string, h *Heading) []Facet {
	if h == nil || h.ID == "" {
		return facets
	}
	path := prefix + domain.SectionPathSeparator + h.ID
	facets = append(facets, Facet{Path: path, Heading: h.Title})
	for _, child := range h.Children {
		facets = walk(facets, path, child)
	}
	return facets
}

// Pages returns the page definitions in declaration order.
func (o *Outline) Pages() []*Page {
	return o.pages
}

// Page looks up a page by squid.
func (o *Outline) Page(squid string) (*Page, bool) {
	p, ok := o.bySquid[squid]
	return p, ok
}

// HasSquid reports whether squid names an outline page.
func (o *Outline) HasSquid(squid string) bool {
	_, ok := o.bySquid[squid]
	return ok
}

// Squids returns all page squids in declaration order.
func (o *Outline) Squids() []string {
	squids := make([]string, len(o.pages))
	for i, p := range o.pages {
		squids[i] = p.Squid
	}
	return squids
}

// Facets returns the section enumeration of a page in depth-first declaration
// order, the order population walks the page.
func (o *Outline) Facets(squid string) []Facet {
	return o.facets[squid]
}

// QueryFacets returns a page's facets in submission wire form.
func (o *Outline) QueryFacets(squid string) []domain.QueryFacet {
	facets := o.facets[squid]
	if facets == nil {
		return nil
	}
	out := make([]domain.QueryFacet, len(facets))
	for i, f := range facets {
		out[i] = domain.QueryFacet{Heading: f.Heading, HeadingID: f.Path}
	}
	return out
}

// HasSectionPath reports whether the serialized path names a heading reachable
// from an outline page, or a page itself: origins of paragraphs retrieved for
// the page as a whole carry the bare squid as their section path.
func (o *Outline) HasSectionPath(path string) bool {
	_, ok := o.sectionPaths[path]
	return ok
}

// SectionPaths returns every valid serialized section path of every page,
// the whole-page path (bare squid) first.
func (o *Outline) SectionPaths() []string {
	paths := make([]string, 0, len(o.sectionPaths))
	for _, p := range o.pages {
		paths = append(paths, p.Squid)
		for _, f := range o.facets[p.Squid] {
			paths = append(paths, f.Path)
		}
	}
	return paths
}
