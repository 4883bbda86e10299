package domain

// The wire shapes below mirror the JSON-lines submission format one to one.
// Optional collections distinguish "absent" (nil) from "present but empty"
// (non-nil, zero length): the wire format requires absent fields to be omitted
// entirely, and `omitempty` guarantees that on the way out while a decoded
// empty collection stays detectable on the way in.

// QueryFacet names one heading of a page that acts as a retrieval query.
type QueryFacet struct {
	Heading   string `json:"heading"`
	HeadingID string `json:"heading_id"`
}

// ParBody is one span of paragraph text, optionally carrying an entity link.
type ParBody struct {
	Text        string `json:"text"`
	Entity      string `json:"entity,omitempty"`
	EntityName  string `json:"entity_name,omitempty"`
	LinkSection string `json:"link_section,omitempty"`
}

// Paragraph is a reference to a corpus paragraph. The minimal representation
// is the id alone; ParaBody is attached only when text inclusion is requested.
type Paragraph struct {
	ParaID   string    `json:"para_id"`
	ParaBody []ParBody `json:"para_body,omitempty"`
}

// HasBody reports whether body text is attached (absent and spuriously empty
// are distinct states).
func (p Paragraph) HasBody() bool {
	return len(p.ParaBody) > 0
}

// ParagraphOrigin records that a paragraph was ranked for a section at a given
// score. Rank is optional; when present the lowest valid value is 1.
type ParagraphOrigin struct {
	ParaID      string  `json:"para_id"`
	SectionPath string  `json:"section_path"`
	RankScore   float64 `json:"rank_score"`
	Rank        *int    `json:"rank,omitempty"`
}

// Page is one populated page, one line of a JSON-lines submission file.
type Page struct {
	Squid            string            `json:"squid"`
	Title            string            `json:"title"`
	RunID            string            `json:"run_id"`
	QueryFacets      []QueryFacet      `json:"query_facets"`
	Paragraphs       []Paragraph       `json:"paragraphs"`
	ParagraphOrigins []ParagraphOrigin `json:"paragraph_origins,omitempty"`
}

// ParagraphIDs returns the ids of all referenced paragraphs in page order,
// duplicates included.
func (p *Page) ParagraphIDs() []string {
	ids := make([]string, len(p.Paragraphs))
	for i, para := range p.Paragraphs {
		ids[i] = para.ParaID
	}
	return ids
}

// OriginsBySection groups the page's origins by section path, preserving
// encounter order within each group.
func (p *Page) OriginsBySection() map[string][]ParagraphOrigin {
	if p.ParagraphOrigins == nil {
		return nil
	}
	grouped := make(map[string][]ParagraphOrigin)
	for _, o := range p.ParagraphOrigins {
		grouped[o.SectionPath] = append(grouped[o.SectionPath], o)
	}
	return grouped
}
