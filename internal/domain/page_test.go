package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

// Absent optional fields must be omitted on the wire, while a decoded empty
// collection must stay detectable as "present but empty".
func TestPageJSON_AbsentFieldsOmitted(t *testing.T) {
	page := Page{
		Squid:       "tqa2:L_0001",
		Title:       "Photosynthesis",
		RunID:       "run1",
		QueryFacets: []QueryFacet{{Heading: "Light", HeadingID: "T_0003"}},
		Paragraphs:  []Paragraph{{ParaID: strings.Repeat("a", 40)}},
	}
	data, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "paragraph_origins") {
		t.Errorf("nil origins serialized: %s", data)
	}
	if strings.Contains(string(data), "para_body") {
		t.Errorf("nil para_body serialized: %s", data)
	}
}

func TestPageJSON_EmptyVsAbsent(t *testing.T) {
	var withEmpty Page
	if err := json.Unmarshal([]byte(`{"squid":"s","paragraphs":[],"paragraph_origins":[]}`), &withEmpty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if withEmpty.Paragraphs == nil {
		t.Error("present empty paragraphs decoded as nil")
	}
	if withEmpty.ParagraphOrigins == nil {
		t.Error("present empty origins decoded as nil")
	}

	var withAbsent Page
	if err := json.Unmarshal([]byte(`{"squid":"s"}`), &withAbsent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if withAbsent.Paragraphs != nil {
		t.Error("absent paragraphs decoded as non-nil")
	}
	if withAbsent.ParagraphOrigins != nil {
		t.Error("absent origins decoded as non-nil")
	}
}

func TestOriginRankRoundTrip(t *testing.T) {
	rank := 1
	o := ParagraphOrigin{ParaID: strings.Repeat("b", 40), SectionPath: "s/h", RankScore: 0.5, Rank: &rank}
	data, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back ParagraphOrigin
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Rank == nil || *back.Rank != 1 {
		t.Errorf("Rank = %v, want 1", back.Rank)
	}

	o.Rank = nil
	data, _ = json.Marshal(o)
	if strings.Contains(string(data), `"rank"`) {
		t.Errorf("nil rank serialized: %s", data)
	}
}

func TestOriginsBySection(t *testing.T) {
	page := Page{
		ParagraphOrigins: []ParagraphOrigin{
			{ParaID: "p1", SectionPath: "s/a", RankScore: 3},
			{ParaID: "p2", SectionPath: "s/b", RankScore: 2},
			{ParaID: "p3", SectionPath: "s/a", RankScore: 1},
		},
	}
	grouped := page.OriginsBySection()
	if len(grouped) != 2 {
		t.Fatalf("groups = %d, want 2", len(grouped))
	}
	a := grouped["s/a"]
	if len(a) != 2 || a[0].ParaID != "p1" || a[1].ParaID != "p3" {
		t.Errorf("s/a group out of encounter order: %v", a)
	}

	var noOrigins Page
	if noOrigins.OriginsBySection() != nil {
		t.Error("nil origins should group to nil")
	}
}
