package outline

import (
	"errors"
	"reflect"
	"testing"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
)

func testPages() []*Page {
	return []*Page{
		{
			Squid: "tqa2:L_0001",
			Title: "Photosynthesis",
			Headings: []*Heading{
				{ID: "T_0003", Title: "Light reactions", Children: []*Heading{
					{ID: "T_0009", Title: "Photosystem II"},
				}},
				{ID: "T_0005", Title: "Dark reactions"},
			},
		},
		{Squid: "tqa2:L_0002", Title: "Respiration"},
	}
}

func TestNew_FacetEnumeration(t *testing.T) {
	o, err := New(testPages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	facets := o.Facets("tqa2:L_0001")
	want := []Facet{
		{Path: "tqa2:L_0001/T_0003", Heading: "Light reactions"},
		{Path: "tqa2:L_0001/T_0003/T_0009", Heading: "Photosystem II"},
		{Path: "tqa2:L_0001/T_0005", Heading: "Dark reactions"},
	}
	if !reflect.DeepEqual(facets, want) {
		t.Errorf("Facets = %v, want %v", facets, want)
	}

	if got := o.Facets("tqa2:L_0002"); len(got) != 0 {
		t.Errorf("heading-less page facets = %v, want none", got)
	}
}

func TestOutline_Lookups(t *testing.T) {
	o, err := New(testPages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !o.HasSquid("tqa2:L_0002") {
		t.Error("HasSquid missed a declared page")
	}
	if o.HasSquid("tqa2:L_9999") {
		t.Error("HasSquid accepted an undeclared page")
	}
	if !o.HasSectionPath("tqa2:L_0001/T_0003/T_0009") {
		t.Error("HasSectionPath missed a nested heading")
	}
	if !o.HasSectionPath("tqa2:L_0001") {
		t.Error("HasSectionPath missed the whole-page path (bare squid)")
	}
	if o.HasSectionPath("tqa2:L_0001/T_0009") {
		t.Error("HasSectionPath accepted a path skipping the parent heading")
	}
	if o.HasSectionPath("tqa2:L_9999") {
		t.Error("HasSectionPath accepted an undeclared squid")
	}
	if got := o.Squids(); !reflect.DeepEqual(got, []string{"tqa2:L_0001", "tqa2:L_0002"}) {
		t.Errorf("Squids = %v", got)
	}
}

func TestQueryFacets_WireForm(t *testing.T) {
	o, err := New(testPages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	qf := o.QueryFacets("tqa2:L_0001")
	if len(qf) != 3 {
		t.Fatalf("len = %d, want 3", len(qf))
	}
	if qf[0].HeadingID != "tqa2:L_0001/T_0003" || qf[0].Heading != "Light reactions" {
		t.Errorf("facet[0] = %+v", qf[0])
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, domain.ErrEmptyOutline) {
		t.Errorf("empty outline error = %v, want ErrEmptyOutline", err)
	}

	dup := []*Page{{Squid: "tqa2:L_0001"}, {Squid: "tqa2:L_0001"}}
	if _, err := New(dup); !errors.Is(err, domain.ErrDuplicateSquid) {
		t.Errorf("duplicate squid error = %v, want ErrDuplicateSquid", err)
	}

	if _, err := New([]*Page{{Squid: ""}}); err == nil {
		t.Error("empty squid accepted")
	}
}
