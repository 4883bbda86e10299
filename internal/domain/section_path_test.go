package domain

import (
	"reflect"
	"testing"
)

func TestParseSectionPath(t *testing.T) {
	p, err := ParseSectionPath("tqa2:L_0001/T_0003/T_0009")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Squid() != "tqa2:L_0001" {
		t.Errorf("Squid = %q, want tqa2:L_0001", p.Squid())
	}
	if got := p.Headings(); !reflect.DeepEqual(got, []string{"T_0003", "T_0009"}) {
		t.Errorf("Headings = %v", got)
	}
	if p.String() != "tqa2:L_0001/T_0003/T_0009" {
		t.Errorf("String = %q", p.String())
	}
}

func TestParseSectionPath_SquidOnly(t *testing.T) {
	p, err := ParseSectionPath("tqa2:L_0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Squid() != "tqa2:L_0001" {
		t.Errorf("Squid = %q", p.Squid())
	}
	if p.Headings() != nil {
		t.Errorf("Headings = %v, want nil for whole-page path", p.Headings())
	}
}

func TestParseSectionPath_Invalid(t *testing.T) {
	for _, s := range []string{"", "a//b", "/a", "a/"} {
		if _, err := ParseSectionPath(s); err == nil {
			t.Errorf("ParseSectionPath(%q) = nil error, want error", s)
		}
	}
}
