package carpages

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/outline"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/run"
	validateuc "github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/validate"
)

func TestNew_NoOutline(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error when no outline provided")
	}
}

func testOutline(t *testing.T) *outline.Outline {
	t.Helper()
	o, err := outline.New([]*outline.Page{
		{Squid: "tqa2:L_0001", Title: "Photosynthesis", Headings: []*outline.Heading{
			{ID: "T_0003", Title: "Light reactions"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestClient_PopulateAndValidate(t *testing.T) {
	client, err := New(WithOutline(testOutline(t)), WithTopK(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	id := strings.Repeat("c", 40)
	rr := run.New("sdk-run", []run.Entry{
		{QueryID: "tqa2:L_0001/T_0003", ParagraphID: id, Rank: 1, Score: 1.0, RunID: "sdk-run"},
	})
	pages, err := client.Populate(context.Background(), rr)
	if err != nil {
		t.Fatalf("populate: %v", err)
	}
	if len(pages) != 1 || pages[0].Paragraphs[0].ParaID != id {
		t.Fatalf("pages = %v", pages)
	}

	diags, err := client.ValidatePages(context.Background(), pages)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
}

func TestClient_ValidateWithIDList(t *testing.T) {
	idList := filepath.Join(t.TempDir(), "ids.txt")
	known := strings.Repeat("d", 40)
	if err := os.WriteFile(idList, []byte(known+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	client, err := New(
		WithOutline(testOutline(t)),
		WithIDList(idList),
		WithValidation(validateuc.Default()),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	good := `{"squid":"tqa2:L_0001","title":"t","run_id":"r","query_facets":[],"paragraphs":[{"para_id":"` + known + `"}]}` + "\n"
	report, err := client.Validate(context.Background(), strings.NewReader(good), "good")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !report.Correct() {
		t.Errorf("diagnostics = %v", report.Diagnostics)
	}

	unknown := strings.Repeat("e", 40)
	bad := `{"squid":"tqa2:L_0001","title":"t","run_id":"r","query_facets":[],"paragraphs":[{"para_id":"` + unknown + `"}]}` + "\n"
	report, err = client.Validate(context.Background(), strings.NewReader(bad), "bad")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.Correct() {
		t.Error("unknown paragraph id accepted")
	}
}
