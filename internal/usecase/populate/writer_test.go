package populate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/fileio"
)

func TestOutputName(t *testing.T) {
	cases := []struct {
		compression string
		want        string
	}{
		{"", "bm25.jsonl"},
		{"gz", "bm25.jsonl.gz"},
		{"xz", "bm25.jsonl.xz"},
	}
	for _, tc := range cases {
		got := OutputName("out", "bm25", tc.compression)
		if got != filepath.Join("out", tc.want) {
			t.Errorf("OutputName(%q) = %q, want %q", tc.compression, got, tc.want)
		}
	}
}

func TestWriteSubmission_OneLinePerPage(t *testing.T) {
	pages := []domain.Page{
		{Squid: "tqa2:L_0001", RunID: "r", Paragraphs: []domain.Paragraph{{ParaID: strings.Repeat("a", 40)}}},
		{Squid: "tqa2:L_0002", RunID: "r", Paragraphs: []domain.Paragraph{{ParaID: strings.Repeat("b", 40)}}},
	}

	var buf bytes.Buffer
	if err := WriteSubmission(&buf, pages); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for i, line := range lines {
		var page domain.Page
		if err := json.Unmarshal([]byte(line), &page); err != nil {
			t.Fatalf("line %d not valid JSON: %v", i, err)
		}
		if page.Squid != pages[i].Squid {
			t.Errorf("line %d squid = %s", i, page.Squid)
		}
	}
}

func TestWriteSubmissionFile_Compressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl.gz")
	pages := []domain.Page{{Squid: "tqa2:L_0001", RunID: "r"}}

	if err := WriteSubmissionFile(path, pages); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc, err := fileio.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rc.Close()
	scanner := bufio.NewScanner(rc)
	if !scanner.Scan() {
		t.Fatal("no lines in written file")
	}
	if !strings.Contains(scanner.Text(), "tqa2:L_0001") {
		t.Errorf("line = %q", scanner.Text())
	}
}
