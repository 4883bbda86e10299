package runfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLine(t *testing.T) {
	e, err := ParseLine("tqa2:L_0001/T_0003 Q0 0depsilon 1 27.5 bm25-run", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.QueryID != "tqa2:L_0001/T_0003" {
		t.Errorf("QueryID = %q", e.QueryID)
	}
	if e.ParagraphID != "0depsilon" {
		t.Errorf("ParagraphID = %q", e.ParagraphID)
	}
	if e.Rank != 1 || e.Score != 27.5 {
		t.Errorf("Rank/Score = %d/%v", e.Rank, e.Score)
	}
	if e.RunID != "bm25-run" {
		t.Errorf("RunID = %q", e.RunID)
	}
}

func TestParseLine_Override(t *testing.T) {
	// With an override the run id column may be absent.
	e, err := ParseLine("q Q0 p 2 1.5", "forced")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.RunID != "forced" {
		t.Errorf("RunID = %q, want forced", e.RunID)
	}

	// And it replaces a present column.
	e, err = ParseLine("q Q0 p 2 1.5 original", "forced")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.RunID != "forced" {
		t.Errorf("RunID = %q, want forced", e.RunID)
	}
}

func TestParseLine_Errors(t *testing.T) {
	cases := []string{
		"q Q0 p 2",          // too few columns
		"q Q0 p 2 1.5",      // no run id, no override
		"q Q0 p x 1.5 r",    // bad rank
		"q Q0 p 2 nope r",   // bad score
	}
	for _, line := range cases {
		if _, err := ParseLine(line, ""); err == nil {
			t.Errorf("ParseLine(%q) = nil error, want error", line)
		}
	}
}

func TestLoad_TopK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.run")
	content := "q Q0 p1 1 3.0 r\n" +
		"q Q0 p2 2 2.0 r\n" +
		"\n" +
		"q Q0 p3 3 1.0 r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Load(path, 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2 (topK cut)", len(entries))
	}

	all, err := Load(path, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3 with topK=0", len(all))
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.run"), []byte("q Q0 p1 1 1.0 runA\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.run"), []byte("q Q0 p2 1 1.0 runB\n"), 0o644)
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)

	entries, err := LoadDir(dir, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}

	runs := map[string]bool{}
	for _, e := range entries {
		runs[e.RunID] = true
	}
	if !runs["runA"] || !runs["runB"] {
		t.Errorf("run ids = %v", runs)
	}
}
