package fileio

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func roundTrip(t *testing.T, path string) string {
	t.Helper()

	wc, err := Create(path)
	if err != nil {
		t.Fatalf("Create(%s): %v", path, err)
	}
	if _, err := io.WriteString(wc, "hello\nworld\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := wc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rc, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plain.jsonl", "zipped.jsonl.gz", "xzed.jsonl.xz"} {
		if got := roundTrip(t, filepath.Join(dir, name)); got != "hello\nworld\n" {
			t.Errorf("%s: round trip = %q", name, got)
		}
	}
}

// Compressed output must actually differ from the plain text on disk.
func TestCreate_GzipCompresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gz")
	wc, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	io.WriteString(wc, "hello")
	wc.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	if string(raw) == "hello" {
		t.Error("gz file stored plain text")
	}
	// gzip magic bytes
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Errorf("missing gzip header: % x", raw[:2])
	}
}

func TestCreate_Bzip2Unsupported(t *testing.T) {
	if _, err := Create(filepath.Join(t.TempDir(), "out.bz2")); err == nil {
		t.Fatal("expected error for bzip2 writing")
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
