package populate

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/fileio"
)

// OutputName derives the submission filename for a run id. compression is
// "", "gz" or "xz".
func OutputName(dir, runID, compression string) string {
	name := runID + ".jsonl"
	if compression != "" {
		name += "." + compression
	}
	return filepath.Join(dir, name)
}

// WriteSubmission writes pages as JSON lines. Optional fields that are empty
// are omitted by the wire shapes themselves.
func WriteSubmission(w io.Writer, pages []domain.Page) error {
	enc := json.NewEncoder(w)
	for i := range pages {
		if err := enc.Encode(&pages[i]); err != nil {
			return fmt.Errorf("encode page %s: %w", pages[i].Squid, err)
		}
	}
	return nil
}

// WriteSubmissionFile writes pages to a possibly compressed file.
func WriteSubmissionFile(path string, pages []domain.Page) error {
	wc, err := fileio.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSubmission(wc, pages); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
