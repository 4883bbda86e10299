// Package runfile parses TREC-format run files into ranked run entries.
// A run line has six whitespace-separated columns:
//
//	query_id Q0 paragraph_id rank score run_id
//
// The second column is a literal placeholder and is ignored.
package runfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/run"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/fileio"
)

// maxLineSize bounds a single run line; real run lines are well under 1 KiB.
const maxLineSize = 1 << 20

// ParseLine parses one run line. When runIDOverride is non-empty it replaces
// the run id column, which may then be absent.
func ParseLine(line string, runIDOverride string) (run.Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return run.Entry{}, fmt.Errorf("run line has %d columns, want at least 5: %q", len(fields), line)
	}

	rank, err := strconv.Atoi(fields[3])
	if err != nil {
		return run.Entry{}, fmt.Errorf("run line rank %q: %w", fields[3], err)
	}
	score, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return run.Entry{}, fmt.Errorf("run line score %q: %w", fields[4], err)
	}

	runID := runIDOverride
	if runID == "" {
		if len(fields) < 6 {
			return run.Entry{}, fmt.Errorf("run line has no run id column and no override: %q", line)
		}
		runID = fields[5]
	}

	return run.Entry{
		QueryID:     fields[0],
		ParagraphID: fields[2],
		Rank:        rank,
		Score:       score,
		RunID:       runID,
	}, nil
}

// Load reads one run file, keeping only entries ranked within topK
// (0 keeps everything). The file may be gz/bz2/xz compressed.
func Load(path string, topK int, runIDOverride string) ([]run.Entry, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var entries []run.Entry
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := ParseLine(line, runIDOverride)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if topK > 0 && entry.Rank > topK {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

// LoadDir loads every regular file of a directory as a run file, using each
// file's own run id column.
func LoadDir(dir string, topK int) ([]run.Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read run directory %s: %w", dir, err)
	}

	var entries []run.Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		fileEntries, err := Load(filepath.Join(dir, de.Name()), topK, "")
		if err != nil {
			return nil, err
		}
		entries = append(entries, fileEntries...)
	}
	return entries, nil
}
