package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/fileio"
)

const maxLineSize = 16 << 20

// Memory is an in-process corpus index. Depending on the source it holds
// either bare existence (flat id list) or full paragraph bodies (corpus dump).
type Memory struct {
	ids    map[string]struct{}
	bodies map[string][]domain.ParBody // nil when built from an id list
}

var (
	_ Index      = (*Memory)(nil)
	_ BodyReader = (*Memory)(nil)
)

// NewMemory builds an empty in-process index.
func NewMemory() *Memory {
	return &Memory{ids: make(map[string]struct{})}
}

// Add registers a paragraph id without content.
func (m *Memory) Add(id string) {
	m.ids[id] = struct{}{}
}

// AddBody registers a paragraph id with its content.
func (m *Memory) AddBody(id string, body []domain.ParBody) {
	m.ids[id] = struct{}{}
	if m.bodies == nil {
		m.bodies = make(map[string][]domain.ParBody)
	}
	m.bodies[id] = body
}

// Contains reports whether the paragraph id is known.
func (m *Memory) Contains(_ context.Context, id string) (bool, error) {
	_, ok := m.ids[id]
	return ok, nil
}

// Body returns the paragraph content. Ids known only by existence resolve to
// domain.ErrParagraphNotFound as well: an id list carries no bodies.
func (m *Memory) Body(_ context.Context, id string) ([]domain.ParBody, error) {
	body, ok := m.bodies[id]
	if !ok {
		return nil, fmt.Errorf("paragraph %s: %w", id, domain.ErrParagraphNotFound)
	}
	return body, nil
}

// HasBodies reports whether the index can serve content lookups.
func (m *Memory) HasBodies() bool {
	return len(m.bodies) > 0
}

// Len returns the number of known paragraph ids.
func (m *Memory) Len() int {
	return len(m.ids)
}

// IDs returns all known paragraph ids, sorted for deterministic output.
func (m *Memory) IDs() []string {
	ids := make([]string, 0, len(m.ids))
	for id := range m.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadIDList builds an existence-only index from a flat id list file, one id
// per line, optionally compressed.
func LoadIDList(path string) (*Memory, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m := NewMemory()
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		m.Add(id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read id list %s: %w", path, err)
	}
	return m, nil
}

// paragraphRecord is one line of a corpus dump in JSON-lines form.
type paragraphRecord struct {
	ParaID   string           `json:"para_id"`
	ParaBody []domain.ParBody `json:"para_body"`
}

// LoadJSONL builds a full index, bodies included, from a corpus dump in
// JSON-lines form, optionally compressed. This is the potentially
// long-running one-time acquisition of the run.
func LoadJSONL(path string) (*Memory, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m := NewMemory()
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec paragraphRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: parse paragraph record: %w", path, lineNo, err)
		}
		if rec.ParaID == "" {
			return nil, fmt.Errorf("%s:%d: paragraph record without para_id", path, lineNo)
		}
		m.AddBody(rec.ParaID, rec.ParaBody)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return m, nil
}
