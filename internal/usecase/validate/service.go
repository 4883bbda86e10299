// Package validate checks populated-page submissions against the outline and
// the corpus index. The rule set is a fixed ordered list of independent
// predicates; configuration selects which rules are active, not how control
// flows.
package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/outline"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/fileio"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/metrics"
)

const maxLineSize = 64 << 20

// Report is the outcome of validating one submission file or stream.
type Report struct {
	Name        string              `json:"name"`
	Pages       int                 `json:"pages"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

// Correct reports whether the submission produced no error-severity
// diagnostics.
func (r *Report) Correct() bool {
	return !domain.HasErrors(r.Diagnostics)
}

// Service validates pages against a shared outline and corpus index. It keeps
// no state across pages beyond the per-file diagnostic accumulator, so one
// service may validate any number of files.
type Service struct {
	outline *outline.Outline
	corpus  corpus.Index
	bodies  corpus.BodyReader
	cfg     Config
	rules   []rule
	logger  *zap.Logger
}

// New creates a validator with the given configuration.
func New(o *outline.Outline, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &Service{
		outline: o,
		cfg:     cfg,
		rules:   buildRules(cfg),
		logger:  logger,
	}
}

// WithCorpus attaches a paragraph-existence index.
func (s *Service) WithCorpus(idx corpus.Index) *Service {
	s.corpus = idx
	return s
}

// WithBodies attaches a corpus body reader for text cross-checks. The reader
// also serves existence checks when no separate index is attached.
func (s *Service) WithBodies(br corpus.BodyReader) *Service {
	s.bodies = br
	if s.corpus == nil {
		if idx, ok := br.(corpus.Index); ok {
			s.corpus = idx
		}
	}
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// ValidatePage evaluates all active rules against one page, in rule order.
// With FailOnFirst the returned slice is truncated at the first
// error-severity diagnostic and no further rule runs.
func (s *Service) ValidatePage(ctx context.Context, page *domain.Page, line int, record json.RawMessage) ([]domain.Diagnostic, error) {
	rc := &ruleContext{
		Outline:   s.outline,
		Corpus:    s.corpus,
		Bodies:    s.bodies,
		Config:    s.cfg,
		Line:      line,
		malformed: make(map[string]bool),
	}

	var diags []domain.Diagnostic
	for _, r := range s.rules {
		found, err := r.fn(ctx, page, rc)
		if err != nil {
			return diags, fmt.Errorf("rule %s: %w", r.name, err)
		}
		for _, d := range found {
			diags = append(diags, d)
			if s.cfg.FailOnFirst && d.IsError() {
				return s.finishPage(diags, record), nil
			}
		}
	}
	return s.finishPage(diags, record), nil
}

func (s *Service) finishPage(diags []domain.Diagnostic, record json.RawMessage) []domain.Diagnostic {
	for i := range diags {
		if s.cfg.PrintEntity {
			diags[i].Record = record
		}
		metrics.DiagnosticsTotal.WithLabelValues(string(diags[i].Kind), string(diags[i].Severity)).Inc()
	}
	return diags
}

// ValidateStream validates a JSON-lines submission read from r. A line that
// cannot be parsed into a page record at all is a fatal error that aborts
// this stream (other files of a batch are unaffected). With FailOnFirst,
// processing stops after the first error-severity diagnostic: no further rule
// evaluation and no further diagnostic emission happen for this stream.
func (s *Service) ValidateStream(ctx context.Context, r io.Reader, name string) (*Report, error) {
	start := time.Now()
	defer func() { metrics.ValidationDuration.Observe(time.Since(start).Seconds()) }()

	report := &Report{Name: name}
	foundSquids := make(map[string]int) // squid -> first line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	tripped := false

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("validate %s: %w", name, err)
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var page domain.Page
		if err := json.Unmarshal([]byte(line), &page); err != nil {
			return report, fmt.Errorf("%s:%d: %w: %v", name, lineNo, domain.ErrMalformedLine, err)
		}
		report.Pages++
		if _, seen := foundSquids[page.Squid]; !seen {
			foundSquids[page.Squid] = lineNo
		}

		diags, err := s.ValidatePage(ctx, &page, lineNo, json.RawMessage(line))
		if err != nil {
			return report, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		report.Diagnostics = append(report.Diagnostics, diags...)

		if domain.HasErrors(diags) {
			metrics.PagesValidatedTotal.WithLabelValues("invalid").Inc()
			if s.cfg.FailOnFirst {
				tripped = true
				break
			}
		} else {
			metrics.PagesValidatedTotal.WithLabelValues("ok").Inc()
		}
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("read %s: %w", name, err)
	}

	if !tripped {
		report.Diagnostics = append(report.Diagnostics, s.reconcileSquids(foundSquids)...)
	}

	s.logger.Debug("validated submission",
		zap.String("name", name),
		zap.Int("pages", report.Pages),
		zap.Int("diagnostics", len(report.Diagnostics)),
	)
	return report, nil
}

// ValidateFile validates one possibly compressed submission file.
func (s *Service) ValidateFile(ctx context.Context, path string) (*Report, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return s.ValidateStream(ctx, rc, path)
}

// reconcileSquids compares the squids found in a file against the outline:
// pages not in the outline must not be submitted, and under the strict Y3
// rules every outline page must be present.
func (s *Service) reconcileSquids(found map[string]int) []domain.Diagnostic {
	var diags []domain.Diagnostic

	// Unknown pages first, in file order.
	var unknown []string
	for squid := range found {
		if !s.outline.HasSquid(squid) {
			unknown = append(unknown, squid)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return found[unknown[i]] < found[unknown[j]] })
	for _, squid := range unknown {
		diags = append(diags, domain.Diagnostic{
			Line:     found[squid],
			Entity:   squid,
			Kind:     domain.KindUnknownPage,
			Message:  fmt.Sprintf("page %s is not in the outline and must not be submitted", squid),
			Severity: domain.SeverityError,
		})
		if s.cfg.FailOnFirst {
			break
		}
	}

	// Under strict Y3 checks a submission must cover the whole outline.
	if s.cfg.CheckY3 && !(s.cfg.FailOnFirst && len(diags) > 0) {
		for _, p := range s.outline.Pages() {
			if _, ok := found[p.Squid]; ok {
				continue
			}
			diags = append(diags, domain.Diagnostic{
				Entity:   p.Squid,
				Kind:     domain.KindMissingPage,
				Message:  fmt.Sprintf("page %s is contained in the outline and must be submitted", p.Squid),
				Severity: domain.SeverityError,
			})
			if s.cfg.FailOnFirst {
				break
			}
		}
	}

	for i := range diags {
		metrics.DiagnosticsTotal.WithLabelValues(string(diags[i].Kind), string(diags[i].Severity)).Inc()
	}
	return diags
}
