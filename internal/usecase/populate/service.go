// Package populate assembles populated pages from an outline and a ranked
// run. It is a mechanical concatenation: no deduplication across sections and
// no attempt to pick a better introduction paragraph.
package populate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/outline"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/run"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/metrics"
)

// defaultOriginsPerSection caps the origins recorded per section path. It
// matches the validator's default MaxOriginsPerSection.
const defaultOriginsPerSection = 20

// Service builds populated pages. The outline is shared read-only; a body
// reader is attached only when text inclusion is requested.
type Service struct {
	outline   *outline.Outline
	bodies    corpus.BodyReader
	originCap int
	logger    *zap.Logger
}

// New creates a populator over an outline.
func New(o *outline.Outline, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{outline: o, originCap: defaultOriginsPerSection, logger: logger}
}

// WithBodies attaches a corpus body reader; every emitted paragraph then
// carries its text, and an unresolvable id becomes a hard failure.
func (s *Service) WithBodies(br corpus.BodyReader) *Service {
	s.bodies = br
	return s
}

// WithOriginCap overrides the per-section origin cap. Output validates
// cleanly only when this agrees with the validator's MaxOriginsPerSection;
// both default to 20.
func (s *Service) WithOriginCap(n int) *Service {
	if n > 0 {
		s.originCap = n
	}
	return s
}

// Populate emits one page per outline page that has at least one ranked
// candidate in the run. Candidates are drawn round-robin across the page's
// facets, one per facet per sweep in ascending rank order, until the topK
// budget is met or all facets are exhausted; the selected paragraphs are then
// concatenated in outline facet order. Pages with zero candidates are not
// emitted. The same paragraph id may appear under several sections; that is a
// documented property of the input rankings, not corrected here.
func (s *Service) Populate(ctx context.Context, rr *run.RankedRun, topK int) ([]domain.Page, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("top_k must be positive, got %d", topK)
	}

	var pages []domain.Page
	for _, op := range s.outline.Pages() {
		page, ok := s.populatePage(op, rr, topK)
		if !ok {
			continue
		}
		if s.bodies != nil {
			if err := s.attachBodies(ctx, &page); err != nil {
				return nil, err
			}
		}
		metrics.PagesPopulatedTotal.Inc()
		metrics.ParagraphsPopulatedTotal.Add(float64(len(page.Paragraphs)))
		pages = append(pages, page)
	}
	return pages, nil
}

// populatePage fills one page's paragraph budget. Returns false when the run
// holds no candidates for any of the page's queries.
func (s *Service) populatePage(op *outline.Page, rr *run.RankedRun, topK int) (domain.Page, bool) {
	facets := s.outline.Facets(op.Squid)

	// Per-facet candidate lists, keyed by the query-id convention: one query
	// per section path. A run addressing the bare squid is a whole-page query
	// and acts as a single facet of its own.
	rankings := make([]run.Ranking, len(facets))
	paths := make([]string, len(facets))
	for i, f := range facets {
		rankings[i] = rr.Ranking(f.Path)
		paths[i] = f.Path
	}
	if wholePage := rr.Ranking(op.Squid); len(wholePage) > 0 {
		rankings = append(rankings, wholePage)
		paths = append(paths, op.Squid)
	}

	// Round-robin budget fill: one candidate per facet per sweep.
	taken := make([]int, len(rankings))
	k := 0
	didChange := true
	for k < topK && didChange {
		didChange = false
		for i := range rankings {
			if k >= topK {
				break
			}
			if taken[i] < len(rankings[i]) {
				taken[i]++
				k++
				didChange = true
			}
		}
	}

	if k == 0 {
		s.logger.Debug("no paragraphs for page population", zap.String("squid", op.Squid))
		return domain.Page{}, false
	}
	if k < topK {
		s.logger.Warn("page populated below budget",
			zap.String("squid", op.Squid),
			zap.Int("paragraphs", k),
			zap.Int("budget", topK),
		)
	}

	page := domain.Page{
		Squid:       op.Squid,
		Title:       op.Title,
		RunID:       rr.RunID(),
		QueryFacets: s.outline.QueryFacets(op.Squid),
		Paragraphs:  make([]domain.Paragraph, 0, k),
	}

	// Concatenate selections in facet order, and record where each candidate
	// was ranked. Origins cover the facet's full candidate list, capped per
	// section so a deep run file cannot overflow the origin limit.
	for i, ranking := range rankings {
		for j := 0; j < taken[i]; j++ {
			page.Paragraphs = append(page.Paragraphs, domain.Paragraph{ParaID: ranking[j].ParagraphID})
		}
		limit := len(ranking)
		if limit > s.originCap {
			limit = s.originCap
		}
		for j := 0; j < limit; j++ {
			rank := ranking[j].Rank
			page.ParagraphOrigins = append(page.ParagraphOrigins, domain.ParagraphOrigin{
				ParaID:      ranking[j].ParagraphID,
				SectionPath: paths[i],
				RankScore:   ranking[j].Score,
				Rank:        &rank,
			})
		}
	}

	return page, true
}

// attachBodies resolves paragraph text for every reference on the page.
func (s *Service) attachBodies(ctx context.Context, page *domain.Page) error {
	for i := range page.Paragraphs {
		id := page.Paragraphs[i].ParaID
		body, err := s.bodies.Body(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrParagraphNotFound) {
				metrics.CorpusLookupsTotal.WithLabelValues("miss").Inc()
				return fmt.Errorf("page %s: paragraph %s: %w", page.Squid, id, domain.ErrUnresolvedParagraph)
			}
			metrics.CorpusLookupsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("page %s: resolve paragraph %s: %w", page.Squid, id, err)
		}
		metrics.CorpusLookupsTotal.WithLabelValues("hit").Inc()
		page.Paragraphs[i].ParaBody = body
	}
	return nil
}
