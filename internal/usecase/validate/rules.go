package validate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/outline"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/metrics"
)

// ruleContext carries the shared read-only collaborators plus per-line state
// into rule evaluation.
type ruleContext struct {
	Outline *outline.Outline
	Corpus  corpus.Index
	Bodies  corpus.BodyReader
	Config  Config
	Line    int

	// paragraph ids already flagged as malformed on this page; existence is
	// not checked for them.
	malformed map[string]bool
}

func (rc *ruleContext) diag(kind domain.Kind, entity, message string, severity domain.Severity) domain.Diagnostic {
	return domain.Diagnostic{
		Line:     rc.Line,
		Entity:   entity,
		Kind:     kind,
		Message:  message,
		Severity: severity,
	}
}

func (rc *ruleContext) errorf(kind domain.Kind, entity, format string, args ...any) domain.Diagnostic {
	return rc.diag(kind, entity, fmt.Sprintf(format, args...), domain.SeverityError)
}

func (rc *ruleContext) warnf(kind domain.Kind, entity, format string, args ...any) domain.Diagnostic {
	return rc.diag(kind, entity, fmt.Sprintf(format, args...), domain.SeverityWarning)
}

// ruleFunc evaluates one independent rule against one page. A returned error
// is a fatal resource failure (for example an unreachable corpus index), not
// a validation finding.
type ruleFunc func(ctx context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error)

// rule pairs a rule name with its predicate; the validator holds a fixed
// ordered list of these instead of branching flags.
type rule struct {
	name string
	fn   ruleFunc
}

// buildRules assembles the active rule list for a configuration. Order is the
// diagnostic emission order for a given line.
func buildRules(cfg Config) []rule {
	rules := []rule{
		{name: "well-formed-ids", fn: checkWellFormedIDs},
		{name: "paragraph-id-shape", fn: checkParagraphIDShape},
		{name: "non-empty-paragraphs", fn: checkNonEmptyParagraphs},
		{name: "no-spurious-empty-fields", fn: checkSpuriousEmptyFields},
		{name: "paragraph-existence", fn: checkParagraphExistence},
	}
	if cfg.CheckOrigins {
		rules = append(rules, rule{name: "paragraph-origins", fn: checkParagraphOrigins})
	}
	if cfg.CheckY3 {
		rules = append(rules,
			rule{name: "y3-squid-namespace", fn: checkY3Namespace},
			rule{name: "y3-run-id-format", fn: checkY3RunID},
			rule{name: "y3-paragraph-cap", fn: checkY3ParagraphCap},
		)
	}
	if cfg.CheckText {
		rules = append(rules, rule{name: "paragraph-body-text", fn: checkParagraphBodies})
	}
	return rules
}

// checkWellFormedIDs requires squid, run id and origin section path segments
// to be non-empty ASCII. Paragraph ids have their own rule.
func checkWellFormedIDs(_ context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	var diags []domain.Diagnostic

	if !domain.IsASCII(page.Squid) {
		diags = append(diags, rc.errorf(domain.KindMalformedID, page.Squid,
			"squid %q must be a non-empty ASCII string", page.Squid))
	}
	if !domain.IsASCII(page.RunID) {
		diags = append(diags, rc.errorf(domain.KindMalformedID, page.Squid,
			"run id %q must be a non-empty ASCII string", page.RunID))
	}

	seen := make(map[string]bool)
	for _, o := range page.ParagraphOrigins {
		if seen[o.SectionPath] {
			continue
		}
		seen[o.SectionPath] = true
		if _, err := domain.ParseSectionPath(o.SectionPath); err != nil {
			diags = append(diags, rc.errorf(domain.KindMalformedID, page.Squid,
				"origin section path %q has empty elements", o.SectionPath))
			continue
		}
		for _, segment := range strings.Split(o.SectionPath, domain.SectionPathSeparator) {
			if !domain.IsASCII(segment) {
				diags = append(diags, rc.errorf(domain.KindMalformedID, page.Squid,
					"origin section path %q must consist of non-empty ASCII segments", o.SectionPath))
				break
			}
		}
	}

	return diags, nil
}

// checkParagraphIDShape requires each paragraph id to be exactly 40
// hexadecimal characters. A malformed id is remembered so its existence is
// not additionally reported as unknown.
func checkParagraphIDShape(_ context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	var diags []domain.Diagnostic
	for _, para := range page.Paragraphs {
		if rc.malformed[para.ParaID] {
			continue
		}
		if !domain.IsASCII(para.ParaID) || !domain.ValidParagraphID(para.ParaID) {
			rc.malformed[para.ParaID] = true
			diags = append(diags, rc.errorf(domain.KindMalformedID, para.ParaID,
				"paragraph id %q must be a hexadecimal string of exactly %d characters",
				para.ParaID, domain.ParagraphIDLength))
		}
	}
	return diags, nil
}

// checkNonEmptyParagraphs requires at least one paragraph reference per page.
func checkNonEmptyParagraphs(_ context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	if len(page.Paragraphs) == 0 {
		return []domain.Diagnostic{rc.errorf(domain.KindEmptyPage, page.Squid,
			"paragraphs of page %s must be a non-empty list", page.Squid)}, nil
	}
	return nil, nil
}

// checkSpuriousEmptyFields rejects optional fields that are present but
// empty; absence must be expressed by omitting the field.
func checkSpuriousEmptyFields(_ context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	var diags []domain.Diagnostic
	if page.ParagraphOrigins != nil && len(page.ParagraphOrigins) == 0 {
		diags = append(diags, rc.errorf(domain.KindSpuriousEmptyField, page.Squid,
			"paragraph_origins of page %s is present but empty; omit the field instead", page.Squid))
	}
	for _, para := range page.Paragraphs {
		if para.ParaBody != nil && len(para.ParaBody) == 0 {
			diags = append(diags, rc.errorf(domain.KindSpuriousEmptyField, para.ParaID,
				"para_body of paragraph %s is present but empty; omit the field instead", para.ParaID))
		}
	}
	return diags, nil
}

// checkParagraphExistence looks every well-formed paragraph id up in the
// corpus index, when one is attached.
func checkParagraphExistence(ctx context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	if rc.Corpus == nil {
		return nil, nil
	}

	var diags []domain.Diagnostic
	checked := make(map[string]bool)
	for _, para := range page.Paragraphs {
		id := para.ParaID
		if checked[id] || rc.malformed[id] {
			continue
		}
		checked[id] = true

		ok, err := rc.Corpus.Contains(ctx, id)
		if err != nil {
			metrics.CorpusLookupsTotal.WithLabelValues("error").Inc()
			return diags, fmt.Errorf("corpus lookup %s: %w", id, err)
		}
		if !ok {
			metrics.CorpusLookupsTotal.WithLabelValues("miss").Inc()
			diags = append(diags, rc.errorf(domain.KindUnknownParagraphID, id,
				"paragraph id %s is not contained in the corpus and must be omitted from the submission", id))
			continue
		}
		metrics.CorpusLookupsTotal.WithLabelValues("hit").Inc()
	}
	return diags, nil
}

// checkParagraphOrigins validates the origin block: paragraph ids must be
// well formed, section paths must name headings of this page (or the page
// itself for whole-page origins), at most MaxOriginsPerSection origins per
// section, and ranks (when given) must be unique, start at 1 and agree with
// the descending rank_score order.
func checkParagraphOrigins(_ context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	if page.ParagraphOrigins == nil {
		return []domain.Diagnostic{rc.errorf(domain.KindMissingField, page.Squid,
			"page %s has no paragraph_origins, but origin checks are enabled", page.Squid)}, nil
	}

	var diags []domain.Diagnostic

	for _, o := range page.ParagraphOrigins {
		if rc.malformed[o.ParaID] {
			continue
		}
		if !domain.IsASCII(o.ParaID) || !domain.ValidParagraphID(o.ParaID) {
			rc.malformed[o.ParaID] = true
			diags = append(diags, rc.errorf(domain.KindMalformedID, o.ParaID,
				"origin paragraph id %q must be a hexadecimal string of exactly %d characters",
				o.ParaID, domain.ParagraphIDLength))
		}
	}

	grouped := page.OriginsBySection()
	paths := make([]string, 0, len(grouped))
	for path := range grouped {
		paths = append(paths, path)
	}
	sort.Strings(paths) // deterministic diagnostic order across identical pages

	for _, path := range paths {
		origins := grouped[path]

		switch {
		case !rc.Outline.HasSectionPath(path):
			diags = append(diags, rc.errorf(domain.KindInvalidSectionPath, page.Squid,
				"origin section path %q does not name a heading of the outline", path))
		case path != page.Squid && !strings.HasPrefix(path, page.Squid+domain.SectionPathSeparator):
			diags = append(diags, rc.errorf(domain.KindInvalidSectionPath, page.Squid,
				"origin section path %q belongs to a different page than %s", path, page.Squid))
		}

		if len(origins) > rc.Config.MaxOriginsPerSection {
			diags = append(diags, rc.errorf(domain.KindExceededParagraphLimit, page.Squid,
				"section %q has %d origins, at most %d are allowed",
				path, len(origins), rc.Config.MaxOriginsPerSection))
		}

		diags = append(diags, checkOriginRanks(path, origins, rc)...)
	}

	return diags, nil
}

// checkOriginRanks verifies the rank assignment of one section's origins:
// duplicates are reported per duplicated value, and at most one
// RankOrderViolation is emitted per section.
func checkOriginRanks(path string, origins []domain.ParagraphOrigin, rc *ruleContext) []domain.Diagnostic {
	var ranked []domain.ParagraphOrigin
	for _, o := range origins {
		if o.Rank != nil {
			ranked = append(ranked, o)
		}
	}
	if len(ranked) == 0 {
		return nil
	}

	var diags []domain.Diagnostic

	seen := make(map[int]bool)
	reported := make(map[int]bool)
	for _, o := range ranked {
		r := *o.Rank
		if seen[r] && !reported[r] {
			reported[r] = true
			diags = append(diags, rc.errorf(domain.KindDuplicateRank, path,
				"section %q assigns rank %d more than once; ranks must be unique", path, r))
		}
		seen[r] = true
	}

	sort.SliceStable(ranked, func(i, j int) bool { return *ranked[i].Rank < *ranked[j].Rank })

	if *ranked[0].Rank < 1 {
		diags = append(diags, rc.errorf(domain.KindRankOrderViolation, path,
			"section %q uses rank %d; the lowest valid rank is 1", path, *ranked[0].Rank))
		return diags
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].RankScore > ranked[i-1].RankScore {
			diags = append(diags, rc.errorf(domain.KindRankOrderViolation, path,
				"section %q ranks disagree with descending rank_score order: rank %d has score %g, rank %d has score %g",
				path, *ranked[i-1].Rank, ranked[i-1].RankScore, *ranked[i].Rank, ranked[i].RankScore))
			break
		}
	}
	return diags
}

// checkY3Namespace requires the squid to start with the Y3 namespace and to
// contain no %20 escapes. At most one diagnostic per page.
func checkY3Namespace(_ context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	badPrefix := !strings.HasPrefix(page.Squid, rc.Config.Namespace)
	hasEscape := strings.Contains(page.Squid, "%20")
	if !badPrefix && !hasEscape {
		return nil, nil
	}

	var reasons []string
	if badPrefix {
		reasons = append(reasons, fmt.Sprintf("must start with namespace %q", rc.Config.Namespace))
	}
	if hasEscape {
		reasons = append(reasons, "must not contain %20")
	}
	return []domain.Diagnostic{rc.errorf(domain.KindY3NamespaceViolation, page.Squid,
		"squid %q: %s", page.Squid, strings.Join(reasons, "; "))}, nil
}

// checkY3RunID enforces the Y3 run id format: at most MaxRunIDLen characters
// from [A-Za-z0-9_.-], not starting with a dot. At most one diagnostic.
func checkY3RunID(_ context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	var reasons []string
	if len(page.RunID) > rc.Config.MaxRunIDLen {
		reasons = append(reasons, fmt.Sprintf("longer than %d characters", rc.Config.MaxRunIDLen))
	}
	if strings.HasPrefix(page.RunID, ".") {
		reasons = append(reasons, "must not start with '.'")
	}
	for i := 0; i < len(page.RunID); i++ {
		if !isRunIDChar(page.RunID[i]) {
			reasons = append(reasons, fmt.Sprintf("contains invalid character %q", page.RunID[i]))
			break
		}
	}
	if len(reasons) == 0 {
		return nil, nil
	}
	return []domain.Diagnostic{rc.errorf(domain.KindRunIDFormatViolation, page.Squid,
		"run id %q: %s", page.RunID, strings.Join(reasons, "; "))}, nil
}

func isRunIDChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '.' || c == '-':
		return true
	default:
		return false
	}
}

// checkY3ParagraphCap enforces the per-page paragraph cap.
func checkY3ParagraphCap(_ context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	if len(page.Paragraphs) > rc.Config.TopK {
		return []domain.Diagnostic{rc.errorf(domain.KindExceededParagraphLimit, page.Squid,
			"page %s has %d paragraphs, at most %d are allowed", page.Squid, len(page.Paragraphs), rc.Config.TopK)}, nil
	}
	return nil, nil
}

// checkParagraphBodies cross-checks attached paragraph text against the
// corpus. Bodies must either be omitted for all paragraphs or populated for
// all of them.
func checkParagraphBodies(ctx context.Context, page *domain.Page, rc *ruleContext) ([]domain.Diagnostic, error) {
	if rc.Bodies == nil {
		return nil, nil
	}

	withBody := 0
	for _, para := range page.Paragraphs {
		if para.HasBody() {
			withBody++
		}
	}
	if withBody == 0 {
		return nil, nil // bodies are optional as a whole
	}

	var diags []domain.Diagnostic
	if withBody < len(page.Paragraphs) {
		diags = append(diags, rc.warnf(domain.KindMissingField, page.Squid,
			"page %s attaches para_body to %d of %d paragraphs; bodies must be all present or all omitted",
			page.Squid, withBody, len(page.Paragraphs)))
	}

	for _, para := range page.Paragraphs {
		if !para.HasBody() || rc.malformed[para.ParaID] {
			continue
		}
		ref, err := rc.Bodies.Body(ctx, para.ParaID)
		if err != nil {
			if errors.Is(err, domain.ErrParagraphNotFound) {
				// existence is the paragraph-existence rule's finding
				continue
			}
			return diags, fmt.Errorf("corpus body lookup %s: %w", para.ParaID, err)
		}
		if !bodiesEqual(para.ParaBody, ref) {
			diags = append(diags, rc.errorf(domain.KindParaBodyMismatch, para.ParaID,
				"para_body of paragraph %s does not match the corpus content (%d spans submitted, %d in corpus)",
				para.ParaID, len(para.ParaBody), len(ref)))
		}
	}
	return diags, nil
}

func bodiesEqual(a, b []domain.ParBody) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
