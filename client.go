// Package carpages converts ranked retrieval runs into populated pages for
// the TREC CAR benchmark and validates page submissions against an outline
// and a paragraph corpus. The Client is the SDK entry point; the carpages
// binary under cmd/ wraps the same services for the command line.
package carpages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus/redisindex"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/outline"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/run"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/outlinefile"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/runfile"
	populateuc "github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/populate"
	validateuc "github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/validate"
)

const defaultReadinessTimeout = 10 * time.Second

// Report is the outcome of one validation.
type Report = validateuc.Report

// Client bundles a loaded outline and corpus index with the page populator
// and the submission validator, so the expensive loads happen once.
type Client struct {
	outline   *outline.Outline
	populator *populateuc.Service
	validator *validateuc.Service
	redis     *redisindex.Index
	topK      int
}

// New creates a carpages Client. An outline source is required; a corpus
// source is optional but enables the paragraph existence and text checks.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		topK:       20,
		validation: validateuc.Default(),
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	o, err := resolveOutline(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		outline:   o,
		populator: populateuc.New(o, cfg.logger).WithOriginCap(cfg.validation.MaxOriginsPerSection),
		validator: validateuc.New(o, cfg.validation, cfg.logger),
		topK:      cfg.topK,
	}
	if err := c.attachCorpus(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

func resolveOutline(cfg *clientConfig) (*outline.Outline, error) {
	switch {
	case cfg.outline != nil:
		return cfg.outline, nil
	case cfg.outlinePath != "":
		return outlinefile.Load(cfg.outlinePath)
	default:
		return nil, errors.New("carpages: outline required (use WithOutline or WithOutlineFile)")
	}
}

func (c *Client) attachCorpus(cfg *clientConfig) error {
	switch {
	case cfg.corpusPath != "":
		idx, err := corpus.LoadJSONL(cfg.corpusPath)
		if err != nil {
			return err
		}
		c.populator = c.populator.WithBodies(idx)
		c.validator.WithBodies(idx)
	case cfg.idListPath != "":
		idx, err := corpus.LoadIDList(cfg.idListPath)
		if err != nil {
			return err
		}
		c.validator.WithCorpus(idx)
	case len(cfg.redisAddrs) > 0:
		idx, err := redisindex.New(redisindex.Config{
			Addrs:     cfg.redisAddrs,
			Username:  cfg.redisUsername,
			Password:  cfg.redisPassword,
			DB:        cfg.redisDB,
			KeyPrefix: cfg.redisPrefix,
		})
		if err != nil {
			return err
		}
		if err := idx.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			idx.Close()
			return fmt.Errorf("carpages: corpus index not ready: %w", err)
		}
		c.redis = idx
		c.populator = c.populator.WithBodies(idx)
		c.validator.WithBodies(idx)
	}
	return nil
}

// Close releases the corpus index connection, if any.
func (c *Client) Close() {
	if c.redis != nil {
		c.redis.Close()
	}
}

// Outline returns the loaded outline.
func (c *Client) Outline() *outline.Outline {
	return c.outline
}

// Populate converts one ranked run into populated pages, one page per
// outline entry that the run has candidates for.
func (c *Client) Populate(ctx context.Context, rr *run.RankedRun) ([]domain.Page, error) {
	return c.populator.Populate(ctx, rr, c.topK)
}

// PopulateRunFile reads a run file in the six-column format and converts
// every run id it contains. Pages are grouped per run id.
func (c *Client) PopulateRunFile(ctx context.Context, path string) (map[string][]domain.Page, error) {
	entries, err := runfile.Load(path, c.topK, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]domain.Page)
	for _, rr := range run.Group(entries) {
		pages, err := c.populator.Populate(ctx, rr, c.topK)
		if err != nil {
			return nil, err
		}
		out[rr.RunID()] = pages
	}
	return out, nil
}

// Validate checks a JSON-lines submission read from r.
func (c *Client) Validate(ctx context.Context, r io.Reader, name string) (*Report, error) {
	return c.validator.ValidateStream(ctx, r, name)
}

// ValidateFile checks one possibly compressed submission file.
func (c *Client) ValidateFile(ctx context.Context, path string) (*Report, error) {
	return c.validator.ValidateFile(ctx, path)
}

// ValidatePages checks already decoded pages, for callers that populate and
// verify in one process.
func (c *Client) ValidatePages(ctx context.Context, pages []domain.Page) ([]domain.Diagnostic, error) {
	var diags []domain.Diagnostic
	for i := range pages {
		found, err := c.validator.ValidatePage(ctx, &pages[i], 0, nil)
		if err != nil {
			return diags, err
		}
		diags = append(diags, found...)
	}
	return diags, nil
}
