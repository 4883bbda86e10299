// Package corpus provides the lookup capability from paragraph id to
// existence and, optionally, paragraph content. An index is built once from a
// corpus dump or a flat id list and shared read-only for the rest of the run.
package corpus

import (
	"context"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
)

// Index answers paragraph-id existence queries.
type Index interface {
	Contains(ctx context.Context, id string) (bool, error)
}

// BodyReader additionally resolves paragraph content. Lookups of unknown ids
// return domain.ErrParagraphNotFound.
type BodyReader interface {
	Body(ctx context.Context, id string) ([]domain.ParBody, error)
}
