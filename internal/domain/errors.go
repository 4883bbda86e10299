package domain

import "errors"

var (
	// ErrParagraphNotFound signals a paragraph id the corpus index does not know.
	ErrParagraphNotFound = errors.New("paragraph not found")
	// ErrUnresolvedParagraph signals a failed body lookup when text inclusion was requested.
	ErrUnresolvedParagraph = errors.New("unresolved paragraph id")
	// ErrMalformedLine signals a submission line that cannot be parsed into a page record.
	ErrMalformedLine = errors.New("malformed submission line")
	// ErrEmptyOutline signals an outline source with no pages.
	ErrEmptyOutline = errors.New("outline contains no pages")
	// ErrDuplicateSquid signals two outline pages sharing one squid.
	ErrDuplicateSquid = errors.New("duplicate squid in outline")
)
