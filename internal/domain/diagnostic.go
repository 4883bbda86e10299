package domain

import "encoding/json"

// Severity classifies a diagnostic. Only error severity affects exit status.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind names the validation rule a diagnostic was produced by.
type Kind string

const (
	KindMalformedID            Kind = "MalformedId"
	KindUnknownParagraphID     Kind = "UnknownParagraphId"
	KindEmptyPage              Kind = "EmptyPage"
	KindSpuriousEmptyField     Kind = "SpuriousEmptyField"
	KindParaBodyMismatch       Kind = "ParaBodyMismatch"
	KindInvalidSectionPath     Kind = "InvalidSectionPath"
	KindExceededParagraphLimit Kind = "ExceededParagraphLimit"
	KindRankOrderViolation     Kind = "RankOrderViolation"
	KindDuplicateRank          Kind = "DuplicateRank"
	KindY3NamespaceViolation   Kind = "Y3NamespaceViolation"
	KindRunIDFormatViolation   Kind = "RunIdFormatViolation"
	KindUnknownPage            Kind = "UnknownPage"
	KindMissingPage            Kind = "MissingPage"
	KindMissingField           Kind = "MissingField"
)

// Diagnostic is one validation finding for one submission record.
type Diagnostic struct {
	Line     int             `json:"line,omitempty"`
	Entity   string          `json:"entity,omitempty"` // squid or paragraph id the finding refers to
	Kind     Kind            `json:"kind"`
	Message  string          `json:"message"`
	Severity Severity        `json:"severity"`
	Record   json.RawMessage `json:"record,omitempty"` // offending JSON, attached on request
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// HasErrors reports whether any diagnostic in the slice has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}
