package validate

// Y3Namespace is the squid namespace required by strict Y3 checks.
const Y3Namespace = "tqa2:"

const (
	defaultTopK                 = 20
	defaultMaxRunIDLen          = 15
	defaultMaxOriginsPerSection = 20
)

// Config selects the validation modes and limits.
type Config struct {
	// TopK is the per-page paragraph cap enforced by the Y3 rules.
	TopK int
	// CheckY3 enables the strict Y3 rules: squid namespace, run id format
	// and the per-page paragraph cap, plus the full-submission
	// found-vs-required page reconciliation.
	CheckY3 bool
	// CheckOrigins enables the paragraph_origins rule block and requires the
	// origins to be present.
	CheckOrigins bool
	// CheckText cross-checks attached paragraph bodies against the corpus.
	// Requires a corpus index with bodies.
	CheckText bool
	// FailOnFirst stops all rule evaluation and diagnostic emission for the
	// rest of the file once an error-severity diagnostic is produced.
	FailOnFirst bool
	// PrintEntity attaches the offending JSON record to each diagnostic.
	PrintEntity bool
	// ConfirmOnSuccess emits a positive confirmation for clean files instead
	// of silence.
	ConfirmOnSuccess bool

	// Namespace overrides the required Y3 squid namespace ("tqa2:").
	Namespace string
	// MaxRunIDLen overrides the Y3 run id length cap (15).
	MaxRunIDLen int
	// MaxOriginsPerSection overrides the per-section origin cap (20).
	MaxOriginsPerSection int
}

// Default returns the default validation configuration: collect all
// diagnostics, no strict Y3 checks, no origin or text checks.
func Default() Config {
	return Config{}.withDefaults()
}

// Submission returns the preset used for submission upload checks:
// k=20, strict Y3 rules, fail on first error, paragraph existence checked
// against an id list attached by the caller.
func Submission() Config {
	cfg := Default()
	cfg.TopK = 20
	cfg.CheckY3 = true
	cfg.FailOnFirst = true
	return cfg
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = defaultTopK
	}
	if c.Namespace == "" {
		c.Namespace = Y3Namespace
	}
	if c.MaxRunIDLen <= 0 {
		c.MaxRunIDLen = defaultMaxRunIDLen
	}
	if c.MaxOriginsPerSection <= 0 {
		c.MaxOriginsPerSection = defaultMaxOriginsPerSection
	}
	return c
}
