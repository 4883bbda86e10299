package carpages

import (
	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/outline"
	validateuc "github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/validate"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	outline     *outline.Outline
	outlinePath string

	corpusPath string
	idListPath string

	redisAddrs    []string
	redisUsername string
	redisPassword string
	redisDB       int
	redisPrefix   string

	topK       int
	validation validateuc.Config
	logger     *zap.Logger
}

// WithOutline uses an already built outline.
func WithOutline(o *outline.Outline) Option {
	return func(c *clientConfig) {
		c.outline = o
	}
}

// WithOutlineFile loads the outline from a JSON-lines file.
func WithOutlineFile(path string) Option {
	return func(c *clientConfig) {
		c.outlinePath = path
	}
}

// WithCorpusFile loads paragraph ids and bodies from a corpus dump in
// JSON-lines form. Enables both paragraph existence and text checks, and
// lets Populate attach paragraph text.
func WithCorpusFile(path string) Option {
	return func(c *clientConfig) {
		c.corpusPath = path
	}
}

// WithIDList loads an existence-only index from a flat paragraph-id list.
func WithIDList(path string) Option {
	return func(c *clientConfig) {
		c.idListPath = path
	}
}

// WithRedis uses a preloaded Redis corpus index (see the corpus-load
// command).
func WithRedis(addrs []string, keyPrefix string) Option {
	return func(c *clientConfig) {
		c.redisAddrs = addrs
		c.redisPrefix = keyPrefix
	}
}

// WithRedisAuth sets credentials for the Redis corpus index.
func WithRedisAuth(username, password string, db int) Option {
	return func(c *clientConfig) {
		c.redisUsername = username
		c.redisPassword = password
		c.redisDB = db
	}
}

// WithTopK sets the per-page paragraph budget used by Populate. Defaults
// to 20.
func WithTopK(k int) Option {
	return func(c *clientConfig) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithValidation replaces the validator configuration. Defaults to
// collect-all mode without the strict Y3 rules.
func WithValidation(cfg validateuc.Config) Option {
	return func(c *clientConfig) {
		c.validation = cfg
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
