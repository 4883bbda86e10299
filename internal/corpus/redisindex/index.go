// Package redisindex backs the corpus index with Redis via rueidis, so one
// multi-gigabyte corpus build can be shared across many validator processes.
// The id set lives under <prefix>ids; bodies, when loaded, live as JSON values
// under <prefix>body:<id>.
package redisindex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
)

// Compile-time check: Index implements both corpus capabilities.
var (
	_ corpus.Index      = (*Index)(nil)
	_ corpus.BodyReader = (*Index)(nil)
)

// loadChunkSize bounds the number of SADD commands pipelined per round trip.
const loadChunkSize = 1000

// Config holds connection parameters for a Redis corpus index.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Index implements corpus.Index and corpus.BodyReader on Redis.
type Index struct {
	client rueidis.Client
	prefix string
}

// New connects to Redis via rueidis.
func New(cfg Config) (*Index, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "carpages:"
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Index{client: client, prefix: prefix}, nil
}

// Ping checks connectivity.
func (x *Index) Ping(ctx context.Context) error {
	cmd := x.client.B().Ping().Build()
	if err := x.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (x *Index) Close() {
	x.client.Close()
}

// WaitForReady polls Ping until the index responds or timeout expires.
func (x *Index) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for corpus index: %w", ctx.Err())
		case <-ticker.C:
			if err := x.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (x *Index) idSetKey() string {
	return x.prefix + "ids"
}

func (x *Index) bodyKey(id string) string {
	return x.prefix + "body:" + id
}

// Contains reports whether the paragraph id is in the loaded id set.
func (x *Index) Contains(ctx context.Context, id string) (bool, error) {
	cmd := x.client.B().Sismember().Key(x.idSetKey()).Member(id).Build()
	ok, err := x.client.Do(ctx, cmd).AsBool()
	if err != nil {
		return false, fmt.Errorf("sismember %s: %w", id, err)
	}
	return ok, nil
}

// Body resolves paragraph content loaded via SetBody.
func (x *Index) Body(ctx context.Context, id string) ([]domain.ParBody, error) {
	cmd := x.client.B().Get().Key(x.bodyKey(id)).Build()
	data, err := x.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, fmt.Errorf("paragraph %s: %w", id, domain.ErrParagraphNotFound)
		}
		return nil, fmt.Errorf("get body %s: %w", id, err)
	}
	var body []domain.ParBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode body %s: %w", id, err)
	}
	return body, nil
}

// AddIDs loads paragraph ids into the id set, pipelined in chunks.
func (x *Index) AddIDs(ctx context.Context, ids []string) error {
	for start := 0; start < len(ids); start += loadChunkSize {
		end := start + loadChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		cmd := x.client.B().Sadd().Key(x.idSetKey()).Member(ids[start:end]...).Build()
		if err := x.client.Do(ctx, cmd).Error(); err != nil {
			return fmt.Errorf("sadd ids [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// SetBody stores one paragraph's content and registers its id.
func (x *Index) SetBody(ctx context.Context, id string, body []domain.ParBody) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body %s: %w", id, err)
	}

	cmds := make(rueidis.Commands, 0, 2)
	cmds = append(cmds, x.client.B().Sadd().Key(x.idSetKey()).Member(id).Build())
	cmds = append(cmds, x.client.B().Set().Key(x.bodyKey(id)).Value(string(data)).Build())
	for _, res := range x.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("set body %s: %w", id, err)
		}
	}
	return nil
}

// Count returns the size of the loaded id set.
func (x *Index) Count(ctx context.Context) (int64, error) {
	cmd := x.client.B().Scard().Key(x.idSetKey()).Build()
	n, err := x.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("scard: %w", err)
	}
	return n, nil
}
