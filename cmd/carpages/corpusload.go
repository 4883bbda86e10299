package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus/redisindex"
)

var corpusLoadFlags struct {
	idList      string
	corpusFile  string
	withBodies  bool
	redisAddrs  []string
	redisPrefix string
}

var corpusLoadCmd = &cobra.Command{
	Use:   "corpus-load",
	Short: "Load a paragraph corpus into a Redis index",
	Long: `Loads paragraph ids (and optionally bodies) into Redis so that many
validator processes share one corpus build. From an id list only existence
checks are possible; from a corpus dump with --with-bodies the text
cross-checks work too.`,
	RunE: runCorpusLoad,
}

func init() {
	f := corpusLoadCmd.Flags()
	f.StringVar(&corpusLoadFlags.idList, "id-list", "", "flat paragraph-id list to load")
	f.StringVar(&corpusLoadFlags.corpusFile, "corpus", "", "corpus dump (JSON-lines) to load")
	f.BoolVar(&corpusLoadFlags.withBodies, "with-bodies", false, "also store paragraph bodies (needs --corpus)")
	f.StringSliceVar(&corpusLoadFlags.redisAddrs, "redis", nil, "Redis addresses (required)")
	f.StringVar(&corpusLoadFlags.redisPrefix, "redis-key-prefix", "carpages:", "key prefix for the index")

	_ = corpusLoadCmd.MarkFlagRequired("redis")
}

func runCorpusLoad(cmd *cobra.Command, _ []string) error {
	if corpusLoadFlags.idList == "" && corpusLoadFlags.corpusFile == "" {
		return fmt.Errorf("one of --id-list or --corpus is required")
	}
	if corpusLoadFlags.withBodies && corpusLoadFlags.corpusFile == "" {
		return fmt.Errorf("--with-bodies needs --corpus")
	}

	ctx := cmd.Context()

	idx, err := redisindex.New(redisindex.Config{
		Addrs:     corpusLoadFlags.redisAddrs,
		KeyPrefix: corpusLoadFlags.redisPrefix,
	})
	if err != nil {
		return err
	}
	defer idx.Close()
	if err := idx.WaitForReady(ctx, 10*time.Second); err != nil {
		return err
	}

	var mem *corpus.Memory
	if corpusLoadFlags.corpusFile != "" {
		log.Info("loading corpus dump", zap.String("path", corpusLoadFlags.corpusFile))
		mem, err = corpus.LoadJSONL(corpusLoadFlags.corpusFile)
	} else {
		log.Info("loading paragraph id list", zap.String("path", corpusLoadFlags.idList))
		mem, err = corpus.LoadIDList(corpusLoadFlags.idList)
	}
	if err != nil {
		return err
	}

	start := time.Now()
	ids := mem.IDs()
	if err := idx.AddIDs(ctx, ids); err != nil {
		return err
	}
	if corpusLoadFlags.withBodies {
		for _, id := range ids {
			body, err := mem.Body(ctx, id)
			if err != nil {
				return err
			}
			if err := idx.SetBody(ctx, id, body); err != nil {
				return err
			}
		}
	}

	count, err := idx.Count(ctx)
	if err != nil {
		return err
	}
	log.Info("corpus index loaded",
		zap.Int("loaded", len(ids)),
		zap.Int64("index_size", count),
		zap.Bool("bodies", corpusLoadFlags.withBodies),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
