package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/run"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/outlinefile"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/runfile"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/populate"
)

var populateFlags struct {
	outline     string
	outputDir   string
	runFile     string
	runDir      string
	runName     string
	topK        int
	corpusFile  string
	compression string
}

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Convert ranked runs into populated pages",
	Long: `Reads one run file or a directory of run files and writes one populated-page
submission file per run id into the output directory. With --include-text the
paragraph text is attached from a corpus dump; a run paragraph missing from
the corpus is then a hard failure.`,
	RunE: runPopulate,
}

func init() {
	f := populateCmd.Flags()
	f.StringVar(&populateFlags.outline, "outline", "", "path to the outline file (required)")
	f.StringVar(&populateFlags.outputDir, "output-dir", "", "output directory, one JSON-lines file per run (required)")
	f.StringVar(&populateFlags.runFile, "run-file", "", "single run file to convert")
	f.StringVar(&populateFlags.runDir, "run-dir", "", "directory of run files to convert")
	f.StringVar(&populateFlags.runName, "run-name", "", "override the run id of --run-file")
	f.IntVarP(&populateFlags.topK, "top-k", "k", 20, "paragraph budget per page")
	f.StringVar(&populateFlags.corpusFile, "include-text-from-corpus", "", "corpus dump (JSON-lines); attaches paragraph text")
	f.StringVar(&populateFlags.compression, "compression", "", "output compression: gz or xz")

	_ = populateCmd.MarkFlagRequired("outline")
	_ = populateCmd.MarkFlagRequired("output-dir")
}

func runPopulate(cmd *cobra.Command, _ []string) error {
	if populateFlags.runFile == "" && populateFlags.runDir == "" {
		return fmt.Errorf("one of --run-file or --run-dir is required")
	}

	o, err := outlinefile.Load(populateFlags.outline)
	if err != nil {
		return err
	}

	var entries []run.Entry
	if populateFlags.runDir != "" {
		dirEntries, err := runfile.LoadDir(populateFlags.runDir, populateFlags.topK)
		if err != nil {
			return err
		}
		entries = append(entries, dirEntries...)
	}
	if populateFlags.runFile != "" {
		fileEntries, err := runfile.Load(populateFlags.runFile, populateFlags.topK, populateFlags.runName)
		if err != nil {
			return err
		}
		entries = append(entries, fileEntries...)
	}

	svc := populate.New(o, log)
	if populateFlags.corpusFile != "" {
		log.Info("loading corpus dump", zap.String("path", populateFlags.corpusFile))
		idx, err := corpus.LoadJSONL(populateFlags.corpusFile)
		if err != nil {
			return err
		}
		log.Info("corpus loaded", zap.Int("paragraphs", idx.Len()))
		svc = svc.WithBodies(idx)
	}

	ctx := cmd.Context()
	for _, rr := range run.Group(entries) {
		pages, err := svc.Populate(ctx, rr, populateFlags.topK)
		if err != nil {
			return err
		}
		if len(pages) == 0 {
			log.Warn("run produced no pages", zap.String("run_id", rr.RunID()))
			continue
		}
		out := populate.OutputName(populateFlags.outputDir, rr.RunID(), populateFlags.compression)
		if err := populate.WriteSubmissionFile(out, pages); err != nil {
			return err
		}
		log.Info("wrote populated pages",
			zap.String("run_id", rr.RunID()),
			zap.Int("pages", len(pages)),
			zap.String("file", out),
		)
	}
	return nil
}
