package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/fileio"
)

var paragraphIDsFlags struct {
	corpusFile string
	output     string
}

var paragraphIDsCmd = &cobra.Command{
	Use:   "paragraph-ids",
	Short: "Extract a flat paragraph-id list from a corpus dump",
	Long: `Reads a corpus dump in JSON-lines form and writes the sorted, de-duplicated
paragraph ids, one per line. The list is much smaller than the dump and
suffices for existence checks (--check-text-from-id-list).`,
	RunE: runParagraphIDs,
}

func init() {
	f := paragraphIDsCmd.Flags()
	f.StringVar(&paragraphIDsFlags.corpusFile, "corpus", "", "corpus dump (JSON-lines), optionally compressed (required)")
	f.StringVar(&paragraphIDsFlags.output, "output", "", "output id list file; .gz or .xz compresses (required)")

	_ = paragraphIDsCmd.MarkFlagRequired("corpus")
	_ = paragraphIDsCmd.MarkFlagRequired("output")
}

func runParagraphIDs(_ *cobra.Command, _ []string) error {
	idx, err := corpus.LoadJSONL(paragraphIDsFlags.corpusFile)
	if err != nil {
		return err
	}

	wc, err := fileio.Create(paragraphIDsFlags.output)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(wc)
	for _, id := range idx.IDs() {
		if _, err := fmt.Fprintln(w, id); err != nil {
			wc.Close()
			return fmt.Errorf("write id list: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		wc.Close()
		return fmt.Errorf("write id list: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close id list: %w", err)
	}

	log.Info("wrote paragraph id list",
		zap.Int("paragraphs", idx.Len()),
		zap.String("file", paragraphIDsFlags.output),
	)
	return nil
}
