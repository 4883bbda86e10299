// carpages builds and validates populated-page submissions for the TREC CAR
// benchmark: it converts ranked retrieval runs into populated pages, checks
// submission files against the outline and the paragraph corpus, and can
// serve the validator over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/logger"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/metrics"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/version"
)

var (
	// Global flags
	logEnv   string
	logLevel string

	// Logger, built in PersistentPreRunE
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "carpages",
	Short: "Populate and validate TREC CAR Y3 page submissions",
	Long: `carpages works on populated-page submissions for the TREC CAR benchmark.

It converts ranked retrieval runs into populated pages (one JSON-lines file
per run), validates submission files against the outline and the paragraph
corpus, produces flat paragraph-id lists, and can share a corpus index via
Redis so many validations reuse one corpus build.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = logger.New(logEnv, logLevel)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		metrics.Register()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logEnv, "log-env", "local", "logger environment: local, dev, prod")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override: debug, info, warn, error")

	rootCmd.AddCommand(populateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(paragraphIDsCmd)
	rootCmd.AddCommand(corpusLoadCmd)
	rootCmd.AddCommand(serveCmd)
}
