package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus/redisindex"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/outlinefile"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/validate"
)

var validateFlags struct {
	outline      string
	dir          string
	topK         int
	checkY3      bool
	checkOrigins bool
	corpusFile   string
	idList       string
	redisAddrs   []string
	redisPrefix  string
	failOnFirst  bool
	printJSON    bool
	confirm      bool
	submissionY3 bool
	printRules   bool
}

var validateCmd = &cobra.Command{
	Use:   "validate [submission files...]",
	Short: "Validate populated-page submission files",
	Long: `Validates JSON-lines submission files against the outline and, optionally,
the paragraph corpus. Nothing is printed for a correct file unless
--confirm-correct is set; diagnostics go to stderr, one line each. Any
error-severity diagnostic makes the exit status non-zero.`,
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateFlags.outline, "outline", "", "path to the outline file (required)")
	f.StringVar(&validateFlags.dir, "dir", "", "validate every file of this directory")
	f.IntVarP(&validateFlags.topK, "top-k", "k", 20, "paragraph cap per page for the Y3 rules")
	f.BoolVar(&validateFlags.checkY3, "check-y3", false, "enable strict Y3 checks (squid namespace, run id format, paragraph cap)")
	f.BoolVar(&validateFlags.checkOrigins, "check-origins", false, "enable strict paragraph_origins checks")
	f.StringVar(&validateFlags.corpusFile, "check-text-from-corpus", "", "corpus dump (JSON-lines); enables paragraph text cross-checks")
	f.StringVar(&validateFlags.idList, "check-text-from-id-list", "", "flat paragraph-id list; enables existence checks")
	f.StringSliceVar(&validateFlags.redisAddrs, "redis", nil, "Redis addresses of a preloaded corpus index; enables existence checks")
	f.StringVar(&validateFlags.redisPrefix, "redis-key-prefix", "carpages:", "key prefix of the Redis corpus index")
	f.BoolVar(&validateFlags.failOnFirst, "fail-on-first", false, "stop a file at the first error instead of listing all issues")
	f.BoolVar(&validateFlags.printJSON, "print-json", false, "attach the problematic JSON record to each diagnostic")
	f.BoolVar(&validateFlags.confirm, "confirm-correct", false, "confirm correct files on stdout instead of staying silent")
	f.BoolVar(&validateFlags.submissionY3, "submission-check-y3", false, "preset: -k 20 --check-y3 --fail-on-first with an id-list existence check")
	f.BoolVar(&validateFlags.printRules, "print-rules", false, "print the validation rules and exit")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateFlags.printRules {
		fmt.Print(validate.RulesText)
		return nil
	}
	if validateFlags.outline == "" {
		return fmt.Errorf("--outline is required")
	}

	cfg := validate.Config{
		TopK:             validateFlags.topK,
		CheckY3:          validateFlags.checkY3,
		CheckOrigins:     validateFlags.checkOrigins,
		CheckText:        validateFlags.corpusFile != "",
		FailOnFirst:      validateFlags.failOnFirst,
		PrintEntity:      validateFlags.printJSON,
		ConfirmOnSuccess: validateFlags.confirm,
	}
	if validateFlags.submissionY3 {
		cfg = validate.Submission()
		cfg.PrintEntity = validateFlags.printJSON
		cfg.ConfirmOnSuccess = validateFlags.confirm
		if validateFlags.idList == "" && validateFlags.corpusFile == "" && len(validateFlags.redisAddrs) == 0 {
			return fmt.Errorf("--submission-check-y3 needs a paragraph id source; set --check-text-from-id-list")
		}
	}

	files := append([]string(nil), args...)
	if validateFlags.dir != "" {
		dirEntries, err := os.ReadDir(validateFlags.dir)
		if err != nil {
			return fmt.Errorf("read submission directory %s: %w", validateFlags.dir, err)
		}
		for _, de := range dirEntries {
			if !de.IsDir() {
				files = append(files, filepath.Join(validateFlags.dir, de.Name()))
			}
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no submission files given")
	}

	o, err := outlinefile.Load(validateFlags.outline)
	if err != nil {
		return err
	}

	svc := validate.New(o, cfg, log)
	if err := attachCorpus(cmd.Context(), svc); err != nil {
		return err
	}

	correct := true
	for _, path := range files {
		report, err := svc.ValidateFile(cmd.Context(), path)
		if err != nil {
			// Fatal for this file only; remaining files still proceed.
			fmt.Fprintf(os.Stderr, "%v\n", err)
			correct = false
			continue
		}
		printReport(report)
		if !report.Correct() {
			correct = false
		} else if cfg.ConfirmOnSuccess {
			fmt.Printf("%s is in correct submission format.\n", path)
		}
	}

	if !correct {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// attachCorpus wires the configured paragraph-id source into the validator:
// a corpus dump with bodies, a flat id list, or a preloaded Redis index.
func attachCorpus(ctx context.Context, svc *validate.Service) error {
	switch {
	case validateFlags.corpusFile != "":
		log.Info("loading corpus dump", zap.String("path", validateFlags.corpusFile))
		idx, err := corpus.LoadJSONL(validateFlags.corpusFile)
		if err != nil {
			return err
		}
		log.Info("corpus loaded", zap.Int("paragraphs", idx.Len()))
		svc.WithBodies(idx)
	case validateFlags.idList != "":
		log.Info("loading paragraph id list", zap.String("path", validateFlags.idList))
		idx, err := corpus.LoadIDList(validateFlags.idList)
		if err != nil {
			return err
		}
		log.Info("id list loaded", zap.Int("paragraphs", idx.Len()))
		svc.WithCorpus(idx)
	case len(validateFlags.redisAddrs) > 0:
		idx, err := redisindex.New(redisindex.Config{
			Addrs:     validateFlags.redisAddrs,
			KeyPrefix: validateFlags.redisPrefix,
		})
		if err != nil {
			return err
		}
		if err := idx.Ping(ctx); err != nil {
			return fmt.Errorf("redis corpus index: %w", err)
		}
		svc.WithCorpus(idx)
	}
	return nil
}

// printReport writes diagnostics to stderr, one line each.
func printReport(report *validate.Report) {
	for _, d := range report.Diagnostics {
		if d.Line > 0 {
			fmt.Fprintf(os.Stderr, "%s:%d: %s [%s] %s\n", report.Name, d.Line, d.Severity, d.Kind, d.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s [%s] %s\n", report.Name, d.Severity, d.Kind, d.Message)
		}
		if len(d.Record) > 0 {
			fmt.Fprintf(os.Stderr, "  %s\n", d.Record)
		}
	}
}
