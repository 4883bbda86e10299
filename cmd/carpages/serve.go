package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/config"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/corpus/redisindex"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/logger"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/outlinefile"
	chiTransport "github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/transport/chi"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/validate"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the submission validator over HTTP",
	Long: `Loads the outline and the corpus index once, then validates uploaded
submission files on POST /validate. Configuration comes from
config/<ENV>.yaml (local.yaml by default).`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return err
	}

	if cfg.Logging.Level != "" && logLevel == "" {
		rebuilt, err := logger.New(logEnv, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("configure logger: %w", err)
		}
		log = rebuilt
	}

	log.Info("Starting carpages validation server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_driver", cfg.Corpus.Driver),
	)

	o, err := outlinefile.Load(cfg.Outline)
	if err != nil {
		return err
	}
	log.Info("outline loaded", zap.Int("pages", len(o.Pages())))

	svc := validate.New(o, validate.Config{
		TopK:             cfg.Validation.TopK,
		CheckY3:          cfg.Validation.CheckY3,
		CheckOrigins:     cfg.Validation.CheckOrigins,
		CheckText:        cfg.Validation.CheckText,
		FailOnFirst:      cfg.Validation.FailOnFirst,
		PrintEntity:      cfg.Validation.PrintEntity,
		ConfirmOnSuccess: cfg.Validation.ConfirmOnSuccess,
	}, log)

	ctx := cmd.Context()
	switch cfg.Corpus.Driver {
	case "idlist":
		if cfg.Corpus.IDList == "" {
			return fmt.Errorf("corpus.id_list is required for the idlist driver")
		}
		idx, err := corpus.LoadIDList(cfg.Corpus.IDList)
		if err != nil {
			return err
		}
		log.Info("id list loaded", zap.Int("paragraphs", idx.Len()))
		svc.WithCorpus(idx)
	case "jsonl":
		if cfg.Corpus.File == "" {
			return fmt.Errorf("corpus.file is required for the jsonl driver")
		}
		idx, err := corpus.LoadJSONL(cfg.Corpus.File)
		if err != nil {
			return err
		}
		log.Info("corpus loaded", zap.Int("paragraphs", idx.Len()))
		svc.WithBodies(idx)
	case "redis":
		idx, err := redisindex.New(redisindex.Config{
			Addrs:     cfg.Corpus.Redis.Addrs,
			Username:  cfg.Corpus.Redis.Username,
			Password:  cfg.Corpus.Redis.Password,
			DB:        cfg.Corpus.Redis.DB,
			KeyPrefix: cfg.Corpus.Redis.KeyPrefix,
		})
		if err != nil {
			return err
		}
		defer idx.Close()
		readiness := time.Duration(cfg.Corpus.Redis.ReadinessTimeout) * time.Second
		if err := idx.WaitForReady(ctx, readiness); err != nil {
			return err
		}
		count, err := idx.Count(ctx)
		if err != nil {
			return err
		}
		log.Info("connected to corpus index", zap.Int64("paragraphs", count))
		svc.WithBodies(idx)
	}

	handler := chiTransport.NewServer(svc, log)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		log.Info("Received shutdown signal")
	case <-ctx.Done():
		log.Info("Context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
	return nil
}
