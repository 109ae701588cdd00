package cmd

import (
	"fmt"

	"github.com/mixuechu/wememory/pkg/api"
	"github.com/mixuechu/wememory/pkg/config"
	"github.com/mixuechu/wememory/pkg/embeddings"
	"github.com/mixuechu/wememory/pkg/hybridindex"
	"github.com/mixuechu/wememory/pkg/logger"
	"github.com/mixuechu/wememory/pkg/recall"
	"github.com/mixuechu/wememory/pkg/vectorstore"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load a snapshot and start the HTTP recall façade",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return &recall.ConfigError{Reason: "load configuration", Cause: err}
		}
		return runServe(cfg)
	},
}

func runServe(cfg *config.Config) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	store, err := vectorstore.Load(cfg.Store.SnapshotPath)
	if err != nil {
		return &recall.ConfigError{Reason: fmt.Sprintf("load snapshot %s", cfg.Store.SnapshotPath), Cause: err}
	}
	logger.Info("serve: loaded snapshot %s (%d sessions)", cfg.Store.SnapshotPath, store.Len())

	idx := hybridindex.New(store, hybridindex.Config{
		ContentWeight: cfg.Vector.ContentWeight,
		ContextWeight: cfg.Vector.ContextWeight,
		BM25Weight:    cfg.Index.BM25Weight,
		VectorWeight:  cfg.Index.VectorWeight,
		AnnThreshold:  cfg.Index.AnnThreshold,
		HNSWNeighbors: cfg.Index.HNSWM,
		BM25K1:        hybridindex.DefaultK1,
		BM25B:         hybridindex.DefaultB,
	})
	idx.BuildLexical()
	if store.Len() >= cfg.Index.AnnThreshold {
		if err := idx.BuildVector(); err != nil {
			return fmt.Errorf("serve: build vector index: %w", err)
		}
		logger.Info("serve: corpus size %d >= ann_threshold %d, ANN graphs built", store.Len(), cfg.Index.AnnThreshold)
	}

	embedder, err := embeddings.NewFromConfig(cfg.EmbeddingProvider, cfg.EmbeddingModel, cfg.EmbeddingBaseURL, cfg.Vector.Dimension)
	if err != nil {
		return &recall.ConfigError{Reason: "construct embedder", Cause: err}
	}
	defer embedder.Close()

	service := recall.NewService(store, idx, embedder, recall.Config{
		CacheTTL: cfg.Recall.CacheTTL,
		Explain: recall.ExplainConfig{
			BM25Threshold:   cfg.Index.ExplainBM25Threshold,
			CosineThreshold: cfg.Index.ExplainCosineThreshold,
		},
	})

	server := api.New(service)
	logger.Info("serve: listening on %s", cfg.Server.Addr)
	return server.App().Listen(cfg.Server.Addr)
}
