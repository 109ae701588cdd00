package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mixuechu/wememory/pkg/config"
	"github.com/mixuechu/wememory/pkg/embeddings"
	"github.com/mixuechu/wememory/pkg/ingest"
	"github.com/mixuechu/wememory/pkg/logger"
	"github.com/mixuechu/wememory/pkg/recall"
	"github.com/mixuechu/wememory/pkg/session"
	"github.com/mixuechu/wememory/pkg/vectorstore"
	"github.com/spf13/cobra"
)

var buildTokenBudget int

var buildCmd = &cobra.Command{
	Use:   "build [chat-log.json ...]",
	Short: "Run ingestion -> segmentation -> embedding -> snapshot for one or more conversation exports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return &recall.ConfigError{Reason: "load configuration", Cause: err}
		}
		return runBuild(cfg, args)
	},
}

func init() {
	buildCmd.Flags().IntVar(&buildTokenBudget, "token-budget", ingest.DefaultTokenBudget, "per-embedding-request estimated token budget")
}

func runBuild(cfg *config.Config, logPaths []string) error {
	if err := logger.Init(); err != nil {
		// logger.Init needs config.Get(), which Load already populated.
		fmt.Fprintf(os.Stderr, "warning: logger init failed: %v\n", err)
	}

	embedder, err := embeddings.NewFromConfig(cfg.EmbeddingProvider, cfg.EmbeddingModel, cfg.EmbeddingBaseURL, cfg.Vector.Dimension)
	if err != nil {
		return &recall.ConfigError{Reason: "construct embedder", Cause: err}
	}
	defer embedder.Close()

	if err := config.EnsureSettingsDir(cfg.Store.ShardDir + string(os.PathSeparator)); err != nil {
		return err
	}

	builder := session.NewBuilder(session.BuilderConfig{
		TimeGap:       time.Duration(cfg.Session.TimeGapMinutes) * time.Minute,
		MinMessages:   cfg.Session.MinMessages,
		MaxMessages:   cfg.Session.MaxMessages,
		OverlapWindow: cfg.Session.OverlapWindow,
		OverlapMaxGap: cfg.Session.OverlapMaxGap,
	})

	loader := ingest.JSONLoader{}
	ctx := context.Background()
	totalSessions := 0

	for _, path := range logPaths {
		msgs, meta, err := loader.Load(path)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}

		sessions := builder.Build(msgs, meta)
		if len(sessions) == 0 {
			logger.Info("build: %s produced no sessions", path)
			continue
		}

		shardStore, err := embedAndStore(ctx, embedder, cfg, sessions, buildTokenBudget)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}

		if err := ingest.WriteShard(cfg.Store.ShardDir, meta.Name, shardStore); err != nil {
			return fmt.Errorf("build: %w", err)
		}
		totalSessions += len(sessions)
		logger.Info("build: wrote shard for %q (%d sessions)", meta.Name, len(sessions))
	}

	merged, err := ingest.MergeShards(cfg.Store.ShardDir, cfg.Vector.Dimension)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if err := config.EnsureSettingsDir(cfg.Store.SnapshotPath); err != nil {
		return err
	}
	if err := merged.Save(cfg.Store.SnapshotPath); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	fmt.Printf("wrote %s: %d sessions across %d conversation(s)\n", cfg.Store.SnapshotPath, totalSessions, len(logPaths))
	return nil
}

// embedAndStore plans token-bounded embedding batches over sessions,
// embeds both the content and context text of each, and appends the
// results to a fresh per-conversation Store.
func embedAndStore(ctx context.Context, embedder embeddings.Embedder, cfg *config.Config, sessions []session.Session, tokenBudget int) (*vectorstore.Store, error) {
	store, err := vectorstore.New(cfg.Vector.Dimension)
	if err != nil {
		return nil, err
	}

	batches := ingest.PlanBatches(sessions, tokenBudget)
	for _, batch := range batches {
		contentTexts := make([]string, len(batch))
		contextTexts := make([]string, len(batch))
		for i, s := range batch {
			contentTexts[i] = s.ContentText
			contextTexts[i] = s.ContextText
		}

		contentVecs := ingest.EmbedWithFallback(ctx, embedder, contentTexts, cfg.Vector.Dimension)
		contextVecs := ingest.EmbedWithFallback(ctx, embedder, contextTexts, cfg.Vector.Dimension)

		for i, s := range batch {
			meta := vectorstore.MetaOf(s)
			if err := store.Add(contentVecs[i], contextVecs[i], meta); err != nil {
				return nil, fmt.Errorf("store session %s: %w", s.SessionID, err)
			}
		}
	}
	return store, nil
}
