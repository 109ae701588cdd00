package cmd

import (
	"fmt"

	"github.com/mixuechu/wememory/pkg/embeddings"
	"github.com/mixuechu/wememory/pkg/hybridindex"
	"github.com/mixuechu/wememory/pkg/recall"
	"github.com/mixuechu/wememory/pkg/vectorstore"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate corpus statistics for the configured snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return &recall.ConfigError{Reason: "load configuration", Cause: err}
		}

		store, err := vectorstore.Load(cfg.Store.SnapshotPath)
		if err != nil {
			return &recall.ConfigError{Reason: fmt.Sprintf("load snapshot %s", cfg.Store.SnapshotPath), Cause: err}
		}

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

		// Stats never embeds a query, so a mock embedder of the right
		// dimension is enough to satisfy NewService without touching the
		// network.
		service := recall.NewService(store, idx, embeddings.NewMockEmbedder(cfg.Vector.Dimension), recall.DefaultConfig())
		s := service.Stats()

		fmt.Printf("memories:      %d\n", s.TotalMemories)
		fmt.Printf("conversations: %d\n", s.TotalConversations)
		fmt.Printf("earliest:      %s\n", s.EarliestTS.Format("2006-01-02 15:04"))
		fmt.Printf("latest:        %s\n", s.LatestTS.Format("2006-01-02 15:04"))
		fmt.Printf("dimension:     %d\n", s.VectorDimension)
		fmt.Printf("index type:    %s\n", s.ActiveIndexType)
		return nil
	},
}
