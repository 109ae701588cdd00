package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mixuechu/wememory/pkg/vectorstore"
)

// ShardDir is the conventional subdirectory, relative to the final
// snapshot's directory, that per-conversation shard stores are written
// under during a sharded offline build.
const ShardDir = "shards"

// ShardPath returns the on-disk path for conversationName's shard
// snapshot under dir.
func ShardPath(dir, conversationName string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, conversationName)
	return filepath.Join(dir, safe+".store")
}

// WriteShard persists store as conversationName's shard under dir,
// creating dir if needed and overwriting any existing shard of that
// name. Each shard is a complete, independently loadable snapshot of one
// source conversation's sessions. `wememory build` embeds every input it
// is given; it does not skip conversations whose shard already exists.
func WriteShard(dir, conversationName string, store *vectorstore.Store) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ingest: create shard dir %s: %w", dir, err)
	}
	return store.Save(ShardPath(dir, conversationName))
}

// MergeShards loads every *.store file under dir (in stable filename
// order, for reproducible final-index ordering) and appends their rows
// into a single merged store.
func MergeShards(dir string, dimension int) (*vectorstore.Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: read shard dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".store") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	merged, err := vectorstore.New(dimension)
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		shard, err := vectorstore.Load(p)
		if err != nil {
			return nil, fmt.Errorf("ingest: load shard %s: %w", p, err)
		}
		for i := 0; i < shard.Len(); i++ {
			content, err := shard.Content(i)
			if err != nil {
				return nil, err
			}
			context, err := shard.Context(i)
			if err != nil {
				return nil, err
			}
			meta, err := shard.Meta(i)
			if err != nil {
				return nil, err
			}
			if err := merged.Add(content, context, meta); err != nil {
				return nil, fmt.Errorf("ingest: merge shard %s row %d: %w", p, i, err)
			}
		}
	}
	return merged, nil
}
