package vectorstore

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"
)

// snapshotVersion is bumped whenever the on-disk container's shape
// changes incompatibly.
const snapshotVersion = 1

// snapshot is the self-describing container Save writes to the exact
// path it is given (conventionally ending in .store):
// its own version tag plus the two parallel vector arrays and the
// metadata array, so Load can refuse a container it doesn't understand
// instead of silently misreading it.
type snapshot struct {
	Version   int
	Dimension int
	Content   [][]float32
	Context   [][]float32
	Meta      []Meta
}

// Save writes the store to path as a single self-describing container.
func (s *Store) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vectorstore: create snapshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	snap := snapshot{
		Version:   snapshotVersion,
		Dimension: s.dimension,
		Content:   s.content,
		Context:   s.context,
		Meta:      s.meta,
	}
	if err := gob.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("vectorstore: encode snapshot: %w", err)
	}
	return w.Flush()
}

// Load restores a store previously written by Save.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: open snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("vectorstore: decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, ErrUnsupportedStore
	}
	return &Store{
		dimension: snap.Dimension,
		content:   snap.Content,
		context:   snap.Context,
		meta:      snap.Meta,
	}, nil
}
