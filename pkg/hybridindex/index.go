// Package hybridindex couples a BM25 lexical index with dual HNSW
// approximate-nearest-neighbor graphs (content and context vectors) into
// a single fused ranking, filtered by time range and participants.
package hybridindex

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/mixuechu/wememory/pkg/tokenize"
	"github.com/mixuechu/wememory/pkg/vectorstore"
)

// Config holds the tunables the spec calls out as parameters rather than
// compiled-in constants: dual-vector blend weights, fusion weights, the
// ANN activation threshold, and BM25's own k1/b.
type Config struct {
	ContentWeight float64 // weight of cos_content in the blended vector score
	ContextWeight float64 // weight of cos_context in the blended vector score
	BM25Weight    float64 // w_b in the fusion sum
	VectorWeight  float64 // w_v in the fusion sum
	AnnThreshold  int     // corpus size at/above which the ANN backend is preferred
	HNSWNeighbors int     // M for both HNSW graphs
	BM25K1        float64
	BM25B         float64
}

// DefaultConfig matches the spec's documented empirical defaults.
func DefaultConfig() Config {
	return Config{
		ContentWeight: 0.85,
		ContextWeight: 0.15,
		BM25Weight:    0.5,
		VectorWeight:  0.5,
		AnnThreshold:  5000,
		HNSWNeighbors: DefaultHNSWM,
		BM25K1:        DefaultK1,
		BM25B:         DefaultB,
	}
}

// Result is one ranked hit with its full scoring breakdown, as required
// by the explanation step in the Recall Service.
type Result struct {
	Index      int
	Meta       vectorstore.Meta
	Hybrid     float64
	BM25Norm   float64
	Vec        float64
	CosContent float64
	CosContext float64
}

// Index is the hybrid scoring engine over a Vector Store snapshot.
type Index struct {
	store *vectorstore.Store
	cfg   Config

	mu   sync.RWMutex
	bm25 *bm25

	contentGraph     *hnswGraph
	contextGraph     *hnswGraph
	vectorBuiltLen   int
	annWarnOnce      sync.Once
}

// New builds an Index bound to store. Neither sub-index is built yet;
// call BuildLexical / BuildVector explicitly, or let Search lazily build
// the lexical side on first use.
func New(store *vectorstore.Store, cfg Config) *Index {
	return &Index{
		store: store,
		cfg:   cfg,
		bm25:  newBM25(cfg.BM25K1, cfg.BM25B),
	}
}

// LexicalState reports the BM25 sub-index's lifecycle state, accounting
// for sessions added to the store since the last build.
func (idx *Index) LexicalState() State {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lexicalStateLocked()
}

func (idx *Index) lexicalStateLocked() State {
	if idx.bm25.state == Uninitialized {
		return Uninitialized
	}
	if idx.bm25.n != idx.store.Len() {
		return Stale
	}
	return Built
}

// VectorState reports the ANN sub-index's lifecycle state. The ANN index
// is never rebuilt automatically (see Search), so this is purely
// informational.
func (idx *Index) VectorState() State {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.contentGraph == nil {
		return Uninitialized
	}
	if idx.vectorBuiltLen != idx.store.Len() {
		return Stale
	}
	return Built
}

// BuildLexical (re)builds the BM25 index from the store's current
// content text.
func (idx *Index) BuildLexical() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.buildLexicalLocked()
}

func (idx *Index) buildLexicalLocked() {
	n := idx.store.Len()
	tokensPerDoc := make([][]string, n)
	for i := 0; i < n; i++ {
		meta, _ := idx.store.Meta(i)
		tokensPerDoc[i] = tokenize.Tokenize(meta.ContentText)
	}
	idx.bm25.build(tokensPerDoc)
}

// BuildVector (re)builds both HNSW graphs from the store's current
// vectors. This is an explicit operation: callers on a corpus below
// AnnThreshold generally skip it and rely on the linear backend.
func (idx *Index) BuildVector() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n := idx.store.Len()
	contentVecs := make([][]float32, n)
	contextVecs := make([][]float32, n)
	for i := 0; i < n; i++ {
		cv, err := idx.store.Content(i)
		if err != nil {
			return fmt.Errorf("hybridindex: build vector index: %w", err)
		}
		xv, err := idx.store.Context(i)
		if err != nil {
			return fmt.Errorf("hybridindex: build vector index: %w", err)
		}
		contentVecs[i] = cv
		contextVecs[i] = xv
	}

	contentGraph := newHNSWGraph(idx.cfg.HNSWNeighbors, 1)
	contentGraph.build(contentVecs)
	contextGraph := newHNSWGraph(idx.cfg.HNSWNeighbors, 2)
	contextGraph.build(contextVecs)

	idx.contentGraph = contentGraph
	idx.contextGraph = contextGraph
	idx.vectorBuiltLen = n
	return nil
}

// Search runs the full fusion pipeline: BM25 against queryTokens, cosine
// similarity of queryContent (and, if non-nil, queryContext) against
// every stored vector, blended per cfg and filtered by filter. Results
// are sorted by Hybrid descending, ties broken by the smaller index.
func (idx *Index) Search(queryContent, queryContext []float32, queryTokens []string, filter Filter, topK int) ([]Result, error) {
	idx.mu.Lock()
	if idx.lexicalStateLocked() != Built {
		idx.buildLexicalLocked()
	}
	bm25Raw := idx.bm25.score(queryTokens)
	idx.mu.Unlock()
	bm25N := normalize(bm25Raw)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := idx.store.Len()
	cosContent := idx.cosineAgainstAll(queryContent, n, true)
	var cosContext []float64
	if queryContext != nil {
		cosContext = idx.cosineAgainstAll(queryContext, n, false)
	}

	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		meta, err := idx.store.Meta(i)
		if err != nil {
			return nil, err
		}
		if !filter.admits(meta) {
			continue
		}

		vec := cosContent[i]
		cc := 0.0
		if cosContext != nil {
			cc = cosContext[i]
			vec = idx.cfg.ContentWeight*cosContent[i] + idx.cfg.ContextWeight*cc
		}
		hybrid := idx.cfg.BM25Weight*bm25N[i] + idx.cfg.VectorWeight*vec

		results = append(results, Result{
			Index:      i,
			Meta:       meta,
			Hybrid:     hybrid,
			BM25Norm:   bm25N[i],
			Vec:        vec,
			CosContent: cosContent[i],
			CosContext: cc,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Hybrid != results[b].Hybrid {
			return results[a].Hybrid > results[b].Hybrid
		}
		return results[a].Index < results[b].Index
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// cosineAgainstAll returns cosine similarity of query against every
// stored vector, preferring the ANN backend when the corpus is large
// enough and built, else falling back to an exhaustive linear scan.
func (idx *Index) cosineAgainstAll(query []float32, n int, content bool) []float64 {
	graph := idx.contextGraph
	if content {
		graph = idx.contentGraph
	}

	useANN := n >= idx.cfg.AnnThreshold && graph != nil && idx.vectorBuiltLen == n
	if n >= idx.cfg.AnnThreshold && graph == nil {
		idx.annWarnOnce.Do(func() {
			log.Printf("hybridindex: corpus size %d >= ann_threshold %d but no ANN index is built; using linear backend", n, idx.cfg.AnnThreshold)
		})
	}

	out := make([]float64, n)
	if useANN {
		neighbors := graph.searchN(query, n)
		for _, nb := range neighbors {
			vec, err := idx.storedVector(nb.id, content)
			if err != nil || isZeroVector(vec) {
				continue
			}
			out[nb.id] = 1 - float64(nb.dist)/2
		}
		return out
	}

	for i := 0; i < n; i++ {
		vec, err := idx.storedVector(i, content)
		if err != nil || isZeroVector(vec) {
			continue
		}
		out[i] = 1 - squaredL2Linear(query, vec)/2
	}
	return out
}

// storedVector reads session i's content or context vector, per content.
func (idx *Index) storedVector(i int, content bool) ([]float32, error) {
	if content {
		return idx.store.Content(i)
	}
	return idx.store.Context(i)
}
