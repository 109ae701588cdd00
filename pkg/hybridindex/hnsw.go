package hybridindex

import (
	"container/heap"
	"math"
	"math/rand"
)

// DefaultHNSWM is the maximum number of neighbors per node at every layer
// above the base layer (the base layer allows 2M).
const DefaultHNSWM = 32

const defaultEfConstruction = 200

// hnswGraph is a hierarchical navigable small-world graph over a fixed
// set of unit vectors, searched by squared Euclidean distance. It trades
// exhaustive-search guarantees for sublinear lookups on large corpora.
type hnswGraph struct {
	m              int
	mMax0          int
	efConstruction int
	levelMult      float64

	vectors    [][]float32
	neighbors  [][][]int // neighbors[id][layer] -> neighbor ids
	nodeLevel  []int
	entryPoint int
	maxLevel   int

	rng *rand.Rand
}

func newHNSWGraph(m int, seed int64) *hnswGraph {
	if m <= 0 {
		m = DefaultHNSWM
	}
	return &hnswGraph{
		m:              m,
		mMax0:          2 * m,
		efConstruction: defaultEfConstruction,
		levelMult:      1 / math.Log(float64(m)),
		entryPoint:     -1,
		maxLevel:       -1,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// build inserts every vector into a fresh graph, in order. Vectors must
// already be unit-normalized by the caller.
func (g *hnswGraph) build(vectors [][]float32) {
	g.vectors = vectors
	g.neighbors = make([][][]int, len(vectors))
	g.nodeLevel = make([]int, len(vectors))
	g.entryPoint = -1
	g.maxLevel = -1

	for id := range vectors {
		g.insert(id)
	}
}

func (g *hnswGraph) randomLevel() int {
	lvl := int(math.Floor(-math.Log(g.rng.Float64()+1e-12) * g.levelMult))
	return lvl
}

func (g *hnswGraph) insert(id int) {
	level := g.randomLevel()
	g.nodeLevel[id] = level
	g.neighbors[id] = make([][]int, level+1)

	if g.entryPoint == -1 {
		g.entryPoint = id
		g.maxLevel = level
		return
	}

	cur := g.entryPoint
	for l := g.maxLevel; l > level; l-- {
		cur = g.greedyClosest(cur, g.vectors[id], l)
	}

	for l := min(level, g.maxLevel); l >= 0; l-- {
		candidates := g.searchLayer(g.vectors[id], cur, g.efConstruction, l)
		selected := selectNeighbors(candidates, g.maxNeighbors(l))
		g.neighbors[id][l] = selected
		for _, nb := range selected {
			g.connect(nb, id, l)
		}
		if len(candidates) > 0 {
			cur = candidates[0].id
		}
	}

	if level > g.maxLevel {
		g.maxLevel = level
		g.entryPoint = id
	}
}

func (g *hnswGraph) maxNeighbors(layer int) int {
	if layer == 0 {
		return g.mMax0
	}
	return g.m
}

// connect adds a bidirectional edge from -> to at layer, pruning back to
// the layer's max-degree if it overflows.
func (g *hnswGraph) connect(from, to, layer int) {
	if layer >= len(g.neighbors[from]) {
		return
	}
	g.neighbors[from][layer] = append(g.neighbors[from][layer], to)
	if len(g.neighbors[from][layer]) > g.maxNeighbors(layer) {
		cands := make([]neighborDist, 0, len(g.neighbors[from][layer]))
		for _, n := range g.neighbors[from][layer] {
			cands = append(cands, neighborDist{id: n, dist: squaredL2(g.vectors[from], g.vectors[n])})
		}
		g.neighbors[from][layer] = selectNeighbors(cands, g.maxNeighbors(layer))
	}
}

// greedyClosest walks from entry toward the single closest neighbor at
// layer, used only to descend through the upper sparse layers.
func (g *hnswGraph) greedyClosest(entry int, query []float32, layer int) int {
	best := entry
	bestDist := squaredL2(g.vectors[entry], query)
	improved := true
	for improved {
		improved = false
		for _, nb := range g.layerNeighbors(best, layer) {
			d := squaredL2(g.vectors[nb], query)
			if d < bestDist {
				bestDist = d
				best = nb
				improved = true
			}
		}
	}
	return best
}

func (g *hnswGraph) layerNeighbors(id, layer int) []int {
	if layer >= len(g.neighbors[id]) {
		return nil
	}
	return g.neighbors[id][layer]
}

type neighborDist struct {
	id   int
	dist float32
}

// searchLayer performs a best-first search of layer starting at entry,
// keeping up to ef candidates, and returns them sorted closest-first.
func (g *hnswGraph) searchLayer(query []float32, entry int, ef int, layer int) []neighborDist {
	visited := map[int]struct{}{entry: {}}
	entryDist := squaredL2(g.vectors[entry], query)

	candidates := &minHeap{{id: entry, dist: entryDist}}
	results := &maxHeap{{id: entry, dist: entryDist}}

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(neighborDist)
		worst := (*results)[0]
		if c.dist > worst.dist && results.Len() >= ef {
			break
		}
		for _, nb := range g.layerNeighbors(c.id, layer) {
			if _, ok := visited[nb]; ok {
				continue
			}
			visited[nb] = struct{}{}
			d := squaredL2(g.vectors[nb], query)
			if results.Len() < ef || d < (*results)[0].dist {
				heap.Push(candidates, neighborDist{id: nb, dist: d})
				heap.Push(results, neighborDist{id: nb, dist: d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]neighborDist, results.Len())
	copy(out, *results)
	sortByDistAsc(out)
	return out
}

// selectNeighbors keeps the closest m candidates.
func selectNeighbors(candidates []neighborDist, m int) []int {
	sortByDistAsc(candidates)
	if len(candidates) > m {
		candidates = candidates[:m]
	}
	out := make([]int, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

func sortByDistAsc(c []neighborDist) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].dist < c[j-1].dist; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}

// searchN returns up to n nearest neighbors of query across the whole
// graph, closest first. The hybrid index calls this with n equal to the
// corpus size: fusion needs a similarity value for every document, not
// just a top-k shortlist, so the search must cover (within HNSW's
// recall) the full candidate set rather than stop early.
func (g *hnswGraph) searchN(query []float32, n int) []neighborDist {
	if g.entryPoint == -1 {
		return nil
	}
	cur := g.entryPoint
	for l := g.maxLevel; l > 0; l-- {
		cur = g.greedyClosest(cur, query, l)
	}
	ef := n
	if ef < defaultEfConstruction {
		ef = defaultEfConstruction
	}
	return g.searchLayer(query, cur, ef, 0)
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// minHeap / maxHeap implement container/heap.Interface over neighborDist,
// ordered by ascending and descending distance respectively.
type minHeap []neighborDist

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(neighborDist)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type maxHeap []neighborDist

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(neighborDist)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
