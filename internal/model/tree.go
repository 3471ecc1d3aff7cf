package model

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TreeConfig bounds the growth of a single regression tree
type TreeConfig struct {
	MaxDepth       int // 0 means unlimited
	MinSamplesLeaf int
}

type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	leaf      bool
}

// RegressionTree is a CART tree minimizing squared error. Samples with
// x[feature] <= threshold go left.
type RegressionTree struct {
	nodes []node
}

// columnLayout splits the feature matrix into 0/1 indicator columns, kept
// sparsely as the set of columns that are 1 in each row, and numeric columns
// that need a sorted scan.
type columnLayout struct {
	x       [][]float64
	binary  []bool
	numeric []int
	active  [][]int
}

func newColumnLayout(x [][]float64) *columnLayout {
	nfeat := len(x[0])
	l := &columnLayout{x: x, binary: make([]bool, nfeat), active: make([][]int, len(x))}
	for f := 0; f < nfeat; f++ {
		l.binary[f] = true
		for _, row := range x {
			if row[f] != 0 && row[f] != 1 {
				l.binary[f] = false
				l.numeric = append(l.numeric, f)
				break
			}
		}
	}
	for i, row := range x {
		for f, v := range row {
			if l.binary[f] && v == 1 {
				l.active[i] = append(l.active[i], f)
			}
		}
	}
	return l
}

// treeBuilder grows one tree over positions 0..n-1 of a bootstrap draw.
// Every node owns the range [lo, hi) of rows and of each presorted numeric
// order; a split stably partitions those ranges in place.
type treeBuilder struct {
	layout *columnLayout
	y      []float64
	idx    []int
	cfg    TreeConfig
	rng    *rand.Rand
	nodes  []node

	rows    []int
	order   [][]int
	scratch []int
	goLeft  []bool
	values  []float64
	perm    []int

	cnt     []int
	sum     []float64
	sq      []float64
	touched []int
}

// fitTree grows a tree on the samples listed in idx. Repeated indices carry
// bootstrap multiplicity.
func fitTree(x [][]float64, y []float64, idx []int, cfg TreeConfig, rng *rand.Rand) *RegressionTree {
	return growTree(newColumnLayout(x), y, idx, cfg, rng)
}

func growTree(layout *columnLayout, y []float64, idx []int, cfg TreeConfig, rng *rand.Rand) *RegressionTree {
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = 1
	}
	n := len(idx)
	nfeat := len(layout.binary)
	b := &treeBuilder{
		layout:  layout,
		y:       y,
		idx:     idx,
		cfg:     cfg,
		rng:     rng,
		rows:    make([]int, n),
		order:   make([][]int, nfeat),
		scratch: make([]int, n),
		goLeft:  make([]bool, n),
		perm:    make([]int, nfeat),
		cnt:     make([]int, nfeat),
		sum:     make([]float64, nfeat),
		sq:      make([]float64, nfeat),
	}
	for p := range b.rows {
		b.rows[p] = p
	}
	for _, f := range layout.numeric {
		ord := make([]int, n)
		copy(ord, b.rows)
		sort.SliceStable(ord, func(a, c int) bool { return b.value(ord[a], f) < b.value(ord[c], f) })
		b.order[f] = ord
	}

	b.build(0, n, 0)
	return &RegressionTree{nodes: b.nodes}
}

// value returns feature f of the sample drawn at bootstrap position p
func (b *treeBuilder) value(p, f int) float64 {
	return b.layout.x[b.idx[p]][f]
}

func (b *treeBuilder) target(p int) float64 {
	return b.y[b.idx[p]]
}

func (b *treeBuilder) leafValue(lo, hi int) float64 {
	b.values = b.values[:0]
	for _, p := range b.rows[lo:hi] {
		b.values = append(b.values, b.target(p))
	}
	return stat.Mean(b.values, nil)
}

func (b *treeBuilder) build(lo, hi, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{leaf: true, value: b.leafValue(lo, hi)})

	if hi-lo < 2*b.cfg.MinSamplesLeaf || (b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) || b.constantTargets(lo, hi) {
		return id
	}

	feature, threshold, ok := b.bestSplit(lo, hi)
	if !ok {
		return id
	}

	mid := b.partition(lo, hi, feature, threshold)
	l := b.build(lo, mid, depth+1)
	r := b.build(mid, hi, depth+1)
	b.nodes[id] = node{feature: feature, threshold: threshold, left: l, right: r}
	return id
}

func (b *treeBuilder) constantTargets(lo, hi int) bool {
	first := b.target(b.rows[lo])
	for _, p := range b.rows[lo+1 : hi] {
		if b.target(p) != first {
			return false
		}
	}
	return true
}

// partition moves the left child's positions to the front of every range the
// node owns and returns the boundary.
func (b *treeBuilder) partition(lo, hi, feature int, threshold float64) int {
	nl := 0
	for _, p := range b.rows[lo:hi] {
		b.goLeft[p] = b.value(p, feature) <= threshold
		if b.goLeft[p] {
			nl++
		}
	}
	b.stablePartition(b.rows[lo:hi], nl)
	for _, f := range b.layout.numeric {
		b.stablePartition(b.order[f][lo:hi], nl)
	}
	return lo + nl
}

func (b *treeBuilder) stablePartition(seg []int, nl int) {
	l, r := 0, nl
	for _, p := range seg {
		if b.goLeft[p] {
			b.scratch[l] = p
			l++
		} else {
			b.scratch[r] = p
			r++
		}
	}
	copy(seg, b.scratch[:len(seg)])
}

// bestSplit scans every feature, visited in a seeded random order, for the
// threshold with the lowest summed squared error of both children.
// Indicator columns have one candidate threshold (0.5) and are scored from
// per-column sums of the rows where they are 1.
func (b *treeBuilder) bestSplit(lo, hi int) (int, float64, bool) {
	n := hi - lo
	minLeaf := b.cfg.MinSamplesLeaf

	var total, totalSq float64
	for _, p := range b.rows[lo:hi] {
		y := b.target(p)
		total += y
		totalSq += y * y
		for _, f := range b.layout.active[b.idx[p]] {
			if b.cnt[f] == 0 {
				b.touched = append(b.touched, f)
			}
			b.cnt[f]++
			b.sum[f] += y
			b.sq[f] += y * y
		}
	}
	defer b.resetCounts()

	bestSSE := totalSq - total*total/float64(n)
	bestFeature, bestThreshold, found := -1, 0.0, false
	consider := func(f int, threshold float64, nl int, leftSum, leftSq float64) {
		nr := n - nl
		if nl < minLeaf || nr < minLeaf {
			return
		}
		rightSum := total - leftSum
		rightSq := totalSq - leftSq
		sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
		if sse < bestSSE-1e-9*(1+bestSSE) {
			bestSSE = sse
			bestFeature = f
			bestThreshold = threshold
			found = true
		}
	}

	for i := range b.perm {
		b.perm[i] = i
	}
	b.rng.Shuffle(len(b.perm), func(i, j int) { b.perm[i], b.perm[j] = b.perm[j], b.perm[i] })

	for _, f := range b.perm {
		if b.layout.binary[f] {
			ones := b.cnt[f]
			if ones == 0 || ones == n {
				continue
			}
			// zeros go left
			consider(f, 0.5, n-ones, total-b.sum[f], totalSq-b.sq[f])
			continue
		}

		ord := b.order[f][lo:hi]
		if b.value(ord[0], f) == b.value(ord[n-1], f) {
			continue
		}
		var leftSum, leftSq float64
		for k := 0; k < n-1; k++ {
			y := b.target(ord[k])
			leftSum += y
			leftSq += y * y
			cur, next := b.value(ord[k], f), b.value(ord[k+1], f)
			if cur == next {
				continue
			}
			consider(f, cur+(next-cur)/2, k+1, leftSum, leftSq)
		}
	}
	return bestFeature, bestThreshold, found
}

func (b *treeBuilder) resetCounts() {
	for _, f := range b.touched {
		b.cnt[f] = 0
		b.sum[f] = 0
		b.sq[f] = 0
	}
	b.touched = b.touched[:0]
}

// Predict walks the tree for one encoded sample
func (t *RegressionTree) Predict(x []float64) float64 {
	i := 0
	for !t.nodes[i].leaf {
		n := t.nodes[i]
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].value
}

// Depth returns the number of edges on the longest root-to-leaf path
func (t *RegressionTree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		if t.nodes[i].leaf {
			return 0
		}
		l, r := walk(t.nodes[i].left), walk(t.nodes[i].right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return walk(0)
}
