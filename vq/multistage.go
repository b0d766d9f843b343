package vq

import "fmt"

// MultiStage is a cascade of Stages codebooks of equal dimension. The
// reconstruction of a path is the sum of its chosen entries.
type MultiStage struct {
	stages [Stages]*Codebook
}

// NewMultiStage builds a cascade from per-stage codebooks.
func NewMultiStage(stages [Stages]*Codebook) (*MultiStage, error) {
	for i, cb := range stages {
		if cb == nil {
			return nil, fmt.Errorf("%w: stage %d missing", ErrInvalidCodebook, i)
		}
		if cb.Dim() != stages[0].Dim() {
			return nil, fmt.Errorf("%w: stage %d dimension %d, want %d", ErrInvalidCodebook, i, cb.Dim(), stages[0].Dim())
		}
	}
	return &MultiStage{stages: stages}, nil
}

// Dim returns the vector dimension.
func (m *MultiStage) Dim() int { return m.stages[0].Dim() }

// Stage returns the codebook of stage i.
func (m *MultiStage) Stage(i int) *Codebook { return m.stages[i] }

// searchInto scans cb against target and offers every entry to list as an
// extension of base at the given stage.
func searchInto(cb *Codebook, target []float32, base Indices, stage int, list *survivors) {
	for i := 0; i < cb.Len(); i++ {
		d := sqDist(target, cb.Entry(i))
		if list.n == Survivors && d >= list.c[Survivors-1].dist {
			continue
		}
		c := candidate{dist: d, idx: base}
		c.idx[stage] = i
		list.insert(c)
	}
}

// residual writes x minus the entries of path up to (excluding) stage.
func (m *MultiStage) residual(dst, x []float32, path Indices, stage int) {
	copy(dst, x[:m.Dim()])
	for s := 0; s < stage; s++ {
		e := m.stages[s].Entry(path[s])
		for j := range dst {
			dst[j] -= e[j]
		}
	}
}

// Quantize finds the three-stage path with the lowest cumulative squared
// error using an M-best survivor search: each stage extends every survivor
// of the previous stage and keeps the Survivors best cumulative
// distortions globally, across parents. The greedy chain (nearest entry at
// each stage) is carried alongside so the result is never worse than
// QuantizeGreedy. It returns the chosen indices and their squared error.
func (m *MultiStage) Quantize(x []float32) (Indices, float32) {
	dim := m.Dim()
	diff := make([]float32, dim)

	var global, local survivors
	searchInto(m.stages[0], x, Indices{}, 0, &global)

	greedy := global.best()
	for stage := 1; stage < Stages; stage++ {
		parents := global
		global.reset()
		greedyFound := false
		for _, parent := range parents.items() {
			m.residual(diff, x, parent.idx, stage)
			local.reset()
			searchInto(m.stages[stage], diff, parent.idx, stage, &local)
			for _, c := range local.items() {
				global.insert(c)
			}
			if !greedyFound && parent.idx == greedy.idx {
				greedy = local.best()
				greedyFound = true
			}
		}
		if !greedyFound {
			// The greedy chain was pruned; extend it on its own.
			m.residual(diff, x, greedy.idx, stage)
			i, d := m.stages[stage].nearest(diff)
			greedy.idx[stage] = i
			greedy.dist = d
		}
	}

	best := global.best()
	if greedy.dist < best.dist {
		best = greedy
	}
	return best.idx, best.dist
}

// QuantizeGreedy picks the nearest entry at each stage independently of the
// others. It is cheaper than Quantize and never better.
func (m *MultiStage) QuantizeGreedy(x []float32) (Indices, float32) {
	diff := make([]float32, m.Dim())
	copy(diff, x[:m.Dim()])
	var idx Indices
	var dist float32
	for s := 0; s < Stages; s++ {
		idx[s], dist = m.stages[s].nearest(diff)
		e := m.stages[s].Entry(idx[s])
		for j := range diff {
			diff[j] -= e[j]
		}
	}
	return idx, dist
}

// Reconstruct writes the sum of the entries named by idx into dst.
func (m *MultiStage) Reconstruct(dst []float32, idx Indices) {
	e0 := m.stages[0].Entry(idx[0])
	e1 := m.stages[1].Entry(idx[1])
	e2 := m.stages[2].Entry(idx[2])
	for j := range e0 {
		dst[j] = e0[j] + e1[j] + e2[j]
	}
}
