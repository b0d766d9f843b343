package vq

import "fmt"

// Predictor selects the baseline a differential codebook entry is added to.
type Predictor int

const (
	// PredictAverage uses the mean of the previous and current anchors.
	PredictAverage Predictor = iota
	// PredictPrevious uses the previous superframe's anchor alone.
	PredictPrevious
	// PredictCurrent uses the current superframe's end anchor alone.
	PredictCurrent
)

func (p Predictor) String() string {
	switch p {
	case PredictAverage:
		return "average"
	case PredictPrevious:
		return "previous"
	case PredictCurrent:
		return "current"
	default:
		return fmt.Sprintf("Predictor(%d)", int(p))
	}
}

// predictorGroups is the number of interleaved sub-tables; entry k belongs
// to sub-table k mod predictorGroups.
const predictorGroups = 4

// groupPredictor maps a sub-table to its predictor. The two average
// sub-tables are trained independently.
var groupPredictor = [predictorGroups]Predictor{PredictAverage, PredictAverage, PredictPrevious, PredictCurrent}

// PredictiveCodebook is a differential codebook whose entries are
// interleaved across predictor sub-tables.
type PredictiveCodebook struct {
	cb *Codebook
}

// NewPredictiveCodebook wraps cb; its length must be a multiple of the
// number of predictor sub-tables.
func NewPredictiveCodebook(cb *Codebook) (*PredictiveCodebook, error) {
	if cb == nil || cb.Len()%predictorGroups != 0 {
		return nil, fmt.Errorf("%w: predictive codebook length must be a multiple of %d", ErrInvalidCodebook, predictorGroups)
	}
	return &PredictiveCodebook{cb: cb}, nil
}

// Codebook returns the underlying table.
func (p *PredictiveCodebook) Codebook() *Codebook { return p.cb }

// Len returns the number of unsigned entries.
func (p *PredictiveCodebook) Len() int { return p.cb.Len() }

// Predictor returns the predictor entry i is coded against.
func (p *PredictiveCodebook) Predictor(i int) Predictor {
	return groupPredictor[i%predictorGroups]
}

// SignedEntry is a differential codebook entry together with its sign.
type SignedEntry struct {
	Index    int
	Negative bool
}

// Code folds the sign into the index: negative entries live in the upper
// half of a table of size entries.
func (e SignedEntry) Code(size int) int {
	if e.Negative {
		return e.Index + size
	}
	return e.Index
}

// EntryFromCode is the inverse of SignedEntry.Code.
func EntryFromCode(code, size int) SignedEntry {
	if code >= size {
		return SignedEntry{Index: code - size, Negative: true}
	}
	return SignedEntry{Index: code}
}

// Predictions holds the candidate baselines built from two anchors.
type Predictions struct {
	Average  []float32
	Previous []float32
	Current  []float32
}

// NewPredictions builds the baselines for the anchors prev and cur.
func NewPredictions(prev, cur []float32, dim int) Predictions {
	avg := make([]float32, dim)
	for i := range avg {
		avg[i] = 0.5 * (prev[i] + cur[i])
	}
	return Predictions{Average: avg, Previous: prev[:dim], Current: cur[:dim]}
}

// For returns the baseline used by predictor p.
func (ps *Predictions) For(p Predictor) []float32 {
	switch p {
	case PredictPrevious:
		return ps.Previous
	case PredictCurrent:
		return ps.Current
	default:
		return ps.Average
	}
}

// Differential quantizes a vector as predictor plus signed codebook entry.
type Differential struct {
	cb     *PredictiveCodebook
	signed bool
}

// NewDifferential returns a differential quantizer over cb. When signed is
// set, the negated table is searched too.
func NewDifferential(cb *PredictiveCodebook, signed bool) *Differential {
	return &Differential{cb: cb, signed: signed}
}

// Codebook returns the predictive codebook.
func (d *Differential) Codebook() *PredictiveCodebook { return d.cb }

// Quantize searches every (entry, sign) pair for the one whose predicted
// reconstruction is closest to x, writes the reconstruction into x and
// returns the choice with its squared error.
func (d *Differential) Quantize(x []float32, preds *Predictions) (SignedEntry, float32) {
	dim := d.cb.cb.Dim()
	var targets [predictorGroups][]float32
	for g := range targets {
		base := preds.For(groupPredictor[g])
		t := make([]float32, dim)
		for i := range t {
			t[i] = x[i] - base[i]
		}
		targets[g] = t
	}

	var best SignedEntry
	minDist := float32(1e15)
	n := d.cb.Len()
	for i := 0; i < n; i++ {
		if dist := sqDist(targets[i%predictorGroups], d.cb.cb.Entry(i)); dist < minDist {
			minDist = dist
			best = SignedEntry{Index: i}
		}
	}
	if d.signed {
		for i := 0; i < n; i++ {
			if dist := negDist(targets[i%predictorGroups], d.cb.cb.Entry(i)); dist < minDist {
				minDist = dist
				best = SignedEntry{Index: i, Negative: true}
			}
		}
	}
	d.Reconstruct(x, preds, best)
	return best, minDist
}

// Reconstruct writes predictor + sign*entry into dst.
func (d *Differential) Reconstruct(dst []float32, preds *Predictions, e SignedEntry) {
	base := preds.For(d.cb.Predictor(e.Index))
	entry := d.cb.cb.Entry(e.Index)
	s := float32(1)
	if e.Negative {
		s = -1
	}
	for i := range entry {
		dst[i] = base[i] + s*entry[i]
	}
}

// negDist returns the squared distance between x and -y.
func negDist(x, y []float32) float32 {
	x = x[:len(y)]
	var d float32
	for j := range y {
		t := x[j] + y[j]
		d += t * t
	}
	return d
}
