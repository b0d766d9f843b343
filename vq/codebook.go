// Package vq implements the vector quantizers of the feature codec: the
// three-stage cepstral quantizer with M-best survivor search (and its greedy
// counterpart) and the predictive, sign-searching quantizer used for the
// mid anchor.
package vq

import (
	"errors"
	"fmt"
)

// ErrInvalidCodebook indicates a table whose size does not match its
// declared dimension.
var ErrInvalidCodebook = errors.New("vq: invalid codebook")

// Codebook is an immutable table of Len() entries of Dim() values each.
// Codebooks are read-only after construction and safe to share between
// independent streams.
type Codebook struct {
	dim  int
	data []float32
}

// NewCodebook wraps data as a codebook of dim-wide entries. The slice is
// retained; callers must not modify it afterwards.
func NewCodebook(dim int, data []float32) (*Codebook, error) {
	if dim <= 0 || len(data) == 0 || len(data)%dim != 0 {
		return nil, fmt.Errorf("%w: %d values do not form %d-wide entries", ErrInvalidCodebook, len(data), dim)
	}
	return &Codebook{dim: dim, data: data}, nil
}

// Dim returns the entry dimension.
func (c *Codebook) Dim() int { return c.dim }

// Len returns the number of entries.
func (c *Codebook) Len() int { return len(c.data) / c.dim }

// Entry returns entry i. The returned slice aliases the table and must not
// be modified.
func (c *Codebook) Entry(i int) []float32 {
	return c.data[i*c.dim : (i+1)*c.dim : (i+1)*c.dim]
}

// Data returns the flat table. It must not be modified.
func (c *Codebook) Data() []float32 { return c.data }

// sqDist returns the squared distance between x and y over len(y) values.
func sqDist(x, y []float32) float32 {
	x = x[:len(y)]
	var d float32
	for j := range y {
		t := x[j] - y[j]
		d += t * t
	}
	return d
}

// nearest returns the index of the entry closest to x and its distance.
func (c *Codebook) nearest(x []float32) (int, float32) {
	best := 0
	minDist := float32(1e15)
	for i := 0; i < c.Len(); i++ {
		if d := sqDist(x, c.Entry(i)); d < minDist {
			minDist = d
			best = i
		}
	}
	return best, minDist
}
