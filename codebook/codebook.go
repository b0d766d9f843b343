// Package codebook holds the constant tables used by the feature quantizer.
//
// A Set is immutable once built and may be shared by any number of encoders
// and decoders. Default returns a deterministic built-in set; trained tables
// can be swapped in through Load.
package codebook

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"math/rand"
	"sync"

	"github.com/thesyncim/lpcfeat/types"
	"github.com/thesyncim/lpcfeat/vq"
	"github.com/vmihailenco/msgpack/v5"
)

// Table sizes.
const (
	StageEntries = 1024
	DiffEntries  = 4096
)

// FormatVersion is written into every saved set.
const FormatVersion = 1

// ErrInvalidSet is returned when a set does not have the expected shape.
var ErrInvalidSet = errors.New("codebook: invalid set")

// Set is the full collection of tables for one codec configuration.
type Set struct {
	stages [vq.Stages]*vq.Codebook
	diff   *vq.PredictiveCodebook

	multi *vq.MultiStage
}

// New builds a Set from raw tables. stages holds the three cepstral stage
// tables of StageEntries × CodedDims values, diff the differential table of
// DiffEntries × NumBands values. The slices are retained.
func New(stages [vq.Stages][]float32, diff []float32) (*Set, error) {
	var s Set
	for i, data := range stages {
		if len(data) != StageEntries*types.CodedDims {
			return nil, fmt.Errorf("%w: stage %d has %d values, want %d", ErrInvalidSet, i+1, len(data), StageEntries*types.CodedDims)
		}
		cb, err := vq.NewCodebook(types.CodedDims, data)
		if err != nil {
			return nil, err
		}
		s.stages[i] = cb
	}
	if len(diff) != DiffEntries*types.NumBands {
		return nil, fmt.Errorf("%w: differential table has %d values, want %d", ErrInvalidSet, len(diff), DiffEntries*types.NumBands)
	}
	dcb, err := vq.NewCodebook(types.NumBands, diff)
	if err != nil {
		return nil, err
	}
	if s.diff, err = vq.NewPredictiveCodebook(dcb); err != nil {
		return nil, err
	}
	if s.multi, err = vq.NewMultiStage(s.stages); err != nil {
		return nil, err
	}
	return &s, nil
}

// Stage returns cepstral stage table i in [0,3).
func (s *Set) Stage(i int) *vq.Codebook { return s.stages[i] }

// MultiStage returns the three-stage quantizer over the stage tables.
func (s *Set) MultiStage() *vq.MultiStage { return s.multi }

// Diff returns the predictive differential table.
func (s *Set) Diff() *vq.PredictiveCodebook { return s.diff }

// Checksum returns a CRC-32 over every table value. Streams record it so a
// decoder can tell it was handed the tables the encoder used.
func (s *Set) Checksum() uint32 {
	h := crc32.NewIEEE()
	var b [4]byte
	put := func(data []float32) {
		for _, v := range data {
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
			h.Write(b[:])
		}
	}
	for _, cb := range s.stages {
		put(cb.Data())
	}
	put(s.diff.Codebook().Data())
	return h.Sum32()
}

// Default returns the built-in set. It is generated once from a fixed seed,
// so every process sees bit-identical tables.
var Default = sync.OnceValue(func() *Set {
	s, err := Generate(defaultSeed)
	if err != nil {
		panic(err)
	}
	return s
})

const defaultSeed = 0x4c50434e

// Generate builds a set of Gaussian tables from seed. Stage spreads shrink
// with depth and with cepstral order so later stages refine the residual of
// earlier ones.
func Generate(seed int64) (*Set, error) {
	rng := rand.New(rand.NewSource(seed))

	stageScale := [vq.Stages]float64{1, 0.35, 0.15}
	var stages [vq.Stages][]float32
	for st := range stages {
		data := make([]float32, StageEntries*types.CodedDims)
		for e := 0; e < StageEntries; e++ {
			for k := 0; k < types.CodedDims; k++ {
				std := stageScale[st] * 1.5 / (1 + 0.3*float64(k))
				data[e*types.CodedDims+k] = float32(std * rng.NormFloat64())
			}
		}
		stages[st] = data
	}

	diff := make([]float32, DiffEntries*types.NumBands)
	for i := range diff {
		diff[i] = float32(0.25 * rng.NormFloat64())
	}
	return New(stages, diff)
}

type table struct {
	Dim     int       `msgpack:"dim"`
	Entries int       `msgpack:"entries"`
	Data    []float32 `msgpack:"data"`
}

type file struct {
	Version int     `msgpack:"version"`
	Stages  []table `msgpack:"stages"`
	Diff    table   `msgpack:"diff"`
}

func (t table) check(name string, dim, entries int) error {
	if t.Dim != dim || t.Entries != entries || len(t.Data) != dim*entries {
		return fmt.Errorf("%w: %s is %d×%d with %d values, want %d×%d", ErrInvalidSet, name, t.Entries, t.Dim, len(t.Data), entries, dim)
	}
	return nil
}

// Save writes s to w in msgpack form.
func (s *Set) Save(w io.Writer) error {
	f := file{Version: FormatVersion}
	for _, cb := range s.stages {
		f.Stages = append(f.Stages, table{Dim: cb.Dim(), Entries: cb.Len(), Data: cb.Data()})
	}
	dcb := s.diff.Codebook()
	f.Diff = table{Dim: dcb.Dim(), Entries: dcb.Len(), Data: dcb.Data()}
	if err := msgpack.NewEncoder(w).Encode(&f); err != nil {
		return fmt.Errorf("codebook: encode: %w", err)
	}
	return nil
}

// Load reads a set written by Save.
func Load(r io.Reader) (*Set, error) {
	var f file
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("codebook: decode: %w", err)
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSet, f.Version)
	}
	if len(f.Stages) != vq.Stages {
		return nil, fmt.Errorf("%w: %d stages, want %d", ErrInvalidSet, len(f.Stages), vq.Stages)
	}
	var stages [vq.Stages][]float32
	for i, t := range f.Stages {
		if err := t.check(fmt.Sprintf("stage %d", i+1), types.CodedDims, StageEntries); err != nil {
			return nil, err
		}
		stages[i] = t.Data
	}
	if err := f.Diff.check("differential table", types.NumBands, DiffEntries); err != nil {
		return nil, err
	}
	return New(stages, f.Diff.Data)
}
