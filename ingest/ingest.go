// Package ingest reads 16-bit PCM speech and prepares it for feature
// analysis: optional rate conversion to 16 kHz, a DC-blocking high-pass
// and pre-emphasis. Frames come out in 16-bit PCM scale.
package ingest

import (
	"errors"
	"fmt"
	"io"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/thesyncim/lpcfeat/types"
)

// DefaultPreemphasis is the pre-emphasis coefficient used when none is set.
const DefaultPreemphasis = 0.85

// High-pass biquad, zeros at DC.
var (
	hpB = [2]float32{-2, 1}
	hpA = [2]float32{-1.99599, 0.99600}
)

// Config describes the input stream and the conditioning applied to it.
type Config struct {
	// SampleRate is the input rate. Zero means 16 kHz.
	SampleRate int
	// HighPass enables the DC-blocking filter.
	HighPass bool
	// Preemphasis is the first-order pre-emphasis coefficient; zero
	// disables it.
	Preemphasis float32
}

// DefaultConfig returns the conditioning used for training data: 16 kHz
// input, high-pass on, pre-emphasis 0.85.
func DefaultConfig() Config {
	return Config{SampleRate: types.SampleRate, HighPass: true, Preemphasis: DefaultPreemphasis}
}

// Reader yields conditioned frames of FrameSize samples from s16le input.
// A Reader is not safe for concurrent use.
type Reader struct {
	src io.Reader
	cfg Config

	rs      resampling.Resampler
	readBuf []byte
	in      []float64
	pending []float32
	eof     bool

	hpMem    [2]float32
	preemMem float32
}

// NewReader wraps r, which must carry mono signed 16-bit little-endian
// samples at cfg.SampleRate.
func NewReader(r io.Reader, cfg Config) (*Reader, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = types.SampleRate
	}
	if cfg.SampleRate < 0 {
		return nil, fmt.Errorf("ingest: invalid sample rate %d", cfg.SampleRate)
	}
	rd := &Reader{
		src:     r,
		cfg:     cfg,
		readBuf: make([]byte, 2*types.FrameSize*4),
	}
	if cfg.SampleRate != types.SampleRate {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(cfg.SampleRate),
			OutputRate: float64(types.SampleRate),
			Channels:   1,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("ingest: create resampler: %w", err)
		}
		rd.rs = rs
	}
	return rd, nil
}

// ReadFrame fills dst with the next FrameSize conditioned samples. It
// returns io.EOF once fewer than FrameSize samples remain; the tail is
// dropped.
func (r *Reader) ReadFrame(dst []float32) error {
	dst = dst[:types.FrameSize]
	for len(r.pending) < types.FrameSize {
		if r.eof {
			return io.EOF
		}
		if err := r.fill(); err != nil {
			return err
		}
	}
	copy(dst, r.pending[:types.FrameSize])
	r.pending = r.pending[types.FrameSize:]
	r.condition(dst)
	return nil
}

// fill reads one chunk of input and appends the converted samples to
// pending.
func (r *Reader) fill() error {
	n, err := io.ReadFull(r.src, r.readBuf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		r.eof = true
	default:
		return fmt.Errorf("ingest: read: %w", err)
	}
	n &^= 1

	if r.rs == nil {
		for i := 0; i < n; i += 2 {
			r.pending = append(r.pending, float32(int16(uint16(r.readBuf[i])|uint16(r.readBuf[i+1])<<8)))
		}
		return nil
	}

	r.in = r.in[:0]
	for i := 0; i < n; i += 2 {
		s := int16(uint16(r.readBuf[i]) | uint16(r.readBuf[i+1])<<8)
		r.in = append(r.in, float64(s)/32768.0)
	}
	if len(r.in) == 0 {
		return nil
	}
	out, err := r.rs.Process(r.in)
	if err != nil {
		return fmt.Errorf("ingest: resample: %w", err)
	}
	for _, s := range out {
		r.pending = append(r.pending, float32(s*32768.0))
	}
	return nil
}

func (r *Reader) condition(x []float32) {
	if r.cfg.HighPass {
		biquad(x, &r.hpMem, hpB, hpA)
	}
	if r.cfg.Preemphasis != 0 {
		preemphasis(x, &r.preemMem, r.cfg.Preemphasis)
	}
}

// biquad filters x in place. The recursion runs in double precision.
func biquad(x []float32, mem *[2]float32, b, a [2]float32) {
	for i, xi := range x {
		yi := xi + mem[0]
		mem[0] = float32(float64(mem[1]) + (float64(b[0])*float64(xi) - float64(a[0])*float64(yi)))
		mem[1] = float32(float64(b[1])*float64(xi) - float64(a[1])*float64(yi))
		x[i] = yi
	}
}

// preemphasis applies y[n] = x[n] - coef*x[n-1] in place.
func preemphasis(x []float32, mem *float32, coef float32) {
	for i, xi := range x {
		x[i] = xi + *mem
		*mem = -coef * xi
	}
}
