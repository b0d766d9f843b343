// encoder.go implements the superframe encoder.

package lpcfeat

import (
	"log/slog"
	"math"

	"github.com/thesyncim/lpcfeat/analysis"
	"github.com/thesyncim/lpcfeat/codebook"
	"github.com/thesyncim/lpcfeat/internal/dsp"
	"github.com/thesyncim/lpcfeat/interp"
	"github.com/thesyncim/lpcfeat/pitch"
	"github.com/thesyncim/lpcfeat/types"
	"github.com/thesyncim/lpcfeat/vq"
)

// Option configures an Encoder or a Decoder.
type Option func(*options)

type options struct {
	quantize bool
	relax    bool
	set      *codebook.Set
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		quantize: true,
		set:      codebook.Default(),
		logger:   slog.New(slog.DiscardHandler),
	}
}

// WithQuantize selects between quantized (the default) and raw features.
// Packets are only produced in quantized mode.
func WithQuantize(enabled bool) Option {
	return func(o *options) { o.quantize = enabled }
}

// WithCodebooks replaces the built-in codebooks. Encoder and decoder of a
// stream must use the same set.
func WithCodebooks(set *codebook.Set) Option {
	return func(o *options) { o.set = set }
}

// WithLogger sets the logger used for per-superframe debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInterpRelaxation pulls the mid anchor towards its neighbouring
// subframes before it is quantized. Packets stay decodable by any Decoder.
func WithInterpRelaxation(enabled bool) Option {
	return func(o *options) { o.relax = enabled }
}

// Superframe is the output of one completed superframe.
type Superframe struct {
	// Features holds the four feature rows. In quantized mode they are the
	// rows a Decoder rebuilds from Packet.
	Features FeatureMatrix

	// Packet is the coded superframe. It is zero in raw mode.
	Packet Packet

	// Pitch is the tracker outcome the features were built from.
	Pitch pitch.Result
}

// Encoder turns a stream of frames into feature matrices and packets.
//
// An Encoder is not safe for concurrent use. Each stream needs its own
// Encoder; frames must be pushed in arrival order.
type Encoder struct {
	an      *analysis.Analyzer
	tracker pitch.Tracker
	set     *codebook.Set
	diff    *vq.Differential
	lpc     [types.LPCOrder]float32

	quantize bool
	relax    bool
	logger   *slog.Logger

	features FeatureMatrix
	halves   [types.HalfFramesPerFrame]analysis.HalfFrame
	pcount   int
	vqMem    [types.NumBands]float32
	count    int
}

// NewEncoder creates an encoder with zeroed history.
func NewEncoder(opts ...Option) (*Encoder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.set == nil {
		return nil, ErrInvalidCodebook
	}
	return &Encoder{
		an:       analysis.New(),
		set:      o.set,
		diff:     vq.NewDifferential(o.set.Diff(), true),
		quantize: o.quantize,
		relax:    o.relax,
		logger:   o.logger,
	}, nil
}

// Cepstrum returns the cepstrum of the frame analyzed age frames ago, age 0
// being the latest, for callers computing their own deltas. age must be
// below CepsMem. The slice is a copy.
func (e *Encoder) Cepstrum(age int) []float32 { return e.an.Cepstrum(age) }

// Superframes returns the number of completed superframes.
func (e *Encoder) Superframes() int { return e.count }

// Reset clears all stream history.
func (e *Encoder) Reset() {
	e.an.Reset()
	e.tracker = pitch.Tracker{}
	e.features = FeatureMatrix{}
	e.pcount = 0
	e.vqMem = [types.NumBands]float32{}
	e.count = 0
}

// Push analyzes one frame of FrameSize samples in 16-bit PCM scale. When
// the frame completes a superframe, Push fills sf and returns true.
func (e *Encoder) Push(pcm []float32, sf *Superframe) (bool, error) {
	if len(pcm) != types.FrameSize {
		return false, ErrInvalidFrameSize
	}
	e.an.Analyze(&e.features[e.pcount], &e.halves, pcm)
	for half := range e.halves {
		h := &e.halves[half]
		e.tracker.Store(e.pcount, half, h.Xcorr[:], h.Energy)
	}
	e.pcount++
	if e.pcount < types.SubframesPerSuperframe {
		return false, nil
	}
	e.pcount = 0
	e.finish(sf)
	return true, nil
}

func (e *Encoder) finish(sf *Superframe) {
	res := e.tracker.Track(e.quantize)
	f := &e.features
	for sub := range f {
		if e.quantize {
			f[sub][types.ColPitch] = pitch.Feature(res.MainPitch, res.Modulation, sub)
		} else {
			f[sub][types.ColPitch] = res.RawFeature(sub)
		}
		f[sub][types.ColCorr] = res.FrameCorr - 0.5
	}

	var p Packet
	if e.quantize {
		p = e.quantizeAnchors(f)
		p.MainPitch = res.MainPitch
		p.Voiced = res.Voiced
		p.Modulation = res.Modulation
		p.CorrBin = res.CorrBin
	}
	refreshLPC(e.an.Transform(), f, e.lpc[:])
	copy(e.vqMem[:], f[3].Cepstrum())

	e.count++
	e.logger.Debug("lpcfeat: superframe",
		"index", e.count-1,
		"main_pitch", res.MainPitch,
		"modulation", res.Modulation,
		"voiced", res.Voiced,
		"corr", res.FrameCorr,
		"packet", p)

	sf.Features = *f
	sf.Packet = p
	sf.Pitch = res
}

// quantizeAnchors codes the end anchor, the mid anchor and the
// interpolation of the remaining subframes, overwriting the cepstra of f
// with their reconstructions.
func (e *Encoder) quantizeAnchors(f *FeatureMatrix) Packet {
	var p Packet
	end := f[3].Cepstrum()
	c0 := int(math.Floor(0.5 + 4*float64(end[0])))
	p.C0 = min(c0Offset-1, max(-c0Offset, c0))
	end[0] = float32(p.C0) / 4

	ms := e.set.MultiStage()
	p.Stages, _ = ms.Quantize(end[1:])
	ms.Reconstruct(end[1:], p.Stages)

	if e.relax {
		interp.Relax(f, e.vqMem[:])
	}
	preds := vq.NewPredictions(e.vqMem[:], end, types.NumBands)
	p.Mid, _ = e.diff.Quantize(f[1].Cepstrum(), &preds)

	p.Interp = interp.DoubleSearch(f, e.vqMem[:])
	interp.Apply(f, e.vqMem[:], p.Interp)
	return p
}

// refreshLPC recomputes the gain and LPC columns of every row from its
// cepstrum.
func refreshLPC(tr *dsp.Transform, f *FeatureMatrix, lpc []float32) {
	for sub := range f {
		g := tr.LPCFromCepstrum(lpc, f[sub].Cepstrum())
		f[sub][types.ColGain] = float32(math.Log10(float64(g)))
		copy(f[sub].LPC(), lpc)
	}
}
