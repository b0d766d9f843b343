// Package analysis turns 10 ms frames of 16 kHz audio into feature rows and
// the half-frame excitation correlations consumed by the pitch tracker.
package analysis

import (
	"math"

	"github.com/thesyncim/lpcfeat/internal/dsp"
	"github.com/thesyncim/lpcfeat/types"
)

const (
	halfFrame = types.FrameSize / types.HalfFramesPerFrame
	excLen    = types.PitchMaxPeriod + types.FrameSize

	// c0Offset centres the 0th cepstral coefficient.
	c0Offset = 4

	// Spectral floor limits, in log10 units.
	floorDepth = 8
	decayStep  = 2.5

	excitationFeedback = 0.7
)

// HalfFrame is the excitation correlation of one half-frame against every
// candidate lag. Xcorr[i] corresponds to period PitchMaxPeriod-i.
type HalfFrame struct {
	Xcorr  [types.PitchMaxPeriod]float32
	Energy float32
}

// Analyzer holds the per-stream analysis state. It must see frames in
// arrival order. An Analyzer is not safe for concurrent use.
type Analyzer struct {
	tr *dsp.Transform

	analysisMem [types.OverlapSize]float32

	ceps    [types.CepsMem][types.NumBands]float32
	cepsPos int

	lpc       [types.LPCOrder]float32
	pitchMem  [types.LPCOrder]float32
	pitchFilt float32
	exc       [excLen]float32

	xcorr [types.PitchMaxPeriod]float32
}

// New returns an Analyzer with zeroed history.
func New() *Analyzer {
	return &Analyzer{tr: dsp.NewTransform()}
}

// Reset clears all history.
func (a *Analyzer) Reset() {
	tr := a.tr
	*a = Analyzer{tr: tr}
}

// Transform returns the analyzer's transform, shared with callers that need
// to recompute LPC on the same stream.
func (a *Analyzer) Transform() *dsp.Transform { return a.tr }

// Analyze consumes one frame of FrameSize samples. It overwrites row with
// the cepstrum, gain and LPC of the frame (pitch columns are left zero) and
// fills halves with the correlations of the two half-frames.
func (a *Analyzer) Analyze(row *types.FeatureRow, halves *[types.HalfFramesPerFrame]HalfFrame, in []float32) {
	in = in[:types.FrameSize]

	// The excitation lags the spectral analysis by TrainingOffset samples.
	var aligned [types.FrameSize]float32
	copy(aligned[:types.TrainingOffset], a.analysisMem[types.OverlapSize-types.TrainingOffset:])

	var X [types.FreqSize]complex128
	var Ex [types.NumBands]float32
	a.frameAnalysis(X[:], Ex[:], in)

	var ly [types.NumBands]float32
	logMax := float32(-2)
	follow := float32(-2)
	for i, e := range Ex {
		v := float32(math.Log10(1e-2 + float64(e)))
		v = max(logMax-floorDepth, max(follow-decayStep, v))
		logMax = max(logMax, v)
		follow = max(follow-decayStep, v)
		ly[i] = v
	}

	*row = types.FeatureRow{}
	ceps := row.Cepstrum()
	dsp.DCT(ceps, ly[:])
	ceps[0] -= c0Offset
	a.pushCepstrum(ceps)

	g := a.tr.LPCFromCepstrum(a.lpc[:], ceps)
	row[types.ColGain] = float32(math.Log10(float64(g)))
	copy(row.LPC(), a.lpc[:])

	copy(a.exc[:types.PitchMaxPeriod], a.exc[types.FrameSize:])
	copy(aligned[types.TrainingOffset:], in[:types.FrameSize-types.TrainingOffset])
	a.excite(aligned[:])

	for sub := range halves {
		a.correlate(&halves[sub], sub*halfFrame)
	}
}

func (a *Analyzer) frameAnalysis(X []complex128, Ex []float32, in []float32) {
	var x [types.WindowSize]float32
	copy(x[:types.OverlapSize], a.analysisMem[:])
	copy(x[types.OverlapSize:], in)
	copy(a.analysisMem[:], in[types.FrameSize-types.OverlapSize:])
	dsp.ApplyWindow(x[:])
	a.tr.Forward(X, x[:])
	dsp.BandEnergy(Ex, X)
}

// excite runs the frame through the LPC analysis filter with a one-tap
// feedback and appends the result to the excitation buffer.
func (a *Analyzer) excite(aligned []float32) {
	for i, x := range aligned {
		sum := x
		for j, c := range a.lpc {
			sum += c * a.pitchMem[j]
		}
		copy(a.pitchMem[1:], a.pitchMem[:types.LPCOrder-1])
		a.pitchMem[0] = x
		a.exc[types.PitchMaxPeriod+i] = sum + excitationFeedback*a.pitchFilt
		a.pitchFilt = sum
	}
}

func (a *Analyzer) correlate(h *HalfFrame, off int) {
	cur := a.exc[types.PitchMaxPeriod+off:]
	dsp.PitchXcorr(cur, a.exc[off:], a.xcorr[:], halfFrame, types.PitchMaxPeriod)
	ener0 := dsp.InnerProd(cur, cur, halfFrame)
	h.Energy = ener0
	for i := range h.Xcorr {
		past := a.exc[i+off:]
		ener := 1 + ener0 + dsp.InnerProd(past, past, halfFrame)
		h.Xcorr[i] = 2 * a.xcorr[i] / ener
	}
}

func (a *Analyzer) pushCepstrum(c []float32) {
	copy(a.ceps[a.cepsPos][:], c)
	a.cepsPos++
	if a.cepsPos == types.CepsMem {
		a.cepsPos = 0
	}
}

// Cepstrum returns the cepstrum analyzed age frames ago, with age 0 being
// the most recent frame. age must be below CepsMem. The returned slice is a
// copy.
func (a *Analyzer) Cepstrum(age int) []float32 {
	idx := (a.cepsPos - 1 - age + 2*types.CepsMem) % types.CepsMem
	out := make([]float32, types.NumBands)
	copy(out, a.ceps[idx][:])
	return out
}
