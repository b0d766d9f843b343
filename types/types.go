// Package types defines the frame geometry and feature layout shared by the
// lpcfeat packages.
// This package exists to break import cycles between the root lpcfeat
// package and the analysis/quantization packages.
package types

// Frame geometry at the 16 kHz analysis rate.
const (
	SampleRate     = 16000
	FrameSize      = 160 // 10 ms analysis hop
	WindowSize     = 2 * FrameSize
	OverlapSize    = FrameSize
	FreqSize       = WindowSize/2 + 1
	TrainingOffset = 80 // excitation delay relative to the analysis frame
)

// Spectral envelope layout.
const (
	NumBands  = 18
	CodedDims = NumBands - 1 // cepstral dimensions covered by the 3-stage VQ
	LPCOrder  = 16
	CepsMem   = 8
)

// Pitch search range.
const (
	PitchMinPeriod = 32
	PitchMaxPeriod = 256
)

// Superframe grouping.
const (
	SubframesPerSuperframe  = 4
	HalfFramesPerFrame      = 2
	HalfFramesPerSuperframe = SubframesPerSuperframe * HalfFramesPerFrame
)

// Feature row columns.
const (
	ColCepstrum = 0
	ColDelta    = NumBands
	ColPitch    = 2 * NumBands
	ColCorr     = 2*NumBands + 1
	ColGain     = 2*NumBands + 2
	ColLPC      = 2*NumBands + 3

	NumFeatures = 2*NumBands + 3 + LPCOrder
)

// FeatureRow is the feature vector of one analysis frame.
type FeatureRow [NumFeatures]float32

// Cepstrum returns the cepstral part of the row.
func (r *FeatureRow) Cepstrum() []float32 {
	return r[ColCepstrum : ColCepstrum+NumBands]
}

// LPC returns the LPC coefficient part of the row.
func (r *FeatureRow) LPC() []float32 {
	return r[ColLPC : ColLPC+LPCOrder]
}

// FeatureMatrix holds the four subframes of one superframe.
type FeatureMatrix [SubframesPerSuperframe]FeatureRow
