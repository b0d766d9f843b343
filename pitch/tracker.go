// Package pitch tracks the pitch contour of a superframe with a dynamic
// programming search over half-frame cross-correlations and quantizes it to
// a main pitch, a linear modulation and a voicing-dependent correlation bin.
package pitch

import (
	"math"

	"github.com/thesyncim/lpcfeat/types"
)

// Search geometry.
const (
	// NumLags is the number of lag bins the path search covers.
	NumLags = types.PitchMaxPeriod - types.PitchMinPeriod

	// octaveLags is the range checked for sub-harmonic locking.
	octaveLags = types.PitchMaxPeriod - 2*types.PitchMinPeriod

	// carried is the number of half-frames kept from the previous superframe.
	carried = 2
	slots   = carried + types.HalfFramesPerSuperframe
)

// Path search tuning.
const (
	transitionWindow  = 4
	transitionPenalty = 0.02
	restartPenalty    = 6
	octaveMargin      = 1.1
	octaveAttenuation = 0.8
)

// Quantization constants.
const (
	voicingThreshold = 0.3

	voicedCorrStep   = 0.175
	voicedCorrBase   = 0.3875
	unvoicedCorrStep = 0.075
	unvoicedCorrBase = 0.0375
	corrLevels       = 4

	pitchStepsPerOctave = 21
	modulationScale     = 16 * 7
	maxModulation       = 3
	maxMainPitch        = 63

	// centerOffset is the regression abscissa where the main pitch is read,
	// the midpoint of half-frame slots 2..9.
	centerOffset = 5.5
)

// Tracker holds the correlation history and the DP path state. It persists
// across superframes and is never reset between them.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	xc     [slots][types.PitchMaxPeriod]float32
	weight [slots]float32

	// maxPath[0] is the previous step, maxPath[1] the step being built.
	maxPath    [2][types.PitchMaxPeriod]float32
	maxPathAll float32
	bestI      int

	prev [types.HalfFramesPerSuperframe][NumLags]int
}

// Result is the outcome of tracking one superframe.
type Result struct {
	// Lags holds the chosen pitch period for each half-frame.
	Lags [types.HalfFramesPerSuperframe]int

	// FrameCorr is the weighted correlation along the chosen path. In
	// quantized mode it is replaced by the centre of its bin.
	FrameCorr float32
	Voiced    bool

	// Slope and Intercept describe the weighted linear fit of lag against
	// half-frame slot.
	Slope     float32
	Intercept float32

	MainPitch  int // [0,63]
	Modulation int // [-3,3], 0 when unvoiced
	CorrBin    int // [0,3] in quantized mode
}

// Store records the normalized cross-correlation and energy of one half-frame.
// frame is the subframe position in [0,4) and half selects the half-frame.
func (t *Tracker) Store(frame, half int, xcorr []float32, energy float32) {
	slot := carried + types.HalfFramesPerFrame*frame + half
	copy(t.xc[slot][:], xcorr[:types.PitchMaxPeriod])
	t.weight[slot] = energy
}

// Track runs the path search over the eight half-frames stored since the
// previous call and fits the pitch contour. When quantize is set, the frame
// correlation is clamped at zero and snapped to its bin centre.
func (t *Tracker) Track(quantize bool) Result {
	var res Result

	weightSum := float32(1e-15)
	for sub := 0; sub < types.HalfFramesPerSuperframe; sub++ {
		weightSum += t.weight[carried+sub]
	}
	for sub := 0; sub < types.HalfFramesPerSuperframe; sub++ {
		t.weight[carried+sub] *= types.HalfFramesPerSuperframe / weightSum
	}

	for sub := 0; sub < types.HalfFramesPerSuperframe; sub++ {
		t.suppressOctaves(carried + sub)
		t.step(sub)
	}

	// Backward pass.
	bestI := t.bestI
	var frameCorr float32
	for sub := types.HalfFramesPerSuperframe - 1; sub >= 0; sub-- {
		res.Lags[sub] = types.PitchMaxPeriod - bestI
		frameCorr += t.weight[carried+sub] * t.xc[carried+sub][bestI]
		bestI = t.prev[sub][bestI]
	}
	frameCorr /= types.HalfFramesPerSuperframe
	if quantize && frameCorr < 0 {
		frameCorr = 0
	}

	t.fitContour(&res, frameCorr, quantize)

	t.xc[0] = t.xc[types.HalfFramesPerSuperframe]
	t.xc[1] = t.xc[types.HalfFramesPerSuperframe+1]
	return res
}

// suppressOctaves attenuates lags whose correlation is not clearly better
// than the correlation at half the period, discouraging sub-harmonics.
func (t *Tracker) suppressOctaves(slot int) {
	xc := &t.xc[slot]
	for i := 0; i < octaveLags; i++ {
		half := max(xc[(types.PitchMaxPeriod+i)/2], xc[(types.PitchMaxPeriod+i+2)/2], xc[(types.PitchMaxPeriod+i-1)/2])
		if xc[i] < half*octaveMargin {
			xc[i] *= octaveAttenuation
		}
	}
}

// step advances the path search by one half-frame and renormalizes so the
// best path value is exactly zero.
func (t *Tracker) step(sub int) {
	slot := carried + sub
	w := t.weight[slot]
	xc := &t.xc[slot]
	prevPath := &t.maxPath[0]
	curPath := &t.maxPath[1]
	prev := &t.prev[sub]

	maxPathAll := float32(-1e15)
	bestI := 0
	for i := 0; i < NumLags; i++ {
		best := t.maxPathAll - restartPenalty
		prev[i] = t.bestI
		lo := max(-transitionWindow, -i)
		hi := min(transitionWindow, NumLags-1-i)
		for j := lo; j <= hi; j++ {
			v := prevPath[i+j] - transitionPenalty*float32(j*j)
			if v > best {
				best = v
				prev[i] = i + j
			}
		}
		curPath[i] = best + w*xc[i]
		if curPath[i] > maxPathAll {
			maxPathAll = curPath[i]
			bestI = i
		}
	}
	for i := 0; i < NumLags; i++ {
		curPath[i] -= maxPathAll
	}
	*prevPath = *curPath
	t.maxPathAll = maxPathAll
	t.bestI = bestI
}

// fitContour runs the weighted regression of lag against half-frame slot
// and quantizes the result.
func (t *Tracker) fitContour(res *Result, frameCorr float32, quantize bool) {
	var sw, sx, sxx, sxy, sy float32
	for sub := 0; sub < types.HalfFramesPerSuperframe; sub++ {
		w := t.weight[carried+sub]
		x := float32(carried + sub)
		y := float32(res.Lags[sub])
		sw += w
		sx += w * x
		sxx += w * x * x
		sxy += w * x * y
		sy += w * y
	}
	if sw <= 0 {
		// Silent superframe: fall back to an unweighted fit.
		sw, sx, sxx, sxy, sy = 0, 0, 0, 0, 0
		for sub := 0; sub < types.HalfFramesPerSuperframe; sub++ {
			x := float32(carried + sub)
			y := float32(res.Lags[sub])
			sw++
			sx += x
			sxx += x * x
			sxy += x * y
			sy += y
		}
	}

	res.Voiced = frameCorr >= voicingThreshold
	var slope float32
	if den := sw*sxx - sx*sx; den != 0 {
		slope = (sw*sxy - sx*sy) / den
	}
	if res.Voiced {
		meanPitch := sy / sw
		// Allow a relative variation of up to 1/4 over the superframe.
		maxSlope := meanPitch / 32
		slope = min(maxSlope, max(-maxSlope, slope))
		res.CorrBin = int(math.Floor(float64((frameCorr - voicingThreshold) / voicedCorrStep)))
	} else {
		slope = 0
		res.CorrBin = int(math.Floor(float64(frameCorr / unvoicedCorrStep)))
	}
	if quantize {
		res.CorrBin = min(corrLevels-1, max(0, res.CorrBin))
		frameCorr = DequantizeCorr(res.CorrBin, res.Voiced)
	}
	res.FrameCorr = frameCorr
	res.Slope = slope
	res.Intercept = (sy - slope*sx) / sw

	center := float64(res.Intercept + centerOffset*slope)
	mainPitch := int(math.Floor(0.5 + pitchStepsPerOctave*math.Log2(center/types.PitchMinPeriod)))
	res.MainPitch = min(maxMainPitch, max(0, mainPitch))
	modulation := int(math.Floor(0.5 + modulationScale*float64(slope)/center))
	res.Modulation = min(maxModulation, max(-maxModulation, modulation))
}

// DequantizeCorr maps a correlation bin back to its centre value.
func DequantizeCorr(bin int, voiced bool) float32 {
	if voiced {
		return voicedCorrBase + voicedCorrStep*float32(bin)
	}
	return unvoicedCorrBase + unvoicedCorrStep*float32(bin)
}

// Period reconstructs the pitch period of subframe sub in [0,4) from the
// quantized main pitch and modulation.
func Period(mainPitch, modulation, sub int) float64 {
	p := math.Pow(2, float64(mainPitch)/pitchStepsPerOctave) * types.PitchMinPeriod
	return p * (1 + float64(modulation)/modulationScale*float64(2*sub-3))
}

// Feature returns the pitch feature column value for subframe sub.
func Feature(mainPitch, modulation, sub int) float32 {
	return float32(0.02 * (Period(mainPitch, modulation, sub) - 100))
}

// RawFeature returns the unquantized pitch feature for subframe sub, built
// from the two half-frame lags of that subframe.
func (r *Result) RawFeature(sub int) float32 {
	a := r.Lags[types.HalfFramesPerFrame*sub]
	b := r.Lags[types.HalfFramesPerFrame*sub+1]
	return float32(0.01 * float64(a+b-200))
}

// PathMax returns the maximum of the current path table, which is zero
// after every step.
func (t *Tracker) PathMax() float32 {
	m := t.maxPath[0][0]
	for _, v := range t.maxPath[0][1:NumLags] {
		m = max(m, v)
	}
	return m
}
