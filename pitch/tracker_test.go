package pitch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/thesyncim/lpcfeat/types"
)

// storePeaks fills all eight half-frames with a correlation peak at the
// given periods and unit energy.
func storePeaks(tr *Tracker, periods [types.HalfFramesPerSuperframe]int, peak float32) {
	for hf := 0; hf < types.HalfFramesPerSuperframe; hf++ {
		var xc [types.PitchMaxPeriod]float32
		xc[types.PitchMaxPeriod-periods[hf]] = peak
		tr.Store(hf/2, hf%2, xc[:], 1)
	}
}

func constant(p int) [types.HalfFramesPerSuperframe]int {
	var out [types.HalfFramesPerSuperframe]int
	for i := range out {
		out[i] = p
	}
	return out
}

func TestPathRenormalizedToZero(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var tr Tracker
	for sub := 0; sub < 3*types.HalfFramesPerSuperframe; sub++ {
		slot := carried + sub%types.HalfFramesPerSuperframe
		for i := range tr.xc[slot] {
			tr.xc[slot][i] = float32(rng.Float64()*2 - 1)
		}
		tr.weight[slot] = float32(rng.Float64() * 2)
		tr.step(sub % types.HalfFramesPerSuperframe)
		if m := tr.PathMax(); m != 0 {
			t.Fatalf("step %d: path max %g, want exactly 0", sub, m)
		}
	}
}

func TestTrackStationaryPeriod(t *testing.T) {
	var tr Tracker
	storePeaks(&tr, constant(100), 0.9)
	res := tr.Track(true)

	for i, lag := range res.Lags {
		if lag != 100 {
			t.Fatalf("half-frame %d lag %d, want 100", i, lag)
		}
	}
	if !res.Voiced {
		t.Fatalf("expected voiced, frame corr %f", res.FrameCorr)
	}
	if res.MainPitch != 35 {
		t.Fatalf("main pitch %d, want 35", res.MainPitch)
	}
	if res.Modulation != 0 {
		t.Fatalf("modulation %d, want 0", res.Modulation)
	}
	if res.CorrBin != 3 {
		t.Fatalf("corr bin %d, want 3", res.CorrBin)
	}
	if want := DequantizeCorr(3, true); res.FrameCorr != want {
		t.Fatalf("quantized corr %f, want %f", res.FrameCorr, want)
	}
}

func TestTrackUnquantizedKeepsRawCorrelation(t *testing.T) {
	var tr Tracker
	storePeaks(&tr, constant(100), 0.9)
	res := tr.Track(false)
	if math.Abs(float64(res.FrameCorr)-0.9) > 1e-5 {
		t.Fatalf("raw frame corr %f, want 0.9", res.FrameCorr)
	}
	if got := res.RawFeature(1); math.Abs(float64(got)) > 1e-6 {
		t.Fatalf("raw pitch feature %f, want 0", got)
	}
}

func TestTrackSilenceIsUnvoiced(t *testing.T) {
	var tr Tracker
	var zero [types.PitchMaxPeriod]float32
	for hf := 0; hf < types.HalfFramesPerSuperframe; hf++ {
		tr.Store(hf/2, hf%2, zero[:], 0)
	}
	res := tr.Track(true)
	if res.Voiced {
		t.Fatal("silence tracked as voiced")
	}
	if res.Modulation != 0 || res.Slope != 0 {
		t.Fatalf("unvoiced modulation %d slope %f, want 0", res.Modulation, res.Slope)
	}
	if res.CorrBin != 0 {
		t.Fatalf("corr bin %d, want 0", res.CorrBin)
	}
	if res.MainPitch < 0 || res.MainPitch > 63 {
		t.Fatalf("main pitch %d out of range", res.MainPitch)
	}
}

func TestOctaveSuppressionPrefersShortPeriod(t *testing.T) {
	var tr Tracker
	for hf := 0; hf < types.HalfFramesPerSuperframe; hf++ {
		var xc [types.PitchMaxPeriod]float32
		xc[types.PitchMaxPeriod-100] = 0.9
		xc[types.PitchMaxPeriod-200] = 0.9
		xc[types.PitchMaxPeriod-50] = -0.9
		tr.Store(hf/2, hf%2, xc[:], 1)
	}
	res := tr.Track(true)
	for i, lag := range res.Lags {
		if lag != 100 {
			t.Fatalf("half-frame %d locked to %d, want 100", i, lag)
		}
	}
}

func TestTrackRisingContour(t *testing.T) {
	var tr Tracker
	var periods [types.HalfFramesPerSuperframe]int
	for i := range periods {
		periods[i] = 100 + i
	}
	storePeaks(&tr, periods, 0.9)
	res := tr.Track(true)
	for i, lag := range res.Lags {
		if lag != periods[i] {
			t.Fatalf("half-frame %d lag %d, want %d", i, lag, periods[i])
		}
	}
	if math.Abs(float64(res.Slope)-1) > 1e-3 {
		t.Fatalf("slope %f, want 1", res.Slope)
	}
	if res.Modulation != 1 {
		t.Fatalf("modulation %d, want 1", res.Modulation)
	}
}

func TestTrackCarriesLastTwoHalfFrames(t *testing.T) {
	var tr Tracker
	storePeaks(&tr, constant(80), 0.5)
	last := tr.xc[carried+types.HalfFramesPerSuperframe-1]
	tr.Track(true)
	if tr.xc[1] != last {
		t.Fatal("last half-frame correlation not carried into slot 1")
	}
}

func TestPeriodReconstruction(t *testing.T) {
	if p := Period(0, 0, 0); math.Abs(p-types.PitchMinPeriod) > 1e-9 {
		t.Fatalf("Period(0) = %f, want %d", p, types.PitchMinPeriod)
	}
	if p := Period(21, 0, 2); math.Abs(p-2*types.PitchMinPeriod) > 1e-9 {
		t.Fatalf("Period(21) = %f, want %d", p, 2*types.PitchMinPeriod)
	}
	lo := Period(35, 2, 0)
	hi := Period(35, 2, 3)
	if lo >= hi {
		t.Fatalf("positive modulation should raise the period: %f >= %f", lo, hi)
	}
	if f := Feature(35, 0, 1); math.Abs(float64(f)-0.02*(Period(35, 0, 1)-100)) > 1e-6 {
		t.Fatalf("feature %f inconsistent with period", f)
	}
}
