package analysis

import (
	"math"
	"testing"

	"github.com/thesyncim/lpcfeat/internal/testsignal"
	"github.com/thesyncim/lpcfeat/types"
)

func TestSilenceFloor(t *testing.T) {
	a := New()
	var row types.FeatureRow
	var halves [types.HalfFramesPerFrame]HalfFrame
	in := make([]float32, types.FrameSize)
	for i := 0; i < 3; i++ {
		a.Analyze(&row, &halves, in)
	}

	// A flat -2 log spectrum has only a DC cepstral term.
	wantC0 := float32(-2*math.Sqrt(types.NumBands) - c0Offset)
	if d := row[0] - wantC0; d > 1e-3 || d < -1e-3 {
		t.Fatalf("c0 = %v, want %v", row[0], wantC0)
	}
	for i := 1; i < types.NumBands; i++ {
		if math.Abs(float64(row[i])) > 1e-4 {
			t.Fatalf("c%d = %v, want 0", i, row[i])
		}
	}
	for i := types.ColDelta; i < types.ColGain; i++ {
		if row[i] != 0 {
			t.Fatalf("column %d = %v, want 0", i, row[i])
		}
	}
	for _, h := range halves {
		if h.Energy != 0 {
			t.Fatalf("energy = %v, want 0", h.Energy)
		}
		for i, v := range h.Xcorr {
			if v != 0 {
				t.Fatalf("xcorr[%d] = %v, want 0", i, v)
			}
		}
	}
}

func TestRowIsFinite(t *testing.T) {
	signal, err := testsignal.Generate(testsignal.VariantSpeechLike, types.SampleRate, 40*types.FrameSize)
	if err != nil {
		t.Fatal(err)
	}
	a := New()
	var row types.FeatureRow
	var halves [types.HalfFramesPerFrame]HalfFrame
	for n, frame := range testsignal.Chunk(signal, types.FrameSize) {
		a.Analyze(&row, &halves, frame)
		for i, v := range row {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("frame %d column %d is %v", n, i, v)
			}
		}
		for _, h := range halves {
			for i, v := range h.Xcorr {
				// 2xy/(1+x²+y²) never leaves [-1,1] beyond rounding.
				if v > 1+1e-5 || v < -1-1e-5 || math.IsNaN(float64(v)) {
					t.Fatalf("frame %d xcorr[%d] = %v", n, i, v)
				}
			}
		}
	}
}

func TestPeriodicExcitationCorrelates(t *testing.T) {
	// 160 Hz has a period of exactly 100 samples at 16 kHz.
	signal := testsignal.Sine(160, 8000, types.SampleRate, 12*types.FrameSize)
	a := New()
	var row types.FeatureRow
	var halves [types.HalfFramesPerFrame]HalfFrame
	for _, frame := range testsignal.Chunk(signal, types.FrameSize) {
		a.Analyze(&row, &halves, frame)
	}
	idx := types.PitchMaxPeriod - 100
	for sub, h := range halves {
		if h.Energy <= 0 {
			t.Fatalf("half %d: no excitation energy", sub)
		}
		if h.Xcorr[idx] < 0.8 {
			t.Fatalf("half %d: correlation at period 100 is %v", sub, h.Xcorr[idx])
		}
	}
}

func TestCepstrumHistory(t *testing.T) {
	a := New()
	var row types.FeatureRow
	var halves [types.HalfFramesPerFrame]HalfFrame
	var c0 []float32
	for i := 0; i < types.CepsMem+3; i++ {
		in := testsignal.Sine(500, float64(100*(i+1)), types.SampleRate, types.FrameSize)
		a.Analyze(&row, &halves, in)
		c0 = append(c0, row[0])
	}
	for age := 0; age < types.CepsMem; age++ {
		got := a.Cepstrum(age)[0]
		want := c0[len(c0)-1-age]
		if got != want {
			t.Fatalf("age %d: c0 = %v, want %v", age, got, want)
		}
	}
}

func TestResetClearsHistory(t *testing.T) {
	signal := testsignal.Harmonic(200, 6000, types.SampleRate, 6*types.FrameSize)
	frames := testsignal.Chunk(signal, types.FrameSize)

	run := func(a *Analyzer) types.FeatureRow {
		var row types.FeatureRow
		var halves [types.HalfFramesPerFrame]HalfFrame
		for _, f := range frames {
			a.Analyze(&row, &halves, f)
		}
		return row
	}
	a := New()
	first := run(a)
	a.Reset()
	if second := run(a); second != first {
		t.Fatal("analysis after Reset differs from a fresh analyzer")
	}
}
