package interp

import (
	"math/rand"
	"testing"

	"github.com/thesyncim/lpcfeat/types"
)

func TestPackSkipsForbidden(t *testing.T) {
	seen := make(map[int]bool)
	for a := Average; a < numChoices; a++ {
		for b := Average; b < numChoices; b++ {
			if int(a)*int(numChoices)+int(b) == Forbidden {
				continue
			}
			code := Pack(a, b)
			if code < 0 || code >= Codes {
				t.Fatalf("Pack(%v, %v) = %d out of range", a, b, code)
			}
			if seen[code] {
				t.Fatalf("Pack(%v, %v) = %d collides", a, b, code)
			}
			seen[code] = true
			ga, gb := Unpack(code)
			if ga != a || gb != b {
				t.Fatalf("Unpack(%d) = (%v, %v), want (%v, %v)", code, ga, gb, a, b)
			}
		}
	}
	if len(seen) != Codes {
		t.Fatalf("got %d codes, want %d", len(seen), Codes)
	}
	if Codes > 1<<Bits {
		t.Fatalf("%d codes do not fit %d bits", Codes, Bits)
	}
}

func randomMatrix(rng *rand.Rand) (*types.FeatureMatrix, []float32) {
	var f types.FeatureMatrix
	for s := range f {
		for i := 0; i < types.NumBands; i++ {
			f[s][i] = float32(rng.NormFloat64())
		}
	}
	mem := make([]float32, types.NumBands)
	for i := range mem {
		mem[i] = float32(rng.NormFloat64())
	}
	return &f, mem
}

func TestDoubleSearchCodesInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 500; trial++ {
		f, mem := randomMatrix(rng)
		code := DoubleSearch(f, mem)
		if code < 0 || code >= Codes {
			t.Fatalf("trial %d: code %d out of range", trial, code)
		}
	}
}

func TestDoubleSearchPicksExactCopies(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	f, mem := randomMatrix(rng)
	copy(f[0].Cepstrum(), mem)
	copy(f[2].Cepstrum(), f[3].Cepstrum())

	code := DoubleSearch(f, mem)
	a, b := Unpack(code)
	if a != Left || b != Right {
		t.Fatalf("got (%v, %v), want (left, right)", a, b)
	}
}

func TestDoubleSearchAvoidsForbiddenPair(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	f, mem := randomMatrix(rng)
	// Both gaps equal the mid anchor, which only the forbidden pair
	// reproduces exactly.
	copy(f[0].Cepstrum(), f[1].Cepstrum())
	copy(f[2].Cepstrum(), f[1].Cepstrum())

	code := DoubleSearch(f, mem)
	a, b := Unpack(code)
	if a == Right && b == Left {
		t.Fatalf("forbidden pair selected")
	}
}

func TestApplyWritesPredictions(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	f, mem := randomMatrix(rng)
	Apply(f, mem, Pack(Average, Right))
	for i := 0; i < types.NumBands; i++ {
		want := 0.5 * (mem[i] + f[1][i])
		if f[0][i] != want {
			t.Fatalf("subframe 0 band %d: got %v, want %v", i, f[0][i], want)
		}
		if f[2][i] != f[3][i] {
			t.Fatalf("subframe 2 band %d: got %v, want %v", i, f[2][i], f[3][i])
		}
	}
}

func TestSearchScores(t *testing.T) {
	left := make([]float32, types.NumBands)
	right := make([]float32, types.NumBands)
	x := make([]float32, types.NumBands)
	for i := range x {
		left[i] = 0
		right[i] = 2
		x[i] = 1
	}
	dist, best := Search(x, left, right)
	if best != Average {
		t.Fatalf("best = %v, want average", best)
	}
	if dist[Average] != 0 || dist[Left] != types.NumBands || dist[Right] != types.NumBands {
		t.Fatalf("unexpected scores %v", dist)
	}
}

func TestRelaxMovesMidTowardsNeighbours(t *testing.T) {
	var f types.FeatureMatrix
	mem := make([]float32, types.NumBands)
	for i := 0; i < types.NumBands; i++ {
		mem[i] = 0
		f[0][i] = 1
		f[1][i] = 2
		f[2][i] = 2
		f[3][i] = 10
	}
	before := f
	Relax(&f, mem)
	for i := 0; i < types.NumBands; i++ {
		if f[1][i] >= before[1][i] {
			t.Fatalf("band %d: mid anchor not pulled towards subframe 0: %v", i, f[1][i])
		}
		if f[0][i] != before[0][i] || f[2][i] != before[2][i] || f[3][i] != before[3][i] {
			t.Fatalf("band %d: non-mid subframe changed", i)
		}
	}
}
