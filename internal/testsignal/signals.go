// Package testsignal generates deterministic 16 kHz test signals in 16-bit
// PCM scale.
package testsignal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

const (
	VariantSine       = "sine_v1"
	VariantHarmonic   = "harmonic_v1"
	VariantSpeechLike = "speech_like_v1"
	VariantNoise      = "noise_v1"
)

var variants = []string{
	VariantSine,
	VariantHarmonic,
	VariantSpeechLike,
	VariantNoise,
}

// Variants lists the named signals accepted by Generate.
func Variants() []string {
	out := make([]string, len(variants))
	copy(out, variants)
	return out
}

// Generate returns samples of the named variant at sampleRate.
func Generate(variant string, sampleRate, samples int) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("invalid sample count: %d", samples)
	}

	switch variant {
	case VariantSine:
		return Sine(float64(sampleRate)/100, 8000, sampleRate, samples), nil
	case VariantHarmonic:
		return Harmonic(float64(sampleRate)/100, 6000, sampleRate, samples), nil
	case VariantSpeechLike:
		return speechLike(sampleRate, samples), nil
	case VariantNoise:
		return Noise(3000, samples, 29), nil
	default:
		return nil, fmt.Errorf("unknown signal variant %q", variant)
	}
}

// Sine returns a pure tone of the given frequency and peak amplitude.
func Sine(freq, amp float64, sampleRate, samples int) []float32 {
	signal := make([]float32, samples)
	for i := range signal {
		t := float64(i) / float64(sampleRate)
		signal[i] = float32(clipSample(amp * math.Sin(2*math.Pi*freq*t)))
	}
	return signal
}

// Harmonic returns a periodic signal with a fundamental at f0 and four
// decaying overtones, a crude stand-in for a sustained vowel.
func Harmonic(f0, amp float64, sampleRate, samples int) []float32 {
	signal := make([]float32, samples)
	for i := range signal {
		t := float64(i) / float64(sampleRate)
		var val float64
		for k := 1; k <= 5; k++ {
			val += math.Sin(2*math.Pi*f0*float64(k)*t) / float64(k)
		}
		signal[i] = float32(clipSample(amp * val / 2))
	}
	return signal
}

// Noise returns white noise of the given peak amplitude.
func Noise(amp float64, samples, salt int) []float32 {
	signal := make([]float32, samples)
	for i := range signal {
		signal[i] = float32(amp * deterministicNoise(i, salt))
	}
	return signal
}

// Chunk splits signal into frames of size samples, dropping a short tail.
func Chunk(signal []float32, size int) [][]float32 {
	var frames [][]float32
	for len(signal) >= size {
		frames = append(frames, signal[:size:size])
		signal = signal[size:]
	}
	return frames
}

// Digest returns a short hex fingerprint of data, for comparing serialized
// outputs across runs.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

func speechLike(sampleRate, samples int) []float32 {
	signal := make([]float32, samples)
	var phase, prevNoise float64
	for i := range signal {
		t := float64(i) / float64(sampleRate)

		pitchHz := 140.0 + 28.0*math.Sin(2*math.Pi*0.63*t) + 16.0*math.Sin(2*math.Pi*0.17*t)
		phase += 2 * math.Pi * pitchHz / float64(sampleRate)
		if phase > 2*math.Pi {
			phase -= 2 * math.Pi
		}
		voiced := math.Sin(phase) + 0.35*math.Sin(2*phase) + 0.2*math.Sin(3*phase)

		voicing := 0.5 + 0.5*math.Sin(2*math.Pi*0.78*t+0.25)
		syllable := 0.25 + 0.75*math.Pow(0.5+0.5*math.Sin(2*math.Pi*3.2*t), 2)

		noise := deterministicNoise(i, 71)
		high := noise - 0.86*prevNoise
		prevNoise = noise
		mix := voicing*voiced + (1.0-voicing)*(0.38*high+0.22*math.Sin(2*math.Pi*3200*t))

		signal[i] = float32(clipSample(12000 * syllable * mix))
	}
	return signal
}

func deterministicNoise(sampleIdx, salt int) float64 {
	x := uint32(sampleIdx*1664525 + salt*2246822519)
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return float64(int32(x)) / 2147483647.0
}

func clipSample(v float64) float64 {
	const limit = 32767
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
