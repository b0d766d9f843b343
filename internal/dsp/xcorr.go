package dsp

// InnerProd returns sum x[i]*y[i] over length samples.
func InnerProd(x, y []float32, length int) float32 {
	if length <= 0 {
		return 0
	}
	_ = x[length-1] // BCE
	_ = y[length-1] // BCE
	var sum float32
	for i := 0; i < length; i++ {
		sum += x[i] * y[i]
	}
	return sum
}

// PitchXcorr computes xcorr[i] = sum_j x[j]*y[i+j] for i in [0, maxPitch).
// y must hold at least maxPitch+length-1 samples.
func PitchXcorr(x, y, xcorr []float32, length, maxPitch int) {
	if length <= 0 || maxPitch <= 0 {
		return
	}
	_ = x[length-1]          // BCE
	_ = xcorr[maxPitch-1]    // BCE
	_ = y[maxPitch+length-2] // BCE
	i := 0
	for ; i+3 < maxPitch; i += 4 {
		var s0, s1, s2, s3 float32
		for j := 0; j < length; j++ {
			xj := x[j]
			s0 += xj * y[i+j]
			s1 += xj * y[i+1+j]
			s2 += xj * y[i+2+j]
			s3 += xj * y[i+3+j]
		}
		xcorr[i] = s0
		xcorr[i+1] = s1
		xcorr[i+2] = s2
		xcorr[i+3] = s3
	}
	for ; i < maxPitch; i++ {
		xcorr[i] = InnerProd(x, y[i:], length)
	}
}
