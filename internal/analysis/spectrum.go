// Package analysis provides frequency analysis of scalar traces
// sampled from a simulation, such as a particle's height over time.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a power-of-two
// length input via radix-2 decimation.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude of the positive-frequency half
// of the transform. Input of any length is zero-padded up to the next
// power of two.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in hertz
// for a trace sampled uniformly over duration seconds, along with its
// power. Returns zero frequency for flat or too-short traces.
func DominantFrequency(data []float64, duration float64) (freq, power float64) {
	if len(data) < 4 || duration <= 0 {
		return 0, 0
	}

	// remove the mean so the DC bin does not swamp the bounce peak
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)

	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			power = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0, 0
	}

	// bin width is 1/duration of the padded window
	padded := 2 * len(ps)
	window := duration * float64(padded) / float64(len(data))
	return float64(maxIdx) / window, power
}
