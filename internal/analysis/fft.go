package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// flatPower is the bin power below which a spectrum counts as flat.
const flatPower = 1e-12

// PowerSpectrum returns |X_k|^2 for the first half of the transform of data.
// Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	x := fft.FFTReal(data)
	ps := make([]float64, len(x)/2)
	for i := range ps {
		mag := cmplx.Abs(x[i])
		ps[i] = mag * mag
	}
	return ps
}

// Spectrum removes the mean from data and returns its power spectrum.
// Bin k corresponds to k/len(data) cycles per frame.
func Spectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}
	return PowerSpectrum(centered)
}

// DominantPeriod returns the period in frames of the strongest non-DC bin of a
// Spectrum computed from n samples, and that bin's power. It returns 0, 0 when
// the spectrum is flat or empty.
func DominantPeriod(ps []float64, n int) (float64, float64) {
	best, power := 0, flatPower
	for k := 1; k < len(ps); k++ {
		if ps[k] > power {
			best, power = k, ps[k]
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(n) / float64(best), power
}
