package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first len/2 frequency bins of
// series after removing its mean. Bin k corresponds to k cycles over the
// whole series.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	power := make([]float64, n/2)
	for i := range power {
		power[i] = cmplx.Abs(bins[i])
	}
	return power
}

// DominantPeriod returns the period, in samples, of the strongest non-DC bin
// of series. A flat or too-short series yields 0.
func DominantPeriod(series []float64) float64 {
	power := PowerSpectrum(series)
	best, bestP := 0, 1e-9
	for k := 1; k < len(power); k++ {
		if power[k] > bestP {
			best, bestP = k, power[k]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(len(series)) / float64(best)
}
