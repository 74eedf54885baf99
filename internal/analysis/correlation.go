package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Autocorrelation returns the normalized autocorrelation of series for lags
// 0..maxLag. A constant series has no fluctuations and yields nil.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean, variance := stat.PopMeanVariance(series, nil)
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < n; i++ {
			sum += (series[i] - mean) * (series[i+lag] - mean)
		}
		acf[lag] = sum / float64(n-lag) / variance
	}
	return acf
}

// IntegratedTime estimates the integrated autocorrelation time
// 1/2 + sum of the autocorrelation, truncated at the first non-positive lag.
// The result is in units of the sampling interval.
func IntegratedTime(series []float64) float64 {
	acf := Autocorrelation(series, len(series)/2)
	if acf == nil {
		return 0
	}
	tau := 0.5
	for _, c := range acf[1:] {
		if c <= 0 {
			break
		}
		tau += c
	}
	return tau
}

// PowerSpectrum returns the magnitude of the non-negative frequency
// coefficients of the mean-removed series.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	mean := stat.Mean(series, nil)
	centred := make([]float64, n)
	for i, v := range series {
		centred[i] = v - mean
	}

	coeffs := fourier.NewFFT(n).Coefficients(nil, centred)
	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}
