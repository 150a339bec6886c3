/*
NAME
  spectrum.go

DESCRIPTION
  spectrum.go computes a single-block, calibration-corrected power
  spectrum of baseband samples.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rsadsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/ausocean/rsa306/container/rsa306"
)

// Spectrum computes |FFT(x)|²/N over x, fftshift-ed so frequencies run
// from -fs/2 to fs/2, and scaled to dBFS. corr may be nil; when supplied,
// each bin's magnitude is adjusted by ChannelCorrection.AmplitudeAt at
// that bin's frequency, where the table's domain covers it.
func Spectrum(x []complex128, fs float64, corr *rsa306.ChannelCorrection) (freqs []float64, power []float64) {
	n := len(x)
	fft := fourier.NewCmplxFFT(n)
	spec := fft.Coefficients(nil, x)

	freqs = make([]float64, n)
	power = make([]float64, n)
	for i := 0; i < n; i++ {
		// fftshift: bin i of the raw FFT maps to frequency i/n * fs for
		// i < n/2, and (i-n)/n * fs for i >= n/2; reorder so freqs is
		// monotonically increasing.
		shifted := (i + n/2) % n
		k := shifted
		var f float64
		if k < n/2 {
			f = float64(k) / float64(n) * fs
		} else {
			f = float64(k-n) / float64(n) * fs
		}
		freqs[i] = f

		mag2 := real(spec[shifted])*real(spec[shifted]) + imag(spec[shifted])*imag(spec[shifted])
		mag2 /= float64(n)

		db := 10 * math.Log10(math.Max(mag2, 1e-300))
		if corr != nil {
			if adj, ok := corr.AmplitudeAt(f); ok {
				db += adj
			}
		}
		power[i] = db
	}
	return freqs, power
}
