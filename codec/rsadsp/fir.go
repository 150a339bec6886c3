/*
NAME
  fir.go

DESCRIPTION
  fir.go designs FIR filters from pass-band/stop-band edges and a
  requested ripple, using a Kaiser window for the symmetric (type I/II)
  branch and 512-point frequency-domain sampling for the antisymmetric
  (type III/IV) branch.

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

	"github.com/mjibson/go-dsp/fft"
)

// BandType identifies the shape of a designed filter's passband.
type BandType int

const (
	LowPass BandType = iota
	HighPass
	BandPass
	BandStop
)

// freqSamplePoints is the number of interpolation points used to build the
// antisymmetric branch's magnitude template, per §4.4.
const freqSamplePoints = 512

// InferBandType infers the band type from one or two pass/stop edge pairs,
// per SPEC_FULL.md §4.4. fp and fs must have matching length, 1 or 2.
func InferBandType(fp, fs []float64) (BandType, error) {
	switch len(fp) {
	case 1:
		if len(fs) != 1 {
			return 0, ErrDomain
		}
		if fs[0] > fp[0] {
			return LowPass, nil
		}
		return HighPass, nil
	case 2:
		if len(fs) != 2 {
			return 0, ErrDomain
		}
		if fs[0] < fp[0] {
			return BandPass, nil
		}
		return BandStop, nil
	default:
		return 0, ErrDomain
	}
}

// DesignFIR designs a length-N FIR impulse response. fp and fs are the
// pass-band and stop-band edges (length 1 for low/high-pass, length 2 for
// band-pass/band-stop), rippleDB is the requested ripple/attenuation in
// dB, fsHz is the sample rate, oddLength forces an odd tap count, and
// antisymmetric selects the type III/IV frequency-sampling branch in
// place of the windowed-ideal-response branch.
func DesignFIR(fp, fs []float64, rippleDB, fsHz float64, oddLength, antisymmetric bool) ([]float64, error) {
	nyquist := fsHz / 2
	for _, e := range fp {
		if e < 0 || e > nyquist {
			return nil, ErrDomain
		}
	}
	for _, e := range fs {
		if e < 0 || e > nyquist {
			return nil, ErrDomain
		}
	}

	bt, err := InferBandType(fp, fs)
	if err != nil {
		return nil, err
	}

	deltaF := transitionWidth(bt, fp, fs)
	if deltaF <= 0 {
		return nil, ErrDomain
	}
	deltaOmega := 2 * math.Pi * deltaF / fsHz

	beta := kaiserBeta(rippleDB)
	n := kaiserOrder(rippleDB, deltaOmega) + 1
	if n < 1 {
		n = 1
	}
	if oddLength && n%2 == 0 {
		n++
	}

	if antisymmetric {
		return designAntisymmetric(bt, fp, fs, fsHz, n, beta), nil
	}
	return designSymmetric(bt, fp, fs, fsHz, n, beta), nil
}

// transitionWidth returns the smaller of the transition-band edges, with
// the band-stop formula corrected by symmetry with band-pass (Open
// Question (a) in SPEC_FULL.md §9).
func transitionWidth(bt BandType, fp, fs []float64) float64 {
	switch bt {
	case LowPass:
		return fs[0] - fp[0]
	case HighPass:
		return fp[0] - fs[0]
	case BandPass:
		lower := fp[0] - fs[0]
		upper := fs[1] - fp[1]
		return math.Min(lower, upper)
	case BandStop:
		lower := fs[0] - fp[0]
		upper := fp[1] - fs[1]
		return math.Min(lower, upper)
	default:
		return 0
	}
}

// designSymmetric builds a windowed ideal lowpass/highpass/bandpass/
// bandstop impulse response centered at wc = (wp+ws)/2.
func designSymmetric(bt BandType, fp, fs []float64, fsHz float64, n int, beta float64) []float64 {
	win := kaiserWindow(n, beta)
	h := make([]float64, n)
	mid := float64(n-1) / 2

	switch bt {
	case LowPass:
		wc := 2 * math.Pi * (fp[0] + fs[0]) / 2 / fsHz
		for i := 0; i < n; i++ {
			h[i] = sinc(wc, float64(i)-mid) * wc / math.Pi * win[i]
		}
	case HighPass:
		wc := 2 * math.Pi * (fs[0] + fp[0]) / 2 / fsHz
		for i := 0; i < n; i++ {
			ideal := -sinc(wc, float64(i)-mid) * wc / math.Pi
			if float64(i) == mid {
				ideal += 1
			}
			h[i] = ideal * win[i]
		}
	case BandPass:
		wc1 := 2 * math.Pi * (fs[0] + fp[0]) / 2 / fsHz
		wc2 := 2 * math.Pi * (fp[1] + fs[1]) / 2 / fsHz
		for i := 0; i < n; i++ {
			t := float64(i) - mid
			lp2 := sinc(wc2, t) * wc2 / math.Pi
			lp1 := sinc(wc1, t) * wc1 / math.Pi
			h[i] = (lp2 - lp1) * win[i]
		}
	case BandStop:
		wc1 := 2 * math.Pi * (fp[0] + fs[0]) / 2 / fsHz
		wc2 := 2 * math.Pi * (fs[1] + fp[1]) / 2 / fsHz
		for i := 0; i < n; i++ {
			t := float64(i) - mid
			lp1 := sinc(wc1, t) * wc1 / math.Pi
			lp2 := sinc(wc2, t) * wc2 / math.Pi
			ideal := lp1 + (-lp2)
			if float64(i) == mid {
				ideal += 1
			}
			h[i] = ideal * win[i]
		}
	}
	return h
}

// sinc returns sin(wc*t)/(wc*t), with the t=0 singularity resolved to 1.
func sinc(wc, t float64) float64 {
	if t == 0 {
		return 1
	}
	x := wc * t
	return math.Sin(x) / x
}

// designAntisymmetric builds the type III/IV branch via 512-point
// frequency sampling over the piecewise-linear magnitude template in
// §4.4, then applies a Kaiser window of length n.
func designAntisymmetric(bt BandType, fp, fs []float64, fsHz float64, n int, beta float64) []float64 {
	knots, amps := magnitudeTemplate(bt, fp, fs, fsHz)

	m := 2 * freqSamplePoints
	spectrum := make([]complex128, m)
	nyquist := fsHz / 2
	for k := 1; k < freqSamplePoints; k++ {
		f := nyquist * float64(k) / float64(freqSamplePoints-1)
		a := interpLinear(knots, amps, f)
		spectrum[k] = complex(0, a)
		spectrum[m-k] = complex(0, -a)
	}

	td := fft.IFFT(spectrum)

	win := kaiserWindow(n, beta)
	h := make([]float64, n)
	half := n / 2
	for i := 0; i < n; i++ {
		// Recenter the m-point antisymmetric impulse response around lag 0
		// and take the n taps nearest the origin.
		lag := i - half
		idx := ((lag % m) + m) % m
		h[i] = real(td[idx]) * win[i]
	}
	return h
}

// magnitudeTemplate returns the frequency knots and amplitudes of bt's
// piecewise-linear magnitude template, from 0 Hz to Nyquist.
func magnitudeTemplate(bt BandType, fp, fs []float64, fsHz float64) ([]float64, []float64) {
	nyquist := fsHz / 2
	switch bt {
	case LowPass:
		return []float64{0, fp[0], fs[0], nyquist}, []float64{1, 1, 0, 0}
	case HighPass:
		return []float64{0, fs[0], fp[0], nyquist}, []float64{0, 0, 1, 1}
	case BandPass:
		return []float64{0, fs[0], fp[0], fp[1], fs[1], nyquist}, []float64{0, 0, 1, 1, 0, 0}
	case BandStop:
		return []float64{0, fp[0], fs[0], fs[1], fp[1], nyquist}, []float64{1, 1, 0, 0, 1, 1}
	default:
		return nil, nil
	}
}

// interpLinear linearly interpolates amps as a function of knots at x,
// clamping to the nearest endpoint outside the domain.
func interpLinear(knots, amps []float64, x float64) float64 {
	if x <= knots[0] {
		return amps[0]
	}
	last := len(knots) - 1
	if x >= knots[last] {
		return amps[last]
	}
	for i := 1; i <= last; i++ {
		if x <= knots[i] {
			x0, x1 := knots[i-1], knots[i]
			y0, y1 := amps[i-1], amps[i]
			if x1 == x0 {
				return y1
			}
			t := (x - x0) / (x1 - x0)
			return y0 + t*(y1-y0)
		}
	}
	return amps[last]
}
