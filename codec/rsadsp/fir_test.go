/*
NAME
  fir_test.go

DESCRIPTION
  fir_test.go tests band-type inference and the overall shape of designed
  FIR filters.

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
	"testing"
)

func TestInferBandType(t *testing.T) {
	cases := []struct {
		name   string
		fp, fs []float64
		want   BandType
	}{
		{"lowpass", []float64{75e3}, []float64{100e3}, LowPass},
		{"highpass", []float64{100e3}, []float64{75e3}, HighPass},
		{"bandpass", []float64{20e3, 30e3}, []float64{10e3, 40e3}, BandPass},
		{"bandstop", []float64{10e3, 40e3}, []float64{20e3, 30e3}, BandStop},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := InferBandType(c.fp, c.fs)
			if err != nil {
				t.Fatalf("InferBandType: %v", err)
			}
			if got != c.want {
				t.Errorf("InferBandType(%v, %v) = %v, want %v", c.fp, c.fs, got, c.want)
			}
		})
	}
}

func TestDesignFIRRejectsOutOfDomainEdges(t *testing.T) {
	_, err := DesignFIR([]float64{40e6}, []float64{30e6}, 60, 56e6, true, false)
	if err == nil {
		t.Fatal("expected ErrDomain for a pass edge beyond Nyquist")
	}
}

func TestDesignFIRLowPassAttenuatesStopband(t *testing.T) {
	const (
		fp = 75e3
		fs = 100e3
		r  = 60.0
		Fs = 56e6
	)
	b, err := DesignFIR([]float64{fp}, []float64{fs}, r, Fs, true, false)
	if err != nil {
		t.Fatalf("DesignFIR: %v", err)
	}
	if len(b)%2 == 0 {
		t.Errorf("odd_length requested but filter length is %d", len(b))
	}

	// DC gain should be close to unity for a low-pass prototype.
	var dc float64
	for _, v := range b {
		dc += v
	}
	if math.Abs(dc-1) > 0.1 {
		t.Errorf("DC gain = %v, want ~1", dc)
	}

	// Gain far into the stop band should be small relative to DC.
	stopGain := goertzel(b, 2*math.Pi*200e3/Fs)
	if stopGain > 0.3 {
		t.Errorf("stop-band gain magnitude = %v, want well below DC gain", stopGain)
	}
}

// goertzel evaluates |H(e^{jw})| for a real FIR b directly from its
// definition, used only to sanity-check designed filters in tests.
func goertzel(b []float64, w float64) float64 {
	var re, im float64
	for n, c := range b {
		re += c * math.Cos(w*float64(n))
		im -= c * math.Sin(w*float64(n))
	}
	return math.Hypot(re, im)
}
