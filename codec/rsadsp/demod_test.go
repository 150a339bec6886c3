/*
NAME
  demod_test.go

DESCRIPTION
  demod_test.go tests the FM demodulator's steady-tone response and
  chunk-continuous phase unwrapping.

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

// TestDemodulateConstantToneYieldsUnity checks Testable Property #7:
// given x[n] = exp(j*2*pi*fDev*n/fs), output equals 1.0 for all n after
// the first sample of the first chunk.
func TestDemodulateConstantToneYieldsUnity(t *testing.T) {
	const (
		fs   = 8000.0
		fDev = 500.0
		n    = 16
	)
	d := NewDemodulator(n, fs, fDev, 1)

	x := make([]complex128, n)
	for i := range x {
		theta := 2 * math.Pi * fDev * float64(i) / fs
		x[i] = complex(math.Cos(theta), math.Sin(theta))
	}

	out, err := d.Process(x)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	for i := 1; i < len(out); i++ {
		if math.Abs(out[i]-1) > 1e-6 {
			t.Errorf("out[%d] = %v, want ~1.0", i, out[i])
		}
	}
}

func TestDemodulateChunkSizeMismatch(t *testing.T) {
	d := NewDemodulator(4, 8000, 500, 1)
	if _, err := d.Process(make([]complex128, 3)); err == nil {
		t.Fatal("expected ErrConfig on a chunk size mismatch")
	}
}

func TestUnwrapRemovesJumps(t *testing.T) {
	phi := []float64{0, math.Pi - 0.1, -math.Pi + 0.1, 0}
	unwrap(phi)
	for i := 1; i < len(phi); i++ {
		d := phi[i] - phi[i-1]
		if math.Abs(d) > math.Pi+1e-9 {
			t.Errorf("unwrapped jump at %d: %v", i, d)
		}
	}
}
