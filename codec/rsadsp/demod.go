/*
NAME
  demod.go

DESCRIPTION
  demod.go implements the FM demodulator: chunk-continuous phase
  unwrapping scaled to recover the modulating signal from a baseband IQ
  stream.

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
	"math/cmplx"

	"github.com/pkg/errors"
)

// Demodulator recovers the modulating signal from baseband FM IQ samples.
// lastPhase is the one float of state carried across calls.
type Demodulator struct {
	n         int
	fs        float64
	fDev      float64
	k         float64
	lastPhase float64
}

// NewDemodulator builds a demodulator for chunk size n, sample rate fs,
// peak deviation fDev, scaled by attenuation k (1 if k is zero).
func NewDemodulator(n int, fs, fDev, k float64) *Demodulator {
	if k == 0 {
		k = 1
	}
	return &Demodulator{n: n, fs: fs, fDev: fDev, k: k}
}

// Process demodulates xIn, a chunk of n baseband IQ samples, returning n
// real samples scaled so that a deviation of fDev yields ±k.
func (d *Demodulator) Process(xIn []complex128) ([]float64, error) {
	if len(xIn) != d.n {
		return nil, errors.Wrapf(ErrConfig, "got %d input samples, want %d", len(xIn), d.n)
	}

	phi := make([]float64, d.n+1)
	phi[0] = d.lastPhase
	for i, x := range xIn {
		phi[i+1] = cmplx.Phase(x)
	}

	preUnwrapLast := phi[d.n]
	unwrap(phi)

	scale := d.k * d.fs / (2 * math.Pi * d.fDev)
	out := make([]float64, d.n)
	for k := 0; k < d.n; k++ {
		out[k] = (phi[k+1] - phi[k]) * scale
	}

	d.lastPhase = preUnwrapLast
	return out, nil
}

// unwrap removes ±2π jumps from phi in place, treating phi[0] as already
// continuous with whatever preceded it.
func unwrap(phi []float64) {
	for i := 1; i < len(phi); i++ {
		d := phi[i] - phi[i-1]
		for d > math.Pi {
			phi[i] -= 2 * math.Pi
			d = phi[i] - phi[i-1]
		}
		for d < -math.Pi {
			phi[i] += 2 * math.Pi
			d = phi[i] - phi[i-1]
		}
	}
}
