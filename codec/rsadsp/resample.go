/*
NAME
  resample.go

DESCRIPTION
  resample.go implements a rational-rate polyphase resampler: a single
  prototype FIR is split into q commutator-addressed branches, each a
  short delay line, so that heavy decimation (p ≪ q) costs O(L) memory
  regardless of input block size.

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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"
)

// Polyphase is a rational-rate resampler operating on complex128 samples,
// used for the first resampling stage (baseband IQ).
type Polyphase struct {
	p, q               int
	chunkSizeIn        int
	chunkSizeOut       int
	taps               [][]complex128 // taps[i] = b[i], b[i+q], b[i+2q], ...
	delay              [][]complex128 // delay[i] aligned with taps[i]; delay[i][0] is most recent.
	mIn                int
}

// NewPolyphase builds a resampler for rate p/q (lowest terms) from
// prototype FIR b. chunkSizeIn and chunkSizeOut must satisfy
// p*chunkSizeIn ≡ 0 (mod q) and chunkSizeOut = p*chunkSizeIn/q.
func NewPolyphase(b []complex128, p, q, chunkSizeIn, chunkSizeOut int) (*Polyphase, error) {
	if p < 1 || q < 1 {
		return nil, errors.Wrap(ErrConfig, "rsadsp: p and q must be positive")
	}
	if (p*chunkSizeIn)%q != 0 {
		return nil, errors.Wrapf(ErrConfig, "p*chunk_size_in (%d) is not divisible by q (%d)", p*chunkSizeIn, q)
	}
	if want := p * chunkSizeIn / q; chunkSizeOut != want {
		return nil, errors.Wrapf(ErrConfig, "chunk_size_out (%d) must equal p*chunk_size_in/q (%d)", chunkSizeOut, want)
	}

	taps := make([][]complex128, q)
	delay := make([][]complex128, q)
	for i := 0; i < q; i++ {
		var t []complex128
		for k := i; k < len(b); k += q {
			t = append(t, b[k])
		}
		taps[i] = t
		delay[i] = make([]complex128, len(t))
	}

	return &Polyphase{
		p:            p,
		q:            q,
		chunkSizeIn:  chunkSizeIn,
		chunkSizeOut: chunkSizeOut,
		taps:         taps,
		delay:        delay,
	}, nil
}

// Process consumes exactly chunkSizeIn input samples and returns exactly
// chunkSizeOut output samples. Branch delay lines and the commutator
// position persist across calls.
func (r *Polyphase) Process(x []complex128) ([]complex128, error) {
	if len(x) != r.chunkSizeIn {
		return nil, errors.Wrapf(ErrConfig, "got %d input samples, want %d", len(x), r.chunkSizeIn)
	}

	out := make([]complex128, r.chunkSizeOut)
	i := 0
	for j := 0; j < r.chunkSizeOut; j++ {
		for i*r.p <= j*r.q {
			r.push(x[i])
			i++
		}

		var sum complex128
		for b := 0; b < r.q; b++ {
			if len(r.taps[b]) == 0 {
				continue
			}
			// cmplxs.Dot conjugates its first argument, so the taps go
			// first and the delay-line samples are left unconjugated.
			sum += cmplxs.Dot(r.taps[b], r.delay[b])
		}
		out[j] = sum * complex(float64(r.p), 0)
	}

	for ; i < r.chunkSizeIn; i++ {
		r.push(x[i])
	}

	return out, nil
}

// push inserts x at the front of the branch currently addressed by the
// commutator, drops its oldest tap, and rotates the commutator by p
// positions (mod q).
func (r *Polyphase) push(x complex128) {
	d := r.delay[r.mIn]
	if len(d) > 0 {
		copy(d[1:], d[:len(d)-1])
		d[0] = x
	}
	r.mIn = ((r.mIn-r.p)%r.q + r.q) % r.q
}

// RealPolyphase wraps Polyphase for the real-valued second resampling
// stage (post-demodulation audio rate conversion).
type RealPolyphase struct {
	pp *Polyphase
}

// NewRealPolyphase builds a real-valued resampler from a real prototype
// FIR, with the same configuration contract as NewPolyphase.
func NewRealPolyphase(b []float64, p, q, chunkSizeIn, chunkSizeOut int) (*RealPolyphase, error) {
	cb := make([]complex128, len(b))
	for i, v := range b {
		cb[i] = complex(v, 0)
	}
	pp, err := NewPolyphase(cb, p, q, chunkSizeIn, chunkSizeOut)
	if err != nil {
		return nil, err
	}
	return &RealPolyphase{pp: pp}, nil
}

// Process consumes chunkSizeIn real samples and returns chunkSizeOut real
// samples, computed via real-valued branch inner products.
func (r *RealPolyphase) Process(x []float64) ([]float64, error) {
	if len(x) != r.pp.chunkSizeIn {
		return nil, errors.Wrapf(ErrConfig, "got %d input samples, want %d", len(x), r.pp.chunkSizeIn)
	}

	out := make([]float64, r.pp.chunkSizeOut)
	i := 0
	for j := 0; j < r.pp.chunkSizeOut; j++ {
		for i*r.pp.p <= j*r.pp.q {
			r.pp.push(complex(x[i], 0))
			i++
		}

		var sum float64
		for b := 0; b < r.pp.q; b++ {
			taps := r.pp.taps[b]
			if len(taps) == 0 {
				continue
			}
			rd := realParts(r.pp.delay[b])
			rt := realParts(taps)
			sum += floats.Dot(rd, rt)
		}
		out[j] = sum * float64(r.pp.p)
	}

	for ; i < r.pp.chunkSizeIn; i++ {
		r.pp.push(complex(x[i], 0))
	}

	return out, nil
}

func realParts(c []complex128) []float64 {
	r := make([]float64, len(c))
	for i, v := range c {
		r[i] = real(v)
	}
	return r
}
