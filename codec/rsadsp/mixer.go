/*
NAME
  mixer.go

DESCRIPTION
  mixer.go implements the passband-to-baseband converter (internal
  heterodyne): a per-chunk complex mix with phase continuity carried
  across calls, feeding into exactly one post-processing stage.

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

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/cmplxs"
)

// PostProc is the mixer's downstream stage: either a FIR low-pass filter
// or a polyphase resampler, never both. Construction through NewMixer
// enforces exactly one, replacing a dynamic-dispatch base class with a
// small interface and two concrete implementations (SPEC_FULL.md §9).
type PostProc interface {
	process(x []complex128) []complex128
}

// FIRFilter is a streaming complex FIR filter: a direct-form convolution
// whose trailing history carries across calls so chunk boundaries never
// introduce discontinuities.
type FIRFilter struct {
	taps    []complex128
	history []complex128
}

// NewFIRFilter builds a streaming complex filter from a real-valued
// prototype impulse response, as produced by DesignFIR.
func NewFIRFilter(b []float64) *FIRFilter {
	taps := make([]complex128, len(b))
	for i, v := range b {
		taps[i] = complex(v, 0)
	}
	return &FIRFilter{
		taps:    taps,
		history: make([]complex128, len(taps)-1),
	}
}

func (f *FIRFilter) process(x []complex128) []complex128 {
	l := len(f.taps)
	buf := make([]complex128, 0, len(f.history)+len(x))
	buf = append(buf, f.history...)
	buf = append(buf, x...)

	out := make([]complex128, len(x))
	window := make([]complex128, l)
	for n := 0; n < len(x); n++ {
		start := n + len(f.history) - (l - 1)
		for k := 0; k < l; k++ {
			window[k] = buf[start+k]
		}
		// cmplxs.Dot conjugates its first argument, so the real-valued
		// taps go first and the samples are left unconjugated.
		out[n] = cmplxs.Dot(reversed(f.taps), window)
	}

	if n := len(buf); n >= l-1 {
		f.history = append([]complex128{}, buf[n-(l-1):]...)
	} else {
		f.history = append([]complex128{}, buf...)
	}
	return out
}

func reversed(c []complex128) []complex128 {
	r := make([]complex128, len(c))
	for i, v := range c {
		r[len(c)-1-i] = v
	}
	return r
}

// process adapts Polyphase to PostProc. A correctly wired Mixer always
// calls with exactly chunkSizeIn samples, so the only error Process can
// return never occurs here.
func (r *Polyphase) process(x []complex128) []complex128 {
	out, err := r.Process(x)
	if err != nil {
		panic(err)
	}
	return out
}

// Mixer converts a real passband chunk to a baseband complex chunk via
// internal heterodyne, then feeds it to post.
type Mixer struct {
	post     PostProc
	table    []complex128 // e^{j*wh*n/Fs}, built once.
	delta    float64      // accumulated phase continuation, mod 2π.
	wh       float64
	fs       float64
	n        int
	initPhi0 float64
}

// NewMixer builds a mixer for chunk size n, sample rate fs, heterodyne
// frequency fh, and initial phase phi0, driving exactly one of filter or
// resampler. Passing both, or neither, is ErrConfig.
func NewMixer(n int, fs, fh, phi0 float64, filter *FIRFilter, resampler *Polyphase) (*Mixer, error) {
	if (filter == nil) == (resampler == nil) {
		return nil, errors.Wrap(ErrConfig, "rsadsp: mixer requires exactly one of filter or resampler")
	}

	var post PostProc
	if filter != nil {
		post = filter
	} else {
		post = resampler
	}

	wh := 2 * math.Pi * fh
	table := make([]complex128, n)
	for i := 0; i < n; i++ {
		table[i] = cmplxExp(wh * float64(i) / fs)
	}

	return &Mixer{
		post:     post,
		table:    table,
		delta:    0,
		wh:       wh,
		fs:       fs,
		n:        n,
		initPhi0: phi0,
	}, nil
}

// Process mixes xIn (length n, real passband samples as complex128 with
// zero imaginary part, or already-complex IF samples) to baseband and
// returns the downstream stage's output view.
func (m *Mixer) Process(xIn []complex128) ([]complex128, error) {
	if len(xIn) != m.n {
		return nil, errors.Wrapf(ErrConfig, "got %d input samples, want %d", len(xIn), m.n)
	}

	phaseOffset := cmplxExp(m.initPhi0 + m.delta)
	mixed := make([]complex128, m.n)
	for i, x := range xIn {
		mixed[i] = x * m.table[i] * phaseOffset
	}

	m.delta = math.Mod(m.delta+m.wh*float64(m.n)/m.fs, 2*math.Pi)

	return m.post.process(mixed), nil
}

func cmplxExp(theta float64) complex128 {
	s, c := math.Sincos(theta)
	return complex(c, s)
}
