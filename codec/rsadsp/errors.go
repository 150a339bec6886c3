/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel errors returned by the rsadsp package's
  constructors. Once built, a DSP stage fails only when its Process method
  is handed a chunk of the wrong length.

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

import "github.com/pkg/errors"

// ErrConfig is returned when a stage is misconfigured: a mixer supplied
// both a filter and a resampler (or neither), a resampler's chunk sizes do
// not satisfy p*chunk_size_in ≡ 0 (mod q), or a stage's Process method is
// handed a chunk whose length differs from the configured chunk size.
var ErrConfig = errors.New("rsadsp: configuration error")

// ErrDomain is returned when a FIR designer is called with band edges
// outside [0, Fs/2] or a degenerate transition band.
var ErrDomain = errors.New("rsadsp: domain error")
