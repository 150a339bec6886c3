/*
NAME
  resample_test.go

DESCRIPTION
  resample_test.go tests the polyphase resampler's configuration
  validation and steady-state behaviour.

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
	"math/cmplx"
	"testing"
)

func TestNewPolyphaseRejectsBadChunkSizes(t *testing.T) {
	b := []complex128{1, 1, 1, 1}
	if _, err := NewPolyphase(b, 1, 3, 2, 1); err == nil {
		t.Fatal("expected ErrConfig: p*chunk_size_in (2) not divisible by q (3)")
	}
	if _, err := NewPolyphase(b, 1, 2, 2, 2); err == nil {
		t.Fatal("expected ErrConfig: chunk_size_out mismatch")
	}
}

// TestPolyphaseSteadyStateSumB exercises Testable Property #4/scenario #4:
// feeding consecutive unit samples reaches a steady state equal to
// sum(b), gain-normalized by p.
func TestPolyphaseSteadyStateSumB(t *testing.T) {
	const q = 7
	b := make([]complex128, q) // depth-1 branches: each holds exactly 1 tap.
	var want complex128
	for i := range b {
		b[i] = complex(float64(i+1), 0)
		want += b[i]
	}

	r, err := NewPolyphase(b, 1, q, q, 1)
	if err != nil {
		t.Fatalf("NewPolyphase: %v", err)
	}

	ones := make([]complex128, q)
	for i := range ones {
		ones[i] = 1
	}

	var last []complex128
	for i := 0; i < 3; i++ {
		last, err = r.Process(ones)
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
	}

	if cmplx.Abs(last[0]-want) > 1e-9 {
		t.Errorf("steady-state output = %v, want %v", last[0], want)
	}
}

// TestPolyphaseOutputCount checks Testable Property #5: total output
// count after K input chunks equals K*chunk_size_out.
func TestPolyphaseOutputCount(t *testing.T) {
	b := make([]complex128, 10)
	r, err := NewPolyphase(b, 2, 5, 5, 2)
	if err != nil {
		t.Fatalf("NewPolyphase: %v", err)
	}

	in := make([]complex128, 5)
	total := 0
	for k := 0; k < 4; k++ {
		out, err := r.Process(in)
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
		total += len(out)
	}
	if total != 4*2 {
		t.Errorf("total output samples = %d, want %d", total, 4*2)
	}
}

func TestRealPolyphaseChunkSizeMismatch(t *testing.T) {
	r, err := NewRealPolyphase([]float64{1, 1}, 1, 2, 2, 1)
	if err != nil {
		t.Fatalf("NewRealPolyphase: %v", err)
	}
	if _, err := r.Process([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected ErrConfig on a chunk size mismatch")
	}
}
