/*
NAME
  correction_test.go

DESCRIPTION
  correction_test.go tests linear interpolation over correction tables.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rsa306

import "testing"

func TestAmplitudeAtInterpolates(t *testing.T) {
	cc := ChannelCorrection{
		TableEntries: 3,
		FreqTable:    []float32{0, 100, 200},
		AmpTable:     []float32{0, 10, 0},
		PhaseTable:   []float32{0, 1, 0},
	}

	got, ok := cc.AmplitudeAt(50)
	if !ok {
		t.Fatal("AmplitudeAt(50) = !ok, want ok")
	}
	if got != 5 {
		t.Errorf("AmplitudeAt(50) = %v, want 5", got)
	}

	if _, ok := cc.AmplitudeAt(-1); ok {
		t.Error("AmplitudeAt(-1) = ok, want !ok (outside domain)")
	}
	if _, ok := cc.AmplitudeAt(201); ok {
		t.Error("AmplitudeAt(201) = ok, want !ok (outside domain)")
	}
}

func TestPhaseAtExactKnot(t *testing.T) {
	cc := ChannelCorrection{
		TableEntries: 2,
		FreqTable:    []float32{10, 20},
		PhaseTable:   []float32{1, 2},
	}
	got, ok := cc.PhaseAt(10)
	if !ok || got != 1 {
		t.Errorf("PhaseAt(10) = (%v, %v), want (1, true)", got, ok)
	}
}

func TestAmplitudeAtEmptyTable(t *testing.T) {
	cc := ChannelCorrection{}
	if _, ok := cc.AmplitudeAt(0); ok {
		t.Error("AmplitudeAt on an empty table = ok, want !ok")
	}
}
