/*
NAME
  pipeline_test.go

DESCRIPTION
  pipeline_test.go exercises Convert end to end against an on-disk R3A
  capture whose sample count is not a multiple of the configured block
  size, the common case for a real capture file.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rsapipeline

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/rsa306/container/rsa306"
)

// Fixed byte offsets of the header fields this test populates, per the R3A
// capture format documented in container/rsa306/header.go.
const (
	testDataTypeOff     = 2048
	testIFCenterFreqOff = 2076
	testSampleRateOff   = 2084
)

// buildR3AFixture writes a .r3h/.r3a sibling pair under dir and returns the
// base path (without extension). numSamples need not be a multiple of
// blockIn; Convert must still process every full block and drop the
// trailing short one.
func buildR3AFixture(t *testing.T, dir string, sampleRate float64, numSamples int) string {
	t.Helper()

	hdr := make([]byte, rsa306.HeaderSize)
	binary.LittleEndian.PutUint32(hdr[testDataTypeOff:], 2)
	binary.LittleEndian.PutUint64(hdr[testIFCenterFreqOff:], math.Float64bits(0))
	binary.LittleEndian.PutUint64(hdr[testSampleRateOff:], math.Float64bits(sampleRate))

	base := filepath.Join(dir, "capture")
	if err := os.WriteFile(base+".r3h", hdr, 0o600); err != nil {
		t.Fatalf("WriteFile .r3h: %v", err)
	}

	var data bytes.Buffer
	for i := 0; i < numSamples; i++ {
		binary.Write(&data, binary.LittleEndian, int16(i%1000))
	}
	if err := os.WriteFile(base+".r3a", data.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile .r3a: %v", err)
	}

	return base
}

// TestConvertDropsTrailingShortBlock feeds Convert a capture whose sample
// count is two full blocks plus a short remainder, and checks Convert
// succeeds without forwarding that remainder into the fixed-chunk-size
// DSP stages.
func TestConvertDropsTrailingShortBlock(t *testing.T) {
	const (
		blockIn    = 512
		sampleRate = 1792000.0 // 8x the 224 kHz intermediate rate.
	)
	cfg := Config{
		Station:   0,
		Deviation: 75e3,
		Ripple:    40,
		BlockIn:   blockIn,
		AudioRate: 8000,
	}

	dir := t.TempDir()
	base := buildR3AFixture(t, dir, sampleRate, 2*blockIn+37)

	src, err := rsa306.Open(base+".r3a", nopLogger{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	var out bytes.Buffer
	if err := Convert(src, cfg, nopSeeker{&out}, nopLogger{}); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out.Len() == 0 {
		t.Error("Convert produced no output")
	}
}

type nopLogger struct{}

func (nopLogger) Log(int8, string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})     {}
func (nopLogger) Info(string, ...interface{})      {}
func (nopLogger) Warning(string, ...interface{})   {}
func (nopLogger) Error(string, ...interface{})     {}
func (nopLogger) Fatal(string, ...interface{})     {}
func (nopLogger) SetLevel(int8)                    {}

var _ logging.Logger = nopLogger{}

// nopSeeker adapts a bytes.Buffer, which has no Seek method, into the
// io.WriteSeeker Convert requires for wav.NewEncoder; the WAV encoder only
// seeks to patch the header on Close, which this test does not inspect.
type nopSeeker struct{ w *bytes.Buffer }

func (s nopSeeker) Write(p []byte) (int, error)                   { return s.w.Write(p) }
func (s nopSeeker) Seek(offset int64, whence int) (int64, error)  { return 0, nil }
