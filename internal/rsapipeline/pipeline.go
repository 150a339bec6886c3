/*
NAME
  pipeline.go

DESCRIPTION
  pipeline.go wires a frame reader into the mixer/resampler/demodulator
  chain and a WAV sink, shared by the rsa2wav and rsa-watch command-line
  collaborators.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rsapipeline assembles the RSA-306 demodulation chain
// (frame reader -> mixer -> resampler -> FM demodulator -> resampler)
// and drives it to a WAV file. It is internal glue shared by this
// module's command-line collaborators, not a public API.
package rsapipeline

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ausocean/rsa306/codec/rsadsp"
	"github.com/ausocean/rsa306/container/rsa306"
	"github.com/ausocean/utils/logging"
)

const wavFormat = 1 // PCM.

// Config holds the tunable parameters of a demodulation run.
type Config struct {
	Station   float64 // station frequency, Hz.
	Deviation float64 // peak FM deviation, Hz.
	Ripple    float64 // FIR stop-band attenuation, dB.
	BlockIn   int     // samples per pipeline block; any size, blocks are read without per-frame metadata.
	AudioRate int     // output audio sample rate, Hz.
}

// intermediateRate is the IF bandwidth the first resampling stage settles
// on before FM demodulation, a conventional choice for broadcast FM.
const intermediateRate = 224000

// Convert reads every block from src and writes demodulated FM audio to w
// as a WAV stream. It closes neither src nor w.
func Convert(src rsa306.FrameSource, cfg Config, w io.WriteSeeker, log logging.Logger) error {
	h := src.Header()
	fs1 := h.DataFormat.SampleRate
	fh := h.DataFormat.IFCenterFrequency - h.InstrumentState.CenterFrequency + cfg.Station

	// short_allowed is false: the DSP stages below are constructed for a
	// fixed chunk size of cfg.BlockIn samples, so a trailing short block
	// (the common case when a capture's sample count isn't an exact
	// multiple of the block size) is dropped rather than fed to them.
	blocks, err := src.ReadBlocks(cfg.BlockIn, false, false)
	if err != nil {
		return err
	}
	defer blocks.Close()

	p1, q1 := rationalApprox(intermediateRate, fs1, cfg.BlockIn)
	chunkOut1 := cfg.BlockIn * p1 / q1
	b1, err := rsadsp.DesignFIR([]float64{intermediateRate / 2 * 0.9}, []float64{intermediateRate / 2}, cfg.Ripple, fs1, true, false)
	if err != nil {
		return err
	}
	resampler1, err := rsadsp.NewPolyphase(toComplex(b1), p1, q1, cfg.BlockIn, chunkOut1)
	if err != nil {
		return err
	}

	mixer, err := rsadsp.NewMixer(cfg.BlockIn, fs1, fh, 0, nil, resampler1)
	if err != nil {
		return err
	}

	demod := rsadsp.NewDemodulator(chunkOut1, intermediateRate, cfg.Deviation, 1)

	p2, q2 := rationalApprox(float64(cfg.AudioRate), intermediateRate, chunkOut1)
	chunkOut2 := chunkOut1 * p2 / q2
	b2, err := rsadsp.DesignFIR([]float64{float64(cfg.AudioRate) / 2 * 0.9}, []float64{float64(cfg.AudioRate) / 2}, cfg.Ripple, intermediateRate, true, false)
	if err != nil {
		return err
	}
	resampler2, err := rsadsp.NewRealPolyphase(b2, p2, q2, chunkOut1, chunkOut2)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(w, cfg.AudioRate, 16, 1, wavFormat)
	defer enc.Close()

	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: cfg.AudioRate},
		SourceBitDepth: 16,
	}

	for {
		blk, ok, err := blocks.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		baseband, err := mixer.Process(toComplexFromInt16(blk.Samples))
		if err != nil {
			return err
		}
		audioOut, err := demod.Process(baseband)
		if err != nil {
			return err
		}
		final, err := resampler2.Process(audioOut)
		if err != nil {
			return err
		}

		intBuf.Data = floatsToInts(final)
		if err := enc.Write(intBuf); err != nil {
			return err
		}
		log.Debug("rsapipeline: wrote block", "samples", len(final))
	}

	return nil
}

// rationalApprox returns p, q in lowest terms approximating out/in, chosen
// so that p*blockIn is divisible by q (required by NewPolyphase).
func rationalApprox(outRate, inRate float64, blockIn int) (p, q int) {
	p, q = 1, int(inRate/outRate+0.5)
	if q < 1 {
		q = 1
	}
	for (p*blockIn)%q != 0 && q > 1 {
		q--
	}
	return p, q
}

func toComplex(b []float64) []complex128 {
	c := make([]complex128, len(b))
	for i, v := range b {
		c[i] = complex(v, 0)
	}
	return c
}

func toComplexFromInt16(s []int16) []complex128 {
	c := make([]complex128, len(s))
	for i, v := range s {
		c[i] = complex(float64(v)/32768, 0)
	}
	return c
}

func floatsToInts(f []float64) []int {
	out := make([]int, len(f))
	for i, v := range f {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = int(v * 32767)
	}
	return out
}
