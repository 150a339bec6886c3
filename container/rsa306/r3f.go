/*
NAME
  r3f.go

DESCRIPTION
  r3f.go implements the R3F capture layout: a single file holding the 16
  KiB header followed by a contiguous run of fixed-size frames, each frame
  carrying SamplesPerFrame ADC samples and a 28-byte footer.

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

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"
)

// r3fSource implements nativeSource for a single .r3f file.
type r3fSource struct {
	f            *os.File
	h            Header
	framesRemain int64
	frameBuf     []byte // scratch buffer sized to one frame.
	sampleBuf    []int16
	pos          int64 // byte offset into the frame data area.
}

func openR3F(path string, log logging.Logger) (FrameSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "rsa306: could not open %s", path)
	}

	hdrBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, hdrBuf); err != nil {
		f.Close()
		return nil, errors.Wrapf(ErrMalformedHeader, "could not read header of %s: %v", path, err)
	}
	h, err := DecodeHeader(hdrBuf)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := validateR3FDataFormat(h.DataFormat); err != nil {
		f.Close()
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "rsa306: could not stat %s", path)
	}
	numFrames := info.Size()/int64(h.DataFormat.FrameSize) - 1
	if numFrames < 0 {
		numFrames = 0
	}

	if _, err := f.Seek(int64(h.DataFormat.FrameOffset), io.SeekStart); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "rsa306: could not seek to first frame of %s", path)
	}

	src := &r3fSource{
		f:            f,
		h:            h,
		framesRemain: numFrames,
		frameBuf:     make([]byte, h.DataFormat.SampleSize*2+int32(h.DataFormat.NonSampleSize)),
		sampleBuf:    make([]int16, h.DataFormat.SampleSize),
	}
	return newReader(src, log), nil
}

// validateR3FDataFormat checks the frame_size invariant from SPEC_FULL.md
// §3: frame_size == sample_offset + sample_size*2 + non_sample_size.
func validateR3FDataFormat(df DataFormat) error {
	want := df.SampleOffset + uint32(df.SampleSize)*2 + df.NonSampleSize
	if df.FrameSize != want {
		return errors.Wrapf(ErrMalformedHeader, "frame_size (%d) does not equal sample_offset+sample_size*2+non_sample_size (%d)", df.FrameSize, want)
	}
	if df.SampleSize != SamplesPerFrame {
		return errors.Wrapf(ErrMalformedHeader, "sample_size (%d) does not equal the fixed R3F frame payload of %d samples", df.SampleSize, SamplesPerFrame)
	}
	return nil
}

func (s *r3fSource) header() Header { return s.h }

func (s *r3fSource) nativeSize() int { return int(s.h.DataFormat.SampleSize) }

func (s *r3fSource) supportsMetadata() bool { return true }

func (s *r3fSource) readAll() ([]int16, error) {
	out := make([]int16, 0, s.framesRemain*int64(s.h.DataFormat.SampleSize))
	for {
		samples, ok, err := s.readNative()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, samples...)
	}
	return out, nil
}

// readNative reads one frame, discarding its footer.
func (s *r3fSource) readNative() ([]int16, bool, error) {
	samples, _, ok, err := s.readFrame(false)
	return samples, ok, err
}

// readNativeFrame reads one frame and decodes its footer.
func (s *r3fSource) readNativeFrame() ([]int16, Footer, bool, error) {
	return s.readFrame(true)
}

func (s *r3fSource) readFrame(decodeFooter bool) ([]int16, Footer, bool, error) {
	if s.framesRemain <= 0 {
		return nil, Footer{}, false, nil
	}

	n, err := io.ReadFull(s.f, s.frameBuf)
	if err != nil {
		if err == io.EOF && n == 0 {
			s.framesRemain = 0
			return nil, Footer{}, false, nil
		}
		if err == io.ErrUnexpectedEOF {
			return nil, Footer{}, false, errors.Wrapf(ErrMalformedFrame, "short read mid-frame: %v", err)
		}
		return nil, Footer{}, false, wrapIo(s.pos, err)
	}
	s.framesRemain--
	s.pos += int64(n)

	for i := range s.sampleBuf {
		s.sampleBuf[i] = int16(binary.LittleEndian.Uint16(s.frameBuf[2*i:]))
	}

	var footer Footer
	if decodeFooter {
		// The footer occupies the last non_sample_size bytes of the frame;
		// non_sample_size is fixed at FrameFooterSize for R3F (§3, §6).
		footerBuf := s.frameBuf[len(s.frameBuf)-FrameFooterSize:]
		footer, err = DecodeFooter(footerBuf)
		if err != nil {
			return nil, Footer{}, false, err
		}
	}

	// sampleBuf is a borrowed view reused as scratch space on the next
	// call; the caller (BlockIter) consumes it via append before then.
	return s.sampleBuf, footer, true, nil
}

func (s *r3fSource) close() error {
	return s.f.Close()
}
