/*
NAME
  r3a.go

DESCRIPTION
  r3a.go implements the R3A capture layout: a sibling pair of files, a
  16 KiB .r3h header and a flat, unframed .r3a stream of little-endian i16
  ADC samples. R3A carries no per-frame footers.

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
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"
)

// r3aNativeReadSamples bounds the size of one native read from the .r3a
// stream; it has no relation to any on-disk framing (there is none).
const r3aNativeReadSamples = 1 << 16

// r3aSource implements nativeSource for a .r3a/.r3h sibling pair.
type r3aSource struct {
	f       *os.File
	h       Header
	byteBuf []byte
	pos     int64 // byte offset into the .r3a data stream.
}

func openR3A(path string, log logging.Logger) (FrameSource, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(path, ".r3a"), ".r3h")
	headerPath := base + ".r3h"
	dataPath := base + ".r3a"

	hf, err := os.Open(headerPath)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingSibling, "could not open %s: %v", headerPath, err)
	}
	defer hf.Close()

	hdrBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(hf, hdrBuf); err != nil {
		return nil, errors.Wrapf(ErrMalformedHeader, "could not read header of %s: %v", headerPath, err)
	}
	h, err := DecodeHeader(hdrBuf)
	if err != nil {
		return nil, err
	}

	df, err := os.Open(dataPath)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingSibling, "could not open %s: %v", dataPath, err)
	}

	src := &r3aSource{
		f:       df,
		h:       h,
		byteBuf: make([]byte, r3aNativeReadSamples*2),
	}
	return newReader(src, log), nil
}

func (s *r3aSource) header() Header { return s.h }

func (s *r3aSource) nativeSize() int { return 0 }

func (s *r3aSource) supportsMetadata() bool { return false }

func (s *r3aSource) readAll() ([]int16, error) {
	raw, err := io.ReadAll(s.f)
	if err != nil {
		return nil, wrapIo(s.pos, err)
	}
	if len(raw)%2 != 0 {
		return nil, errors.Wrap(ErrMalformedFrame, "rsa306: .r3a file has a trailing odd byte")
	}
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return out, nil
}

func (s *r3aSource) readNative() ([]int16, bool, error) {
	n, err := io.ReadFull(s.f, s.byteBuf)
	switch {
	case err == nil:
		// Full native read.
	case err == io.ErrUnexpectedEOF:
		if n%2 != 0 {
			return nil, false, errors.Wrap(ErrMalformedFrame, "rsa306: .r3a file has a trailing odd byte")
		}
		if n == 0 {
			return nil, false, nil
		}
	case err == io.EOF:
		return nil, false, nil
	default:
		return nil, false, wrapIo(s.pos, err)
	}
	s.pos += int64(n)

	out := make([]int16, n/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(s.byteBuf[2*i:]))
	}
	return out, true, nil
}

func (s *r3aSource) readNativeFrame() ([]int16, Footer, bool, error) {
	return nil, Footer{}, false, errors.Wrap(ErrConfig, "rsa306: .r3a captures carry no per-frame footers")
}

func (s *r3aSource) close() error {
	return s.f.Close()
}
