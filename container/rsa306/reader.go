/*
NAME
  reader.go

DESCRIPTION
  reader.go provides the FrameSource interface shared by the R3F and R3A
  capture layouts, the lazy block iterator used for chunked streaming, and
  the Open dispatcher that picks an implementation from a file extension.

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
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"
)

// Block is one emission of a lazy block sequence: a slice of ADC samples,
// and, when requested, the footers bound to the native frames that made it
// up. Samples and Footers are borrowed views owned by the FrameSource that
// produced them; callers must consume or copy them before the next call to
// Next, per the buffer-ownership contract in SPEC_FULL.md §3.
type Block struct {
	Samples []int16
	Footers []Footer
}

// FrameSource is the common interface implemented by the R3F and R3A
// capture layouts. It replaces a base-class/subclass hierarchy with a
// small interface and two concrete structs (see SPEC_FULL.md §9).
type FrameSource interface {
	// Header returns the decoded 16 KiB metadata block. Valid for the
	// lifetime of the FrameSource.
	Header() Header

	// ReadAll returns every ADC sample in the capture as one contiguous
	// sequence.
	ReadAll() ([]int16, error)

	// ReadBlocks returns a lazy iterator over samplesPerBlock-sized blocks.
	// withMetadata requires samplesPerBlock to be a multiple of
	// SamplesPerFrame and is only supported on R3F captures.
	ReadBlocks(samplesPerBlock int, shortAllowed, withMetadata bool) (*BlockIter, error)

	// Close releases the underlying file handle(s). Safe to call more than
	// once.
	Close() error
}

// readerState is the three-state machine described in SPEC_FULL.md §4.8.
type readerState int

const (
	stateOpen readerState = iota
	stateStreaming
	stateClosed
)

// nativeSource is the per-format primitive the block iterator drives. R3F
// implements readNativeFrame (one frame plus its footer); R3A only
// implements readNative, since it carries no framing.
type nativeSource interface {
	header() Header
	readAll() ([]int16, error)
	readNative() ([]int16, bool, error)
	readNativeFrame() ([]int16, Footer, bool, error)
	nativeSize() int // native payload size in samples; 0 if not frame-based.
	supportsMetadata() bool
	close() error
}

// Open opens path, dispatching on its extension to an R3F or R3A
// FrameSource. log may be nil, in which case lifecycle events are
// discarded. Unsupported extensions return ErrInvalidExtension.
func Open(path string, log logging.Logger) (FrameSource, error) {
	log = logOrNop(log)

	switch ext := filepath.Ext(path); ext {
	case ".r3f":
		return openR3F(path, log)
	case ".r3a", ".r3h":
		return openR3A(path, log)
	default:
		return nil, errors.Wrapf(ErrInvalidExtension, "unsupported extension %q", ext)
	}
}

// reader is the shared FrameSource implementation; it delegates
// format-specific work to a nativeSource.
type reader struct {
	src   nativeSource
	log   logging.Logger
	state readerState
}

func newReader(src nativeSource, log logging.Logger) *reader {
	log.Debug("rsa306: capture opened")
	return &reader{src: src, log: log, state: stateOpen}
}

func (r *reader) Header() Header { return r.src.header() }

func (r *reader) ReadAll() ([]int16, error) {
	if r.state == stateClosed {
		return nil, errors.Wrap(ErrConfig, "rsa306: ReadAll called on closed reader")
	}
	r.state = stateStreaming
	samples, err := r.src.readAll()
	if err != nil {
		r.closeOnFatal()
		return nil, err
	}
	return samples, nil
}

func (r *reader) ReadBlocks(samplesPerBlock int, shortAllowed, withMetadata bool) (*BlockIter, error) {
	if r.state == stateClosed {
		return nil, errors.Wrap(ErrConfig, "rsa306: ReadBlocks called on closed reader")
	}
	if samplesPerBlock < 1 {
		return nil, errors.Wrapf(ErrConfig, "samples_per_block must be >= 1, got %d", samplesPerBlock)
	}
	if withMetadata {
		if !r.src.supportsMetadata() {
			return nil, errors.Wrap(ErrConfig, "rsa306: metadata requested on a source that carries no per-frame footers")
		}
		if n := r.src.nativeSize(); samplesPerBlock%n != 0 {
			return nil, errors.Wrapf(ErrConfig, "samples_per_block (%d) must be a multiple of the native frame size (%d) when requesting metadata", samplesPerBlock, n)
		}
	}

	r.state = stateStreaming
	return &BlockIter{
		r:            r,
		blockSize:    samplesPerBlock,
		shortAllowed: shortAllowed,
		withMetadata: withMetadata,
	}, nil
}

func (r *reader) Close() error {
	if r.state == stateClosed {
		return nil
	}
	r.state = stateClosed
	r.log.Debug("rsa306: capture closed")
	return r.src.close()
}

// closeOnFatal transitions to Closed on any fatal error, per the state
// machine in SPEC_FULL.md §4.8.
func (r *reader) closeOnFatal() {
	if r.state == stateClosed {
		return
	}
	r.state = stateClosed
	r.src.close()
}

// BlockIter is the lazy block sequence returned by ReadBlocks. Call Next
// repeatedly until ok is false; a non-nil err indicates a fatal failure.
// Dropping a BlockIter without exhausting it and calling Close releases
// the underlying file.
type BlockIter struct {
	r            *reader
	blockSize    int
	shortAllowed bool
	withMetadata bool
	pending      []int16
	done         bool
}

// Next produces the next Block. ok is false, with a nil error, at a clean
// end of stream (including a dropped final short block when shortAllowed
// is false). A non-nil error is always fatal and closes the underlying
// FrameSource.
func (it *BlockIter) Next() (Block, bool, error) {
	if it.done {
		return Block{}, false, nil
	}

	var blk Block
	var ok bool
	var err error
	if it.withMetadata {
		blk, ok, err = it.nextWithMetadata()
	} else {
		blk, ok, err = it.nextPlain()
	}
	if err != nil {
		it.done = true
		it.r.closeOnFatal()
		return Block{}, false, err
	}
	if !ok {
		it.done = true
	}
	return blk, ok, nil
}

// Close releases the underlying FrameSource's file handle(s). Safe to call
// even if Next has not been exhausted, and safe to call more than once.
func (it *BlockIter) Close() error {
	it.done = true
	return it.r.Close()
}

func (it *BlockIter) nextPlain() (Block, bool, error) {
	for len(it.pending) < it.blockSize {
		native, ok, err := it.r.src.readNative()
		if err != nil {
			return Block{}, false, err
		}
		if !ok {
			if len(it.pending) == 0 {
				return Block{}, false, nil
			}
			if it.shortAllowed {
				out := it.pending
				it.pending = nil
				return Block{Samples: out}, true, nil
			}
			it.pending = nil
			return Block{}, false, nil
		}
		it.pending = append(it.pending, native...)
	}

	out := it.pending[:it.blockSize:it.blockSize]
	rest := make([]int16, len(it.pending)-it.blockSize)
	copy(rest, it.pending[it.blockSize:])
	it.pending = rest
	return Block{Samples: out}, true, nil
}

func (it *BlockIter) nextWithMetadata() (Block, bool, error) {
	k := it.blockSize / it.r.src.nativeSize()

	samples := make([]int16, 0, it.blockSize)
	footers := make([]Footer, 0, k)
	for i := 0; i < k; i++ {
		frameSamples, footer, ok, err := it.r.src.readNativeFrame()
		if err != nil {
			return Block{}, false, err
		}
		if !ok {
			if len(footers) == 0 {
				return Block{}, false, nil
			}
			if it.shortAllowed {
				return Block{Samples: samples, Footers: footers}, true, nil
			}
			return Block{}, false, nil
		}
		samples = append(samples, frameSamples...)
		footers = append(footers, footer)
	}
	return Block{Samples: samples, Footers: footers}, true, nil
}

// logOrNop returns l, or a no-op Logger if l is nil.
func logOrNop(l logging.Logger) logging.Logger {
	if l != nil {
		return l
	}
	return nopLogger{}
}

// nopLogger implements logging.Logger by discarding everything. Used when
// a caller opens a capture without providing a logger.
type nopLogger struct{}

func (nopLogger) Log(int8, string, ...interface{})     {}
func (nopLogger) Debug(string, ...interface{})         {}
func (nopLogger) Info(string, ...interface{})          {}
func (nopLogger) Warning(string, ...interface{})       {}
func (nopLogger) Error(string, ...interface{})         {}
func (nopLogger) Fatal(string, ...interface{})         {}
func (nopLogger) SetLevel(int8)                        {}
