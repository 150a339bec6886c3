/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the error taxonomy for the rsa306 capture reader. The
  DSP pipeline in codec/rsadsp reports its own ErrConfig and ErrDomain.

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

import "github.com/pkg/errors"

// Sentinel errors. Use errors.Is against these; wrapped call sites add
// errors.Wrap context and a stack trace.
var (
	// ErrInvalidExtension indicates a path did not end in .r3f, .r3a or .r3h.
	ErrInvalidExtension = errors.New("rsa306: invalid file extension")

	// ErrMissingSibling indicates a .r3a file had no sibling .r3h, or vice versa.
	ErrMissingSibling = errors.New("rsa306: missing sibling header/data file")

	// ErrMalformedHeader indicates a short, corrupt, or out-of-range header block.
	ErrMalformedHeader = errors.New("rsa306: malformed header")

	// ErrMalformedFrame indicates a short read mid-frame.
	ErrMalformedFrame = errors.New("rsa306: malformed frame")

	// ErrConfig indicates a reader misconfiguration or misuse.
	ErrConfig = errors.New("rsa306: configuration error")

	// ErrDomain names the taxonomy's domain error. No function in this
	// package returns it; the FIR designer returns rsadsp.ErrDomain.
	ErrDomain = errors.New("rsa306: domain error")
)

// ioError wraps an I/O failure with the byte offset at which it occurred,
// per the Io taxonomy member in the design (§7).
type ioError struct {
	pos int64
	err error
}

func (e *ioError) Error() string {
	return errors.Wrapf(e.err, "rsa306: io error at byte offset %d", e.pos).Error()
}

func (e *ioError) Unwrap() error { return e.err }

// wrapIo wraps an underlying I/O error with the position at which it occurred.
func wrapIo(pos int64, err error) error {
	if err == nil {
		return nil
	}
	return &ioError{pos: pos, err: err}
}
