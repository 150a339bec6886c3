/*
NAME
  errors_test.go

DESCRIPTION
  errors_test.go tests the ioError wrapper used by the Io taxonomy member.

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
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapIoNilIsNil(t *testing.T) {
	if err := wrapIo(42, nil); err != nil {
		t.Errorf("wrapIo(42, nil) = %v, want nil", err)
	}
}

func TestWrapIoCarriesPositionAndUnwraps(t *testing.T) {
	err := wrapIo(1024, io.ErrClosedPipe)
	if !strings.Contains(err.Error(), "1024") {
		t.Errorf("Error() = %q, want it to mention the byte offset", err.Error())
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("wrapIo's result does not unwrap to the underlying error")
	}
}
