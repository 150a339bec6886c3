/*
NAME
  footer.go

DESCRIPTION
  footer.go decodes the 28-byte per-frame trailer appended to every R3F
  frame: frame identifier, trigger indices, time-sync index, status bits
  and timestamp.

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
	"fmt"

	"github.com/pkg/errors"
)

// NoEventIdx is the sentinel value a trigger/time-sync index takes when no
// corresponding event occurred within the frame.
const NoEventIdx = 0xFFFF

// Footer is the decoded per-frame trailer.
type Footer struct {
	Reserved    [3]uint16
	FrameID     uint32
	Trigger2Idx uint16
	Trigger1Idx uint16
	TimeSyncIdx uint16

	// FrameStatus is the full 16-bit status field. Only the low 8 bits are
	// documented as meaningful (see REDESIGN FLAGS (c) in SPEC_FULL.md);
	// the upper 8 are preserved but undocumented by Tektronix.
	FrameStatus uint16

	Timestamp uint64
}

// meaningfulStatusBits names the 8 low bits of FrameStatus that Tektronix
// documents; the remaining 8 high bits are reserved and preserved verbatim.
var meaningfulStatusBits = [8]string{
	"ADCOverrange",
	"RefOverrange",
	"AlignFailed",
	"PLLUnlocked",
	"TimestampDiscontinuity",
	"TriggerOccurred",
	"Reserved6",
	"Reserved7",
}

// String renders the meaningful low 8 bits of FrameStatus followed by the
// raw value of the upper, undocumented 8 bits.
func (f Footer) String() string {
	s := fmt.Sprintf("%08b", f.FrameStatus&0xFF)
	return fmt.Sprintf("status=%s reserved=0x%02x", s, f.FrameStatus>>8)
}

// StatusBit reports whether bit i (0 = LSB) of the meaningful low byte of
// FrameStatus is set. i must be in [0, 8).
func (f Footer) StatusBit(i int) bool {
	return f.FrameStatus&(1<<uint(i)) != 0
}

// DecodeFooter decodes exactly FrameFooterSize bytes into a Footer.
func DecodeFooter(buf []byte) (Footer, error) {
	if len(buf) < FrameFooterSize {
		return Footer{}, errors.Wrapf(ErrMalformedFrame, "short footer buffer: got %d bytes, want %d", len(buf), FrameFooterSize)
	}

	var f Footer
	f.Reserved = [3]uint16{
		binary.LittleEndian.Uint16(buf[0:2]),
		binary.LittleEndian.Uint16(buf[2:4]),
		binary.LittleEndian.Uint16(buf[4:6]),
	}
	// Bytes 6-7 are reserved/ignored, per §4.2.
	f.FrameID = binary.LittleEndian.Uint32(buf[8:12])
	f.Trigger2Idx = binary.LittleEndian.Uint16(buf[12:14])
	f.Trigger1Idx = binary.LittleEndian.Uint16(buf[14:16])
	f.TimeSyncIdx = binary.LittleEndian.Uint16(buf[16:18])
	f.FrameStatus = binary.LittleEndian.Uint16(buf[18:20])
	f.Timestamp = binary.LittleEndian.Uint64(buf[20:28])

	return f, nil
}
