/*
NAME
  header.go

DESCRIPTION
  header.go decodes the 16 KiB metadata block found at the start of every
  .r3f and .r3h file into the four value records documented by Tektronix:
  VersionInfo, InstrumentState, DataFormat and ChannelCorrection.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rsa306 decodes Tektronix RSA-306 streamed IF capture files
// (.r3f, and the .r3a/.r3h pair) into ADC sample streams and their
// accompanying header and footer metadata.
package rsa306

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed size, in bytes, of the metadata block at the
// start of a .r3f or .r3h file.
const HeaderSize = 16384

// SamplesPerFrame is the number of ADC samples carried by a single R3F
// frame. It is fixed by the capture format, not derived from the header.
const SamplesPerFrame = 8178

// FrameFooterSize is the size, in bytes, of the per-frame footer trailer.
const FrameFooterSize = 28

// MaxTableEntries is the largest number of rows a correction table may
// declare; a header claiming more is malformed.
const MaxTableEntries = 501

// rawDataTypeSentinel is the DataFormat.data_type value that denotes two
// bytes per ADC sample; the decoder normalizes it to the numeric byte width.
const rawDataTypeSentinel = 161

// bytesPerSample is the byte width rawDataTypeSentinel normalizes to.
const bytesPerSample = 2

// Byte offsets of each header section, fixed by the capture format.
const (
	fileIDOff          = 0
	fileIDLen          = 27
	endianOff          = 512
	fileFormatVerOff   = 516
	apiVerOff          = 520
	fx3VerOff          = 524
	fpgaVerOff         = 528
	deviceSNOff        = 532
	deviceSNLen        = 64

	instrumentStateOff = 1024
	refLevelOff        = instrumentStateOff
	centerFreqOff      = 1032
	temperatureOff     = 1040
	alignmentOff       = 1048
	freqReferenceOff   = 1052
	trigModeOff        = 1056
	trigSourceOff      = 1060
	trigTransOff       = 1064
	trigLevelOff       = 1068

	dataFormatOff      = 2048
	dataTypeOff        = dataFormatOff
	frameOffsetOff     = 2052
	frameSizeOff       = 2056
	sampleOffsetOff    = 2060
	sampleSizeOff      = 2064
	nonSampleOffsetOff = 2068
	nonSampleSizeOff   = 2072
	ifCenterFreqOff    = 2076
	sampleRateOff      = 2084
	bandwidthOff       = 2092
	correctedOff       = 2100
	timeTypeOff        = 2104
	refTimeOff         = 2108
	clockSamplesOff    = 2136
	timeSampleRateOff  = 2144

	adcScaleOff       = 3072
	pathDelayOff      = 3080
	correctionTypeOff = 4096
	tableEntriesOff   = 4352
	freqTableOff      = 4356
	freqTableBytes    = MaxTableEntries * 4
	phaseTableOff     = freqTableOff + freqTableBytes
	phaseTableBytes   = MaxTableEntries * 4
	ampTableOff       = phaseTableOff + phaseTableBytes
)

// VersionInfo identifies the capture file and the device that produced it.
type VersionInfo struct {
	FileID            string
	EndianMarker      uint32
	FileFormatVersion [4]byte
	APIVersion        [4]byte
	FX3Version        [4]byte
	FPGAVersion       [4]byte
	DeviceSerial      string
}

// InstrumentState records the analyzer's settings at the time of capture.
type InstrumentState struct {
	ReferenceLevel  float64
	CenterFrequency float64
	Temperature     float64
	Alignment       uint32
	FreqReference   uint32
	TrigMode        uint32
	TrigSource      uint32
	TrigTrans       uint32
	TrigLevel       float64
}

// DataFormat describes the layout of ADC samples and frames in the data file.
type DataFormat struct {
	DataType          uint32 // normalized: bytes per sample.
	FrameOffset       uint32
	FrameSize         uint32
	SampleOffset      uint32
	SampleSize        int32 // samples per frame.
	NonSampleOffset   uint32
	NonSampleSize     uint32
	IFCenterFrequency float64
	SampleRate        float64
	Bandwidth         float64
	Corrected         uint32
	TimeType          uint32
	RefTime           [7]int32 // year, month, day, hour, min, sec, subsec.
	ClockSamples      uint64
	TimeSampleRate    uint64 // ticks/s.
}

// ChannelCorrection holds the ADC scale factor and the raw amplitude/phase
// correction tables. Interpolation is left to the caller (see AmplitudeAt
// and PhaseAt for a convenience linear-interpolation helper).
type ChannelCorrection struct {
	ADCScale       float64
	PathDelay      float64
	CorrectionType uint32
	TableEntries   uint32
	FreqTable      []float32
	AmpTable       []float32
	PhaseTable     []float32
}

// Header is the fully decoded 16 KiB metadata block.
type Header struct {
	VersionInfo       VersionInfo
	InstrumentState   InstrumentState
	DataFormat        DataFormat
	ChannelCorrection ChannelCorrection
}

// DecodeHeader decodes exactly HeaderSize bytes into a Header. buf must be
// at least HeaderSize bytes; only the first HeaderSize bytes are read.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, errors.Wrapf(ErrMalformedHeader, "short header buffer: got %d bytes, want %d", len(buf), HeaderSize)
	}

	var h Header
	h.VersionInfo = decodeVersionInfo(buf)
	h.InstrumentState = decodeInstrumentState(buf)

	df, err := decodeDataFormat(buf)
	if err != nil {
		return Header{}, err
	}
	h.DataFormat = df

	cc, err := decodeChannelCorrection(buf)
	if err != nil {
		return Header{}, err
	}
	h.ChannelCorrection = cc

	return h, nil
}

func decodeVersionInfo(buf []byte) VersionInfo {
	return VersionInfo{
		FileID:            decodeASCII(buf[fileIDOff : fileIDOff+fileIDLen]),
		EndianMarker:      binary.LittleEndian.Uint32(buf[endianOff:]),
		FileFormatVersion: [4]byte(buf[fileFormatVerOff : fileFormatVerOff+4]),
		APIVersion:        [4]byte(buf[apiVerOff : apiVerOff+4]),
		FX3Version:        [4]byte(buf[fx3VerOff : fx3VerOff+4]),
		FPGAVersion:       [4]byte(buf[fpgaVerOff : fpgaVerOff+4]),
		DeviceSerial:      decodeASCII(buf[deviceSNOff : deviceSNOff+deviceSNLen]),
	}
}

func decodeInstrumentState(buf []byte) InstrumentState {
	return InstrumentState{
		ReferenceLevel:  decodeF64(buf, refLevelOff),
		CenterFrequency: decodeF64(buf, centerFreqOff),
		Temperature:     decodeF64(buf, temperatureOff),
		Alignment:       binary.LittleEndian.Uint32(buf[alignmentOff:]),
		FreqReference:   binary.LittleEndian.Uint32(buf[freqReferenceOff:]),
		TrigMode:        binary.LittleEndian.Uint32(buf[trigModeOff:]),
		TrigSource:      binary.LittleEndian.Uint32(buf[trigSourceOff:]),
		TrigTrans:       binary.LittleEndian.Uint32(buf[trigTransOff:]),
		TrigLevel:       decodeF64(buf, trigLevelOff),
	}
}

func decodeDataFormat(buf []byte) (DataFormat, error) {
	dataType := binary.LittleEndian.Uint32(buf[dataTypeOff:])
	if dataType == rawDataTypeSentinel {
		dataType = bytesPerSample
	}

	var refTime [7]int32
	for i := 0; i < 7; i++ {
		refTime[i] = int32(binary.LittleEndian.Uint32(buf[refTimeOff+4*i:]))
	}

	return DataFormat{
		DataType:          dataType,
		FrameOffset:       binary.LittleEndian.Uint32(buf[frameOffsetOff:]),
		FrameSize:         binary.LittleEndian.Uint32(buf[frameSizeOff:]),
		SampleOffset:      binary.LittleEndian.Uint32(buf[sampleOffsetOff:]),
		SampleSize:        int32(binary.LittleEndian.Uint32(buf[sampleSizeOff:])),
		NonSampleOffset:   binary.LittleEndian.Uint32(buf[nonSampleOffsetOff:]),
		NonSampleSize:     binary.LittleEndian.Uint32(buf[nonSampleSizeOff:]),
		IFCenterFrequency: decodeF64(buf, ifCenterFreqOff),
		SampleRate:        decodeF64(buf, sampleRateOff),
		Bandwidth:         decodeF64(buf, bandwidthOff),
		Corrected:         binary.LittleEndian.Uint32(buf[correctedOff:]),
		TimeType:          binary.LittleEndian.Uint32(buf[timeTypeOff:]),
		RefTime:           refTime,
		ClockSamples:      binary.LittleEndian.Uint64(buf[clockSamplesOff:]),
		TimeSampleRate:    binary.LittleEndian.Uint64(buf[timeSampleRateOff:]),
	}, nil
}

func decodeChannelCorrection(buf []byte) (ChannelCorrection, error) {
	tableEntries := binary.LittleEndian.Uint32(buf[tableEntriesOff:])
	if tableEntries > MaxTableEntries {
		return ChannelCorrection{}, errors.Wrapf(ErrMalformedHeader, "table_entries %d exceeds maximum %d", tableEntries, MaxTableEntries)
	}

	return ChannelCorrection{
		ADCScale:       decodeF64(buf, adcScaleOff),
		PathDelay:      decodeF64(buf, pathDelayOff),
		CorrectionType: binary.LittleEndian.Uint32(buf[correctionTypeOff:]),
		TableEntries:   tableEntries,
		FreqTable:      decodeF32Table(buf[freqTableOff:freqTableOff+freqTableBytes], MaxTableEntries),
		PhaseTable:     decodeF32Table(buf[phaseTableOff:phaseTableOff+phaseTableBytes], MaxTableEntries),
		AmpTable:       decodeF32Table(buf[ampTableOff:ampTableOff+int(tableEntries)*4], int(tableEntries)),
	}, nil
}

func decodeF64(buf []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
}

func decodeF32Table(buf []byte, n int) []float32 {
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return out
}

// decodeASCII decodes b as ASCII, stopping at the first NUL byte. Any byte
// outside the ASCII range is replaced with the Unicode replacement
// character rather than treated as fatal, per §4.1's failure-mode table.
func decodeASCII(b []byte) string {
	i := 0
	for ; i < len(b); i++ {
		if b[i] == 0 {
			break
		}
	}
	b = b[:i]

	out := make([]rune, 0, len(b))
	for _, c := range b {
		if c < utf8.RuneSelf {
			out = append(out, rune(c))
		} else {
			out = append(out, utf8.RuneError)
		}
	}
	return string(out)
}
