/*
NAME
  rsa2wav - converts an RSA-306 IF capture to a demodulated FM audio WAV file.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rsa2wav reads a .r3f or .r3a/.r3h RSA-306 IF capture, mixes the
// station of interest to baseband, FM-demodulates it and writes the
// result to a WAV file.
package main

import (
	"flag"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/rsa306/container/rsa306"
	"github.com/ausocean/rsa306/internal/rsapipeline"
	"github.com/ausocean/utils/logging"
)

const (
	progName = "rsa2wav"
	logPath  = "/var/log/rsa2wav/rsa2wav.log"
)

func main() {
	var (
		in         = flag.String("in", "", "path to a .r3f or .r3a/.r3h capture")
		out        = flag.String("out", "out.wav", "path to the output .wav file")
		station    = flag.Float64("station", 101.9e6, "station frequency, Hz")
		deviation  = flag.Float64("deviation", 75e3, "peak FM deviation, Hz")
		ripple     = flag.Float64("ripple", 60, "FIR stop-band attenuation, dB")
		blockIn    = flag.Int("block", rsa306.SamplesPerFrame*8, "samples per pipeline block (native-frame multiple)")
		audioRate  = flag.Int("rate", 32000, "output audio sample rate, Hz")
		logLevel   = flag.Int("log-level", int(logging.Info), "log level")
		fileLogger = flag.Bool("log-to-file", false, "also log to "+logPath)
	)
	flag.Parse()

	var log logging.Logger
	if *fileLogger {
		fl := &lumberjack.Logger{Filename: logPath, MaxSize: 50, MaxBackups: 5, MaxAge: 28}
		log = logging.New(int8(*logLevel), fl, true)
	} else {
		log = logging.New(int8(*logLevel), os.Stderr, true)
	}

	if *in == "" {
		log.Fatal(progName + ": -in is required")
	}

	src, err := rsa306.Open(*in, log)
	if err != nil {
		log.Fatal(progName+": could not open capture", "error", err.Error())
	}
	defer src.Close()

	outFile, err := os.Create(*out)
	if err != nil {
		log.Fatal(progName+": could not create output file", "error", err.Error())
	}
	defer outFile.Close()

	cfg := rsapipeline.Config{
		Station:   *station,
		Deviation: *deviation,
		Ripple:    *ripple,
		BlockIn:   *blockIn,
		AudioRate: *audioRate,
	}
	if err := rsapipeline.Convert(src, cfg, outFile, log); err != nil {
		log.Fatal(progName+": conversion failed", "error", err.Error())
	}

	log.Info(progName + ": done")
}
