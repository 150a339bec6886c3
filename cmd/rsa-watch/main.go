/*
NAME
  rsa-watch - watches a directory for new RSA-306 captures and demodulates each.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rsa-watch watches a directory for new .r3f/.r3a RSA-306
// captures and feeds each through the same demodulation pipeline as
// rsa2wav, suitable for running unattended as a systemd service.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/rsa306/container/rsa306"
	"github.com/ausocean/rsa306/internal/rsapipeline"
	"github.com/ausocean/utils/logging"
)

const (
	progName     = "rsa-watch"
	logPath      = "/var/log/rsa-watch/rsa-watch.log"
	watchdogPing = 10 * time.Second
)

func main() {
	var (
		dir        = flag.String("dir", ".", "directory to watch for new captures")
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

	cfg := rsapipeline.Config{
		Station:   *station,
		Deviation: *deviation,
		Ripple:    *ripple,
		BlockIn:   *blockIn,
		AudioRate: *audioRate,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal(progName+": could not create watcher", "error", err.Error())
	}
	defer watcher.Close()

	if err := watcher.Add(*dir); err != nil {
		log.Fatal(progName+": could not watch directory", "error", err.Error(), "dir", *dir)
	}

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warning(progName+": systemd notify failed", "error", err.Error())
	} else if ok {
		log.Info(progName + ": notified systemd readiness")
	}

	watchdog := time.NewTicker(watchdogPing)
	defer watchdog.Stop()

	log.Info(progName+": watching for captures", "dir", *dir)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isCapture(ev.Name) {
				continue
			}
			convertOne(ev.Name, cfg, log)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error(progName+": watcher error", "error", err.Error())

		case <-watchdog.C:
			if ok, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				log.Warning(progName+": watchdog notify failed", "error", err.Error())
			} else if !ok {
				log.Debug(progName + ": watchdog not configured by systemd")
			}
		}
	}
}

// isCapture reports whether path looks like a primary capture file.
// .r3h is skipped; its sibling .r3a triggers the conversion.
func isCapture(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".r3f" || ext == ".r3a"
}

func convertOne(path string, cfg rsapipeline.Config, log logging.Logger) {
	log.Info(progName+": new capture", "path", path)

	src, err := rsa306.Open(path, log)
	if err != nil {
		log.Error(progName+": could not open capture", "error", err.Error(), "path", path)
		return
	}
	defer src.Close()

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
	outFile, err := os.Create(outPath)
	if err != nil {
		log.Error(progName+": could not create output file", "error", err.Error(), "path", outPath)
		return
	}
	defer outFile.Close()

	if err := rsapipeline.Convert(src, cfg, outFile, log); err != nil {
		log.Error(progName+": conversion failed", "error", err.Error(), "path", path)
		return
	}
	log.Info(progName+": wrote audio", "path", outPath)
}
