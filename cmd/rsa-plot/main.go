/*
NAME
  rsa-plot - renders an RSA-306 capture's correction tables to a PNG.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rsa-plot reads the header of a .r3f or .r3h file and renders its
// amplitude and phase correction tables to two static PNGs: the amplitude
// plot at -out, and the phase plot beside it with "-phase" before the
// extension.
package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/rsa306/container/rsa306"
)

const progName = "rsa-plot"

func main() {
	in := flag.String("in", "", "path to a .r3f or .r3h file")
	out := flag.String("out", "correction.png", "path to the output PNG")
	flag.Parse()

	if *in == "" {
		fatal(progName + ": -in is required")
	}

	h, err := readHeader(*in)
	if err != nil {
		fatal(progName + ": " + err.Error())
	}

	if err := render(h.ChannelCorrection, *out); err != nil {
		fatal(progName + ": " + err.Error())
	}
}

func readHeader(path string) (rsa306.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return rsa306.Header{}, err
	}
	defer f.Close()

	buf := make([]byte, rsa306.HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return rsa306.Header{}, err
	}
	return rsa306.DecodeHeader(buf)
}

func render(cc rsa306.ChannelCorrection, out string) error {
	n := int(cc.TableEntries)

	ampPts := make(plotter.XYs, n)
	phasePts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		ampPts[i].X = float64(cc.FreqTable[i])
		ampPts[i].Y = float64(cc.AmpTable[i])
		phasePts[i].X = float64(cc.FreqTable[i])
		phasePts[i].Y = float64(cc.PhaseTable[i])
	}

	ampPlot, err := plot.New()
	if err != nil {
		return err
	}
	ampPlot.Title.Text = "Amplitude correction"
	ampPlot.X.Label.Text = "Frequency (Hz)"
	ampPlot.Y.Label.Text = "Correction (dB)"
	ampLine, err := plotter.NewLine(ampPts)
	if err != nil {
		return err
	}
	ampPlot.Add(ampLine)

	phasePlot, err := plot.New()
	if err != nil {
		return err
	}
	phasePlot.Title.Text = "Phase correction"
	phasePlot.X.Label.Text = "Frequency (Hz)"
	phasePlot.Y.Label.Text = "Correction (deg)"
	phaseLine, err := plotter.NewLine(phasePts)
	if err != nil {
		return err
	}
	phasePlot.Add(phaseLine)

	if err := ampPlot.Save(8*vg.Inch, 4*vg.Inch, out); err != nil {
		return err
	}
	return phasePlot.Save(8*vg.Inch, 4*vg.Inch, phaseOutPath(out))
}

// phaseOutPath derives the phase plot's filename from the amplitude
// plot's, inserting "-phase" before the extension.
func phaseOutPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "-phase" + ext
}

func fatal(msg string) {
	os.Stderr.WriteString(msg + "\n")
	os.Exit(1)
}
