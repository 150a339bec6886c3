/*
NAME
  correction.go

DESCRIPTION
  correction.go provides linear-interpolation lookups over the amplitude
  and phase correction tables carried by a ChannelCorrection record.

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

import "sort"

// AmplitudeAt returns the linearly-interpolated amplitude correction, in dB,
// at freqHz. ok is false if freqHz falls outside the table's domain or the
// table is empty; curve-fitting beyond linear interpolation is out of scope.
func (c ChannelCorrection) AmplitudeAt(freqHz float64) (float64, bool) {
	return interpTable(c.FreqTable, c.AmpTable, int(c.TableEntries), freqHz)
}

// PhaseAt returns the linearly-interpolated phase correction, in degrees, at
// freqHz. ok is false if freqHz falls outside the table's domain or the
// table is empty.
func (c ChannelCorrection) PhaseAt(freqHz float64) (float64, bool) {
	return interpTable(c.FreqTable, c.PhaseTable, int(c.TableEntries), freqHz)
}

// interpTable linearly interpolates y as a function of x over the first n
// entries of freq/val, assuming freq is sorted ascending.
func interpTable(freq, val []float32, n int, x float64) (float64, bool) {
	if n == 0 || n > len(freq) || n > len(val) {
		return 0, false
	}
	freq = freq[:n]
	val = val[:n]

	if x < float64(freq[0]) || x > float64(freq[n-1]) {
		return 0, false
	}

	i := sort.Search(n, func(i int) bool { return float64(freq[i]) >= x })
	if i == 0 {
		return float64(val[0]), true
	}
	if float64(freq[i]) == x {
		return float64(val[i]), true
	}

	x0, x1 := float64(freq[i-1]), float64(freq[i])
	y0, y1 := float64(val[i-1]), float64(val[i])
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0), true
}
