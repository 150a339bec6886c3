/*
NAME
  kaiser.go

DESCRIPTION
  kaiser.go computes the Kaiser window and the order/beta pair the FIR
  designer derives from a requested ripple and transition width.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rsadsp

import "math"

// kaiserBeta returns the Kaiser shape parameter β for a requested
// stop-band attenuation A, in dB, per the standard piecewise formula.
func kaiserBeta(A float64) float64 {
	switch {
	case A > 50:
		return 0.1102 * (A - 8.7)
	case A >= 21:
		return 0.5842*math.Pow(A-21, 0.4) + 0.07886*(A-21)
	default:
		return 0
	}
}

// kaiserOrder returns the Kaiser filter order N for a requested stop-band
// attenuation A (dB) and transition width deltaOmega (radians/sample).
func kaiserOrder(A, deltaOmega float64) int {
	n := (A - 7.95) / (2.285 * deltaOmega)
	return int(math.Ceil(n))
}

// kaiserWindow returns an n-sample Kaiser window with shape parameter beta.
func kaiserWindow(n int, beta float64) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	denom := besselI0(beta)
	for i := 0; i < n; i++ {
		r := 2*float64(i)/float64(n-1) - 1
		w[i] = besselI0(beta*math.Sqrt(1-r*r)) / denom
	}
	return w
}

// besselI0 evaluates the zeroth-order modified Bessel function of the
// first kind via its power series, to float64 precision.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	halfXSq := x * x / 4
	for k := 1; k < 64; k++ {
		term *= halfXSq / (float64(k) * float64(k))
		sum += term
		if term < sum*1e-18 {
			break
		}
	}
	return sum
}
