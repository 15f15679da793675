// Analytic segment-duration solver for S-curve velocity changes
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package scurve

import (
	"math"

	"autonav-go/pkg/errors"
	"autonav-go/pkg/log"
)

// calculatePath solves the segment durations for a symmetric
// rise-hold-fall velocity change from v0 to at most vm over distance l:
//
//	tj - duration of the raised cosine jerk ramp
//	jm - peak of the raised cosine jerk profile
//	v0 - initial velocity magnitude
//	am - maximum constant acceleration
//	vm - maximum constant velocity
//	l  - length of the path
//
// The returned jerk is the effective peak jerk; tRise and tFall are the
// constant-jerk hold durations inside the opening and closing jerk triples
// and tHold is the constant-acceleration duration between them. All
// returned durations are non-negative.
func (s *SCurve) calculatePath(tj, jm, v0, am, vm, l float64) (jerk, tRise, tHold, tFall float64) {
	if !isPositive(tj) || !isPositive(jm) || !isPositive(am) || !isPositive(vm) || !isPositive(l) {
		reportSolverFault(tj, jm, am, vm, l)
		return 0, 0, 0, 0
	}

	if v0 >= vm {
		// no velocity change, so all segments have zero length
		return 0, 0, 0, 0
	}

	// clamp the acceleration to the velocity budget over a minimum-time
	// ramp and to the distance budget assuming the ramp dominates
	am = math.Min(math.Min(am, (vm-v0)/(2.0*tj)), (l+4.0*v0*tj)/(4.0*sq(tj)))

	if math.Abs(am) < jm*tj {
		jm = am / tj
		if (vm <= v0+2.0*am*tj) || (l <= 4.0*v0*tj+4.0*am*sq(tj)) {
			// the jerk ramps alone satisfy the request
			return jm, 0, 0, 0
		}
		// hold at constant acceleration, no constant-jerk sections
		return jm, 0, math.Max(0, solveHoldTime(tj, jm, v0, am, vm, l)), 0
	}

	if (vm < v0+am*tj+sq(am)/jm) || (l < 1.0/sq(jm)*(am*am*am+am*jm*(v0*2.0+am*tj*2.0))+v0*tj*2.0+am*sq(tj)) {
		// the acceleration cap cannot be held; solve the cubic for the
		// largest reachable acceleration and use equal rise/fall times
		am = math.Min(math.Min(am, rampPeakAccel(tj, jm, v0, vm)), cubicPeakAccel(tj, jm, v0, l))
		tRise = math.Max(0, am/jm-tj)
		return jm, tRise, 0, tRise
	}

	// full trapezoid: rise to am, hold, fall
	tRise = math.Max(0, am/jm-tj)
	return jm, tRise, math.Max(0, solveHoldTime(tj, jm, v0, am, vm, l)), tRise
}

// solveHoldTime picks the constant-acceleration duration from the closed
// quadratic, taking the larger of the two roots and bounding it above by
// the duration that would exactly reach vm. The max/min pairing rejects the
// spurious root while keeping displacement non-negative.
func solveHoldTime(tj, jm, v0, am, vm, l float64) float64 {
	disc := safeSqrt(sq(sq(am))*(1.0/4.0) + sq(jm)*sq(v0) + sq(am)*sq(jm)*sq(tj)*(1.0/4.0) +
		am*sq(jm)*l*2.0 - sq(am)*jm*v0 + am*sq(am)*jm*tj*(1.0/2.0) - am*sq(jm)*v0*tj)
	rootHi := (sq(am)*(-3.0/2.0) + disc - jm*v0 - am*jm*tj*(3.0/2.0)) / (am * jm)
	rootLo := (sq(am)*(-3.0/2.0) - disc - jm*v0 - am*jm*tj*(3.0/2.0)) / (am * jm)
	velBound := -(v0 - vm + am*tj + sq(am)/jm) / am
	return math.Min(velBound, math.Max(rootHi, rootLo))
}

// rampPeakAccel returns the peak acceleration reachable when the velocity
// budget binds before the acceleration cap, as the larger root of the
// ramp-only velocity equation.
func rampPeakAccel(tj, jm, v0, vm float64) float64 {
	r := safeSqrt((v0*-4.0 + vm*4.0 + jm*sq(tj)) / jm)
	return math.Max(jm*(tj+r)*(-1.0/2.0), jm*(tj-r)*(-1.0/2.0))
}

// cubicPeakAccel returns the peak acceleration reachable within distance l,
// via the Cardano substitution for the depressed cubic in the ramp time.
func cubicPeakAccel(tj, jm, v0, l float64) float64 {
	q := sq(jm)*sq(tj)*(1.0/9.0) - jm*v0*(2.0/3.0)
	inner := -sq(jm)*l*(1.0/2.0) + jm*sq(jm)*tj*sq(tj)*(8.0/27.0) -
		jm*tj*(sq(jm)*sq(tj)+jm*v0*2.0)*(1.0/3.0) + sq(jm)*v0*tj
	x := safeSqrt(sq(inner)-q*q*q) - inner
	cr := math.Pow(x, 1.0/3.0)
	return jm*tj*(-2.0/3.0) + q/cr + cr
}

// reportSolverFault surfaces a caller-contract violation: the solver was
// handed a non-positive limit or distance. The safe degenerate result is
// still returned so the control loop keeps a flyable trajectory.
func reportSolverFault(tj, jm, am, vm, l float64) {
	solverFaults.Inc()
	var err *errors.CoreError
	switch {
	case !isPositive(tj):
		err = errors.SolverArgsError("jerk_time", tj)
	case !isPositive(jm):
		err = errors.SolverArgsError("jerk_max", jm)
	case !isPositive(am):
		err = errors.SolverArgsError("accel_max", am)
	case !isPositive(vm):
		err = errors.SolverArgsError("vel_max", vm)
	default:
		err = errors.SolverArgsError("distance", l)
	}
	logger.WithError(err).WithFields(log.Fields{
		"jerk_time": tj,
		"jerk_max":  jm,
		"accel_max": am,
		"vel_max":   vm,
		"distance":  l,
	}).Error("duration solver called with invalid arguments")
}
