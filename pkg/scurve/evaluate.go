// Closed-form per-segment kinematic evaluators
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package scurve

import "math"

// calcConstantJerk integrates a constant jerk j0 over elapsed time t from
// the start state (a0, v0, p0).
func calcConstantJerk(t, j0, a0, v0, p0 float64) (jt, at, vt, pt float64) {
	jt = j0
	at = a0 + j0*t
	vt = v0 + a0*t + 0.5*j0*sq(t)
	pt = p0 + v0*t + 0.5*a0*sq(t) + (1.0/6.0)*j0*t*t*t
	return jt, at, vt, pt
}

// calcRisingJerk evaluates the raised-cosine jerk ramp from 0 to jm over
// ramp duration tj at elapsed time t, starting from (a0, v0, p0).
func calcRisingJerk(t, tj, jm, a0, v0, p0 float64) (jt, at, vt, pt float64) {
	alpha := jm / 2.0
	beta := math.Pi / tj
	jt = alpha * (1.0 - math.Cos(beta*t))
	at = a0 + alpha*t - (alpha/beta)*math.Sin(beta*t)
	vt = v0 + a0*t + (alpha/2.0)*sq(t) + (alpha/sq(beta))*math.Cos(beta*t) - alpha/sq(beta)
	pt = p0 + v0*t + 0.5*a0*sq(t) + (-alpha/sq(beta))*t + alpha*t*t*t/6.0 + (alpha/(sq(beta)*beta))*math.Sin(beta*t)
	return jt, at, vt, pt
}

// calcFallingJerk evaluates the mirrored raised-cosine ramp from jm back to
// 0. The start state is re-expressed relative to what the matching rising
// ramp produced at tj so that velocity and position remain continuous.
func calcFallingJerk(t, tj, jm, a0, v0, p0 float64) (jt, at, vt, pt float64) {
	alpha := jm / 2.0
	beta := math.Pi / tj
	at0 := alpha * tj
	vt0 := alpha * (sq(tj)/2.0 - 2.0/sq(beta))
	pt0 := alpha * ((-1.0/sq(beta))*tj + (1.0/6.0)*tj*tj*tj)
	jt = alpha * (1.0 - math.Cos(beta*(t+tj)))
	at = (a0 - at0) + alpha*(t+tj) - (alpha/beta)*math.Sin(beta*(t+tj))
	vt = (v0 - vt0) + (a0-at0)*t + 0.5*alpha*sq(t+tj) + (alpha/sq(beta))*math.Cos(beta*(t+tj)) - alpha/sq(beta)
	pt = (p0 - pt0) + (v0-vt0)*t + 0.5*(a0-at0)*sq(t) + (-alpha/sq(beta))*(t+tj) + (alpha/6.0)*(t+tj)*(t+tj)*(t+tj) + (alpha/(sq(beta)*beta))*math.Sin(beta*(t+tj))
	return jt, at, vt, pt
}

// state evaluates jerk, acceleration, velocity and position along the track
// at time t. Times before the first segment or past the last clamp to the
// nearest boundary state.
func (s *SCurve) state(t float64) (jt, at, vt, pt float64) {
	// right-to-left scan for the active segment
	pnt := s.numSegs
	for i := 0; i < s.numSegs; i++ {
		if t < s.segment[s.numSegs-1-i].EndTime {
			pnt = s.numSegs - 1 - i
		}
	}

	var kind SegmentType
	var jm, tj, t0, a0, v0, p0 float64
	switch {
	case pnt == 0:
		kind = ConstantJerk
		jm = 0.0
		t0 = s.segment[pnt].EndTime
		a0 = s.segment[pnt].EndAccel
		v0 = s.segment[pnt].EndVel
		p0 = s.segment[pnt].EndPos
	case pnt == s.numSegs:
		kind = ConstantJerk
		jm = 0.0
		t0 = s.segment[pnt-1].EndTime
		a0 = s.segment[pnt-1].EndAccel
		v0 = s.segment[pnt-1].EndVel
		p0 = s.segment[pnt-1].EndPos
	default:
		kind = s.segment[pnt].Kind
		jm = s.segment[pnt].JerkRef
		tj = s.segment[pnt].EndTime - s.segment[pnt-1].EndTime
		t0 = s.segment[pnt-1].EndTime
		a0 = s.segment[pnt-1].EndAccel
		v0 = s.segment[pnt-1].EndVel
		p0 = s.segment[pnt-1].EndPos
	}

	switch kind {
	case RisingJerk:
		return calcRisingJerk(t-t0, tj, jm, a0, v0, p0)
	case FallingJerk:
		return calcFallingJerk(t-t0, tj, jm, a0, v0, p0)
	default:
		return calcConstantJerk(t-t0, jm, a0, v0, p0)
	}
}

// State returns the jerk, acceleration, velocity and position along the
// track at time t without moving the playhead.
func (s *SCurve) State(t float64) (jerk, accel, vel, pos float64) {
	return s.state(t)
}
