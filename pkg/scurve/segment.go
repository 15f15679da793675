// Segment timeline for jerk-limited S-curve paths
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package scurve

import "math"

// SegmentType selects the closed-form evaluator that applies to a segment.
type SegmentType int

const (
	// ConstantJerk holds jerk at a fixed value (zero for hold segments).
	ConstantJerk SegmentType = iota

	// RisingJerk ramps jerk from zero to the segment's reference value
	// along a raised cosine.
	RisingJerk

	// FallingJerk ramps jerk from the reference value back to zero,
	// mirroring RisingJerk.
	FallingJerk
)

// String returns the segment type name.
func (t SegmentType) String() string {
	switch t {
	case ConstantJerk:
		return "constant_jerk"
	case RisingJerk:
		return "rising_jerk"
	case FallingJerk:
		return "falling_jerk"
	default:
		return "unknown"
	}
}

// Fixed slot assignment within the 23-segment timeline. The acceleration
// S-curve occupies slots 1-7, the in-flight speed-change S-curve 8-14, the
// constant velocity cruise slot 15 and the deceleration S-curve 16-22.
const (
	segInit      = 0
	segAccelMax  = 4
	segAccelEnd  = 7
	segChangeEnd = 14
	segConst     = 15
	segDecelEnd  = 22
	segmentsMax  = 23
)

// Segment describes one piece of the timeline: the segment is valid up to
// EndTime and stores the cumulative kinematic state at that instant.
type Segment struct {
	EndTime  float64
	Kind     SegmentType
	JerkRef  float64
	EndAccel float64
	EndVel   float64
	EndPos   float64
}

// addSegment populates the slot referenced by index and advances index to
// the next slot.
func (s *SCurve) addSegment(index *int, endTime float64, kind SegmentType, jerkRef, endAccel, endVel, endPos float64) {
	s.segment[*index] = Segment{
		EndTime:  endTime,
		Kind:     kind,
		JerkRef:  jerkRef,
		EndAccel: endAccel,
		EndVel:   endVel,
		EndPos:   endPos,
	}
	*index++
}

// addSegmentConstJerk appends a constant jerk segment of duration tj with
// jerk j0, seeding its end state from the previous slot.
func (s *SCurve) addSegmentConstJerk(index *int, tj, j0 float64) {
	prev := s.segment[*index-1]
	endTime := prev.EndTime + tj
	endAccel := prev.EndAccel + j0*tj
	endVel := prev.EndVel + prev.EndAccel*tj + 0.5*j0*sq(tj)
	endPos := prev.EndPos + prev.EndVel*tj + 0.5*prev.EndAccel*sq(tj) + (1.0/6.0)*j0*math.Pow(tj, 3.0)
	s.addSegment(index, endTime, ConstantJerk, j0, endAccel, endVel, endPos)
}

// addSegmentRisingJerk appends a raised-cosine rising jerk segment of
// duration tj and peak jerk jm.
func (s *SCurve) addSegmentRisingJerk(index *int, tj, jm float64) {
	beta := math.Pi / tj
	alpha := jm / 2.0
	at := alpha * tj
	vt := alpha * (sq(tj)/2.0 - 2.0/sq(beta))
	pt := alpha * ((-1.0/sq(beta))*tj + (1.0/6.0)*math.Pow(tj, 3.0))

	prev := s.segment[*index-1]
	endTime := prev.EndTime + tj
	endAccel := prev.EndAccel + at
	endVel := prev.EndVel + prev.EndAccel*tj + vt
	endPos := prev.EndPos + prev.EndVel*tj + 0.5*prev.EndAccel*sq(tj) + pt
	s.addSegment(index, endTime, RisingJerk, jm, endAccel, endVel, endPos)
}

// addSegmentFallingJerk appends the mirrored raised-cosine falling jerk
// segment. Its end state is expressed relative to what the matching rising
// segment would have produced so velocity and position stay continuous.
func (s *SCurve) addSegmentFallingJerk(index *int, tj, jm float64) {
	beta := math.Pi / tj
	alpha := jm / 2.0
	at := alpha * tj
	vt := alpha * (sq(tj)/2.0 - 2.0/sq(beta))
	pt := alpha * ((-1.0/sq(beta))*tj + (1.0/6.0)*math.Pow(tj, 3.0))
	a2t := jm * tj
	v2t := jm * sq(tj)
	p2t := alpha * ((-1.0/sq(beta))*2.0*tj + (4.0/3.0)*math.Pow(tj, 3.0))

	prev := s.segment[*index-1]
	endTime := prev.EndTime + tj
	endAccel := (prev.EndAccel - at) + a2t
	endVel := (prev.EndVel - vt) + (prev.EndAccel-at)*tj + v2t
	endPos := (prev.EndPos - pt) + (prev.EndVel-vt)*tj + 0.5*(prev.EndAccel-at)*sq(tj) + p2t
	s.addSegment(index, endTime, FallingJerk, jm, endAccel, endVel, endPos)
}

// addSegmentsJerk appends the rise-hold-fall jerk triple that changes
// acceleration by jm*(tj+tcj) while keeping jerk continuous.
func (s *SCurve) addSegmentsJerk(index *int, tj, jm, tcj float64) {
	s.addSegmentRisingJerk(index, tj, jm)
	s.addSegmentConstJerk(index, tcj, jm)
	s.addSegmentFallingJerk(index, tj, jm)
}

// addSegments writes the full 23-slot timeline for a fresh straight-line
// track of length l: acceleration S-curve, empty speed-change slots, cruise
// segment sized so the path ends at l, then the mirrored deceleration
// S-curve.
func (s *SCurve) addSegments(l float64) {
	if isZero(l) {
		return
	}

	jm, tRise, tHold, tFall := s.calculatePath(s.jerkTime, s.jerkMax, 0.0, s.accelMax, s.velMax, l/2.0)

	s.addSegmentsJerk(&s.numSegs, s.jerkTime, jm, tRise)
	s.addSegmentConstJerk(&s.numSegs, tHold, 0.0)
	s.addSegmentsJerk(&s.numSegs, s.jerkTime, -jm, tFall)

	// empty speed adjust segments
	for i := 0; i < 7; i++ {
		s.addSegmentConstJerk(&s.numSegs, 0.0, 0.0)
	}

	tCruise := 2.0 * (l/2.0 - s.segment[segChangeEnd].EndPos) / s.segment[segChangeEnd].EndVel
	s.addSegmentConstJerk(&s.numSegs, tCruise, 0.0)

	s.addSegmentsJerk(&s.numSegs, s.jerkTime, -jm, tFall)
	s.addSegmentConstJerk(&s.numSegs, tHold, 0.0)
	s.addSegmentsJerk(&s.numSegs, s.jerkTime, jm, tRise)
}
