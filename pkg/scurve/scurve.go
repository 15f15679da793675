// Package scurve generates jerk-limited motion profiles for straight-line
// trajectory legs and re-plans them while they are being flown.
//
// A leg is a 23-segment timeline parameterizing position, velocity and
// acceleration along the line from origin to destination. Jerk follows a
// raised-cosine profile so the commanded acceleration is always continuous.
// The timeline layout is fixed: slot 0 anchors the initial state, slots 1-7
// hold the acceleration S-curve, slots 8-14 an in-flight speed-change
// S-curve, slot 15 the constant velocity cruise and slots 16-22 the
// deceleration S-curve. Replanning operations splice new segments into
// those fixed regions without disturbing the part of the path that has
// already been flown.
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package scurve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"autonav-go/pkg/log"
	"autonav-go/pkg/metrics"
)

var (
	logger = log.GetLogger("scurve")

	legsBuilt    = metrics.Global().Counter("scurve_legs_built_total", "Trajectory legs built")
	legReplans   = metrics.Global().Counter("scurve_replans_total", "Mid-flight replan operations")
	solverFaults = metrics.Global().Counter("scurve_solver_faults_total", "Duration solver precondition violations")
)

// Sample is one kinematic setpoint produced by advancing a leg.
type Sample struct {
	Pos   r3.Vec
	Vel   r3.Vec
	Accel r3.Vec
}

// add sums two samples componentwise.
func (a Sample) add(b Sample) Sample {
	return Sample{
		Pos:   r3.Add(a.Pos, b.Pos),
		Vel:   r3.Add(a.Vel, b.Vel),
		Accel: r3.Add(a.Accel, b.Accel),
	}
}

// SCurve is one trajectory leg. The zero value is an empty, already
// finished leg; Build populates it for a straight-line track.
type SCurve struct {
	jerkTime float64 // duration of each raised-cosine jerk ramp
	jerkMax  float64
	accelMax float64
	velMax   float64

	time    float64 // current playhead along the timeline
	numSegs int
	segment [segmentsMax]Segment

	track     r3.Vec // destination minus origin
	deltaUnit r3.Vec // unit track direction, zero for degenerate tracks
}

// New returns an initialised empty leg.
func New() *SCurve {
	s := &SCurve{}
	s.Init()
	return s
}

// Init clears the leg back to the empty, never-built state.
func (s *SCurve) Init() {
	s.jerkTime = 0.0
	s.jerkMax = 0.0
	s.accelMax = 0.0
	s.velMax = 0.0
	s.time = 0.0
	s.numSegs = segInit
	s.addSegment(&s.numSegs, 0.0, ConstantJerk, 0.0, 0.0, 0.0, 0.0)
	s.track = r3.Vec{}
	s.deltaUnit = r3.Vec{}
}

// Build populates the timeline for a straight-line track between origin and
// destination under the given limits. A degenerate track or non-positive
// limit leaves the leg empty, which reports as immediately finished.
func (s *SCurve) Build(origin, destination r3.Vec, lim Limits) {
	s.Init()

	s.jerkTime = lim.JerkTime
	s.jerkMax = lim.JerkMax
	s.setKinematicLimits(origin, destination, lim)

	// avoid divide-by-zeros; the path is left as a zero length path
	if !isPositive(s.jerkTime) || !isPositive(s.jerkMax) || !isPositive(s.accelMax) || !isPositive(s.velMax) {
		logger.WithFields(log.Fields{
			"jerk_time": s.jerkTime,
			"jerk_max":  s.jerkMax,
			"accel_max": s.accelMax,
			"vel_max":   s.velMax,
		}).Debug("leg left unbuilt, non-positive limit")
		return
	}

	s.track = r3.Sub(destination, origin)
	trackLength := r3.Norm(s.track)
	if isZero(trackLength) {
		// avoid possible divide by zero
		s.deltaUnit = r3.Vec{}
		return
	}
	s.deltaUnit = r3.Unit(s.track)
	s.addSegments(trackLength)
	legsBuilt.Inc()
}

// SetSpeedMax applies a new speed limit and re-calculates the path, keeping
// everything that has already been flown. It is a no-op if the leg is not
// fully built, the cruise segment has already finished, or the old or new
// speed limit is zero. Segment accelerations cannot be changed after
// segment creation.
func (s *SCurve) SetSpeedMax(speedXY, speedUp, speedDown float64) {
	trackSpeedMax := kinematicLimit(s.deltaUnit, speedXY, speedUp, math.Abs(speedDown))

	if isEqual(s.velMax, trackSpeedMax) {
		// new speed is equal to current speed maximum
		return
	}

	if isZero(s.velMax) || isZero(trackSpeedMax) {
		// new or original speeds are set to zero
		return
	}
	s.velMax = trackSpeedMax

	if s.numSegs != segmentsMax {
		return
	}

	if s.time >= s.segment[segConst].EndTime {
		// already decelerating, too late to change the cruise speed
		return
	}
	legReplans.Inc()

	pEnd := s.segment[segDecelEnd].EndPos
	vEnd := math.Min(s.velMax, s.segment[segDecelEnd].EndVel)

	if isZero(s.time) {
		// the path has not started so we can recompute it from scratch
		vStart := math.Min(s.velMax, s.segment[segInit].EndVel)
		s.numSegs = segInit
		s.addSegment(&s.numSegs, 0.0, ConstantJerk, 0.0, 0.0, 0.0, 0.0)
		s.addSegments(pEnd)
		s.SetOriginSpeedMax(vStart)
		s.SetDestinationSpeedMax(vEnd)
		return
	}

	if s.time >= s.segment[segAccelEnd].EndTime && s.time <= s.segment[segChangeEnd].EndTime {
		// in the change-speed phase: fold the change segments down into
		// the acceleration slots so the change window is free for
		// further speed adjustments

		s.segment[segInit] = Segment{
			Kind:     ConstantJerk,
			JerkRef:  0.0,
			EndTime:  s.segment[segAccelEnd].EndTime,
			EndAccel: s.segment[segAccelEnd].EndAccel,
			EndVel:   s.segment[segAccelEnd].EndVel,
			EndPos:   s.segment[segAccelEnd].EndPos,
		}
		for i := segInit + 1; i <= segAccelEnd; i++ {
			s.segment[i] = s.segment[i+7]
		}
		for i := segAccelEnd + 1; i <= segChangeEnd; i++ {
			s.segment[i] = Segment{
				Kind:     ConstantJerk,
				JerkRef:  0.0,
				EndTime:  s.segment[segAccelEnd].EndTime,
				EndAccel: 0.0,
				EndVel:   s.segment[segAccelEnd].EndVel,
				EndPos:   s.segment[segAccelEnd].EndPos,
			}
		}
	} else if s.time >= s.segment[segChangeEnd].EndTime && s.time <= s.segment[segConst].EndTime {
		// in the constant-speed phase: freeze the flown path into the
		// anchor and collapse everything before the cruise onto it

		s.segment[segInit] = Segment{
			Kind:     ConstantJerk,
			JerkRef:  0.0,
			EndTime:  s.segment[segChangeEnd].EndTime,
			EndAccel: 0.0,
			EndVel:   s.segment[segChangeEnd].EndVel,
			EndPos:   s.segment[segChangeEnd].EndPos,
		}
		_, _, vNow, pNow := s.state(s.time)
		for i := segInit + 1; i <= segChangeEnd; i++ {
			s.segment[i] = Segment{
				Kind:     ConstantJerk,
				JerkRef:  0.0,
				EndTime:  s.time,
				EndAccel: 0.0,
				EndVel:   vNow,
				EndPos:   pNow,
			}
		}
	}

	// adjust the initial and acceleration segments for the new speed
	if s.time <= s.segment[segAccelMax].EndTime &&
		isPositive(s.segment[segAccelMax].EndTime-s.segment[segAccelMax-1].EndTime) &&
		s.velMax < s.segment[segAccelEnd].EndVel &&
		isPositive(s.segment[segAccelMax].EndAccel) {
		// still inside the constant positive acceleration segment:
		// reduce velocity as close to the target velocity as possible

		vStart := s.segment[segInit].EndVel

		// minimum velocity obtainable by shortening the accel hold
		vMin := s.segment[segAccelEnd].EndVel -
			s.segment[segAccelMax].EndAccel*(s.segment[segAccelMax].EndTime-math.Max(s.time, s.segment[segAccelMax-1].EndTime))

		seg := segInit + 1
		jm, tRise, tHold, tFall := s.calculatePath(s.jerkTime, s.jerkMax, vStart, s.accelMax, math.Max(vMin, s.velMax), pEnd/2.0)
		s.addSegmentsJerk(&seg, s.jerkTime, jm, tRise)
		s.addSegmentConstJerk(&seg, tHold, 0.0)
		s.addSegmentsJerk(&seg, s.jerkTime, -jm, tFall)

		// empty speed adjust segments
		for i := segAccelEnd + 1; i <= segConst; i++ {
			s.segment[i] = Segment{
				Kind:     ConstantJerk,
				JerkRef:  0.0,
				EndTime:  s.segment[segAccelEnd].EndTime,
				EndAccel: 0.0,
				EndVel:   s.segment[segAccelEnd].EndVel,
				EndPos:   s.segment[segAccelEnd].EndPos,
			}
		}

		jm, tRise, tHold, tFall = s.calculatePath(s.jerkTime, s.jerkMax, 0.0, s.accelMax, math.Max(vMin, s.velMax), pEnd/2.0)
		seg = segConst + 1
		s.addSegmentsJerk(&seg, s.jerkTime, -jm, tFall)
		s.addSegmentConstJerk(&seg, tHold, 0.0)
		s.addSegmentsJerk(&seg, s.jerkTime, jm, tRise)

		s.stretchCruise(pEnd)
	}

	// rebuild the change-speed window for the new speed, starting from
	// empty speed adjust segments
	for i := segAccelEnd + 1; i <= segChangeEnd; i++ {
		s.segment[i] = Segment{
			Kind:     ConstantJerk,
			JerkRef:  0.0,
			EndTime:  s.segment[segAccelEnd].EndTime,
			EndAccel: 0.0,
			EndVel:   s.segment[segAccelEnd].EndVel,
			EndPos:   s.segment[segAccelEnd].EndPos,
		}
	}
	if !isEqual(s.velMax, s.segment[segAccelEnd].EndVel) {
		// check there is enough room for the velocity change; the
		// approximation charges the window distance/current-speed and
		// twelve jerk-ramp durations
		l := s.segment[segConst].EndPos - s.segment[segAccelEnd].EndPos
		var jm, tRise, tHold, tFall float64
		if s.velMax < s.segment[segAccelEnd].EndVel && s.jerkTime*12.0 < l/s.segment[segAccelEnd].EndVel {
			jm, tFall, tHold, tRise = s.calculatePath(s.jerkTime, s.jerkMax, s.velMax, s.accelMax, s.segment[segAccelEnd].EndVel, l/2.0)
			jm = -jm
		} else if s.velMax > s.segment[segAccelEnd].EndVel && l/(s.jerkTime*12.0) > s.segment[segAccelEnd].EndVel {
			vm := math.Min(s.velMax, l/(s.jerkTime*12.0))
			jm, tRise, tHold, tFall = s.calculatePath(s.jerkTime, s.jerkMax, s.segment[segAccelEnd].EndVel, s.accelMax, vm, l/2.0)
		}

		seg := segAccelEnd + 1
		if !isZero(jm) && !isNegative(tRise) && !isNegative(tHold) && !isNegative(tFall) {
			s.addSegmentsJerk(&seg, s.jerkTime, jm, tRise)
			s.addSegmentConstJerk(&seg, tHold, 0.0)
			s.addSegmentsJerk(&seg, s.jerkTime, -jm, tFall)
		}
	}

	// re-solve the deceleration region last; the earlier feasibility
	// checks ensure there is always time to stop
	seg := segConst
	vEnd = math.Min(vEnd, s.segment[segChangeEnd].EndVel)
	s.addSegmentConstJerk(&seg, 0.0, 0.0)
	if vEnd < s.segment[segChangeEnd].EndVel {
		jm, tRise, tHold, tFall := s.calculatePath(s.jerkTime, s.jerkMax, vEnd, s.accelMax, s.segment[segConst].EndVel, pEnd-s.segment[segConst].EndPos)
		s.addSegmentsJerk(&seg, s.jerkTime, -jm, tFall)
		s.addSegmentConstJerk(&seg, tHold, 0.0)
		s.addSegmentsJerk(&seg, s.jerkTime, jm, tRise)
	} else {
		// no deceleration required
		for i := segConst + 1; i <= segDecelEnd; i++ {
			s.segment[i] = Segment{
				Kind:     ConstantJerk,
				JerkRef:  0.0,
				EndTime:  s.segment[segConst].EndTime,
				EndAccel: 0.0,
				EndVel:   s.segment[segConst].EndVel,
				EndPos:   s.segment[segConst].EndPos,
			}
		}
	}

	s.stretchCruise(pEnd)
}

// stretchCruise extends the constant velocity segment so the path still
// ends at position pEnd after a replan shortened or lengthened the regions
// before it.
func (s *SCurve) stretchCruise(pEnd float64) {
	dP := pEnd - s.segment[segDecelEnd].EndPos
	dT := dP / s.segment[segConst].EndVel
	for i := segConst; i <= segDecelEnd; i++ {
		s.segment[i].EndTime += dT
		s.segment[i].EndPos += dP
	}
}

// SetOriginSpeedMax rewrites the acceleration region so the leg starts at
// the requested speed (clamped to the achievable cruise speed) instead of
// zero, preserving the total distance. It returns the speed the origin
// will actually use. Only meaningful before the leg has been flown.
func (s *SCurve) SetOriginSpeedMax(speed float64) float64 {
	// if the path is zero length then the start speed must be zero
	if s.numSegs != segmentsMax {
		return 0.0
	}

	// avoid re-calculating if unnecessary
	if isEqual(s.segment[segInit].EndVel, speed) {
		return speed
	}
	legReplans.Inc()

	vm := s.segment[segAccelEnd].EndVel
	l := s.segment[segDecelEnd].EndPos
	speed = math.Min(speed, vm)

	jm, tRise, tHold, tFall := s.calculatePath(s.jerkTime, s.jerkMax, speed, s.accelMax, vm, l/2.0)

	seg := segInit
	s.addSegment(&seg, 0.0, ConstantJerk, 0.0, 0.0, speed, 0.0)
	s.addSegmentsJerk(&seg, s.jerkTime, jm, tRise)
	s.addSegmentConstJerk(&seg, tHold, 0.0)
	s.addSegmentsJerk(&seg, s.jerkTime, -jm, tFall)

	// empty speed change segments
	for i := segAccelEnd + 1; i <= segChangeEnd; i++ {
		s.segment[i] = Segment{
			Kind:     ConstantJerk,
			JerkRef:  0.0,
			EndTime:  s.segment[segAccelEnd].EndTime,
			EndAccel: 0.0,
			EndVel:   s.segment[segAccelEnd].EndVel,
			EndPos:   s.segment[segAccelEnd].EndPos,
		}
	}

	jm, tRise, tHold, tFall = s.calculatePath(s.jerkTime, s.jerkMax, 0.0, s.accelMax, vm, l-s.segment[segConst].EndPos)

	seg = segConst
	s.addSegmentConstJerk(&seg, 0.0, 0.0)
	s.addSegmentsJerk(&seg, s.jerkTime, -jm, tFall)
	s.addSegmentConstJerk(&seg, tHold, 0.0)
	s.addSegmentsJerk(&seg, s.jerkTime, jm, tRise)

	s.stretchCruise(l)
	return speed
}

// SetDestinationSpeedMax rewrites the deceleration region so the leg ends
// at the requested speed (clamped to the cruise speed), preserving the
// total distance by adjusting the cruise duration.
func (s *SCurve) SetDestinationSpeedMax(speed float64) {
	// if the path is zero length then the end speed must be zero
	if s.numSegs != segmentsMax {
		return
	}

	// avoid re-calculating if unnecessary
	if isEqual(s.segment[segmentsMax-1].EndVel, speed) {
		return
	}
	legReplans.Inc()

	vm := s.segment[segConst].EndVel
	l := s.segment[segDecelEnd].EndPos
	speed = math.Min(speed, vm)

	jm, tRise, tHold, tFall := s.calculatePath(s.jerkTime, s.jerkMax, speed, s.accelMax, vm, l/2.0)

	seg := segConst
	s.addSegmentConstJerk(&seg, 0.0, 0.0)
	s.addSegmentsJerk(&seg, s.jerkTime, -jm, tFall)
	s.addSegmentConstJerk(&seg, tHold, 0.0)
	s.addSegmentsJerk(&seg, s.jerkTime, jm, tRise)

	s.stretchCruise(l)
}

// advanceTime moves the playhead forward by dt. The playhead may pass the
// end of the timeline; sampling clamps to the final state while Finished
// flips true.
func (s *SCurve) advanceTime(dt float64) {
	s.time += dt
}

// sampleAt converts the scalar state at time t into 3D vectors via the
// unit track direction.
func (s *SCurve) sampleAt(t float64) Sample {
	_, at, vt, pt := s.state(t)
	return Sample{
		Pos:   r3.Scale(pt, s.deltaUnit),
		Vel:   r3.Scale(vt, s.deltaUnit),
		Accel: r3.Scale(at, s.deltaUnit),
	}
}

// Advance moves the playhead by dt and returns the setpoint relative to
// the leg origin.
func (s *SCurve) Advance(dt float64) Sample {
	s.advanceTime(dt)
	return s.sampleAt(s.time)
}

// AdvanceFromDestination moves the playhead by dt and returns the setpoint
// relative to the leg destination.
func (s *SCurve) AdvanceFromDestination(dt float64) Sample {
	s.advanceTime(dt)
	sample := s.sampleAt(s.time)
	sample.Pos = r3.Sub(sample.Pos, s.track)
	return sample
}

// SampleAt returns the setpoint relative to the leg origin at time t
// without moving the playhead.
func (s *SCurve) SampleAt(t float64) Sample {
	return s.sampleAt(t)
}

// Finished reports whether the playhead has passed the end of the
// timeline. An unbuilt leg is always finished.
func (s *SCurve) Finished() bool {
	if s.numSegs != segmentsMax {
		return true
	}
	return s.time > s.TotalTime()
}

// PosEnd returns the scalar track length covered by the timeline.
func (s *SCurve) PosEnd() float64 {
	if s.numSegs != segmentsMax {
		return 0.0
	}
	return s.segment[segDecelEnd].EndPos
}

// TotalTime returns the time at the end of the timeline.
func (s *SCurve) TotalTime() float64 {
	if s.numSegs != segmentsMax {
		return 0.0
	}
	return s.segment[segDecelEnd].EndTime
}

// TimeElapsed returns the current playhead time.
func (s *SCurve) TimeElapsed() float64 {
	return s.time
}

// TimeRemaining returns the time left before the leg completes.
func (s *SCurve) TimeRemaining() float64 {
	if s.numSegs != segmentsMax {
		return 0.0
	}
	return s.segment[segDecelEnd].EndTime - s.time
}

// DistanceToEnd returns the along-track distance left to the destination.
func (s *SCurve) DistanceToEnd() float64 {
	if s.numSegs != segmentsMax {
		return 0.0
	}
	_, _, _, pt := s.state(s.time)
	return s.segment[segDecelEnd].EndPos - pt
}

// AccelPhaseEndTime returns the time at which the acceleration region of
// the timeline completes.
func (s *SCurve) AccelPhaseEndTime() float64 {
	if s.numSegs != segmentsMax {
		return 0.0
	}
	return s.segment[segAccelEnd].EndTime
}

// Braking reports whether the leg has passed its cruise segment and is
// slowing to the destination. An unbuilt leg reports true.
func (s *SCurve) Braking() bool {
	if s.numSegs != segmentsMax {
		return true
	}
	return s.time >= s.segment[segConst].EndTime
}

// SpeedAlongTrack returns the speed limit along the track direction. The
// corner blender compares the blended turn speed against this for both
// legs, so it reflects the plan, not the instantaneous velocity.
func (s *SCurve) SpeedAlongTrack() float64 {
	return s.velMax
}

// AccelAlongTrack returns the acceleration limit along the track direction.
func (s *SCurve) AccelAlongTrack() float64 {
	return s.accelMax
}

// Track returns the vector from origin to destination.
func (s *SCurve) Track() r3.Vec {
	return s.track
}
