// Corner blending across consecutive trajectory legs
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package scurve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Leg is the read-mostly capability a neighbouring leg exposes during
// corner blending. Legs are chained by an external waypoint sequencer, so
// the blender holds references to this capability rather than owning the
// neighbouring legs. Advance calls mutate only the leg they are invoked
// on; the remaining methods are read-only probes.
type Leg interface {
	Advance(dt float64) Sample
	AdvanceFromDestination(dt float64) Sample
	SampleAt(t float64) Sample

	TimeElapsed() float64
	TimeRemaining() float64
	TotalTime() float64
	AccelPhaseEndTime() float64
	SpeedAlongTrack() float64
	AccelAlongTrack() float64
	Track() r3.Vec
	Finished() bool
}

// legOrIdle substitutes a fresh empty leg for an absent neighbour. An
// empty leg never moves and always reports finished, and each caller gets
// its own so advancing one cannot leak into another blend.
func legOrIdle(l Leg) Leg {
	if l == nil {
		return &SCurve{}
	}
	return l
}

// AdvanceAlongTrack moves the target along the track, blending the tail of
// the previous leg and, near a fast waypoint, the head of the next leg
// into the setpoint. cornerRadius bounds how far the blended turn may cut
// inside the shared waypoint. The returned flag reports whether the
// vehicle has passed the apex of the corner and this leg is done.
//
// The handover to the next leg only happens when the probe of the blended
// corner midpoint stays within cornerRadius, the horizontal turn speed
// stays below both legs' along-track speeds and the horizontal turn
// acceleration stays below twice the smaller along-track acceleration.
func (s *SCurve) AdvanceAlongTrack(prev, next Leg, cornerRadius float64, fastWaypoint bool, dt float64) (Sample, bool) {
	prev = legOrIdle(prev)
	next = legOrIdle(next)

	out := prev.AdvanceFromDestination(dt)
	out = out.add(s.Advance(dt))
	finished := s.Finished()

	timeToDestination := s.TimeRemaining()
	if fastWaypoint && s.Braking() && isZero(next.TimeElapsed()) && timeToDestination <= next.AccelPhaseEndTime() {
		// probe the would-be corner at the midpoint of the remaining
		// transition time
		turn := s.SampleAt(s.TimeElapsed() + timeToDestination/2.0)
		turn.Pos = r3.Sub(turn.Pos, s.Track())
		turn = turn.add(next.SampleAt(timeToDestination / 2.0))

		speedMin := math.Min(s.SpeedAlongTrack(), next.SpeedAlongTrack())
		accelMin := math.Min(s.AccelAlongTrack(), next.AccelAlongTrack())
		if s.TimeRemaining() < next.TotalTime()/2.0 &&
			r3.Norm(turn.Pos) < cornerRadius &&
			math.Hypot(turn.Vel.X, turn.Vel.Y) < speedMin &&
			math.Hypot(turn.Accel.X, turn.Accel.Y) < 2.0*accelMin {
			out = out.add(next.Advance(dt))
		}
	} else if !isZero(next.TimeElapsed()) {
		// the next leg has taken over; keep feeding it and finish this
		// leg once it has consumed the overlap
		out = out.add(next.Advance(dt))
		if next.TimeElapsed() >= s.TimeRemaining() {
			finished = true
		}
	}

	return out, finished
}
