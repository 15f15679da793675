// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package mission

import (
	"gonum.org/v1/gonum/spatial/r3"

	"autonav-go/pkg/log"
	"autonav-go/pkg/metrics"
	"autonav-go/pkg/scurve"
)

var (
	seqTicks  = metrics.Global().Counter("mission_ticks_total", "Sequencer control ticks")
	seqLegIdx = metrics.Global().Gauge("mission_leg_index", "Index of the leg currently being flown")
)

// Sequencer flies a mission by chaining trajectory legs: each control tick
// advances the current leg, blends in the tail of the previous leg, and at
// fast waypoints overlaps the head of the next leg so corners are flown
// without stopping. When a leg finishes the legs rotate and the mission
// moves on.
type Sequencer struct {
	mission *Mission

	idx    int // index of the leg being flown, waypoint idx -> idx+1
	origin r3.Vec
	prev   *scurve.SCurve
	cur    *scurve.SCurve
	next   *scurve.SCurve

	elapsed float64
	last    scurve.Sample
	done    bool
}

// NewSequencer prepares a sequencer at the start of the mission's first
// leg.
func NewSequencer(m *Mission) (*Sequencer, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	s := &Sequencer{mission: m}
	s.origin = m.Waypoints[0].Position
	s.cur = s.buildLeg(0)
	s.next = s.buildLeg(1)
	s.last = scurve.Sample{Pos: s.origin}
	seqLegIdx.Set(0.0)
	return s, nil
}

// buildLeg constructs leg i, or nil past the end of the mission.
func (s *Sequencer) buildLeg(i int) *scurve.SCurve {
	if i < 0 || i >= s.mission.Legs() {
		return nil
	}
	leg := scurve.New()
	leg.Build(s.mission.Waypoints[i].Position, s.mission.Waypoints[i+1].Position, s.mission.Limits)
	return leg
}

// fastCorner reports whether the waypoint ending the current leg may be
// flown through. The final waypoint always requires a full stop.
func (s *Sequencer) fastCorner() bool {
	return s.next != nil && s.mission.Waypoints[s.idx+1].Fast
}

// Step advances the mission by one control tick and returns the absolute
// setpoint. Once the final waypoint is reached the last setpoint repeats
// and done is true.
func (s *Sequencer) Step(dt float64) (scurve.Sample, bool) {
	if s.done {
		return s.last, true
	}
	seqTicks.Inc()
	s.elapsed += dt

	// pass absent neighbours as untyped nil so the blender substitutes
	// its idle leg
	var prev, next scurve.Leg
	if s.prev != nil {
		prev = s.prev
	}
	if s.next != nil {
		next = s.next
	}
	out, finished := s.cur.AdvanceAlongTrack(prev, next, s.mission.CornerRadius, s.fastCorner(), dt)
	s.last = scurve.Sample{
		Pos:   r3.Add(s.origin, out.Pos),
		Vel:   out.Vel,
		Accel: out.Accel,
	}

	if finished {
		s.rotate()
	}
	return s.last, s.done
}

// rotate moves on to the next leg after the current one finished.
func (s *Sequencer) rotate() {
	logger.WithFields(log.Fields{
		"leg":      s.idx,
		"waypoint": s.mission.Waypoints[s.idx+1].Name,
		"elapsed":  s.elapsed,
	}).Info("waypoint reached")

	s.idx++
	if s.idx >= s.mission.Legs() {
		s.done = true
		return
	}
	s.prev = s.cur
	s.cur = s.next
	if s.cur == nil {
		s.cur = s.buildLeg(s.idx)
	}
	s.origin = s.mission.Waypoints[s.idx].Position
	s.next = s.buildLeg(s.idx + 1)
	seqLegIdx.Set(float64(s.idx))
}

// SetSpeedMax applies a new horizontal/climb/descent speed limit to the leg
// being flown. Later legs are rebuilt with the new limit when they start.
func (s *Sequencer) SetSpeedMax(speedXY, speedUp, speedDown float64) {
	s.mission.Limits.SpeedXY = speedXY
	s.mission.Limits.SpeedUp = speedUp
	s.mission.Limits.SpeedDown = speedDown
	if s.cur != nil {
		s.cur.SetSpeedMax(speedXY, speedUp, speedDown)
	}
	if s.next != nil {
		s.next = s.buildLeg(s.idx + 1)
	}
}

// Done reports whether the final waypoint has been reached.
func (s *Sequencer) Done() bool {
	return s.done
}

// CurrentLeg returns the index of the leg being flown.
func (s *Sequencer) CurrentLeg() int {
	return s.idx
}

// Elapsed returns the mission time consumed so far.
func (s *Sequencer) Elapsed() float64 {
	return s.elapsed
}

// Target returns the most recent absolute setpoint.
func (s *Sequencer) Target() scurve.Sample {
	return s.last
}
