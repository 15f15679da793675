// Projection of per-axis kinematic limits onto the track direction
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package scurve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Limits are the per-axis kinematic limits a leg is built against. Speeds,
// accelerations, jerk and time are in mutually consistent units (the
// vehicle uses metres and seconds).
type Limits struct {
	SpeedXY   float64
	SpeedUp   float64
	SpeedDown float64
	AccelXY   float64
	AccelZ    float64
	JerkTime  float64
	JerkMax   float64
}

// kinematicLimit returns the largest magnitude achievable along direction
// given a horizontal limit and separate vertical limits for climbing and
// descending. Shallow tracks are bounded by the horizontal limit scaled to
// the track slope, steep tracks by the applicable vertical limit.
func kinematicLimit(direction r3.Vec, maxXY, maxZPos, maxZNeg float64) float64 {
	if isZero(r3.Norm2(direction)) || isZero(maxXY) || isZero(maxZPos) || isZero(maxZNeg) {
		return 0.0
	}

	maxXY = math.Abs(maxXY)
	maxZPos = math.Abs(maxZPos)
	maxZNeg = math.Abs(maxZNeg)

	direction = r3.Unit(direction)
	xyLength := math.Hypot(direction.X, direction.Y)

	if isZero(xyLength) {
		if isPositive(direction.Z) {
			return maxZPos
		}
		return maxZNeg
	}

	if isZero(direction.Z) {
		return maxXY
	}

	slope := direction.Z / xyLength
	if isPositive(slope) {
		if math.Abs(slope) < maxZPos/maxXY {
			return maxXY / xyLength
		}
		return math.Abs(maxZPos / direction.Z)
	}

	if math.Abs(slope) < maxZNeg/maxXY {
		return maxXY / xyLength
	}
	return math.Abs(maxZNeg / direction.Z)
}

// setKinematicLimits derives the path-wide speed and acceleration caps from
// the per-axis limits projected onto the track from origin to destination.
func (s *SCurve) setKinematicLimits(origin, destination r3.Vec, lim Limits) {
	speedXY := math.Abs(lim.SpeedXY)
	speedUp := math.Abs(lim.SpeedUp)
	speedDown := math.Abs(lim.SpeedDown)
	accelXY := math.Abs(lim.AccelXY)
	accelZ := math.Abs(lim.AccelZ)

	direction := r3.Sub(destination, origin)
	s.velMax = kinematicLimit(direction, speedXY, speedUp, speedDown)
	s.accelMax = kinematicLimit(direction, accelXY, accelZ, accelZ)
}
