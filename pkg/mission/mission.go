// Package mission loads waypoint missions from config files and flies them
// as a chain of jerk-limited trajectory legs.
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package mission

import (
	"gonum.org/v1/gonum/spatial/r3"

	"autonav-go/pkg/config"
	"autonav-go/pkg/errors"
	"autonav-go/pkg/log"
	"autonav-go/pkg/scurve"
)

var logger = log.GetLogger("mission")

// Waypoint is one named position in a mission. A fast waypoint lets the
// vehicle cut the corner toward the following leg instead of stopping.
type Waypoint struct {
	Name     string
	Position r3.Vec
	Fast     bool
}

// Mission is an ordered list of waypoints flown under one set of kinematic
// limits.
type Mission struct {
	Limits       scurve.Limits
	CornerRadius float64
	Waypoints    []Waypoint
}

// Load reads a mission file and rejects files with unknown sections or
// options.
func Load(path string) (*Mission, error) {
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	m, err := FromConfig(c)
	if err != nil {
		return nil, err
	}
	if err := c.CheckUnused(); err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"path":      path,
		"waypoints": len(m.Waypoints),
	}).Info("mission loaded")
	return m, nil
}

// FromConfig builds a Mission from a parsed config. The [limits] section is
// required; waypoints come from [waypoint <name>] sections in file order.
func FromConfig(c *config.Config) (*Mission, error) {
	lim, err := c.GetSection("limits")
	if err != nil {
		return nil, err
	}

	zero := 0.0
	m := &Mission{}
	above := config.FloatBounds{Above: &zero}

	if m.Limits.SpeedXY, err = lim.GetFloatWithBounds("speed_xy", above); err != nil {
		return nil, err
	}
	if m.Limits.SpeedUp, err = lim.GetFloatWithBounds("speed_up", above, m.Limits.SpeedXY); err != nil {
		return nil, err
	}
	if m.Limits.SpeedDown, err = lim.GetFloatWithBounds("speed_down", above, m.Limits.SpeedUp); err != nil {
		return nil, err
	}
	if m.Limits.AccelXY, err = lim.GetFloatWithBounds("accel_xy", above); err != nil {
		return nil, err
	}
	if m.Limits.AccelZ, err = lim.GetFloatWithBounds("accel_z", above, m.Limits.AccelXY); err != nil {
		return nil, err
	}
	if m.Limits.JerkTime, err = lim.GetFloatWithBounds("jerk_time", above, 0.5); err != nil {
		return nil, err
	}
	if m.Limits.JerkMax, err = lim.GetFloatWithBounds("jerk_max", above, 10.0); err != nil {
		return nil, err
	}
	if m.CornerRadius, err = lim.GetFloatWithBounds("corner_radius", above, 2.0); err != nil {
		return nil, err
	}

	for _, sec := range c.GetPrefixSections("waypoint ") {
		name := sec.GetName()[len("waypoint "):]
		pos, err := sec.GetVec("position")
		if err != nil {
			return nil, err
		}
		fast, err := sec.GetBool("fast", false)
		if err != nil {
			return nil, err
		}
		m.Waypoints = append(m.Waypoints, Waypoint{Name: name, Position: pos, Fast: fast})
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mission) validate() error {
	if len(m.Waypoints) < 2 {
		return errors.MissionEmptyError()
	}
	for i := 1; i < len(m.Waypoints); i++ {
		d := r3.Sub(m.Waypoints[i].Position, m.Waypoints[i-1].Position)
		if r3.Norm(d) == 0.0 {
			return errors.MissionWaypointError(m.Waypoints[i].Name,
				"coincides with the previous waypoint")
		}
	}
	return nil
}

// Legs returns the number of trajectory legs in the mission.
func (m *Mission) Legs() int {
	return len(m.Waypoints) - 1
}
