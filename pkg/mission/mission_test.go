// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package mission

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"autonav-go/pkg/config"
	"autonav-go/pkg/errors"
)

const sampleMission = `
[limits]
speed_xy = 10
speed_up = 5
speed_down = 3
accel_xy = 2.5
accel_z = 1.5
jerk_time = 0.5
jerk_max = 10
corner_radius = 5

[waypoint home]
position = 0, 0, 0

[waypoint alpha]
position = 100, 0, 0
fast = yes

[waypoint bravo]
position = 100, 100, 0
`

func loadSample(t *testing.T) *Mission {
	t.Helper()
	c, err := config.LoadString(sampleMission)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	m, err := FromConfig(c)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	return m
}

func TestFromConfig(t *testing.T) {
	m := loadSample(t)

	if m.Limits.SpeedXY != 10.0 || m.Limits.SpeedUp != 5.0 || m.Limits.SpeedDown != 3.0 {
		t.Errorf("speeds = %+v", m.Limits)
	}
	if m.Limits.JerkTime != 0.5 || m.Limits.JerkMax != 10.0 {
		t.Errorf("jerk limits = %+v", m.Limits)
	}
	if m.CornerRadius != 5.0 {
		t.Errorf("corner radius = %v, want 5", m.CornerRadius)
	}
	if m.Legs() != 2 {
		t.Fatalf("legs = %d, want 2", m.Legs())
	}
	if !m.Waypoints[1].Fast || m.Waypoints[2].Fast {
		t.Errorf("fast flags = %v, %v", m.Waypoints[1].Fast, m.Waypoints[2].Fast)
	}
	if m.Waypoints[2].Name != "bravo" {
		t.Errorf("waypoint name = %q, want bravo", m.Waypoints[2].Name)
	}
}

func TestLimitDefaultsFollowHorizontal(t *testing.T) {
	c, err := config.LoadString("[limits]\nspeed_xy = 8\naccel_xy = 2\n[waypoint a]\nposition = 0,0,0\n[waypoint b]\nposition = 10,0,0\n")
	if err != nil {
		t.Fatal(err)
	}
	m, err := FromConfig(c)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if m.Limits.SpeedUp != 8.0 || m.Limits.SpeedDown != 8.0 {
		t.Errorf("vertical speed defaults = %v/%v, want 8/8", m.Limits.SpeedUp, m.Limits.SpeedDown)
	}
	if m.Limits.AccelZ != 2.0 {
		t.Errorf("accel_z default = %v, want 2", m.Limits.AccelZ)
	}
}

func TestRejectsSingleWaypoint(t *testing.T) {
	c, _ := config.LoadString("[limits]\nspeed_xy = 8\naccel_xy = 2\n[waypoint only]\nposition = 0,0,0\n")
	if _, err := FromConfig(c); !errors.Is(err, errors.ErrMissionEmpty) {
		t.Errorf("error = %v, want mission empty", err)
	}
}

func TestRejectsCoincidentWaypoints(t *testing.T) {
	c, _ := config.LoadString("[limits]\nspeed_xy = 8\naccel_xy = 2\n" +
		"[waypoint a]\nposition = 5,5,5\n[waypoint b]\nposition = 5,5,5\n")
	if _, err := FromConfig(c); !errors.Is(err, errors.ErrMissionWaypoint) {
		t.Errorf("error = %v, want waypoint error", err)
	}
}

func TestRejectsNonPositiveLimit(t *testing.T) {
	c, _ := config.LoadString("[limits]\nspeed_xy = 0\naccel_xy = 2\n" +
		"[waypoint a]\nposition = 0,0,0\n[waypoint b]\nposition = 1,0,0\n")
	if _, err := FromConfig(c); !errors.IsConfig(err) {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestLoadRejectsUnknownOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mission.cfg")
	body := sampleMission + "\n[waypoint charlie]\nposition = 0, 0, 0\ntypo_option = 1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted a mission with an unknown option")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mission.cfg")
	if err := os.WriteFile(path, []byte(sampleMission), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Waypoints[1].Position.X; math.Abs(got-100.0) > 1e-12 {
		t.Errorf("alpha position x = %v, want 100", got)
	}
}
