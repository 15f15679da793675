// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package scurve

import (
	"math"
	"testing"
)

func TestCalculatePathVelocityBound(t *testing.T) {
	s := New()
	jerk, tRise, tHold, tFall := s.calculatePath(0.5, 10.0, 0.0, 2.5, 10.0, 50.0)

	// accel cap 2.5 is below jerk_max*tj, so the effective jerk is am/tj
	if math.Abs(jerk-5.0) > 1e-9 {
		t.Errorf("jerk = %v, want 5", jerk)
	}
	if tRise != 0.0 || tFall != 0.0 {
		t.Errorf("rise/fall = %v/%v, want 0/0", tRise, tFall)
	}
	// hold duration that exactly reaches vm: (vm - 2*am*tj)/am
	if math.Abs(tHold-3.0) > 1e-6 {
		t.Errorf("tHold = %v, want 3", tHold)
	}
}

func TestCalculatePathRampOnly(t *testing.T) {
	s := New()
	jerk, tRise, tHold, tFall := s.calculatePath(0.5, 10.0, 0.0, 2.5, 1.0, 50.0)

	// vm is reachable inside the jerk ramps alone
	if math.Abs(jerk-2.0) > 1e-9 {
		t.Errorf("jerk = %v, want 2", jerk)
	}
	if tRise != 0.0 || tHold != 0.0 || tFall != 0.0 {
		t.Errorf("durations = %v/%v/%v, want all 0", tRise, tHold, tFall)
	}
}

func TestCalculatePathFullTrapezoid(t *testing.T) {
	s := New()
	jerk, tRise, tHold, tFall := s.calculatePath(0.1, 50.0, 0.0, 6.0, 10.0, 100.0)

	if math.Abs(jerk-50.0) > 1e-9 {
		t.Errorf("jerk = %v, want 50", jerk)
	}
	if math.Abs(tRise-0.02) > 1e-9 || math.Abs(tFall-0.02) > 1e-9 {
		t.Errorf("rise/fall = %v/%v, want 0.02/0.02", tRise, tFall)
	}
	// velocity-bound hold: -(v0 - vm + am*tj + am*am/jm)/am
	want := -(0.0 - 10.0 + 6.0*0.1 + 36.0/50.0) / 6.0
	if math.Abs(tHold-want) > 1e-6 {
		t.Errorf("tHold = %v, want %v", tHold, want)
	}
}

func TestCalculatePathDistanceBoundCubic(t *testing.T) {
	s := New()
	jerk, tRise, tHold, tFall := s.calculatePath(0.1, 50.0, 0.0, 6.0, 10.0, 0.22)

	if math.Abs(jerk-50.0) > 1e-9 {
		t.Errorf("jerk = %v, want 50", jerk)
	}
	if tHold != 0.0 {
		t.Errorf("tHold = %v, want 0 when distance binds", tHold)
	}
	if tRise != tFall {
		t.Errorf("rise %v != fall %v, cubic branch uses symmetric ramps", tRise, tFall)
	}
	if tRise < 0.0 {
		t.Errorf("tRise = %v, want >= 0", tRise)
	}
}

func TestCalculatePathNoChangeAtSpeed(t *testing.T) {
	s := New()
	jerk, tRise, tHold, tFall := s.calculatePath(0.5, 10.0, 10.0, 2.5, 10.0, 50.0)
	if jerk != 0.0 || tRise != 0.0 || tHold != 0.0 || tFall != 0.0 {
		t.Errorf("v0 == vm should produce all zeros, got %v/%v/%v/%v", jerk, tRise, tHold, tFall)
	}
}

func TestCalculatePathRejectsInvalidArgs(t *testing.T) {
	s := New()
	before := solverFaults.Get()

	cases := []struct {
		name                string
		tj, jm, v0, am, vm, l float64
	}{
		{"zero jerk time", 0.0, 10.0, 0.0, 2.5, 10.0, 50.0},
		{"zero jerk max", 0.5, 0.0, 0.0, 2.5, 10.0, 50.0},
		{"zero accel max", 0.5, 10.0, 0.0, 0.0, 10.0, 50.0},
		{"negative distance", 0.5, 10.0, 0.0, 2.5, 10.0, -1.0},
	}
	for _, tc := range cases {
		jerk, tRise, tHold, tFall := s.calculatePath(tc.tj, tc.jm, tc.v0, tc.am, tc.vm, tc.l)
		if jerk != 0.0 || tRise != 0.0 || tHold != 0.0 || tFall != 0.0 {
			t.Errorf("%s: got %v/%v/%v/%v, want all zeros", tc.name, jerk, tRise, tHold, tFall)
		}
	}
	if got := solverFaults.Get() - before; got != uint64(len(cases)) {
		t.Errorf("solver fault counter advanced by %d, want %d", got, len(cases))
	}
}

func TestCalculatePathDurationsNonNegative(t *testing.T) {
	s := New()
	tjs := []float64{0.1, 0.5, 1.0}
	v0s := []float64{0.0, 1.0, 5.0, 9.9}
	ams := []float64{0.5, 2.5, 8.0}
	ls := []float64{0.1, 1.0, 10.0, 500.0}
	for _, tj := range tjs {
		for _, v0 := range v0s {
			for _, am := range ams {
				for _, l := range ls {
					jerk, tRise, tHold, tFall := s.calculatePath(tj, 10.0, v0, am, 10.0, l)
					if tRise < 0.0 || tHold < 0.0 || tFall < 0.0 {
						t.Fatalf("negative duration for tj=%v v0=%v am=%v l=%v: %v/%v/%v/%v",
							tj, v0, am, l, jerk, tRise, tHold, tFall)
					}
				}
			}
		}
	}
}
