package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"autonav-go/pkg/errors"
)

const sampleMission = `
# survey mission
[limits]
speed_xy = 10
speed_up: 5
accel_xy = 2.5

[waypoint home]
position = 0, 0, 0

[waypoint alpha]
position = 100, 0, 25
fast = yes
`

func TestLoadString(t *testing.T) {
	c, err := LoadString(sampleMission)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	want := []string{"limits", "waypoint home", "waypoint alpha"}
	got := c.GetSectionNames()
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTypedGetters(t *testing.T) {
	c, err := LoadString(sampleMission)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	lim, err := c.GetSection("limits")
	if err != nil {
		t.Fatalf("GetSection: %v", err)
	}

	if v, err := lim.GetFloat("speed_xy"); err != nil || v != 10.0 {
		t.Errorf("GetFloat(speed_xy) = %v, %v", v, err)
	}
	// colon separator works the same as equals
	if v, err := lim.GetFloat("speed_up"); err != nil || v != 5.0 {
		t.Errorf("GetFloat(speed_up) = %v, %v", v, err)
	}
	// fallback applies when the option is absent
	if v, err := lim.GetFloat("jerk_max", 20.0); err != nil || v != 20.0 {
		t.Errorf("GetFloat(jerk_max, 20) = %v, %v", v, err)
	}
	// missing option without fallback is an error
	if _, err := lim.GetFloat("nope"); !errors.Is(err, errors.ErrConfigOption) {
		t.Errorf("missing option error = %v", err)
	}

	wp, err := c.GetSection("waypoint alpha")
	if err != nil {
		t.Fatalf("GetSection: %v", err)
	}
	pos, err := wp.GetVec("position")
	if err != nil {
		t.Fatalf("GetVec: %v", err)
	}
	if pos.X != 100.0 || pos.Y != 0.0 || pos.Z != 25.0 {
		t.Errorf("position = %+v", pos)
	}
	if fast, err := wp.GetBool("fast", false); err != nil || !fast {
		t.Errorf("GetBool(fast) = %v, %v", fast, err)
	}
}

func TestGetFloatWithBounds(t *testing.T) {
	c, _ := LoadString("[limits]\nspeed_xy = -1\n")
	sec, _ := c.GetSection("limits")

	zero := 0.0
	_, err := sec.GetFloatWithBounds("speed_xy", FloatBounds{Above: &zero})
	if !errors.Is(err, errors.ErrConfigValidation) {
		t.Errorf("out of range error = %v", err)
	}
}

func TestGetVecRejectsWrongArity(t *testing.T) {
	c, _ := LoadString("[waypoint a]\nposition = 1, 2\n")
	sec, _ := c.GetSection("waypoint a")
	if _, err := sec.GetVec("position"); err == nil {
		t.Error("GetVec accepted a two element vector")
	}
}

func TestPrefixSections(t *testing.T) {
	c, err := LoadString(sampleMission)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	wps := c.GetPrefixSections("waypoint ")
	if len(wps) != 2 {
		t.Fatalf("got %d waypoint sections, want 2", len(wps))
	}
	if wps[0].GetName() != "waypoint home" || wps[1].GetName() != "waypoint alpha" {
		t.Errorf("waypoint order = %q, %q", wps[0].GetName(), wps[1].GetName())
	}
}

func TestCheckUnused(t *testing.T) {
	c, err := LoadString(sampleMission)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if err := c.CheckUnused(); err == nil {
		t.Error("CheckUnused passed with nothing accessed")
	}

	lim, _ := c.GetSection("limits")
	lim.GetFloat("speed_xy")
	lim.GetFloat("speed_up")
	lim.GetFloat("accel_xy")
	for _, wp := range c.GetPrefixSections("waypoint ") {
		wp.GetVec("position")
		wp.GetBool("fast", false)
	}
	if err := c.CheckUnused(); err != nil {
		t.Errorf("CheckUnused after full read: %v", err)
	}
}

func TestLoadWithInclude(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "mission.cfg")
	extra := filepath.Join(dir, "limits.cfg")

	if err := os.WriteFile(extra, []byte("[limits]\nspeed_xy = 7.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(base, []byte("[include limits.cfg]\n[waypoint home]\nposition = 0, 0, 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(base)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	lim, err := c.GetSection("limits")
	if err != nil {
		t.Fatalf("included section missing: %v", err)
	}
	v, err := lim.GetFloat("speed_xy")
	if err != nil || math.Abs(v-7.5) > 1e-12 {
		t.Errorf("speed_xy = %v, %v", v, err)
	}
}

func TestDuplicateSectionsMerge(t *testing.T) {
	c, err := LoadString("[limits]\nspeed_xy = 1\n[limits]\nspeed_xy = 2\naccel_xy = 3\n")
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	sec, _ := c.GetSection("limits")
	if v, _ := sec.GetFloat("speed_xy"); v != 2.0 {
		t.Errorf("later section should win, speed_xy = %v", v)
	}
	if v, _ := sec.GetFloat("accel_xy"); v != 3.0 {
		t.Errorf("accel_xy = %v", v)
	}
}
