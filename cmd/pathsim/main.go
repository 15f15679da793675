// pathsim flies a waypoint mission through the jerk-limited trajectory
// generator and prints the setpoint stream the control loop would receive.
//
// Usage:
//
//	pathsim -mission mission.cfg [options]
//	pathsim -from 0,0,0 -to 100,0,0 -speed 10 -accel 2.5 [options]
//
// Options:
//
//	-mission string  Mission configuration file
//	-from string     Single leg origin "x,y,z" (used without -mission)
//	-to string       Single leg destination "x,y,z"
//	-speed float     Horizontal speed limit (default 10)
//	-accel float     Horizontal acceleration limit (default 2.5)
//	-jerk-time float Jerk ramp duration (default 0.5)
//	-jerk-max float  Jerk limit (default 10)
//	-dt float        Control tick in seconds (default 0.05)
//	-format string   Output format: text or ndjson (default text)
//	-serve string    Serve telemetry on this address (e.g. :8077)
//	-realtime        Tick at wall-clock rate instead of as fast as possible
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"autonav-go/pkg/log"
	"autonav-go/pkg/mission"
	"autonav-go/pkg/scurve"
	"autonav-go/pkg/telemetry"
)

var logger = log.GetLogger("pathsim")

// simState owns the sequencer and hands snapshots to the telemetry server
// without racing the tick loop.
type simState struct {
	mu      sync.Mutex
	seq     *mission.Sequencer
	elapsed float64
	last    scurve.Sample
	done    bool
}

func (s *simState) step(dt float64) (scurve.Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last, s.done = s.seq.Step(dt)
	s.elapsed = s.seq.Elapsed()
	return s.last, s.done
}

func (s *simState) Status() telemetry.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return telemetry.Status{
		Time:         s.elapsed,
		Leg:          s.seq.CurrentLeg(),
		Done:         s.done,
		Position:     [3]float64{s.last.Pos.X, s.last.Pos.Y, s.last.Pos.Z},
		Velocity:     [3]float64{s.last.Vel.X, s.last.Vel.Y, s.last.Vel.Z},
		Acceleration: [3]float64{s.last.Accel.X, s.last.Accel.Y, s.last.Accel.Z},
	}
}

func parseVec(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("want three comma separated floats, got %q", s)
	}
	var out [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("bad component %q: %w", p, err)
		}
		out[i] = v
	}
	return r3.Vec{X: out[0], Y: out[1], Z: out[2]}, nil
}

func main() {
	missionFile := flag.String("mission", "", "Mission configuration file")
	fromFlag := flag.String("from", "", "Single leg origin \"x,y,z\"")
	toFlag := flag.String("to", "", "Single leg destination \"x,y,z\"")
	speed := flag.Float64("speed", 10.0, "Horizontal speed limit")
	accel := flag.Float64("accel", 2.5, "Horizontal acceleration limit")
	jerkTime := flag.Float64("jerk-time", 0.5, "Jerk ramp duration")
	jerkMax := flag.Float64("jerk-max", 10.0, "Jerk limit")
	dt := flag.Float64("dt", 0.05, "Control tick in seconds")
	format := flag.String("format", "text", "Output format: text or ndjson")
	serveAddr := flag.String("serve", "", "Serve telemetry on this address")
	realtime := flag.Bool("realtime", false, "Tick at wall-clock rate")
	flag.Parse()

	m, err := loadMission(*missionFile, *fromFlag, *toFlag, *speed, *accel, *jerkTime, *jerkMax)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seq, err := mission.NewSequencer(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sim := &simState{seq: seq}

	var server *telemetry.Server
	if *serveAddr != "" {
		server = telemetry.New(telemetry.Config{Addr: *serveAddr, Source: sim})
		go func() {
			if err := server.Start(); err != nil {
				logger.WithError(err).Error("telemetry server failed")
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	enc := json.NewEncoder(os.Stdout)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * *dt))
	defer ticker.Stop()

loop:
	for {
		if *realtime {
			select {
			case <-sigCh:
				logger.Info("interrupted")
				break loop
			case <-ticker.C:
			}
		} else {
			select {
			case <-sigCh:
				logger.Info("interrupted")
				break loop
			default:
			}
		}

		out, done := sim.step(*dt)
		if err := emit(enc, *format, sim, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if done {
			break
		}
	}

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	}
	logger.WithFields(log.Fields{
		"elapsed": sim.elapsed,
		"done":    sim.done,
	}).Info("simulation complete")
}

// loadMission reads the mission file, or synthesizes a two waypoint mission
// from the single leg flags.
func loadMission(path, from, to string, speed, accel, jerkTime, jerkMax float64) (*mission.Mission, error) {
	if path != "" {
		return mission.Load(path)
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("either -mission or both -from and -to are required")
	}
	origin, err := parseVec(from)
	if err != nil {
		return nil, fmt.Errorf("-from: %w", err)
	}
	dest, err := parseVec(to)
	if err != nil {
		return nil, fmt.Errorf("-to: %w", err)
	}
	return &mission.Mission{
		Limits: scurve.Limits{
			SpeedXY:   speed,
			SpeedUp:   speed,
			SpeedDown: speed,
			AccelXY:   accel,
			AccelZ:    accel,
			JerkTime:  jerkTime,
			JerkMax:   jerkMax,
		},
		CornerRadius: 2.0,
		Waypoints: []mission.Waypoint{
			{Name: "origin", Position: origin},
			{Name: "destination", Position: dest},
		},
	}, nil
}

func emit(enc *json.Encoder, format string, sim *simState, out scurve.Sample) error {
	switch format {
	case "ndjson":
		return enc.Encode(sim.Status())
	case "text":
		fmt.Printf("t=%8.3f leg=%d pos=(%9.3f %9.3f %9.3f) vel=%7.3f accel=%7.3f\n",
			sim.elapsed, sim.seq.CurrentLeg(),
			out.Pos.X, out.Pos.Y, out.Pos.Z,
			r3.Norm(out.Vel), r3.Norm(out.Accel))
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
