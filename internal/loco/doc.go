// Package loco is a procedural legged-locomotion simulator.
//
// Given a moving root goal and per-frame delta time, a [Locomotor] computes
// foot placements, a gait phase and a pelvis/body transform for any number of
// feet grouped into foot sets, without authored animation data:
//
//   - [Locomotor]: fixed-step orchestration, speed and phase integration
//   - feet: per-limb gait state machine, swing targets and trajectories
//   - foot sets: groups of feet sharing a phase offset
//   - body and pelvis: averaged feet with lead, bob and ground alignment
//   - [GroundProbe]: host-supplied ground query
//
// # Example
//
//	l := loco.New(loco.WithGroundProbe(ground.Flat{}))
//	set := l.AddFootSet(0)
//	l.AddFootToSet(set, leftFoot, loco.DefaultFootSettings())
//	l.AddFootToSet(set, rightFoot, rightSettings)
//	l.Reset(rootGoal, pelvis)
//	for each frame {
//	    s.RootGoal, s.DeltaTime = goal, dt
//	    l.RunSimulation(s)
//	    l.FootTransforms(feet)
//	}
//
// # Thread Safety
//
// A Locomotor is NOT safe for concurrent use. Drive each instance from a
// single goroutine.
package loco
