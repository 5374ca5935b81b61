// Package analysis provides gait analysis tools for recorded runs.
//
// The package works on plain series pulled out of samples or stored traces:
//
//   - [PowerSpectrum]: windowed magnitude spectrum of a series
//   - [DominantFrequency]: strongest frequency, e.g. the step rate
//   - [Resample]: uniform resampling of jittered frame times
//   - [Divergence]: separation between two runs of the same rig
//   - [Sweep]: parameter sweep recording the settled values of a series
//   - [NewPortrait]: 2D portrait of two series
//   - [StrideSection]: one point per gait cycle, a stride return map
//
// # Frame-rate independence
//
// Two runs of one setup at different frame rates should stay close:
//
//	d := analysis.Divergence(a.Samples, b.Samples, analysis.FootSeparation)
//	if d.Max > tolerance {
//	    // the rig depends on the host frame rate
//	}
package analysis
