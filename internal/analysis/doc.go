// Package analysis inspects per-frame series recorded by a run.
//
//   - [PowerSpectrum]: squared magnitude of the first half of the transform
//   - [Spectrum]: mean-removed power spectrum of any length
//   - [DominantPeriod]: strongest oscillation period in frames
//
// A rotating container stirs its bodies periodically, so the kinetic energy
// series of a spinning card usually peaks near the rotation period:
//
//	ps := analysis.Spectrum(energy)
//	period, power := analysis.DominantPeriod(ps, len(energy))
package analysis
