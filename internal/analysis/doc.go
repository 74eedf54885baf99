// Package analysis provides equilibrium and time-series analysis for Ising
// runs.
//
// The package includes:
//
//   - [Scan]: sweep the temperature and record equilibrium observables
//   - [PhaseDiagramToASCII]: scatter of magnetization against temperature
//   - [Autocorrelation]: normalized autocorrelation of a sample trace
//   - [IntegratedTime]: integrated autocorrelation time
//   - [PowerSpectrum]: magnitude spectrum of a trace
//
// # Locating the transition
//
// The susceptibility of a scan peaks near the critical temperature:
//
//	points, err := analysis.Scan(ctx, cfg, rng)
//	peak := analysis.PeakSusceptibility(points)
package analysis
