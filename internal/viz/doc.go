// Package viz renders estimation results and progress in the terminal.
//
//   - [ProgressModel]: Bubble Tea model driven by [RunWithProgress]
//   - [Plot], [PlotSweep]: ASCII charts of local dimensions and sweeps
//   - [Summary]: lipgloss panel of labelled values
//
// Ctrl+C or q while a run is in progress cancels it.
package viz
