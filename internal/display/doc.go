// Package display renders analysis reports for people: colored terminal
// text, Markdown, and HTML converted from the Markdown. It also formats
// history and calibration listings and user-facing warnings.
//
// Color is enabled only when the destination is a terminal:
//
//	r := display.NewRenderer(os.Stdout)
//	r.Report(report)
//
// Markdown and HTML are returned as strings so callers can write them
// through filelock.LockAndWrite:
//
//	md := display.Markdown(report)
//	html, err := display.HTML(report)
package display
