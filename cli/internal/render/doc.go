// Package render formats simulations, guide topics and parameter sets for the
// terminal.
//
// Three formats are supported: text (lipgloss-styled, with one bar per flavor
// dimension scaled to ScoreMax), markdown, and indented JSON. Section labels
// follow the simulation's locale.
package render
