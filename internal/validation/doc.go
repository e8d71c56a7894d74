// Package validation checks generated text against structural quality
// constraints before it reaches a customer: length limits per content
// kind, and detection of the garbled output modes image models are known
// to produce. All functions are pure; callers decide what to do with a
// failed verdict.
package validation
