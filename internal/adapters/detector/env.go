// Package detector chooses how much progress output a run prints.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects the renderer behavior.
type OutputMode int

const (
	// ModeAuto picks a mode from the environment.
	ModeAuto OutputMode = iota
	// ModeProgress prints every round as it starts and ends, followed by the report.
	ModeProgress
	// ModeSummary prints only the report.
	ModeSummary
)

// DetectEnvironment returns ModeProgress on an interactive terminal and ModeSummary in CI or
// when stderr is redirected.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeSummary
	}
	return ModeProgress
}

// ResolveMode applies the --output flag to the detected mode.
// flag is one of "auto", "progress", "summary", "ci" or empty; unknown values fall back to
// detection.
func ResolveMode(detected OutputMode, flag string) OutputMode {
	switch flag {
	case "progress":
		return ModeProgress
	case "summary", "ci":
		return ModeSummary
	default:
		return detected
	}
}
