package main

import "github.com/ribokit/riboprof/phasing"

// RunSummary is storing riboprof run summary information.
type RunSummary struct {
	// Version stores riboprof version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Regions is the number of coding regions analyzed.
	Regions int `json:"regions"`
	// Reads is the total number of counted reads across all lengths.
	Reads float64 `json:"reads"`
	// Rows is the computed phasing table.
	Rows []phasing.Row `json:"rows"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}
