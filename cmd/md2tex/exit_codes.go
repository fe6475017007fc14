package main

// Process exit codes.
const (
	// ExitSuccess indicates all files were processed without failure.
	ExitSuccess = 0

	// ExitGeneral indicates at least one file or setup step failed.
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments or flags.
	ExitUsage = 2
)
