package main

import (
	"fmt"
	"time"

	md2tex "github.com/ju1-eu/go-md2tex"
)

// printReport outputs per-file outcomes and a summary line, returning the
// number of file-level failures. Skipped rules are reported but do not
// count as failures: the file was still written with the remaining rules
// applied.
func printReport(report *md2tex.RunReport, quiet, verbose bool, env *Environment) int {
	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Path, r.Err)
			continue
		}
		for _, re := range r.RuleErrors {
			fmt.Fprintf(env.Stderr, "PARTIAL %s: %v\n", r.Path, re)
		}
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s (%v)\n", r.Path, r.Duration.Round(time.Millisecond))
		}
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "%d attempted, %d succeeded, %d partial, %d failed\n",
			report.Attempted(), report.Full(), report.PartialCount(), report.Failed())
	}

	return report.Failed()
}

// exitCodeFor maps a failure count to a process exit code.
func exitCodeFor(failed int) int {
	if failed > 0 {
		return ExitGeneral
	}
	return ExitSuccess
}
