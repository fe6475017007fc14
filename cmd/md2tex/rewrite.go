package main

import (
	"context"
	"fmt"

	md2tex "github.com/ju1-eu/go-md2tex"
)

// runRewriteCmd rewrites image references in the HTML tree to their
// browser-friendly formats.
func runRewriteCmd(args []string, env *Environment) int {
	f, err := parseRewriteFlags(args)
	if err != nil {
		return ExitUsage
	}

	cfg, err := loadConfig(&f.common)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	rw := &md2tex.ImageRewriter{
		Dir:     pick(f.htmlDir, cfg.Paths.HTML),
		Workers: f.common.workers,
	}

	report, err := rw.Run(context.Background())
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}
	if report.Attempted() == 0 && !f.common.quiet {
		fmt.Fprintf(env.Stdout, "no .html files in %s\n", rw.Dir)
	}

	return exitCodeFor(printReport(report, f.common.quiet, f.common.verbose, env))
}
