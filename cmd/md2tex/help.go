package main

import (
	"fmt"
	"io"
)

// printUsage writes the top-level help text.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `md2tex - Markdown to LaTeX/HTML publishing workflow

Usage:
  md2tex <command> [flags]

Commands:
  tex        Convert Markdown files to LaTeX via pandoc
  normalize  Rewrite .tex files through the normalization pipeline
  html       Convert Markdown files to HTML (pandoc or --native)
  rewrite    Rewrite image references in .html files (.eps/.pdf -> .svg/.webp)
  export     Render .html files to PDF via headless Chrome
  doctor     Check external tool availability
  version    Print the version

Common flags:
  -c, --config   config file name or path
  -q, --quiet    only show errors
  -v, --verbose  show per-file timing
  -w, --workers  parallel workers (0 = auto)

Run 'md2tex <command> --help' for command flags.
`)
}
