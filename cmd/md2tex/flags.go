package main

import (
	flag "github.com/spf13/pflag"

	"github.com/ju1-eu/go-md2tex/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	workers int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file timing")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
}

// loadConfig loads the named config, or the built-in defaults when no
// config flag was given.
func loadConfig(f *commonFlags) (*config.Config, error) {
	if f.config == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(f.config)
}

// normalizeFlags holds flags for the normalize command.
type normalizeFlags struct {
	common        commonFlags
	texDir        string
	backup        bool
	clearBackups  bool
	withCitations bool
}

// parseNormalizeFlags parses normalize command flags.
func parseNormalizeFlags(args []string) (*normalizeFlags, error) {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	f := &normalizeFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.texDir, "tex-dir", "", "directory with .tex files (overrides config)")
	fs.BoolVar(&f.backup, "backup", false, "snapshot each file to .bak before rewriting")
	fs.BoolVar(&f.clearBackups, "clear-backups", false, "remove stale .bak files after the run")
	fs.BoolVar(&f.withCitations, "citations", false, "enable textcite cleanup rules")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// texFlags holds flags for the tex command.
type texFlags struct {
	common    commonFlags
	mdDir     string
	texDir    string
	template  string
	luaFilter string
}

// parseTexFlags parses tex command flags.
func parseTexFlags(args []string) (*texFlags, error) {
	fs := flag.NewFlagSet("tex", flag.ContinueOnError)
	f := &texFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.mdDir, "md-dir", "", "directory with Markdown sources (overrides config)")
	fs.StringVar(&f.texDir, "tex-dir", "", "target directory for .tex files (overrides config)")
	fs.StringVar(&f.template, "template", "", "LaTeX template path (overrides config)")
	fs.StringVar(&f.luaFilter, "lua-filter", "", "Lua filter path (overrides config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// htmlFlags holds flags for the html command.
type htmlFlags struct {
	common         commonFlags
	mdDir          string
	htmlDir        string
	css            string
	csl            string
	bibliographies []string
	native         bool
}

// parseHTMLFlags parses html command flags.
func parseHTMLFlags(args []string) (*htmlFlags, error) {
	fs := flag.NewFlagSet("html", flag.ContinueOnError)
	f := &htmlFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.mdDir, "md-dir", "", "directory with Markdown sources (overrides config)")
	fs.StringVar(&f.htmlDir, "html-dir", "", "target directory for .html files (overrides config)")
	fs.StringVar(&f.css, "css", "", "stylesheet path (overrides config)")
	fs.StringVar(&f.csl, "csl", "", "citation style path (overrides config)")
	fs.StringSliceVar(&f.bibliographies, "bibliography", nil, "bibliography file (repeatable)")
	fs.BoolVar(&f.native, "native", false, "render with the built-in converter instead of pandoc")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// rewriteFlags holds flags for the rewrite command.
type rewriteFlags struct {
	common  commonFlags
	htmlDir string
}

// parseRewriteFlags parses rewrite command flags.
func parseRewriteFlags(args []string) (*rewriteFlags, error) {
	fs := flag.NewFlagSet("rewrite", flag.ContinueOnError)
	f := &rewriteFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.htmlDir, "html-dir", "", "directory with .html files (overrides config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common  commonFlags
	htmlDir string
	pdfDir  string
	timeout string
}

// parseExportFlags parses export command flags.
func parseExportFlags(args []string) (*exportFlags, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := &exportFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.htmlDir, "html-dir", "", "directory with .html files (overrides config)")
	fs.StringVar(&f.pdfDir, "pdf-dir", "", "target directory for .pdf files (overrides config)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file rendering timeout (e.g. 30s, 2m)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// pick returns override when set, fallback otherwise.
func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}
