package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	md2tex "github.com/ju1-eu/go-md2tex"
)

// filePermissions for generated output files.
const filePermissions = 0o644

// dirPermissions for created target directories.
const dirPermissions = 0o750

// runTexCmd converts the Markdown tree to LaTeX via pandoc.
func runTexCmd(args []string, env *Environment) int {
	f, err := parseTexFlags(args)
	if err != nil {
		return ExitUsage
	}

	cfg, err := loadConfig(&f.common)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	batch := &md2tex.TexBatch{
		Pandoc:    md2tex.NewPandocConverter(),
		SourceDir: pick(f.mdDir, cfg.Paths.Markdown),
		TargetDir: pick(f.texDir, cfg.Paths.Tex),
		Template:  pick(f.template, cfg.Pandoc.Template),
		LuaFilter: pick(f.luaFilter, cfg.Pandoc.LuaFilter),
		Workers:   f.common.workers,
	}

	report, err := batch.Run(context.Background())
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}
	if report.Attempted() == 0 && !f.common.quiet {
		fmt.Fprintf(env.Stdout, "no .md files in %s\n", batch.SourceDir)
	}

	return exitCodeFor(printReport(report, f.common.quiet, f.common.verbose, env))
}

// runHTMLCmd converts the Markdown tree to HTML, either via pandoc with
// citation support or through the built-in Goldmark converter.
func runHTMLCmd(args []string, env *Environment) int {
	f, err := parseHTMLFlags(args)
	if err != nil {
		return ExitUsage
	}

	cfg, err := loadConfig(&f.common)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	sourceDir := pick(f.mdDir, cfg.Paths.Markdown)
	targetDir := pick(f.htmlDir, cfg.Paths.HTML)

	if f.native {
		return runNativeHTML(sourceDir, targetDir, f, env)
	}

	bibliographies := f.bibliographies
	if len(bibliographies) == 0 {
		bibliographies = cfg.Pandoc.Bibliographies
	}

	batch := &md2tex.HTMLBatch{
		Pandoc:         md2tex.NewPandocConverter(),
		SourceDir:      sourceDir,
		TargetDir:      targetDir,
		CSS:            pick(f.css, cfg.Pandoc.CSS),
		CSL:            pick(f.csl, cfg.Pandoc.CSL),
		Bibliographies: bibliographies,
		Workers:        f.common.workers,
	}

	report, err := batch.Run(context.Background())
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}
	if report.Attempted() == 0 && !f.common.quiet {
		fmt.Fprintf(env.Stdout, "no .md files in %s\n", sourceDir)
	}

	return exitCodeFor(printReport(report, f.common.quiet, f.common.verbose, env))
}

// runNativeHTML renders each Markdown file with the Goldmark preview
// converter. No pandoc required; citations stay unresolved.
func runNativeHTML(sourceDir, targetDir string, f *htmlFlags, env *Environment) int {
	files, err := filepath.Glob(filepath.Join(sourceDir, "*.md"))
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}
	if len(files) == 0 {
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "no .md files in %s\n", sourceDir)
		}
		return ExitSuccess
	}
	if err := os.MkdirAll(targetDir, dirPermissions); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	conv := md2tex.NewPreviewConverter()
	ctx := context.Background()

	results := make([]md2tex.FileResult, 0, len(files))
	for _, path := range files {
		results = append(results, previewFile(ctx, conv, path, targetDir))
	}

	report := &md2tex.RunReport{Results: results}
	return exitCodeFor(printReport(report, f.common.quiet, f.common.verbose, env))
}

// previewFile converts one Markdown file and writes the HTML next to its
// siblings in targetDir.
func previewFile(ctx context.Context, conv *md2tex.PreviewConverter, path, targetDir string) md2tex.FileResult {
	start := time.Now()
	result := md2tex.FileResult{Path: path}

	data, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("reading %s: %w", path, err)
		result.Duration = time.Since(start)
		return result
	}

	htmlContent, err := conv.ToHTML(ctx, string(data))
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(targetDir, base+".html")
	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(outPath, []byte(htmlContent), filePermissions); err != nil {
		result.Err = fmt.Errorf("writing %s: %w", outPath, err)
	}
	result.Duration = time.Since(start)
	return result
}
