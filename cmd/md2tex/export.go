package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	md2tex "github.com/ju1-eu/go-md2tex"
)

// runExportCmd renders the HTML tree to PDF with a pool of headless
// browsers.
func runExportCmd(args []string, env *Environment) int {
	f, err := parseExportFlags(args)
	if err != nil {
		return ExitUsage
	}

	cfg, err := loadConfig(&f.common)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	var exportOpts []md2tex.ExportOption
	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			fmt.Fprintf(env.Stderr, "invalid timeout: %q\n", f.timeout)
			return ExitUsage
		}
		exportOpts = append(exportOpts, md2tex.WithExportTimeout(d))
	}

	htmlDir := pick(f.htmlDir, cfg.Paths.HTML)
	pdfDir := pick(f.pdfDir, cfg.Paths.PDF)

	files, err := filepath.Glob(filepath.Join(htmlDir, "*.html"))
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}
	if len(files) == 0 {
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "no .html files in %s\n", htmlDir)
		}
		return ExitSuccess
	}
	if err := os.MkdirAll(pdfDir, dirPermissions); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	workers := md2tex.ResolveWorkers(f.common.workers)
	pool := md2tex.NewExporterPool(workers, exportOpts...)
	defer pool.Close()

	results := exportBatch(context.Background(), pool, files, pdfDir)
	report := &md2tex.RunReport{Results: results}
	return exitCodeFor(printReport(report, f.common.quiet, f.common.verbose, env))
}

// exportBatch renders files concurrently using the exporter pool.
func exportBatch(ctx context.Context, pool *md2tex.ExporterPool, files []string, pdfDir string) []md2tex.FileResult {
	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]md2tex.FileResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp := pool.Acquire()
			defer pool.Release(exp)

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = md2tex.FileResult{Path: files[idx], Err: err}
					continue
				}
				results[idx] = exportFile(ctx, exp, files[idx], pdfDir)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// exportFile renders one HTML file into pdfDir.
func exportFile(ctx context.Context, exp *md2tex.Exporter, htmlPath, pdfDir string) md2tex.FileResult {
	start := time.Now()
	result := md2tex.FileResult{Path: htmlPath}

	base := strings.TrimSuffix(filepath.Base(htmlPath), filepath.Ext(htmlPath))
	pdfPath := filepath.Join(pdfDir, base+".pdf")

	result.Err = exp.ExportFile(ctx, htmlPath, pdfPath)
	result.Duration = time.Since(start)
	return result
}
