package md2tex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"
)

// filePermissions is used when rewriting documents in place.
const filePermissions = 0o644

// Worker bounds for batch processing.
const (
	// MinWorkers ensures at least one file is in flight.
	MinWorkers = 1

	// MaxWorkers caps concurrency; the work is I/O-light and more
	// goroutines than this stop paying off.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for external tool subprocesses.
	cpuDivisor = 2
)

// ResolveWorkers determines the worker count for batch runs.
// An explicit positive value wins; otherwise the count derives from
// GOMAXPROCS (adjusted by automaxprocs in the CLI).
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// FileResult is the outcome for one processed file.
type FileResult struct {
	Path string

	// Err is a file-level failure (unreadable, unwritable). When set,
	// the file was excluded and RuleErrors is empty.
	Err error

	// RuleErrors lists rules that failed and were skipped for this
	// file. The file was still written with all other rules applied.
	RuleErrors []RuleError

	Duration time.Duration
}

// Partial reports whether the file was written but with one or more rules
// skipped.
func (r FileResult) Partial() bool {
	return r.Err == nil && len(r.RuleErrors) > 0
}

// RunReport aggregates one batch run. It lives only for the invocation;
// nothing is persisted.
type RunReport struct {
	Results []FileResult
}

// Attempted returns the number of files the run touched.
func (r *RunReport) Attempted() int { return len(r.Results) }

// Full returns the number of files processed with every rule applied.
func (r *RunReport) Full() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil && len(res.RuleErrors) == 0 {
			n++
		}
	}
	return n
}

// PartialCount returns the number of files written with at least one rule
// skipped.
func (r *RunReport) PartialCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Partial() {
			n++
		}
	}
	return n
}

// Failed returns the number of files excluded by file-level errors.
func (r *RunReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Normalizer rewrites every .tex file in a directory through the rule
// pipeline. Files are independent; within a file, rule order is fixed.
type Normalizer struct {
	cfg      NormalizeConfig
	pipeline *Pipeline
}

// NewNormalizer builds a Normalizer with the pipeline derived from cfg.
func NewNormalizer(cfg NormalizeConfig) *Normalizer {
	return &Normalizer{cfg: cfg, pipeline: NewPipeline(cfg)}
}

// Run processes all .tex files in the configured directory in place.
// A missing or unreadable directory is the only fatal condition; an empty
// directory yields an empty report and no error. Individual file and rule
// failures are collected in the report.
func (n *Normalizer) Run(ctx context.Context) (*RunReport, error) {
	files, err := globDir(n.cfg.Dir, "*.tex")
	if err != nil {
		return nil, err
	}
	results := forEachFile(ctx, files, ResolveWorkers(n.cfg.Workers), n.processFile)
	return &RunReport{Results: results}, nil
}

// processFile reads one document, folds it through the pipeline, and
// writes the result back to the same path.
func (n *Normalizer) processFile(path string) FileResult {
	start := time.Now()
	result := FileResult{Path: path}

	data, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("reading %s: %w", path, err)
		result.Duration = time.Since(start)
		return result
	}

	content, ruleErrs := n.pipeline.Run(string(data), filepath.Base(path))
	result.RuleErrors = ruleErrs

	if err := os.WriteFile(path, []byte(content), filePermissions); err != nil {
		result.Err = fmt.Errorf("writing %s: %w", path, err)
		result.RuleErrors = nil
	}

	result.Duration = time.Since(start)
	return result
}

// globDir lists files matching pattern directly under dir (non-recursive),
// sorted for deterministic reporting. A missing directory is an error;
// zero matches is not.
func globDir(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceDirMissing, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceDirMissing, dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// forEachFile runs fn over files with a bounded worker pool. Results keep
// the input order. Files queued after context cancellation are marked
// failed with the context error.
func forEachFile(ctx context.Context, files []string, workers int, fn func(path string) FileResult) []FileResult {
	if len(files) == 0 {
		return nil
	}
	if workers > len(files) {
		workers = len(files)
	}

	results := make([]FileResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = FileResult{Path: files[idx], Err: err}
					continue
				}
				results[idx] = fn(files[idx])
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
