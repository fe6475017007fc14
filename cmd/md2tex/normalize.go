package main

import (
	"context"
	"fmt"
	"path/filepath"

	md2tex "github.com/ju1-eu/go-md2tex"
	"github.com/ju1-eu/go-md2tex/internal/fileutil"
)

// runNormalizeCmd rewrites the .tex tree through the rule pipeline.
func runNormalizeCmd(args []string, env *Environment) int {
	f, err := parseNormalizeFlags(args)
	if err != nil {
		return ExitUsage
	}

	cfg, err := loadConfig(&f.common)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	texDir := pick(f.texDir, cfg.Paths.Tex)

	normCfg := md2tex.DefaultNormalizeConfig(texDir)
	normCfg.Workers = f.common.workers
	normCfg.Citations = f.withCitations || cfg.Normalize.Citations
	if cfg.Normalize.ImageWidth != "" {
		normCfg.ImageWidth = cfg.Normalize.ImageWidth
	}
	if cfg.Normalize.ImageHeight != "" {
		normCfg.ImageHeight = cfg.Normalize.ImageHeight
	}
	if table := md2tex.LabelReplacementsFromMap(cfg.Normalize.Labels); table != nil {
		normCfg.LabelReplacements = table
	}

	if f.backup || cfg.Normalize.Backup {
		if err := snapshotTexFiles(texDir); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return ExitGeneral
		}
	}

	report, err := md2tex.NewNormalizer(normCfg).Run(context.Background())
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}
	if report.Attempted() == 0 && !f.common.quiet {
		fmt.Fprintf(env.Stdout, "no .tex files in %s\n", texDir)
	}

	failed := printReport(report, f.common.quiet, f.common.verbose, env)

	if f.clearBackups && failed == 0 {
		removed, err := fileutil.RemoveBackups(texDir)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return ExitGeneral
		}
		if !f.common.quiet && removed > 0 {
			fmt.Fprintf(env.Stdout, "removed %d backup files\n", removed)
		}
	}

	return exitCodeFor(failed)
}

// snapshotTexFiles writes a .bak copy of every .tex file before the run.
func snapshotTexFiles(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.tex"))
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	for _, path := range files {
		if err := fileutil.WriteBackup(path); err != nil {
			return err
		}
	}
	return nil
}
