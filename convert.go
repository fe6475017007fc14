package md2tex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// dirPermissions is used when creating target directories.
const dirPermissions = 0o750

// TexBatch converts every Markdown file in SourceDir to LaTeX in TargetDir
// via pandoc. Conversions are independent and run on a bounded worker pool.
type TexBatch struct {
	Pandoc    *PandocConverter
	SourceDir string
	TargetDir string
	Template  string
	LuaFilter string
	Workers   int
}

// Run converts all .md files. A missing source directory or template is
// fatal; individual pandoc failures are collected per file in the report.
func (b *TexBatch) Run(ctx context.Context) (*RunReport, error) {
	if !b.Pandoc.IsInstalled() {
		return nil, ErrPandocNotFound
	}
	if _, err := os.Stat(b.Template); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, b.Template)
	}

	files, err := globDir(b.SourceDir, "*.md")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(b.TargetDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}

	opts := LaTeXOptions{Template: b.Template, LuaFilter: b.LuaFilter}
	results := forEachFile(ctx, files, ResolveWorkers(b.Workers), func(path string) FileResult {
		start := time.Now()
		result := FileResult{Path: path}
		result.Err = b.Pandoc.FileToLaTeX(path, targetPath(path, b.TargetDir, ".tex"), opts)
		result.Duration = time.Since(start)
		return result
	})
	return &RunReport{Results: results}, nil
}

// HTMLBatch converts every Markdown file in SourceDir to HTML in TargetDir
// via pandoc, with citation resolution and a linked stylesheet.
type HTMLBatch struct {
	Pandoc         *PandocConverter
	SourceDir      string
	TargetDir      string
	CSS            string
	CSL            string
	Bibliographies []string
	Workers        int
}

// Run converts all .md files. Missing referenced style or bibliography
// files are pandoc's concern and surface as per-file failures.
func (b *HTMLBatch) Run(ctx context.Context) (*RunReport, error) {
	if !b.Pandoc.IsInstalled() {
		return nil, ErrPandocNotFound
	}

	files, err := globDir(b.SourceDir, "*.md")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(b.TargetDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}

	opts := HTMLOptions{CSS: b.CSS, CSL: b.CSL, Bibliographies: b.Bibliographies}
	results := forEachFile(ctx, files, ResolveWorkers(b.Workers), func(path string) FileResult {
		start := time.Now()
		result := FileResult{Path: path}
		result.Err = b.Pandoc.FileToHTML(path, targetPath(path, b.TargetDir, ".html"), opts)
		result.Duration = time.Since(start)
		return result
	})
	return &RunReport{Results: results}, nil
}

// targetPath maps a source file into dir with a new extension.
func targetPath(src, dir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(dir, base+ext)
}
