package md2tex

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"
)

// Image references that browsers cannot render inline. LaTeX builds use
// .eps/.pdf graphics; the HTML tree carries .svg/.webp siblings instead.
var (
	epsImagePattern = regexp.MustCompile(`src="images/(.*?)\.eps"`)
	pdfImagePattern = regexp.MustCompile(`src="images/(.*?)\.pdf"`)
)

// ImageRewriter rewrites image references in every .html file of a
// directory in place: .eps sources become .svg, .pdf sources become .webp.
type ImageRewriter struct {
	Dir     string
	Workers int
}

// Run rewrites all .html files. Per-file I/O errors are collected in the
// report; only an unusable directory is fatal.
func (rw *ImageRewriter) Run(ctx context.Context) (*RunReport, error) {
	files, err := globDir(rw.Dir, "*.html")
	if err != nil {
		return nil, err
	}
	results := forEachFile(ctx, files, ResolveWorkers(rw.Workers), rewriteImagePaths)
	return &RunReport{Results: results}, nil
}

// rewriteImagePaths applies both substitutions to one file.
func rewriteImagePaths(path string) FileResult {
	start := time.Now()
	result := FileResult{Path: path}

	data, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("reading %s: %w", path, err)
		result.Duration = time.Since(start)
		return result
	}

	content := epsImagePattern.ReplaceAllString(string(data), `src="./images/$1.svg"`)
	content = pdfImagePattern.ReplaceAllString(content, `src="./images/$1.webp"`)

	if err := os.WriteFile(path, []byte(content), filePermissions); err != nil {
		result.Err = fmt.Errorf("writing %s: %w", path, err)
	}
	result.Duration = time.Since(start)
	return result
}
