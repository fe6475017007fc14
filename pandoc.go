package md2tex

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// LaTeXOptions configures Markdown to LaTeX conversion.
type LaTeXOptions struct {
	Template  string // LaTeX template path (required)
	LuaFilter string // Lua filter path (optional)
}

// HTMLOptions configures Markdown to HTML conversion.
type HTMLOptions struct {
	CSS            string   // stylesheet linked into the output (optional)
	CSL            string   // citation style file (optional)
	Bibliographies []string // BibTeX/CSL bibliography files
}

// PandocConverter drives the pandoc CLI for document conversion.
type PandocConverter struct {
	Runner CommandRunner
}

// NewPandocConverter creates a PandocConverter with a real command runner.
func NewPandocConverter() *PandocConverter {
	return &PandocConverter{Runner: &ExecRunner{}}
}

// IsInstalled reports whether pandoc can be executed on this system.
func (c *PandocConverter) IsInstalled() bool {
	_, _, err := c.Runner.Run("pandoc", "--version")
	return err == nil
}

// Version returns the first line of pandoc --version output.
func (c *PandocConverter) Version() (string, error) {
	stdout, stderr, err := c.Runner.Run("pandoc", "--version")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPandocNotFound, strings.TrimSpace(stderr))
	}
	if line, _, found := strings.Cut(stdout, "\n"); found {
		return line, nil
	}
	return strings.TrimSpace(stdout), nil
}

// FileToLaTeX converts one Markdown file to LaTeX. The document title is
// derived from the source file name; listings mode keeps code blocks
// verbatim for the lstlisting environment.
func (c *PandocConverter) FileToLaTeX(src, dst string, opts LaTeXOptions) error {
	title := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	args := []string{
		src,
		"--to", "latex",
		"--output", dst,
		"--template", opts.Template,
	}
	if opts.LuaFilter != "" {
		args = append(args, "--lua-filter", opts.LuaFilter)
	}
	args = append(args, "--variable", "title:"+title, "--listings")

	return c.run(src, args)
}

// FileToHTML converts one Markdown file to HTML with MathJax and citeproc
// citation resolution.
func (c *PandocConverter) FileToHTML(src, dst string, opts HTMLOptions) error {
	args := []string{src, "-o", dst}
	if opts.CSS != "" {
		args = append(args, "-c", opts.CSS)
	}
	args = append(args, "--mathjax", "--citeproc")
	if opts.CSL != "" {
		args = append(args, "--csl", opts.CSL)
	}
	for _, bib := range opts.Bibliographies {
		args = append(args, "--bibliography", bib)
	}

	return c.run(src, args)
}

// run executes pandoc and folds captured stderr into the error.
func (c *PandocConverter) run(src string, args []string) error {
	_, stderr, err := c.Runner.Run("pandoc", args...)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: %s: %s", ErrPandocConversion, src, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrPandocConversion, src, err)
	}
	return nil
}
