package md2tex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTexBatchRun(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "tex")
	writeTestFile(t, srcDir, "motor.md", "# Motor\n")
	writeTestFile(t, srcDir, "getriebe.md", "# Getriebe\n")
	template := writeTestFile(t, srcDir, "vorlage.tex", "\\documentclass{article}\n")

	runner := &fakeRunner{}
	batch := &TexBatch{
		Pandoc:    &PandocConverter{Runner: runner},
		SourceDir: srcDir,
		TargetDir: dstDir,
		Template:  template,
		Workers:   1,
	}

	report, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Attempted() != 2 || report.Full() != 2 {
		t.Errorf("attempted=%d full=%d, want 2/2", report.Attempted(), report.Full())
	}

	// One probe call plus one conversion per file.
	if len(runner.calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(runner.calls))
	}

	if _, err := os.Stat(dstDir); err != nil {
		t.Errorf("target directory not created: %v", err)
	}
}

func TestTexBatchRunPandocMissing(t *testing.T) {
	batch := &TexBatch{
		Pandoc:    &PandocConverter{Runner: &fakeRunner{err: errors.New("not found")}},
		SourceDir: t.TempDir(),
		TargetDir: t.TempDir(),
		Template:  "t.tex",
	}

	_, err := batch.Run(context.Background())
	if !errors.Is(err, ErrPandocNotFound) {
		t.Errorf("got %v, want ErrPandocNotFound", err)
	}
}

func TestTexBatchRunTemplateMissing(t *testing.T) {
	batch := &TexBatch{
		Pandoc:    &PandocConverter{Runner: &fakeRunner{}},
		SourceDir: t.TempDir(),
		TargetDir: t.TempDir(),
		Template:  filepath.Join(t.TempDir(), "missing.tex"),
	}

	_, err := batch.Run(context.Background())
	if !errors.Is(err, ErrTemplateMissing) {
		t.Errorf("got %v, want ErrTemplateMissing", err)
	}
}

func TestHTMLBatchRun(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "html")
	writeTestFile(t, srcDir, "motor.md", "# Motor\n")

	runner := &fakeRunner{}
	batch := &HTMLBatch{
		Pandoc:         &PandocConverter{Runner: runner},
		SourceDir:      srcDir,
		TargetDir:      dstDir,
		CSS:            "style.css",
		Bibliographies: []string{"lit.bib"},
		Workers:        1,
	}

	report, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Full() != 1 {
		t.Errorf("full = %d, want 1", report.Full())
	}
}

func TestHTMLBatchRunCollectsPerFileFailures(t *testing.T) {
	srcDir := t.TempDir()
	writeTestFile(t, srcDir, "kaputt.md", "# Kaputt\n")

	// Probe succeeds on the first call, the conversion fails.
	runner := &failAfterRunner{failFrom: 1, stderr: "citeproc: missing lit.bib"}
	batch := &HTMLBatch{
		Pandoc:    &PandocConverter{Runner: runner},
		SourceDir: srcDir,
		TargetDir: t.TempDir(),
		Workers:   1,
	}

	report, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Failed() != 1 {
		t.Fatalf("failed = %d, want 1", report.Failed())
	}
	if !errors.Is(report.Results[0].Err, ErrPandocConversion) {
		t.Errorf("err = %v, want ErrPandocConversion", report.Results[0].Err)
	}
}

// failAfterRunner succeeds for the first failFrom calls, then fails.
type failAfterRunner struct {
	calls    int
	failFrom int
	stderr   string
}

func (r *failAfterRunner) Run(name string, args ...string) (string, string, error) {
	r.calls++
	if r.calls > r.failFrom {
		return "", r.stderr, errors.New("exit status 1")
	}
	return "pandoc 3.1\n", "", nil
}

func TestTargetPath(t *testing.T) {
	tests := []struct {
		name string
		src  string
		dir  string
		ext  string
		want string
	}{
		{name: "md to tex", src: "md/motor.md", dir: "tex", ext: ".tex", want: filepath.Join("tex", "motor.tex")},
		{name: "md to html", src: "notes/a.md", dir: "out", ext: ".html", want: filepath.Join("out", "a.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := targetPath(tt.src, tt.dir, tt.ext); got != tt.want {
				t.Errorf("targetPath() = %s, want %s", got, tt.want)
			}
		})
	}
}
