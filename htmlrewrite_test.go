package md2tex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRewriteImagePaths(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "eps becomes svg",
			content: `<img src="images/kolben.eps" alt="Kolben">`,
			want:    `<img src="./images/kolben.svg" alt="Kolben">`,
		},
		{
			name:    "pdf becomes webp",
			content: `<img src="images/diagramm.pdf">`,
			want:    `<img src="./images/diagramm.webp">`,
		},
		{
			name:    "mixed references in one file",
			content: `<img src="images/a.eps"><img src="images/b.pdf">`,
			want:    `<img src="./images/a.svg"><img src="./images/b.webp">`,
		},
		{
			name:    "other formats untouched",
			content: `<img src="images/foto.png"><img src="other/c.eps">`,
			want:    `<img src="images/foto.png"><img src="other/c.eps">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, t.TempDir(), "page.html", tt.content)

			result := rewriteImagePaths(path)
			if result.Err != nil {
				t.Fatalf("unexpected error: %v", result.Err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading result: %v", err)
			}
			if got := string(data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageRewriterRun(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.html", `<img src="images/x.eps">`)
	writeTestFile(t, dir, "b.html", `<img src="images/y.pdf">`)
	writeTestFile(t, dir, "notes.txt", `src="images/z.eps"`)

	rw := &ImageRewriter{Dir: dir, Workers: 2}
	report, err := rw.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Attempted() != 2 {
		t.Errorf("attempted = %d, want 2 (txt file excluded)", report.Attempted())
	}
	if report.Failed() != 0 {
		t.Errorf("failed = %d, want 0", report.Failed())
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.html"))
	if err != nil {
		t.Fatalf("reading a.html: %v", err)
	}
	if !strings.Contains(string(data), ".svg") {
		t.Errorf("a.html not rewritten: %s", data)
	}
}

func TestImageRewriterRunMissingDir(t *testing.T) {
	rw := &ImageRewriter{Dir: "/nonexistent/html"}
	if _, err := rw.Run(context.Background()); !errors.Is(err, ErrSourceDirMissing) {
		t.Errorf("got %v, want ErrSourceDirMissing", err)
	}
}
