package md2tex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func newTestNormalizer(dir string) *Normalizer {
	cfg := DefaultNormalizeConfig(dir)
	cfg.Timestamp = testTimestamp
	cfg.Workers = 1
	return NewNormalizer(cfg)
}

func TestNormalizerRun(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "kapitel.tex", "\\(x+y\\)\n\\label{uxfcbersicht}\n")

	report, err := newTestNormalizer(dir).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Attempted() != 1 || report.Full() != 1 {
		t.Errorf("attempted=%d full=%d, want 1/1", report.Attempted(), report.Full())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "% ju 26-Nov-24 kapitel.tex\n") {
		t.Errorf("banner missing: %q", content)
	}
	if !strings.Contains(content, "$x+y$") {
		t.Errorf("math not converted: %q", content)
	}
	if !strings.Contains(content, "\\label{uebersicht}") {
		t.Errorf("label not transliterated: %q", content)
	}
}

func TestNormalizerRunPartialFailure(t *testing.T) {
	dir := t.TempDir()
	goodPath := writeTestFile(t, dir, "a.tex", "\\(x\\)\n")
	badPath := writeTestFile(t, dir, "b.tex", "\\(y\\)\n\\passthrough{\\lstinline!broken\n")

	report, err := newTestNormalizer(dir).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Attempted() != 2 {
		t.Fatalf("attempted = %d, want 2", report.Attempted())
	}
	if report.Full() != 1 {
		t.Errorf("full = %d, want 1", report.Full())
	}
	if report.PartialCount() != 1 {
		t.Errorf("partial = %d, want 1", report.PartialCount())
	}
	if report.Failed() != 0 {
		t.Errorf("failed = %d, want 0", report.Failed())
	}

	// a.tex fully transformed.
	good, _ := os.ReadFile(goodPath)
	if !strings.Contains(string(good), "$x$") {
		t.Errorf("a.tex not transformed: %q", good)
	}

	// b.tex still written, all rules except inline-code applied.
	bad, _ := os.ReadFile(badPath)
	if !strings.Contains(string(bad), "$y$") {
		t.Errorf("b.tex math not converted: %q", bad)
	}
	if !strings.HasPrefix(string(bad), "% ju") {
		t.Errorf("b.tex banner missing: %q", bad)
	}
	if !strings.Contains(string(bad), "\\passthrough{\\lstinline!broken") {
		t.Errorf("b.tex failed rule should be a no-op: %q", bad)
	}

	var partial *FileResult
	for i := range report.Results {
		if report.Results[i].Partial() {
			partial = &report.Results[i]
		}
	}
	if partial == nil {
		t.Fatal("no partial result recorded")
	}
	if partial.Path != badPath {
		t.Errorf("partial path = %s, want %s", partial.Path, badPath)
	}
	if len(partial.RuleErrors) != 1 || partial.RuleErrors[0].Rule != "inline-code" {
		t.Errorf("rule errors = %v", partial.RuleErrors)
	}
}

func TestNormalizerRunEmptyDir(t *testing.T) {
	report, err := newTestNormalizer(t.TempDir()).Run(context.Background())
	if err != nil {
		t.Fatalf("empty directory must not error: %v", err)
	}
	if report.Attempted() != 0 {
		t.Errorf("attempted = %d, want 0", report.Attempted())
	}
}

func TestNormalizerRunMissingDir(t *testing.T) {
	norm := newTestNormalizer(filepath.Join(t.TempDir(), "nope"))
	_, err := norm.Run(context.Background())
	if !errors.Is(err, ErrSourceDirMissing) {
		t.Errorf("got %v, want ErrSourceDirMissing", err)
	}
}

func TestNormalizerRunIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.tex", "\\(x\\)\n")

	norm := newTestNormalizer(dir)
	if _, err := norm.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, _ := os.ReadFile(path)

	if _, err := norm.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Errorf("second run changed content:\n%q\nvs\n%q", first, second)
	}
}

func TestNormalizerRunParallel(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.tex", "b.tex", "c.tex", "d.tex"} {
		writeTestFile(t, dir, name, "\\(x\\)\n")
	}

	cfg := DefaultNormalizeConfig(dir)
	cfg.Timestamp = testTimestamp
	cfg.Workers = 4

	report, err := NewNormalizer(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Full() != 4 {
		t.Errorf("full = %d, want 4", report.Full())
	}

	// Results keep discovery order regardless of scheduling.
	for i, want := range []string{"a.tex", "b.tex", "c.tex", "d.tex"} {
		if filepath.Base(report.Results[i].Path) != want {
			t.Errorf("results[%d] = %s, want %s", i, report.Results[i].Path, want)
		}
	}
}

func TestNormalizerRunCancelled(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.tex", "\\(x\\)\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestNormalizer(dir).Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Failed() != 1 {
		t.Errorf("failed = %d, want 1", report.Failed())
	}
	if !errors.Is(report.Results[0].Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", report.Results[0].Err)
	}
}

func TestResolveWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		check   func(int) bool
	}{
		{name: "explicit value wins", workers: 3, check: func(n int) bool { return n == 3 }},
		{name: "auto stays within bounds", workers: 0, check: func(n int) bool { return n >= MinWorkers && n <= MaxWorkers }},
		{name: "negative treated as auto", workers: -1, check: func(n int) bool { return n >= MinWorkers && n <= MaxWorkers }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveWorkers(tt.workers); !tt.check(got) {
				t.Errorf("ResolveWorkers(%d) = %d", tt.workers, got)
			}
		})
	}
}
