package md2tex

import (
	"errors"
	"strings"
	"testing"
)

func testConfig() NormalizeConfig {
	cfg := DefaultNormalizeConfig("./tex")
	cfg.Timestamp = testTimestamp
	return cfg
}

func TestPipelineRuleOrder(t *testing.T) {
	p := NewPipeline(testConfig())

	want := []string{
		"banner", "figure", "replacements", "labels", "inline-code",
		"longtable", "table-reflow", "math-delimiters", "pandoc-bounded",
	}
	got := p.Rules()
	if len(got) != len(want) {
		t.Fatalf("rule count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rule[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPipelineCitationRulesAppended(t *testing.T) {
	cfg := testConfig()
	cfg.Citations = true
	p := NewPipeline(cfg)

	rules := p.Rules()
	if len(rules) != 11 {
		t.Fatalf("rule count = %d, want 11", len(rules))
	}
	if rules[9] != "textcite" || rules[10] != "passthrough" {
		t.Errorf("citation rules = %v, want textcite, passthrough", rules[9:])
	}
}

func TestPipelineRun(t *testing.T) {
	p := NewPipeline(testConfig())

	input := "\\(x+y\\)\n\\label{uxfcbersicht}\n\\pandocbounded{Y}"
	got, errs := p.Run(input, "doc.tex")
	if len(errs) != 0 {
		t.Fatalf("unexpected rule errors: %v", errs)
	}

	want := "% ju 26-Nov-24 doc.tex\n$x+y$\n\\label{uebersicht}\nY"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPipelineRunIsolatesFailingRule(t *testing.T) {
	p := NewPipeline(testConfig())

	// Unterminated code span makes the inline-code rule fail; every other
	// rule must still apply.
	input := "\\(x\\)\n\\passthrough{\\lstinline!broken"
	got, errs := p.Run(input, "doc.tex")

	if len(errs) != 1 {
		t.Fatalf("rule errors = %v, want exactly one", errs)
	}
	if errs[0].Rule != "inline-code" {
		t.Errorf("failing rule = %s, want inline-code", errs[0].Rule)
	}
	if !errors.Is(errs[0], ErrUnterminatedCode) {
		t.Errorf("cause = %v, want ErrUnterminatedCode", errs[0].Err)
	}

	if !strings.HasPrefix(got, "% ju 26-Nov-24 doc.tex\n") {
		t.Errorf("banner missing: %q", got)
	}
	if !strings.Contains(got, "$x$") {
		t.Errorf("math rule not applied: %q", got)
	}
	if !strings.Contains(got, "\\passthrough{\\lstinline!broken") {
		t.Errorf("failed rule should leave its target untouched: %q", got)
	}
}

func TestRuleErrorMessage(t *testing.T) {
	err := RuleError{Rule: "labels", Err: errors.New("boom")}
	if err.Error() != "rule labels: boom" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestLabelReplacementsFromMap(t *testing.T) {
	t.Run("empty map yields nil", func(t *testing.T) {
		if got := LabelReplacementsFromMap(nil); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("table sorted by token", func(t *testing.T) {
		got := LabelReplacementsFromMap(map[string]string{
			"uxfc": "ue",
			"uxe4": "ae",
		})
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].Token != "uxe4" || got[1].Token != "uxfc" {
			t.Errorf("unexpected order: %v", got)
		}
	})
}

func TestDefaultNormalizeConfig(t *testing.T) {
	cfg := DefaultNormalizeConfig("./tex")

	if cfg.Dir != "./tex" {
		t.Errorf("Dir = %s", cfg.Dir)
	}
	if cfg.ImageWidth != DefaultImageWidth || cfg.ImageHeight != DefaultImageHeight {
		t.Errorf("image defaults = %s/%s", cfg.ImageWidth, cfg.ImageHeight)
	}
	if len(cfg.LabelReplacements) != 4 {
		t.Errorf("label table size = %d, want 4", len(cfg.LabelReplacements))
	}
	if cfg.Timestamp == "" {
		t.Error("timestamp not set")
	}
}
