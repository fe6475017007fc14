package md2tex

import (
	"fmt"
	"sort"
	"time"
)

// RuleFunc transforms whole-document text. The filename is the base name of
// the file being processed; most rules ignore it. A rule must be a no-op on
// documents that do not contain its target pattern.
type RuleFunc func(content, filename string) (string, error)

// Rule is one named normalization step.
type Rule struct {
	Name  string
	Apply RuleFunc
}

// RuleError records a rule failure on one file. The rule's effect was
// skipped; the document kept its content from before the rule ran.
type RuleError struct {
	Rule string
	Err  error
}

func (e RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.Rule, e.Err)
}

func (e RuleError) Unwrap() error { return e.Err }

// LabelReplacement maps one escape token left by Pandoc for a non-ASCII
// letter to its ASCII transliteration.
type LabelReplacement struct {
	Token string
	ASCII string
}

// DefaultLabelReplacements covers the German umlauts and eszett as Pandoc
// encodes them in label arguments.
func DefaultLabelReplacements() []LabelReplacement {
	return []LabelReplacement{
		{Token: "uxfc", ASCII: "ue"},
		{Token: "uxf6", ASCII: "oe"},
		{Token: "uxe4", ASCII: "ae"},
		{Token: "uxdf", ASCII: "ss"},
	}
}

// Default image sizing injected into \includegraphics when the options are
// missing or carry neither width nor height.
const (
	DefaultImageWidth  = "0.8"
	DefaultImageHeight = "0.6"
)

// bannerTimeFormat matches the dd-MMM-yy timestamps used in the "% ju"
// banner comments.
const bannerTimeFormat = "02-Jan-06"

// NormalizeConfig holds the fixed parameters of a normalization run.
// Build it once per run; the pipeline never mutates it.
type NormalizeConfig struct {
	// Dir contains the .tex files to rewrite in place.
	Dir string

	// ImageWidth and ImageHeight are fractions of \textwidth and
	// \textheight injected into unsized figures.
	ImageWidth  string
	ImageHeight string

	// LabelReplacements is the token transliteration table for \label
	// arguments.
	LabelReplacements []LabelReplacement

	// Timestamp is the literal date stamped into the banner line.
	Timestamp string

	// Citations enables the textcite/passthrough cleanup rules that run
	// after the standard chain.
	Citations bool

	// Workers bounds concurrent file processing. Zero means automatic
	// sizing from GOMAXPROCS.
	Workers int
}

// DefaultNormalizeConfig returns the standard configuration for dir, with
// the banner timestamp fixed to today.
func DefaultNormalizeConfig(dir string) NormalizeConfig {
	return NormalizeConfig{
		Dir:               dir,
		ImageWidth:        DefaultImageWidth,
		ImageHeight:       DefaultImageHeight,
		LabelReplacements: DefaultLabelReplacements(),
		Timestamp:         time.Now().Format(bannerTimeFormat),
	}
}

// LabelReplacementsFromMap converts a token-to-ASCII map (e.g. from YAML
// config) into a deterministic replacement table sorted by token.
func LabelReplacementsFromMap(m map[string]string) []LabelReplacement {
	if len(m) == 0 {
		return nil
	}
	table := make([]LabelReplacement, 0, len(m))
	for token, ascii := range m {
		table = append(table, LabelReplacement{Token: token, ASCII: ascii})
	}
	sort.Slice(table, func(i, j int) bool { return table[i].Token < table[j].Token })
	return table
}

// Pipeline is a fixed, ordered rule sequence. Order is a correctness
// invariant: later rules assume earlier ones already normalized specific
// constructs (figure blocks before labels, code spans before citation
// cleanup).
type Pipeline struct {
	rules []Rule
}

// NewPipeline builds the standard rule chain for cfg.
func NewPipeline(cfg NormalizeConfig) *Pipeline {
	rules := []Rule{
		{Name: "banner", Apply: bannerRule(cfg.Timestamp)},
		{Name: "figure", Apply: figureRule(cfg.ImageWidth, cfg.ImageHeight)},
		{Name: "replacements", Apply: simpleReplacementsRule()},
		{Name: "labels", Apply: labelRule(cfg.LabelReplacements)},
		{Name: "inline-code", Apply: inlineCodeRule()},
		{Name: "longtable", Apply: longtableRule()},
		{Name: "table-reflow", Apply: tableReflowRule()},
		{Name: "math-delimiters", Apply: mathDelimiterRule()},
		{Name: "pandoc-bounded", Apply: pandocBoundedRule()},
	}
	if cfg.Citations {
		rules = append(rules,
			Rule{Name: "textcite", Apply: textciteRule()},
			Rule{Name: "passthrough", Apply: passthroughRule()},
		)
	}
	return &Pipeline{rules: rules}
}

// Rules returns the rule names in execution order.
func (p *Pipeline) Rules() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name
	}
	return names
}

// Run folds content through the rule chain. A failing rule is recorded and
// skipped: the content passed to the next rule is the value from before the
// failing rule. The returned content is always usable, even when errs is
// non-empty.
func (p *Pipeline) Run(content, filename string) (string, []RuleError) {
	var errs []RuleError
	for _, rule := range p.rules {
		next, err := rule.Apply(content, filename)
		if err != nil {
			errs = append(errs, RuleError{Rule: rule.Name, Err: err})
			continue
		}
		content = next
	}
	return content, errs
}
