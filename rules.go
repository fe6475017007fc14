package md2tex

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled patterns for the rule chain. These match Pandoc's LaTeX
// output shapes, not arbitrary LaTeX; anything else passes through.
var (
	// \begin{figure} \centering \includegraphics[opts]{path}, possibly
	// spread over several lines.
	figurePattern = regexp.MustCompile(`(?s)(\\begin\{figure\}\s*\\centering\s*)(\\includegraphics)(\[.*?\])?(\{.*?\})(?:\n%\\floatnotes\{\}\n%\\label\{fig:\})?`)

	// \label{...} cross-reference anchors.
	labelPattern = regexp.MustCompile(`\\label\{([^}]*?)\}`)

	// Pandoc's listings passthrough for inline code.
	inlineCodePattern = regexp.MustCompile(`\\passthrough\{\\lstinline!(.*?)!\}`)

	// Multi-page table environment with a braced column spec.
	longtablePattern = regexp.MustCompile(`(?s)\\begin\{longtable\}\[\]\{@\{\}(.*?)@\{\}\}(.*?)\\end\{longtable\}`)

	// longtable header/footer control rows stripped during conversion.
	longtableControls = []*regexp.Regexp{
		regexp.MustCompile(`\\toprule\\noalign\{\}\n`),
		regexp.MustCompile(`\\noalign\{\}\n\\endhead\n`),
		regexp.MustCompile(`\\bottomrule\\noalign\{\}\n\\endlastfoot\n`),
	}

	// tabular whose column spec wraps paragraph columns in \raggedright.
	raggedTabularPattern = regexp.MustCompile(`(?s)\\begin\{tabular\}\{@\{\}\s*>\s*\{\\raggedright.*?\\end\{tabular\}`)

	// Row content between the rules of a table.
	tableContentPattern = regexp.MustCompile(`(?s)\\toprule(.*?)\\bottomrule`)

	// minipage wrapper tags Pandoc nests inside paragraph cells.
	minipagePattern = regexp.MustCompile(`\\begin\{minipage\}\[.*?\]\{.*?\}\\raggedright|\\end\{minipage\}`)

	// Inline math escape delimiters, opening and closing.
	mathDelimiterPattern = regexp.MustCompile(`\\\(|\\\)`)

	// \pandocbounded{...} wrapper emitted around sized images.
	pandocBoundedPattern = regexp.MustCompile(`\\pandocbounded\{(.*?)\}`)

	// {[}@prefix:name:suffix{]} citation leftovers from listings mode.
	textcitePattern = regexp.MustCompile(`\{\[\}@([^:]+:[^:]+:[^\]]+)\{\]\}`)
)

// bannerPrefix marks the generated timestamp comment line.
const bannerPrefix = "% ju"

// cell and row separators used for column inference.
const (
	cellSeparator = "&"
	rowTerminator = `\\`
)

// extractionFailedPlaceholder replaces a table body that could not be
// located between \toprule and \bottomrule.
const extractionFailedPlaceholder = "Inhalt konnte nicht extrahiert werden."

// bannerRule removes every existing banner line and prepends exactly one
// fresh "% ju <date> <filename>" comment. Running it twice leaves a single
// banner.
func bannerRule(timestamp string) RuleFunc {
	return func(content, filename string) (string, error) {
		banner := fmt.Sprintf("%s %s %s", bannerPrefix, timestamp, filename)
		kept := make([]string, 0, 64)
		kept = append(kept, banner)
		for _, line := range strings.Split(content, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), bannerPrefix+" ") {
				continue
			}
			kept = append(kept, line)
		}
		return strings.Join(kept, "\n"), nil
	}
}

// figureRule standardizes figure blocks: unsized images get the default
// width/height/keepaspectratio options, sized ones keep their options, and
// commented caption/label placeholders are appended after the image.
// Existing placeholders are consumed by the match, so re-running keeps one
// copy.
func figureRule(width, height string) RuleFunc {
	defaults := fmt.Sprintf(`[width=%s\textwidth,height=%s\textheight,keepaspectratio]`, width, height)
	return func(content, _ string) (string, error) {
		out := figurePattern.ReplaceAllStringFunc(content, func(block string) string {
			sm := figurePattern.FindStringSubmatch(block)
			before, includegraphics, options, path := sm[1], sm[2], sm[3], sm[4]
			switch {
			case options == "":
				options = defaults
			case !strings.Contains(options, "width=") && !strings.Contains(options, "height="):
				options = options[:len(options)-1] + "," + defaults[1:]
			}
			return before + includegraphics + options + path + "\n%\\floatnotes{}\n%\\label{fig:}"
		})
		return out, nil
	}
}

// replacement is one literal substitution.
type replacement struct {
	old string
	new string
}

// simpleReplacements is applied in order. None of the outputs matches a
// later search string, so the table cannot cascade.
var simpleReplacements = []replacement{
	{old: `,height=\textheight`, new: ""},
	{old: "``", new: ">>"},
	{old: "''", new: "<<"},
	{old: `\tightlist`, new: ""},
	{old: `\midrule`, new: "\\midrule[\\heavyrulewidth]\n"},
}

// simpleReplacementsRule applies the fixed literal substitution table.
func simpleReplacementsRule() RuleFunc {
	return func(content, _ string) (string, error) {
		for _, r := range simpleReplacements {
			content = strings.ReplaceAll(content, r.old, r.new)
		}
		return content, nil
	}
}

// labelRule transliterates encoded umlaut tokens inside \label arguments.
// Text outside label constructs is never touched.
func labelRule(table []LabelReplacement) RuleFunc {
	return func(content, _ string) (string, error) {
		out := labelPattern.ReplaceAllStringFunc(content, func(label string) string {
			inner := labelPattern.FindStringSubmatch(label)[1]
			for _, r := range table {
				inner = strings.ReplaceAll(inner, r.Token, r.ASCII)
			}
			return `\label{` + inner + `}`
		})
		return out, nil
	}
}

// inlineCodeRule rewrites \passthrough{\lstinline!X!} to \verb|X| with the
// payload preserved byte for byte. A pipe inside the payload would break
// the \verb delimiter; payloads are assumed not to contain one.
// An opener without its closing "!}" on the same line is reported as an
// error and the rule is skipped for the file.
func inlineCodeRule() RuleFunc {
	const opener = `\passthrough{\lstinline!`
	return func(content, _ string) (string, error) {
		out := inlineCodePattern.ReplaceAllString(content, `\verb|$1|`)
		if strings.Contains(out, opener) {
			return "", ErrUnterminatedCode
		}
		return out, nil
	}
}

// longtableRule converts each longtable environment into an ordinary table:
// the long-table control rows are stripped from the body and the column
// spec carries over verbatim.
func longtableRule() RuleFunc {
	return func(content, _ string) (string, error) {
		out := longtablePattern.ReplaceAllStringFunc(content, func(block string) string {
			sm := longtablePattern.FindStringSubmatch(block)
			colSpec, body := sm[1], sm[2]
			for _, control := range longtableControls {
				body = control.ReplaceAllString(body, "")
			}
			return buildTableEnvironment(colSpec, body)
		})
		return out, nil
	}
}

// buildTableEnvironment emits the single-page table wrapper around cleaned
// longtable content.
func buildTableEnvironment(colSpec, body string) string {
	var b strings.Builder
	b.WriteString("\\begin{table}[ht]\n")
	b.WriteString("  %\\caption{}\n")
	b.WriteString("  %\\label{tab:my-table}\n")
	b.WriteString("  \\begin{tabular}{@{}" + colSpec + "@{}}\n")
	b.WriteString("  \\toprule\n")
	b.WriteString(body)
	b.WriteString("  \\bottomrule\n")
	b.WriteString("  \\end{tabular}%\n")
	b.WriteString("\\end{table}")
	return b.String()
}

// tableReflowRule rewrites ragged-right paragraph-column tabulars as plain
// left-aligned tables. The column count is inferred from the body: cell
// separators divided by row terminators plus one, defaulting to a single
// column when no row terminator is present.
func tableReflowRule() RuleFunc {
	return func(content, _ string) (string, error) {
		out := raggedTabularPattern.ReplaceAllStringFunc(content, func(block string) string {
			body := extractTableBody(block)
			cols := countColumns(body)
			return "\\begin{tabular}{@{}" + strings.Repeat("l", cols) + "@{}}\n" +
				"\\toprule\n" +
				body + "\n" +
				"\\bottomrule\n" +
				"\\end{tabular}"
		})
		return out, nil
	}
}

// extractTableBody pulls the row content between \toprule and \bottomrule
// and strips nested minipage wrappers. A block without locatable content
// yields a literal placeholder rather than an error.
func extractTableBody(block string) string {
	sm := tableContentPattern.FindStringSubmatch(block)
	if sm == nil {
		return extractionFailedPlaceholder
	}
	return strings.TrimSpace(minipagePattern.ReplaceAllString(sm[1], ""))
}

// countColumns infers the column count from separator tokens. Integer
// division matches the original layout: partial trailing rows round down.
func countColumns(body string) int {
	rows := strings.Count(body, rowTerminator)
	if rows == 0 {
		return 1
	}
	return strings.Count(body, cellSeparator)/rows + 1
}

// mathDelimiterRule turns every \( and \) into a bare $ independently; the
// enclosed math is untouched.
func mathDelimiterRule() RuleFunc {
	return func(content, _ string) (string, error) {
		return mathDelimiterPattern.ReplaceAllString(content, "$$"), nil
	}
}

// pandocBoundedRule unwraps \pandocbounded{X} to X. One nesting level per
// sweep; nested wrappers keep their inner layer (not produced by Pandoc in
// practice).
func pandocBoundedRule() RuleFunc {
	return func(content, _ string) (string, error) {
		return pandocBoundedPattern.ReplaceAllString(content, "$1"), nil
	}
}

// textciteRule converts {[}@prefix:name:suffix{]} citation leftovers into
// \textcite{prefix:name:suffix}.
func textciteRule() RuleFunc {
	return func(content, _ string) (string, error) {
		return textcitePattern.ReplaceAllString(content, `\textcite{$1}`), nil
	}
}

// passthroughRule removes bare \passthrough tokens that survive after the
// inline-code rule consumed the well-formed spans.
func passthroughRule() RuleFunc {
	return func(content, _ string) (string, error) {
		return strings.ReplaceAll(content, `\passthrough`, ""), nil
	}
}
