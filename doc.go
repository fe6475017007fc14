// Package md2tex automates a Markdown-to-LaTeX publishing workflow:
// Pandoc-driven conversion, LaTeX source normalization, HTML generation,
// and PDF export via headless Chrome.
//
// # Quick Start
//
// Normalize all .tex files in a directory:
//
//	norm := md2tex.NewNormalizer(md2tex.DefaultNormalizeConfig("./tex"))
//	report, err := norm.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d files, %d fully normalized\n", report.Attempted(), report.Full())
//
// # Normalization Pipeline
//
// The normalizer rewrites Pandoc's LaTeX output into the house style by
// folding each file through a fixed, ordered rule chain:
//
//  1. Timestamp banner (one "% ju" comment line per file)
//  2. Figure sizing defaults and caption/label placeholders
//  3. Literal replacements (quotes, \tightlist, rule widths)
//  4. German umlaut transliteration inside \label arguments
//  5. \passthrough{\lstinline!..!} to \verb|..|
//  6. longtable to table conversion
//  7. Ragged-right tabular re-flow to plain left-aligned columns
//  8. \( and \) to $ math delimiters
//  9. \pandocbounded unwrapping
//
// Rule order is fixed and significant within a file; files are independent
// of each other and may be processed concurrently. A rule that fails on one
// file is skipped for that file (the document keeps its pre-rule content)
// and the failure is reported, so a single malformed construct never aborts
// the run.
//
// The rules are regex-based and deliberately not a LaTeX parser. Constructs
// they do not recognize pass through unchanged.
//
// # Conversion
//
// PandocConverter wraps the pandoc CLI for Markdown to LaTeX (template and
// Lua filter aware) and Markdown to HTML (citeproc, CSL, bibliographies).
// PreviewConverter renders Markdown to HTML in-process via Goldmark for a
// quick look without Pandoc installed.
//
// # PDF Export
//
// Exporter renders generated HTML files to PDF with headless Chrome
// (go-rod). Chrome is downloaded automatically on first run; set
// ROD_BROWSER_BIN to use a pre-installed binary and ROD_NO_SANDBOX=1 in
// containers. Use ExporterPool for batch export with multiple browser
// instances.
package md2tex
