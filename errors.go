package md2tex

import "errors"

// Sentinel errors for library operations.
var (
	// Normalization errors.
	ErrSourceDirMissing = errors.New("source directory not found")
	ErrUnterminatedCode = errors.New("unterminated \\lstinline code span")

	// Pandoc errors.
	ErrPandocNotFound   = errors.New("pandoc is not installed")
	ErrPandocConversion = errors.New("pandoc conversion failed")
	ErrTemplateMissing  = errors.New("template file not found")

	// Preview errors.
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// PDF export errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
