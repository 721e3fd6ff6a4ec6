package constants

import "strings"

// Format identifies an interview document type.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// SupportedFormats holds the document formats accepted for interview ingestion.
var SupportedFormats = []Format{FormatText, FormatMarkdown, FormatPDF}

// AllowedExtensions maps accepted upload extensions to their format.
var AllowedExtensions = map[string]Format{
	"txt":      FormatText,
	"text":     FormatText,
	"md":       FormatMarkdown,
	"markdown": FormatMarkdown,
	"pdf":      FormatPDF,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ParseFormat maps a declared format string to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "plain":
		return FormatText, true
	case "markdown", "md":
		return FormatMarkdown, true
	case "pdf":
		return FormatPDF, true
	}
	return "", false
}

// FormatForExtension resolves an upload filename extension to a Format.
func FormatForExtension(ext string) (Format, bool) {
	f, ok := AllowedExtensions[NormalizeExt(ext)]
	return f, ok
}

// FormatForContentType resolves a MIME content type to a Format.
func FormatForContentType(ct string) (Format, bool) {
	// Strip parameters like "; charset=utf-8".
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	switch strings.ToLower(strings.TrimSpace(ct)) {
	case "text/plain":
		return FormatText, true
	case "text/markdown", "text/x-markdown":
		return FormatMarkdown, true
	case "application/pdf":
		return FormatPDF, true
	}
	return "", false
}
