// Package docload turns a raw interview document (plain text, Markdown, or
// PDF bytes) into model-ready plain text. Layout artifacts, markup, and
// embedded non-text content are discarded.
package docload

import (
	"bytes"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/brandforge/golden-circle/constants"
	"github.com/brandforge/golden-circle/internal/common"
)

// Loader extracts raw textual content from interview documents.
type Loader struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load extracts plain text from raw document bytes. The declared format wins
// when provided; otherwise content sniffing decides. Fails with
// UnsupportedFormat when the format cannot be determined and with
// CorruptDocument when the format is recognized but yields no usable text.
func (l *Loader) Load(raw []byte, declared constants.Format) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", common.Errorf(common.KindCorruptDocument, "document is empty")
	}

	sniffed, sniffOK := Sniff(raw)

	format := declared
	if format == "" {
		if !sniffOK {
			return "", common.Errorf(common.KindUnsupportedFormat, "no declared format and content has no recognizable signature")
		}
		format = sniffed
	} else if sniffOK && sniffed != format && !textualPair(format, sniffed) {
		// Declared wins, but the disagreement is worth seeing in logs.
		l.logger.Warn("docload.format_mismatch", "declared", format, "sniffed", sniffed)
	}

	var (
		text string
		err  error
	)
	switch format {
	case constants.FormatText:
		text, err = extractText(raw)
	case constants.FormatMarkdown:
		text, err = extractMarkdown(raw)
	case constants.FormatPDF:
		text, err = extractPDF(raw)
	default:
		return "", common.Errorf(common.KindUnsupportedFormat, "unsupported format: %q", string(declared))
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", common.Errorf(common.KindCorruptDocument, "no usable text extracted from %s document", format)
	}
	return text, nil
}

var pdfMagic = []byte("%PDF-")

// Sniff guesses the document format from content alone: the PDF header magic,
// otherwise mostly-printable UTF-8 is treated as text. Binary content with no
// recognizable signature is not sniffable.
func Sniff(data []byte) (constants.Format, bool) {
	// The PDF spec permits junk ahead of the header; scan the first 1 KiB.
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, pdfMagic) {
		return constants.FormatPDF, true
	}
	if utf8.Valid(data) && printableRatio(data) >= 0.85 {
		return constants.FormatText, true
	}
	return "", false
}

// textualPair reports whether two formats are both plain-text flavors, where
// sniffing cannot tell them apart and a mismatch log would be noise.
func textualPair(a, b constants.Format) bool {
	textual := func(f constants.Format) bool {
		return f == constants.FormatText || f == constants.FormatMarkdown
	}
	return textual(a) && textual(b)
}

// printableRatio returns the share of printable runes in data.
func printableRatio(data []byte) float64 {
	total := 0
	printable := 0
	for _, r := range string(data) {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}

// extractText decodes a plain text document.
func extractText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", common.Errorf(common.KindCorruptDocument, "text document is not valid UTF-8")
	}
	return string(raw), nil
}
