package docload

import (
	"bytes"
	"io"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/brandforge/golden-circle/internal/common"
)

// extractPDF extracts text content page-by-page using pdfcpu and joins pages
// with paragraph breaks. Embedded images and tables are ignored; this is
// text-only extraction.
func extractPDF(raw []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), conf)
	if err != nil {
		return "", common.NewPipelineError(common.KindCorruptDocument, "pdfcpu read", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageText := extractPageText(ctx, pageNr)
		if pageText == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	if len(pages) == 0 {
		return "", common.Errorf(common.KindCorruptDocument, "no text content found in PDF")
	}
	return strings.Join(pages, "\n\n"), nil
}

// extractPageText pulls the text shown by a single page's content stream.
func extractPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return textFromContentStream(data)
}

// textFromContentStream scans the content stream token by token and collects
// shown text. String literals accumulate until an operator claims them:
// Tj/TJ show the pending literals, ' and " show them on the next line,
// Td/TD move the text cursor, T* starts a new line. Literals bound to any
// other operator are discarded as its operands. Line breaks inside the
// stream carry no meaning; real writers emit whole pages on one line.
func textFromContentStream(data []byte) string {
	var sb strings.Builder
	var pending []string

	flush := func() {
		for _, s := range pending {
			sb.WriteString(s)
		}
		pending = pending[:0]
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '(':
			raw, next := readStringLiteral(data, i)
			pending = append(pending, decodePDFString(raw))
			i = next
		case c == '%':
			if j := bytes.IndexByte(data[i:], '\n'); j >= 0 {
				i += j + 1
			} else {
				i = len(data)
			}
		case c == '\'' || c == '"':
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			flush()
			i++
		case isOperatorChar(c):
			start := i
			for i < len(data) && isOperatorChar(data[i]) {
				i++
			}
			switch string(data[start:i]) {
			case "Tj", "TJ":
				flush()
			case "Td", "TD":
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				pending = pending[:0]
			case "T*":
				sb.WriteByte('\n')
				pending = pending[:0]
			default:
				pending = pending[:0]
			}
		default:
			i++
		}
	}

	return cleanPageText(sb.String())
}

func isOperatorChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '*'
}

// readStringLiteral scans a parenthesized PDF string starting at data[start],
// honoring backslash escapes and balanced nested parentheses. It returns the
// raw bytes between the parentheses and the index past the closing one.
func readStringLiteral(data []byte, start int) ([]byte, int) {
	depth := 0
	for i := start; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return data[start+1 : i], i + 1
			}
		}
	}
	return data[start+1:], len(data)
}

// decodePDFString handles basic PDF escape sequences, including octal escapes.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// cleanPageText collapses whitespace and drops unprintable runes left over
// from content stream decoding.
func cleanPageText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
