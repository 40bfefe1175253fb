package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	appErr "github.com/xxxsen/ragdoc/internal/pkg/errors"
)

// Text extracts plain text from an uploaded file based on its extension.
// Supported: .pdf, .md/.markdown, .txt (and extensionless files treated as
// plain text). Corrupt or unsupported input fails with ErrExtraction.
func Text(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return pdfText(data)
	case ".md", ".markdown":
		return markdownText(data)
	case ".txt", "":
		return plainText(data)
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", appErr.ErrExtraction, ext)
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", appErr.ErrExtraction, err)
	}
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read pdf text: %v", appErr.ErrExtraction, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", fmt.Errorf("%w: read pdf buffer: %v", appErr.ErrExtraction, err)
	}
	return buf.String(), nil
}

// markdownText walks the goldmark AST and keeps only text segments, so
// markup syntax never ends up inside chunks.
func markdownText(data []byte) (string, error) {
	md := goldmark.New()
	reader := text.NewReader(data)
	doc := md.Parser().Parse(reader)

	var parts []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.FencedCodeBlock:
			var code strings.Builder
			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				code.Write(line.Value(data))
			}
			if trimmed := strings.TrimSpace(code.String()); trimmed != "" {
				parts = append(parts, trimmed)
			}
		default:
			if txt := nodeText(node, data); txt != "" {
				parts = append(parts, txt)
			}
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind() == ast.KindText {
			sb.Write(node.(*ast.Text).Segment.Value(source))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid utf-8 text", appErr.ErrExtraction)
	}
	return string(data), nil
}
