package ingest

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/net/html"
)

// ExtractText decodes an uploaded resume into plain text, dispatching on
// the file extension. Supported: .pdf, .docx, .html, .htm, .txt.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return string(data), nil

	case ".pdf":
		return extractPDFText(data)

	case ".docx":
		return extractDocxText(data)

	case ".html", ".htm":
		return extractHTMLText(bytes.NewReader(data))

	default:
		return "", fmt.Errorf("unsupported resume format: %s", filepath.Ext(filename))
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString(" ")
	}
	return cleanText(textBuilder.String()), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return cleanText(stripDocxTags(doc.Editable().GetContent())), nil
}

// stripDocxTags removes the WordprocessingML markup, keeping text runs.
func stripDocxTags(content string) string {
	var out strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
			out.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// extractHTMLText walks the HTML tokenizer stream collecting visible text,
// skipping script and style blocks.
func extractHTMLText(body io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(body)
	var textBuilder strings.Builder
	inScript := false
	inStyle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return cleanText(textBuilder.String()), nil
			}
			return "", fmt.Errorf("failed to parse html: %w", tokenizer.Err())

		case html.StartTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			}

		case html.EndTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}

		case html.TextToken:
			if !inScript && !inStyle {
				text := strings.TrimSpace(tokenizer.Token().Data)
				if text != "" {
					textBuilder.WriteString(text + " ")
				}
			}
		}
	}
}

// cleanText collapses runs of whitespace
func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
