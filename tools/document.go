package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText creates the extract_text tool. Plain text and PDF are
// supported natively; unknown extensions are read as text best-effort.
func ExtractText(ws *Workspace) Tool {
	schema := ObjectSchema(map[string]*PropertySchema{
		"file_path": StringProperty("Document path, relative to the workspace unless absolute"),
	}, []string{"file_path"})

	return NewTool(
		"extract_text",
		"Extract text from a document (txt, pdf, or any text-like file)",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			path := ws.Resolve(stringParam(params, "file_path", ""))
			text, err := extractDocumentText(path)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"path":   path,
				"text":   text,
				"length": len(text),
				"format": strings.ToLower(filepath.Ext(path)),
			}, nil
		},
	)
}

// AnalyzeDocument creates the analyze_document tool: extraction plus file
// metadata and simple text statistics.
func AnalyzeDocument(ws *Workspace) Tool {
	schema := ObjectSchema(map[string]*PropertySchema{
		"file_path": StringProperty("Document path, relative to the workspace unless absolute"),
	}, []string{"file_path"})

	return NewTool(
		"analyze_document",
		"Extract text from a document and report metadata and statistics",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			path := ws.Resolve(stringParam(params, "file_path", ""))
			text, err := extractDocumentText(path)
			if err != nil {
				return nil, err
			}
			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"path":       path,
				"size":       info.Size(),
				"modified":   info.ModTime().Format("2006-01-02T15:04:05Z07:00"),
				"format":     strings.ToLower(filepath.Ext(path)),
				"text":       text,
				"word_count": len(strings.Fields(text)),
				"line_count": len(strings.Split(text, "\n")),
			}, nil
		},
	)
}

func extractDocumentText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDFText(path)
	case ".docx", ".doc":
		return "", fmt.Errorf("word document extraction is not supported: %s", path)
	default:
		// .txt and anything else that might be text.
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
