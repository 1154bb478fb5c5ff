package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdfcpuapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/unidoc/unioffice/document"
)

// MaxUploadSize caps review uploads at 20 MB.
const MaxUploadSize = 20 * 1024 * 1024

// ExtractText pulls plain text out of an uploaded document. Supported:
// .txt, .pdf, .docx. Anything else is a synchronous validation error.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return string(data), nil
	case ".pdf":
		text, err := extractPDFText(data)
		if err != nil {
			return "", fmt.Errorf("pdf extraction failed: %w", err)
		}
		return text, nil
	case ".docx":
		text, err := extractDOCXText(data)
		if err != nil {
			return "", fmt.Errorf("docx extraction failed: %w", err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("unsupported file type: %s (upload PDF, DOCX, or TXT)", filepath.Ext(filename))
	}
}

// pdfcpu extracts page content to files, so round-trip through a temp dir.
func extractPDFText(content []byte) (string, error) {
	tmpIn, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpIn.Name())
	defer tmpIn.Close()

	if _, err := tmpIn.Write(content); err != nil {
		return "", err
	}

	outDir, err := os.MkdirTemp("", "upload-pdf-out")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(outDir)

	if err := pdfcpuapi.ExtractContentFile(tmpIn.Name(), outDir, nil, model.NewDefaultConfiguration()); err != nil {
		return "", err
	}

	var sb strings.Builder
	err = filepath.Walk(outDir, func(path string, _ os.FileInfo, _ error) error {
		if filepath.Ext(path) == ".txt" {
			if d, err := os.ReadFile(path); err == nil {
				sb.Write(d)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func extractDOCXText(content []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, p := range doc.Paragraphs() {
		for _, run := range p.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
