package parsers

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"baliance.com/gooxml/document"
)

// TextExtractor pulls plain text out of uploaded resume files.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractFromFile determines file type and extracts text accordingly
func (e *TextExtractor) ExtractFromFile(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".pdf":
		return e.extractPDF(filePath)
	case ".docx":
		return e.extractDocx(filePath)
	case ".txt":
		content, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %v", err)
		}
		return string(content), nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .pdf, .docx, .txt)", ext)
	}
}

// extractPDF uses pdftotext from poppler-utils.
func (e *TextExtractor) extractPDF(filePath string) (string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("pdftotext not available: %v", err)
	}

	tempFile := filePath + ".txt"
	defer os.Remove(tempFile)

	cmd := exec.Command("pdftotext", "-layout", filePath, tempFile)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed: %v", err)
	}

	content, err := os.ReadFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted text: %v", err)
	}
	return string(content), nil
}

// extractDocx reads the document with gooxml and joins run text.
func (e *TextExtractor) extractDocx(filePath string) (string, error) {
	doc, err := document.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %v", err)
	}

	var buf bytes.Buffer
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			buf.WriteString(run.Text())
		}
		buf.WriteString("\n")
	}
	return buf.String(), nil
}
