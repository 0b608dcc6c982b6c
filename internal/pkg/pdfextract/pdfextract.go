package pdfextract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Extractor turns PDF bytes into plain text. It never fails: parse errors are
// logged and whatever text was read before the failure is returned.
type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// ExtractFile reads the PDF at path.
func (e *Extractor) ExtractFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		e.logger.Error("read pdf file failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return e.extract(b)
}

// ExtractText reads the entire content of r and extracts its text.
func (e *Extractor) ExtractText(r io.Reader) string {
	b, err := io.ReadAll(r)
	if err != nil {
		e.logger.Error("read pdf stream failed", zap.Error(err))
		return ""
	}
	return e.extract(b)
}

func (e *Extractor) extract(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	text, pages, err := Pages(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		e.logger.Error("extract pdf text failed",
			zap.Int("pages_read", pages),
			zap.Int("chars_read", len(text)),
			zap.Error(err),
		)
	}
	return text
}

// Pages appends the text of every page, in order, each followed by a newline.
// On error it returns the text accumulated so far and the number of pages read.
func Pages(r io.ReaderAt, size int64) (text string, pagesRead int, err error) {
	var sb strings.Builder
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = sb.String()
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf failed: %w", err)
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			pageText, err := page.GetPlainText(nil)
			if err != nil {
				return sb.String(), pagesRead, fmt.Errorf("extract page %d failed: %w", i, err)
			}
			sb.WriteString(pageText)
		}
		sb.WriteString("\n")
		pagesRead++
	}
	return sb.String(), pagesRead, nil
}
