// Package extractor turns uploaded bytes into plain text. It never lets a
// parser failure escape: broken PDF and DOCX input degrades to empty text.
package extractor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/legalsift/docsift/internal/core/domain"
)

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

func (e *Extractor) Extract(data []byte, format domain.FileFormat) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case domain.FormatPDF:
		text, err = guard(func() (string, error) { return extractPDF(data) })
	case domain.FormatDOCX:
		text, err = guard(func() (string, error) { return extractDOCX(data) })
	case domain.FormatDOC, domain.FormatTXT:
		// Legacy .doc is binary; decoding it as UTF-8 is a known lossy fallback.
		text = decodeUTF8(data)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("format %q", format))
	}
	if err != nil {
		e.logger.Warn("text_extraction_failed",
			"format", string(format),
			"bytes", len(data),
			"error", err,
		)
		return "", nil
	}
	return strings.TrimSpace(text), nil
}

// guard converts parser panics into errors.
func guard(fn func() (string, error)) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return fn()
}

func decodeUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
