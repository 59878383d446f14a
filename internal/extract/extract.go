package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docqa/internal/domain"
)

var pdfMagic = []byte("%PDF-")

// FileExtractor reads PDF and plain text uploads.
type FileExtractor struct {
	conf *model.Configuration
}

var _ domain.Extractor = (*FileExtractor)(nil)

func NewFileExtractor() *FileExtractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &FileExtractor{conf: conf}
}

// Extract returns the text of the file. A file without readable text yields
// domain.ErrExtractionEmpty.
func (e *FileExtractor) Extract(name string, data []byte) (domain.Extraction, error) {
	var (
		out domain.Extraction
		err error
	)
	if IsPDF(name, data) {
		out, err = e.extractPDF(data)
	} else {
		out, err = extractText(data)
	}
	if err != nil {
		return domain.Extraction{}, err
	}
	if strings.TrimSpace(out.Text) == "" {
		return domain.Extraction{}, domain.ErrExtractionEmpty
	}
	return out, nil
}

// IsPDF reports whether the upload should be parsed as PDF.
func IsPDF(name string, data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic) || strings.EqualFold(filepath.Ext(name), ".pdf")
}

func extractText(data []byte) (domain.Extraction, error) {
	if !utf8.Valid(data) {
		return domain.Extraction{}, fmt.Errorf("unsupported file: not a PDF or UTF-8 text")
	}
	return domain.Extraction{Text: string(data), Pages: 1}, nil
}

func (e *FileExtractor) extractPDF(data []byte) (domain.Extraction, error) {
	pages, err := api.PageCount(bytes.NewReader(data), e.conf)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("invalid pdf: %w", err)
	}
	text, err := pdfText(data)
	if err != nil {
		return domain.Extraction{}, err
	}
	return domain.Extraction{Text: text, Pages: pages}, nil
}

// pdfText concatenates the plain text of every page, one page per line group.
// Pages without text are skipped.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf text: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if content == "" {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
