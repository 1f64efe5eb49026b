package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func relaxedConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Finalize validates and optimizes a freshly built PDF and reports its page count.
func Finalize(raw []byte) ([]byte, int, error) {
	var optimized bytes.Buffer
	if err := api.Optimize(bytes.NewReader(raw), &optimized, relaxedConfig()); err != nil {
		return nil, 0, fmt.Errorf("failed to validate/optimize PDF: %w", err)
	}
	out := optimized.Bytes()
	pages, err := PageCount(bytes.NewReader(out))
	if err != nil {
		return nil, 0, err
	}
	return out, pages, nil
}

// PageCount returns the number of pages of the PDF read from rs.
func PageCount(rs io.ReadSeeker) (int, error) {
	n, err := api.PageCount(rs, relaxedConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return n, nil
}
