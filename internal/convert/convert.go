// Package convert turns scanned JPG letters into the single-page PDFs that
// Textract's async API accepts.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Converter produces a PDF at dst from the image at src.
type Converter interface {
	ToPDF(ctx context.Context, src, dst string) error
}

// PDFCPUConverter imports the scan into a fresh PDF in-process.
type PDFCPUConverter struct {
	Log *slog.Logger
}

func NewPDFCPUConverter(log *slog.Logger) *PDFCPUConverter {
	if log == nil {
		log = slog.Default()
	}
	return &PDFCPUConverter{Log: log}
}

func (c *PDFCPUConverter) ToPDF(_ context.Context, src, dst string) error {
	if err := api.ImportImagesFile([]string{src}, dst, nil, nil); err != nil {
		return fmt.Errorf("pdfcpu import %s: %w", src, err)
	}
	if st, err := os.Stat(dst); err != nil || st.Size() == 0 {
		return fmt.Errorf("conversion produced no output at %s", dst)
	}
	c.Log.Debug("converted scan to pdf", "src", src, "dst", dst)
	return nil
}

// MagickConverter shells out to ImageMagick, matching the original pipeline's
// deployment where the binary is already installed for other tooling.
type MagickConverter struct {
	Command string // "convert" or "magick"
	Runner  Runner
	Log     *slog.Logger
}

func NewMagickConverter(command string, log *slog.Logger) *MagickConverter {
	if command == "" {
		command = "convert"
	}
	if log == nil {
		log = slog.Default()
	}
	return &MagickConverter{Command: command, Runner: execRunner{}, Log: log}
}

func (c *MagickConverter) ToPDF(ctx context.Context, src, dst string) error {
	if _, errb, err := c.Runner.Run(ctx, c.Command, c.Log, src, dst); err != nil {
		return fmt.Errorf("imagemagick convert %s: %s: %w", src, truncate(string(errb), 512), err)
	}
	if st, err := os.Stat(dst); err != nil || st.Size() == 0 {
		return fmt.Errorf("conversion produced no output at %s", dst)
	}
	return nil
}

// ForEngine selects a converter by config name.
func ForEngine(engine, magickCommand string, log *slog.Logger) (Converter, error) {
	switch engine {
	case "", "pdfcpu":
		return NewPDFCPUConverter(log), nil
	case "magick":
		return NewMagickConverter(magickCommand, log), nil
	default:
		return nil, fmt.Errorf("unknown conversion engine %q: use pdfcpu | magick", engine)
	}
}
