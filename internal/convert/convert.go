// Package convert normalizes accepted files into single PDF artifacts.
// Raster images are placed on a US-Letter page; PDFs pass through unchanged.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	_ "golang.org/x/image/webp"

	"loanfile-backend/internal/shared/util"
	"loanfile-backend/internal/validate"
)

// ErrConversionFailed wraps any image decode or PDF build failure.
var ErrConversionFailed = errors.New("file conversion failed")

// US-Letter page with a uniform margin, in points.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	pageMargin = 36.0
)

// ToPDF returns a file guaranteed to be a single PDF artifact. PDF input is
// the identity transform. Image input is scaled to fit the margin-bound area
// of a Letter page, preserving aspect ratio, and centered. The returned name
// is the original with its extension replaced by .pdf.
func ToPDF(ctx context.Context, name, mimeType string, data []byte) (string, []byte, error) {
	if mimeType == validate.MimePDF {
		return name, data, nil
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("%w: decode image: %v", ErrConversionFailed, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return "", nil, fmt.Errorf("%w: image has no pixels", ErrConversionFailed)
	}

	pdf, err := buildPage(img)
	if err != nil {
		return "", nil, err
	}
	return util.ReplaceExt(name, ".pdf"), pdf, nil
}

// buildPage writes the image onto a fresh Letter-sized single-page PDF.
// pdfcpu maps one pixel to one point at scale 1, so the absolute scale factor
// is the fit ratio of the image's pixel dimensions to the available area.
func buildPage(img image.Image) ([]byte, error) {
	tempDir, err := os.MkdirTemp("", "loanfile-convert-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	imgPath := filepath.Join(tempDir, "page.png")
	f, err := os.Create(imgPath)
	if err != nil {
		return nil, fmt.Errorf("create temp image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: encode image: %v", ErrConversionFailed, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp image: %w", err)
	}

	availWidth := pageWidth - 2*pageMargin
	availHeight := pageHeight - 2*pageMargin
	scale := availWidth / float64(img.Bounds().Dx())
	if s := availHeight / float64(img.Bounds().Dy()); s < scale {
		scale = s
	}

	imp, err := api.Import(fmt.Sprintf("formsize:Letter, pos:c, scalefactor:%.6f abs", scale), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: import config: %v", ErrConversionFailed, err)
	}

	outPath := filepath.Join(tempDir, "out.pdf")
	if err := api.ImportImagesFile([]string{imgPath}, outPath, imp, nil); err != nil {
		return nil, fmt.Errorf("%w: build pdf: %v", ErrConversionFailed, err)
	}

	pdf, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read generated pdf: %w", err)
	}
	return pdf, nil
}
