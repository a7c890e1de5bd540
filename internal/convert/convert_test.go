package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"loanfile-backend/internal/validate"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestToPDFPassesThroughPDFUnchanged(t *testing.T) {
	input := []byte("%PDF-1.4\n%fake content\n%%EOF\n")
	name, out, err := ToPDF(context.Background(), "w2.pdf", validate.MimePDF, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "w2.pdf" {
		t.Fatalf("expected name unchanged, got %s", name)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("expected byte-identical pass-through")
	}
}

func TestToPDFConvertsImageToLetterPage(t *testing.T) {
	data := encodePNG(t, 640, 480)
	name, out, err := ToPDF(context.Background(), "statement.png", validate.MimePNG, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "statement.pdf" {
		t.Fatalf("expected .pdf name, got %s", name)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF output")
	}

	pdfPath := filepath.Join(t.TempDir(), "out.pdf")
	if err := os.WriteFile(pdfPath, out, 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	count, err := api.PageCountFile(pdfPath)
	if err != nil {
		t.Fatalf("page count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single page, got %d", count)
	}
	dims, err := api.PageDimsFile(pdfPath)
	if err != nil {
		t.Fatalf("page dims: %v", err)
	}
	if len(dims) != 1 || dims[0].Width != 612 || dims[0].Height != 792 {
		t.Fatalf("expected US-Letter page, got %+v", dims)
	}
}

func TestToPDFRenamesMultiDotFiles(t *testing.T) {
	data := encodePNG(t, 10, 10)
	name, _, err := ToPDF(context.Background(), "scan.final.v2.png", validate.MimePNG, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "scan.final.v2.pdf" {
		t.Fatalf("expected only last extension replaced, got %s", name)
	}
}

func TestToPDFRejectsMalformedImage(t *testing.T) {
	_, _, err := ToPDF(context.Background(), "broken.png", validate.MimePNG, []byte("not an image"))
	if !errors.Is(err, ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode failure detail, got %v", err)
	}
}
