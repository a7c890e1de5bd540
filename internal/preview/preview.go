// Package preview produces a fixed-size thumbnail and a page count for a
// normalized file. Generation is best-effort: any failure degrades to no
// thumbnail rather than failing the caller.
package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"loanfile-backend/internal/validate"
)

// Thumbnail frame, in pixels.
const (
	FrameWidth  = 100
	FrameHeight = 130
)

const jpegQuality = 80

// Generate returns a JPEG thumbnail (or nil) and a page count (always >= 1).
// Image sources are cropped to fill the frame; PDF sources are fit entirely
// inside it on a white background. Failures yield (nil, 1).
func Generate(ctx context.Context, mimeType string, data []byte) ([]byte, int) {
	if err := ctx.Err(); err != nil {
		return nil, 1
	}

	switch {
	case validate.IsImage(mimeType):
		thumb, err := imageThumbnail(data)
		if err != nil {
			return nil, 1
		}
		return thumb, 1
	case mimeType == validate.MimePDF:
		thumb, count, err := pdfThumbnail(data)
		if err != nil {
			return nil, 1
		}
		return thumb, count
	default:
		return nil, 1
	}
}

// imageThumbnail crops the source to the frame's aspect ratio (center crop on
// the relatively longer axis) and scales it to exactly fill the frame.
func imageThumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	crop := cropRect(src.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	return encodeJPEG(dst)
}

// cropRect selects the centered source region matching the frame ratio.
// A relatively wider source loses width; a relatively taller one loses height.
func cropRect(bounds image.Rectangle) image.Rectangle {
	srcW := float64(bounds.Dx())
	srcH := float64(bounds.Dy())
	frameRatio := float64(FrameWidth) / float64(FrameHeight)

	if srcW/srcH > frameRatio {
		cropW := int(srcH * frameRatio)
		x0 := bounds.Min.X + (bounds.Dx()-cropW)/2
		return image.Rect(x0, bounds.Min.Y, x0+cropW, bounds.Max.Y)
	}
	cropH := int(srcW / frameRatio)
	y0 := bounds.Min.Y + (bounds.Dy()-cropH)/2
	return image.Rect(bounds.Min.X, y0, bounds.Max.X, y0+cropH)
}

// pdfThumbnail reads the true page count, then renders the first page scaled
// to fit entirely within the frame, centered on a white background. The page
// content is drawn from the page's dominant embedded image when one can be
// extracted; otherwise the page renders as a white matte with a border.
func pdfThumbnail(data []byte) ([]byte, int, error) {
	tempDir, err := os.MkdirTemp("", "loanfile-preview-*")
	if err != nil {
		return nil, 0, err
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "doc.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, 0, err
	}

	count, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, 0, err
	}
	if count < 1 {
		count = 1
	}

	pageW, pageH := 612.0, 792.0
	if dims, err := api.PageDimsFile(pdfPath); err == nil && len(dims) > 0 {
		if dims[0].Width > 0 && dims[0].Height > 0 {
			pageW, pageH = dims[0].Width, dims[0].Height
		}
	}

	// Fit the whole page inside the frame; no cropping on the PDF path.
	scale := float64(FrameWidth) / pageW
	if s := float64(FrameHeight) / pageH; s < scale {
		scale = s
	}
	boxW := int(pageW * scale)
	boxH := int(pageH * scale)
	x0 := (FrameWidth - boxW) / 2
	y0 := (FrameHeight - boxH) / 2
	box := image.Rect(x0, y0, x0+boxW, y0+boxH)

	dst := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	drawBorder(dst, box, color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff})

	if content := firstPageImage(pdfPath, tempDir); content != nil {
		drawFitted(dst, box, content)
	}

	thumb, err := encodeJPEG(dst)
	if err != nil {
		return nil, 0, err
	}
	return thumb, count, nil
}

// firstPageImage extracts the largest image embedded in page 1, if any.
func firstPageImage(pdfPath, tempDir string) image.Image {
	outDir := filepath.Join(tempDir, "images")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil
	}
	if err := api.ExtractImagesFile(pdfPath, outDir, []string{"1"}, nil); err != nil {
		return nil
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil
	}

	var best image.Image
	bestArea := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			continue
		}
		if area := img.Bounds().Dx() * img.Bounds().Dy(); area > bestArea {
			best = img
			bestArea = area
		}
	}
	return best
}

// drawFitted scales src to fit inside box, preserving aspect ratio, centered.
func drawFitted(dst *image.RGBA, box image.Rectangle, src image.Image) {
	srcW := float64(src.Bounds().Dx())
	srcH := float64(src.Bounds().Dy())
	if srcW <= 0 || srcH <= 0 {
		return
	}

	scale := float64(box.Dx()) / srcW
	if s := float64(box.Dy()) / srcH; s < scale {
		scale = s
	}
	w := int(srcW * scale)
	h := int(srcH * scale)
	if w < 1 || h < 1 {
		return
	}
	x0 := box.Min.X + (box.Dx()-w)/2
	y0 := box.Min.Y + (box.Dy()-h)/2
	target := image.Rect(x0, y0, x0+w, y0+h)

	draw.CatmullRom.Scale(dst, target, src, src.Bounds(), draw.Src, nil)
}

func drawBorder(dst *image.RGBA, box image.Rectangle, c color.Color) {
	for x := box.Min.X; x < box.Max.X; x++ {
		dst.Set(x, box.Min.Y, c)
		dst.Set(x, box.Max.Y-1, c)
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dst.Set(box.Min.X, y, c)
		dst.Set(box.Max.X-1, y, c)
	}
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
