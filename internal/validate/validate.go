// Package validate enforces the size and type constraints on incoming files
// before any network call is made.
package validate

import (
	"errors"
	"fmt"
)

// MaxFileSize is the largest accepted upload, in bytes.
const MaxFileSize = 10 << 20 // 10 MiB

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeGIF  = "image/gif"
	MimeWebP = "image/webp"
	MimePDF  = "application/pdf"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the 10 MB size limit")
	ErrUnsupportedType = errors.New("file type is not supported")
)

var allowedTypes = map[string]struct{}{
	MimeJPEG: {},
	MimePNG:  {},
	MimeGIF:  {},
	MimeWebP: {},
	MimePDF:  {},
}

// Check validates a file's declared size and MIME type. It is synchronous and
// side-effect free; a failure here means no storage call ever happens.
func Check(sizeBytes int64, mimeType string) error {
	if sizeBytes > MaxFileSize {
		return fmt.Errorf("%w (size %d bytes)", ErrFileTooLarge, sizeBytes)
	}
	if _, ok := allowedTypes[mimeType]; !ok {
		return fmt.Errorf("%w (%s)", ErrUnsupportedType, mimeType)
	}
	return nil
}

// IsImage reports whether the MIME type is one of the accepted raster formats.
func IsImage(mimeType string) bool {
	return mimeType == MimeJPEG || mimeType == MimePNG || mimeType == MimeGIF || mimeType == MimeWebP
}

// AllowedTypes returns the accepted MIME whitelist. The UI uses it for accept
// hints; Check remains the trusted boundary.
func AllowedTypes() []string {
	return []string{MimeJPEG, MimePNG, MimeGIF, MimeWebP, MimePDF}
}
