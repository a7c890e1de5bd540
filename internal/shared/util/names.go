package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"
)

// UniqueFileName returns the sanitized file name with a timestamp and a short
// random token inserted before the extension, so identically named files
// stored under the same prefix never collide.
func UniqueFileName(name string) (string, error) {
	sanitized, err := SanitizeFileName(name)
	if err != nil {
		return "", err
	}
	ext := path.Ext(sanitized)
	base := strings.TrimSuffix(sanitized, ext)
	return fmt.Sprintf("%s_%d_%s%s", base, time.Now().UnixMilli(), randomToken(), ext), nil
}

// ReplaceExt swaps the extension of name for newExt (which must include the
// leading dot). Names without an extension get newExt appended.
func ReplaceExt(name, newExt string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + newExt
}

func randomToken() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
