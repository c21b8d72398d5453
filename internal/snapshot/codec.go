package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

var (
	// ErrUnsupportedFormat is returned for extensions without an encoder.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrInvalidSavePath is returned when a save-as target is unusable.
	ErrInvalidSavePath = errors.New("invalid save path")
)

// JPEGQuality is used for .jpg and .jpeg files.
const JPEGQuality = 95

// SupportedExtensions lists the file extensions Encode accepts.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// Encode writes img to w in the format named by ext.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case ".bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// ContentType returns the MIME type for a supported extension.
func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	}
	return "application/octet-stream"
}

// WriteFile encodes img into path, choosing the format from the extension.
// The parent directory must already exist. A failed write removes the
// partial file.
func WriteFile(path string, img image.Image) (err error) {
	ext := filepath.Ext(path)
	if !supported(ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := Encode(f, img, ext); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// ValidatePath checks a save-as target: non-empty, a supported extension
// and an existing parent directory.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidSavePath)
	}
	if !supported(filepath.Ext(path)) {
		return fmt.Errorf("%w: unsupported extension %q (want one of %s)",
			ErrInvalidSavePath, filepath.Ext(path), strings.Join(SupportedExtensions, ", "))
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSavePath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidSavePath, dir)
	}
	return nil
}

func supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
