package snapshot

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

func TestNextName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"image_001.png", "image_002.png"},
		{"scan9.png", "scan10.png"},
		{"photo.png", "photo_001.png"},
		{"a009z.png", "a010z.png"},
		{"img_005.jpg", "img_006.jpg"},
		{"img_999.png", "img_1000.png"},
		{"2024_shot_07.bmp", "2024_shot_08.bmp"},
		{"/home/me/v2/pic.png", "/home/me/v2/pic_001.png"},
		{"/tmp/cam1/x_0099.jpeg", "/tmp/cam1/x_0100.jpeg"},
		{"noext", "noext_001"},
		{"007", "008"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NextName(tt.in); got != tt.want {
				t.Errorf("NextName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	tg := NewTarget("/tmp/img_005.jpg")
	if got := tg.Advance(); got != "/tmp/img_006.jpg" {
		t.Errorf("Advance = %q", got)
	}
	tg.Set("/tmp/other.png")
	if tg.Path() != "/tmp/other.png" {
		t.Errorf("Path = %q", tg.Path())
	}

	if def := NewTarget(""); filepath.Base(def.Path()) != DefaultFilename {
		t.Errorf("default target = %q", def.Path())
	}
}

func TestTargetConcurrentAdvance(t *testing.T) {
	tg := NewTarget("shot_000.png")
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				tg.Advance()
			}
		}()
	}
	wg.Wait()
	if tg.Path() != "shot_100.png" {
		t.Errorf("Path = %q, want shot_100.png", tg.Path())
	}
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	return img
}

func TestWriteFileFormats(t *testing.T) {
	dir := t.TempDir()
	decoders := map[string]func(*os.File) (image.Image, error){
		"a.png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"a.jpg":  func(f *os.File) (image.Image, error) { return jpeg.Decode(f) },
		"a.JPEG": func(f *os.File) (image.Image, error) { return jpeg.Decode(f) },
		"a.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
	}

	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, testImage()); err != nil {
				t.Fatal(err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
				t.Errorf("bounds = %v", img.Bounds())
			}
		})
	}
}

func TestWriteFileErrors(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFile(filepath.Join(dir, "a.gif"), testImage()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("gif: err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.gif")); !os.IsNotExist(err) {
		t.Error("unsupported format must not create a file")
	}

	if err := WriteFile(filepath.Join(dir, "missing", "a.png"), testImage()); err == nil {
		t.Error("missing directory should fail")
	}
}

func TestEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testImage(), ".tiff"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v", err)
	}
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		path  string
		valid bool
	}{
		{"ok png", filepath.Join(dir, "x.png"), true},
		{"ok bmp upper", filepath.Join(dir, "x.BMP"), true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"no extension", filepath.Join(dir, "x"), false},
		{"bad extension", filepath.Join(dir, "x.txt"), false},
		{"missing dir", filepath.Join(dir, "nope", "x.png"), false},
		{"parent is file", filepath.Join(file, "x.png"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidSavePath) {
				t.Errorf("err = %v, want ErrInvalidSavePath", err)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	for ext, want := range map[string]string{".png": "image/png", ".JPG": "image/jpeg", ".bmp": "image/bmp", ".x": "application/octet-stream"} {
		if got := ContentType(ext); got != want {
			t.Errorf("ContentType(%s) = %s, want %s", ext, got, want)
		}
	}
}
