//go:build !gosseract

package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ensureRealEngine skips the test unless a real tesseract plus tessdata for
// lang can be resolved on this machine.
func ensureRealEngine(t *testing.T, lang string) {
	t.Helper()
	if _, err := resolveEnvironment(lang); err != nil {
		t.Skipf("No usable tesseract environment: %v", err)
	}
}

// testImagePNG renders text onto a white canvas and returns it PNG-encoded.
func testImagePNG(t *testing.T, text string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	if text != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(10, 50),
		}
		d.DrawString(text)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestRecognizeRealText(t *testing.T) {
	ensureRealEngine(t, DefaultLanguage)

	text, err := Recognize(context.Background(), Request{Image: testImagePNG(t, "hello world")})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if !strings.Contains(strings.ToLower(text), "hello") {
		t.Errorf("Expected recognized text to contain 'hello', got %q", text)
	}
}

func TestRecognizeRealBlankImage(t *testing.T) {
	ensureRealEngine(t, DefaultLanguage)

	text, err := Recognize(context.Background(), Request{Image: testImagePNG(t, "")})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if strings.TrimSpace(text) != "" {
		t.Errorf("Expected empty or whitespace-only result for blank image, got %q", text)
	}
}

func TestRecognizeRealTSVHeader(t *testing.T) {
	ensureRealEngine(t, DefaultLanguage)

	out, err := Recognize(context.Background(), Request{Image: testImagePNG(t, "hello"), Mode: ModeTSV})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if !strings.HasPrefix(out, "level\tpage_num\t") {
		t.Errorf("Expected TSV header row, got %q", out)
	}
}
