package libscn_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"learn-gl/libscn"
	"testing"

	"golang.org/x/image/bmp"
)

func stripes() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: uint8(y * 100), G: uint8(x * 200), A: 255})
		}
	}
	return img
}

func checkFlipped(t *testing.T, img *image.NRGBA) {
	t.Helper()
	if img.Rect.Dx() != 2 || img.Rect.Dy() != 3 {
		t.Fatalf("image should be 2x3 but is %v", img.Rect)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			c := img.NRGBAAt(x, y)
			expected := color.NRGBA{R: uint8((2 - y) * 100), G: uint8(x * 200), A: 255}
			if c != expected {
				t.Errorf("pixel %d,%d should be %v but was %v", x, y, expected, c)
			}
		}
	}
}

func TestDecodePng(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, stripes()); err != nil {
		t.Fatal(err)
	}
	img, err := libscn.DecodeImage(buf)
	if err != nil {
		t.Fatal(err)
	}
	checkFlipped(t, img)
}

func TestDecodeBmp(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := bmp.Encode(buf, stripes()); err != nil {
		t.Fatal(err)
	}
	img, err := libscn.DecodeImage(buf)
	if err != nil {
		t.Fatal(err)
	}
	checkFlipped(t, img)
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := libscn.DecodeImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("decoding garbage should fail")
	}
}

func TestToNRGBAOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(6, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	img := libscn.ToNRGBA(src)
	if img.Rect.Min != (image.Point{}) {
		t.Errorf("converted image should start at the origin but starts at %v", img.Rect.Min)
	}
	if c := img.NRGBAAt(1, 0); c != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("pixel should be copied but was %v", c)
	}
}
