package libscn

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// DecodeImage decodes any registered format into tightly packed NRGBA pixels
// with the first row at the bottom, the way GL expects texture data.
func DecodeImage(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	nrgba := ToNRGBA(img)
	FlipVertical(nrgba)
	return nrgba, nil
}

func LoadImage(filename string) (*image.NRGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open image file %q: %w", filename, err)
	}
	defer file.Close()

	img, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode image file %q: %w", filename, err)
	}
	return img, nil
}

// ToNRGBA copies img into a new NRGBA image whose bounds start at the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Rect, img, bounds.Min, draw.Src)
	return nrgba
}

// FlipVertical mirrors the rows of img in place.
func FlipVertical(img *image.NRGBA) {
	height := img.Rect.Dy()
	rowSize := img.Rect.Dx() * 4
	tmp := make([]byte, rowSize)
	for y := 0; y < height/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowSize]
		bottom := img.Pix[(height-1-y)*img.Stride : (height-1-y)*img.Stride+rowSize]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// SolidImage returns a 1x1 image, used in place of missing material maps.
func SolidImage(r, g, b, a uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []byte{r, g, b, a})
	return img
}
