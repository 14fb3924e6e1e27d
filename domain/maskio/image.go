package maskio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/soocke/dotcount/domain/annotation"
)

// ReadImage decodes a mask of shape (rows, cols) stored through an image
// encoder. This is the legacy, lossy encoding: a gray level of 0 is
// background, 1 or the maximum for the source bit depth is an annotation,
// anything else is rejected. The image dimensions are checked before the
// pixels are decoded.
func ReadImage(r io.Reader, rows, cols int) (*annotation.Mask, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("maskio: read image mask: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("maskio: decode image mask: %w", err)
	}
	if cfg.Height != rows || cfg.Width != cols {
		return nil, fmt.Errorf("%w: mask (%d, %d), image (%d, %d)", annotation.ErrShapeMismatch, cfg.Height, cfg.Width, rows, cols)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("maskio: decode image mask: %w", err)
	}
	level := grayLevel8
	if is16Bit(img.ColorModel()) {
		level = grayLevel16
	}
	b := img.Bounds()
	mask := annotation.NewMask(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g, maxLevel := level(img.At(x, y))
			row, col := y-b.Min.Y, x-b.Min.X
			switch g {
			case 0:
			case 1, maxLevel:
				mask.Set(row, col, 1)
			default:
				return nil, &annotation.InvalidMaskError{Row: row, Col: col, Value: float64(g)}
			}
		}
	}
	return mask, nil
}

func is16Bit(m color.Model) bool {
	switch m {
	case color.Gray16Model, color.RGBA64Model, color.NRGBA64Model:
		return true
	}
	return false
}

func grayLevel8(c color.Color) (uint32, uint32) {
	return uint32(color.GrayModel.Convert(c).(color.Gray).Y), 0xff
}

func grayLevel16(c color.Color) (uint32, uint32) {
	return uint32(color.Gray16Model.Convert(c).(color.Gray16).Y), 0xffff
}

// WritePNG encodes the mask as an 8-bit gray PNG with annotations at 255.
func WritePNG(w io.Writer, m *annotation.Mask) error {
	if err := m.Validate(); err != nil {
		return err
	}
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for i, v := range m.Data {
		if v != 0 {
			img.Pix[i] = 0xff
		}
	}
	return png.Encode(w, img)
}
