package vvg

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// TextureFormat is the pixel format of a texture.
type TextureFormat uint8

const (
	// TextureRGBA is four 8-bit channels, red first.
	TextureRGBA TextureFormat = iota + 1

	// TextureAlpha is a single 8-bit coverage channel. The shader
	// replicates it into all four channels.
	TextureAlpha
)

// String returns the format name.
func (f TextureFormat) String() string {
	switch f {
	case TextureRGBA:
		return "RGBA"
	case TextureAlpha:
		return "Alpha"
	default:
		return fmt.Sprintf("TextureFormat(%d)", uint8(f))
	}
}

// BytesPerPixel returns the tightly packed size of one texel.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureRGBA:
		return 4
	case TextureAlpha:
		return 1
	default:
		return 0
	}
}

// DataSize returns the tightly packed size of a w×h image.
func (f TextureFormat) DataSize(w, h int) int {
	return w * h * f.BytesPerPixel()
}

// TexturePixels converts img into tightly packed texel data of format f,
// ready for CreateTexture. Alpha textures keep only the alpha channel.
func TexturePixels(img image.Image, f TextureFormat) ([]byte, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrInvalidSize
	}
	r := image.Rect(0, 0, b.Dx(), b.Dy())
	switch f {
	case TextureRGBA:
		dst := image.NewNRGBA(r)
		draw.Draw(dst, r, img, b.Min, draw.Src)
		return dst.Pix, nil
	case TextureAlpha:
		dst := image.NewAlpha(r)
		draw.Draw(dst, r, img, b.Min, draw.Src)
		return dst.Pix, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %v", ErrInvalidData, f)
	}
}

// ScaleImage resizes img to w×h with bilinear filtering. Useful when a
// source image must match an existing texture's size before an update.
func ScaleImage(img image.Image, w, h int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
