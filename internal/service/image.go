package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"log"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageDimension = 2048
	jpegQuality       = 85
)

// ProcessImage normalizes an image for IPFS storage: alpha and palette
// images are flattened onto a white background, anything larger than
// 2048px on a side is downscaled, and the result is re-encoded as JPEG.
// It never fails the caller: if the bytes cannot be decoded or re-encoded
// the original data is returned unchanged.
func ProcessImage(data []byte) []byte {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("Image processing error: %v", err)
		return data
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Белый фон вместо прозрачности: JPEG не умеет альфа-канал
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.Draw(canvas, canvas.Bounds(), src, bounds.Min, xdraw.Over)

	var result image.Image = canvas

	if width > maxImageDimension || height > maxImageDimension {
		dstW, dstH := fitDimensions(width, height, maxImageDimension)
		scaled := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
		result = scaled
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, result, &jpeg.Options{Quality: jpegQuality}); err != nil {
		log.Printf("Image processing error (%s encode): %v", format, err)
		return data
	}

	return out.Bytes()
}

// fitDimensions shrinks (w, h) to fit inside a max×max box, preserving
// the aspect ratio. Assumes at least one side exceeds the bound.
func fitDimensions(w, h, max int) (int, int) {
	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}

	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return nw, max
}
