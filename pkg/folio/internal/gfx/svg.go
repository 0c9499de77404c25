package gfx

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/logo.svg
var logoSVG []byte

// Icons rasterises the embedded vector artwork at the sizes screens ask for
// and keeps the results in an LRU.
type Icons struct {
	cache *ImageCache
}

func NewIcons() *Icons {
	return &Icons{cache: NewImageCache()}
}

// Logo returns the logo as a size x size image.
func (i *Icons) Logo(size int) (image.Image, error) {
	return i.rasterize("logo", logoSVG, size, size)
}

func (i *Icons) rasterize(name string, data []byte, w, h int) (image.Image, error) {
	key := fmt.Sprintf("%s@%dx%d", name, w, h)
	if img := i.cache.Get(key); img != nil {
		return img, nil
	}
	img, err := RasterizeSVG(data, w, h)
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", name, err)
	}
	i.cache.Set(key, img)
	return img, nil
}

// RasterizeSVG renders an SVG document into a w x h image.
func RasterizeSVG(data []byte, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", w, h)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}
