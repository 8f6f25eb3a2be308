// internal/app/system/barcode/render.go
package barcode

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Options controls the rendered size.
type Options struct {
	ModuleWidth int // pixels per module, default 2
	Height      int // pixels, default 80
}

func (o Options) withDefaults() Options {
	if o.ModuleWidth <= 0 {
		o.ModuleWidth = 2
	}
	if o.Height <= 0 {
		o.Height = 80
	}
	return o
}

// Render draws s at one pixel per module and scales it up to the
// requested size with nearest-neighbour sampling so bar edges stay sharp.
func Render(s string, opts Options) (image.Image, error) {
	mods, err := Modules(s)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	src := image.NewGray(image.Rect(0, 0, len(mods), 1))
	for x, bar := range mods {
		c := color.Gray{Y: 0xff}
		if bar {
			c = color.Gray{Y: 0}
		}
		src.SetGray(x, 0, c)
	}

	dst := image.NewGray(image.Rect(0, 0, len(mods)*opts.ModuleWidth, opts.Height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// WritePNG renders s and encodes it as PNG.
func WritePNG(w io.Writer, s string, opts Options) error {
	img, err := Render(s, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
