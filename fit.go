package mibandres

import (
	"image"
	"image/color"
	"image/draw"
	"io/ioutil"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"

	"github.com/devsnd/mibandres/bitmap"
	"github.com/devsnd/mibandres/resource"
)

func padPalette(p color.Palette, n int) color.Palette {
	for len(p) < n {
		p = append(p, color.RGBA{0, 0, 0, 0xff})
	}
	return p
}

// Fit converts an arbitrary source image into a valid replacement asset
// for the bitmap record at the given index of the container at path,
// writing the result to out as an indexed PNG. The source must already
// have the record's exact dimensions; Fit never resizes. If the source
// is an indexed image fitting the record's palette budget it is carried
// over with its palette padded to the record's entry count, otherwise it
// is quantized down to that many colors. This is the only place any
// color reduction happens; repacking itself never touches a palette.
func (t *Tool) Fit(path string, index int, src, out string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	f, err := resource.Decode(b)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(f.Records) {
		return errors.Errorf("no record %d, container has %d", index, len(f.Records))
	}
	info := f.Records[index].Info

	m, err := readImage(src)
	if err != nil {
		return err
	}

	mb := m.Bounds()
	if mb.Dx() != int(info.Width) || mb.Dy() != int(info.Height) {
		return errors.Wrapf(bitmap.ErrDimensionMismatch, "source is %dx%d, record %d is %dx%d",
			mb.Dx(), mb.Dy(), index, info.Width, info.Height)
	}

	colors := int(info.PaletteColors)

	pm, _ := m.(*image.Paletted)
	if pm != nil && len(pm.Palette) <= colors {
		// Index copy, not draw.Draw; color matching could remap
		// duplicate palette entries.
		dup := image.NewPaletted(mb.Sub(mb.Min), padPalette(pm.Palette, colors))
		for y := 0; y < dup.Rect.Dy(); y++ {
			for x := 0; x < dup.Rect.Dx(); x++ {
				dup.SetColorIndex(x, y, pm.ColorIndexAt(mb.Min.X+x, mb.Min.Y+y))
			}
		}
		pm = dup
	} else {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(mb.Sub(mb.Min), padPalette(q.Quantize(make(color.Palette, 0, colors), m), colors))
		draw.Draw(pm, pm.Rect, m, mb.Min, draw.Src)
	}

	if err := writePNG(out, pm); err != nil {
		return err
	}

	t.logger.Printf("fitted %s to record %d (%d colors) as %s\n", src, index, colors, out)

	return nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}
