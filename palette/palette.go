/*
Package palette implements the color palette codec used by the bitmap
resources in a Mi Band firmware resource file.

A palette is stored as a fixed-width array of 4 byte entries; red, green
and blue followed by a padding byte. The entry order is the pixel index
space so it is always preserved exactly; no deduplication, reordering or
color-space conversion ever happens here.
*/
package palette

import (
	"errors"
	"image/color"
	"io"
)

// EntrySize is the number of bytes used by one stored palette entry.
const EntrySize = 4

// ErrMalformed is returned when the stored palette data is shorter than
// the declared entry count, or when a palette presented for encoding does
// not have the declared number of entries.
var ErrMalformed = errors.New("palette: malformed palette data")

// Decode reads n palette entries from r. The returned palette has exactly
// n entries in stored order.
func Decode(r io.Reader, n int) (color.Palette, error) {
	b := make([]byte, n*EntrySize)
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrMalformed
		}
		return nil, err
	}

	p := make(color.Palette, n)
	for i := range p {
		p[i] = color.RGBA{
			R: b[i*EntrySize+0],
			G: b[i*EntrySize+1],
			B: b[i*EntrySize+2],
			A: 0xff,
		}
	}
	return p, nil
}

// Encode writes the palette p to w in stored form. The padding byte is
// always written as zero.
func Encode(w io.Writer, p color.Palette) error {
	b := make([]byte, len(p)*EntrySize)
	for i, c := range p {
		r, g, b2, _ := c.RGBA()
		b[i*EntrySize+0] = byte(r >> 8)
		b[i*EntrySize+1] = byte(g >> 8)
		b[i*EntrySize+2] = byte(b2 >> 8)
	}
	_, err := w.Write(b)
	return err
}
