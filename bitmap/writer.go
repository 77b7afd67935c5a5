package bitmap

import (
	"errors"
	"image"
	"io"

	"github.com/devsnd/mibandres/palette"
)

// ErrDimensionMismatch is returned when the image being encoded does not
// have the dimensions declared by the record header.
var ErrDimensionMismatch = errors.New("bitmap: image does not match header dimensions")

type encoder struct {
	w io.Writer
}

func (e *encoder) writeHeader(h Header) error {
	var b [headerSize]byte

	copy(b[0:4], h.Signature[:])
	byteOrder.PutUint16(b[4:6], h.Width)
	byteOrder.PutUint16(b[6:8], h.Height)
	byteOrder.PutUint16(b[8:10], h.RowLength)
	byteOrder.PutUint16(b[10:12], h.BitsPerPixel)
	byteOrder.PutUint16(b[12:14], h.PaletteColors)
	byteOrder.PutUint16(b[14:16], h.Transparency)

	_, err := e.w.Write(b[:])
	return err
}

func (e *encoder) writePixels(m *image.Paletted, h Header) error {
	row := make([]byte, h.RowLength)
	for y := 0; y < int(h.Height); y++ {
		for i := range row {
			row[i] = 0
		}
		bw := bitWriter{b: row}
		for x := 0; x < int(h.Width); x++ {
			bw.write(m.ColorIndexAt(x, y), uint(h.BitsPerPixel))
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// bitWriter packs fixed-width values into a byte slice, most significant
// bit first. Trailing bits in the slice stay zero.
type bitWriter struct {
	b   []byte
	pos uint
}

func (bw *bitWriter) write(v uint8, bits uint) {
	for i := bits; i > 0; i-- {
		byteIdx := bw.pos >> 3
		bitIdx := 7 - bw.pos&7
		bw.b[byteIdx] |= v >> (i - 1) & 1 << bitIdx
		bw.pos++
	}
}

// Encode writes the indexed image m to w as one bitmap record described
// by h. The header is written as given so the signature, row length and
// transparency flag of the original record survive a round trip.
//
// Encode fails with ErrDimensionMismatch if the image bounds differ from
// the header dimensions, with ErrPaletteOverflow if any pixel index is
// not strictly less than the header palette entry count, and with
// palette.ErrMalformed if the image palette does not hold exactly that
// many entries.
func Encode(w io.Writer, m *image.Paletted, h Header) error {
	if err := h.validate(); err != nil {
		return err
	}

	b := m.Bounds()
	if b.Dx() != int(h.Width) || b.Dy() != int(h.Height) {
		return ErrDimensionMismatch
	}

	if len(m.Palette) != int(h.PaletteColors) {
		return palette.ErrMalformed
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if int(m.ColorIndexAt(x, y)) >= int(h.PaletteColors) {
				return ErrPaletteOverflow
			}
		}
	}

	// Adjust image so that top-left corner is at (0, 0)
	if m.Rect.Min != (image.Point{}) {
		dup := *m
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		m = &dup
	}

	e := encoder{w: w}

	if err := e.writeHeader(h); err != nil {
		return err
	}
	if err := palette.Encode(w, m.Palette); err != nil {
		return err
	}
	return e.writePixels(m, h)
}
