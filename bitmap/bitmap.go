/*
Package bitmap implements a Mi Band resource bitmap decoder and encoder.

Each bitmap is a self-contained record; a 16 byte header, a color palette
and then the pixel data. The header holds a 4 byte signature followed by
six 16-bit little-endian fields; width, height, the number of bytes per
pixel row, bits per pixel, the number of palette entries and a
transparency flag. The palette is stored as described by the palette
package. Pixel data is written row by row, each row exactly rowLength
bytes, with pixel palette indices packed most-significant-bit first at
bitsPerPixel bits each. A row whose width is not a whole number of bytes
is padded out with zero bits.

Bits per pixel and the palette size are per record; different bitmaps in
the same resource file routinely use different palette depths.
*/
package bitmap

import (
	"encoding/binary"

	"github.com/devsnd/mibandres/palette"
)

const (
	headerSize = 16
	maxDepth   = 8
)

// Header is the fixed-format header in front of every bitmap record. The
// signature bytes are opaque to this package and are preserved verbatim
// between decode and encode.
type Header struct {
	Signature     [4]byte
	Width         uint16
	Height        uint16
	RowLength     uint16
	BitsPerPixel  uint16
	PaletteColors uint16
	Transparency  uint16
}

// Size returns the encoded size in bytes of a record using this header.
func (h Header) Size() int {
	return headerSize + int(h.PaletteColors)*palette.EntrySize + int(h.Height)*int(h.RowLength)
}

func (h Header) validate() error {
	if h.BitsPerPixel < 1 || h.BitsPerPixel > maxDepth {
		return errBadDepth
	}
	if uint32(h.PaletteColors) > 1<<h.BitsPerPixel {
		return errBadDepth
	}
	if int(h.RowLength)*8 < int(h.Width)*int(h.BitsPerPixel) {
		return errShortRow
	}
	return nil
}

var byteOrder = binary.LittleEndian
