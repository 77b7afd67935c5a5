package bitmap

import (
	"errors"
	"image"
	"io"

	"github.com/devsnd/mibandres/palette"
)

var (
	errNotEnough = errors.New("bitmap: not enough image data")
	errBadDepth  = errors.New("bitmap: invalid bit depth or palette size")
	errShortRow  = errors.New("bitmap: row length too small for width")

	// ErrPaletteOverflow is returned when a pixel index is not strictly
	// less than the palette entry count.
	ErrPaletteOverflow = errors.New("bitmap: pixel index exceeds palette")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	header Header
	image  *image.Paletted
}

func (d *decoder) readHeader() error {
	var b [headerSize]byte
	if err := readFull(d.r, b[:]); err != nil {
		return err
	}

	copy(d.header.Signature[:], b[0:4])
	d.header.Width = byteOrder.Uint16(b[4:6])
	d.header.Height = byteOrder.Uint16(b[6:8])
	d.header.RowLength = byteOrder.Uint16(b[8:10])
	d.header.BitsPerPixel = byteOrder.Uint16(b[10:12])
	d.header.PaletteColors = byteOrder.Uint16(b[12:14])
	d.header.Transparency = byteOrder.Uint16(b[14:16])

	return d.header.validate()
}

func (d *decoder) readPixels() error {
	h := d.header
	row := make([]byte, h.RowLength)
	for y := 0; y < int(h.Height); y++ {
		if err := readFull(d.r, row); err != nil {
			return err
		}
		br := bitReader{b: row}
		for x := 0; x < int(h.Width); x++ {
			i := br.read(uint(h.BitsPerPixel))
			if int(i) >= int(h.PaletteColors) {
				return ErrPaletteOverflow
			}
			d.image.SetColorIndex(x, y, i)
		}
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}

	p, err := palette.Decode(d.r, int(d.header.PaletteColors))
	if err != nil {
		return err
	}

	if configOnly {
		d.image = &image.Paletted{Palette: p}
		return nil
	}

	d.image = image.NewPaletted(image.Rect(0, 0, int(d.header.Width), int(d.header.Height)), p)

	if err := d.readPixels(); err != nil {
		if err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}

	return nil
}

// bitReader yields fixed-width values from a byte slice, most significant
// bit first.
type bitReader struct {
	b   []byte
	pos uint
}

func (br *bitReader) read(bits uint) uint8 {
	var v uint8
	for i := uint(0); i < bits; i++ {
		byteIdx := br.pos >> 3
		bitIdx := 7 - br.pos&7
		v = v<<1 | br.b[byteIdx]>>bitIdx&1
		br.pos++
	}
	return v
}

// Decode reads one bitmap record from r and returns it as an indexed
// image along with its header. The image palette preserves the stored
// entry order exactly.
func Decode(r io.Reader) (*image.Paletted, Header, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, Header{}, err
	}
	return d.image, d.header, nil
}

// DecodeConfig returns the color model and dimensions of a bitmap record
// without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.image.Palette,
		Width:      int(d.header.Width),
		Height:     int(d.header.Height),
	}, nil
}
