package resource

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsnd/mibandres/bitmap"
)

func testHeader(count int) Header {
	h := Header{
		Version: 4,
		Count:   uint32(count),
	}
	copy(h.Signature[:], Signature)
	h.Reserved = [10]byte{0x01, 0x02, 0x03}
	return h
}

// testRecord builds one valid record of the given geometry with a
// two-entry palette and alternating pixel indices.
func testRecord(t *testing.T, width, height, bpp int) Record {
	rowLength := (width*bpp + 7) / 8
	rec := Record{
		Info: bitmap.Header{
			Signature:     [4]byte{'B', 'M', 0x10, 0x08},
			Width:         uint16(width),
			Height:        uint16(height),
			RowLength:     uint16(rowLength),
			BitsPerPixel:  uint16(bpp),
			PaletteColors: 2,
		},
		Image: image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{
			color.RGBA{0x00, 0x00, 0x00, 0xff},
			color.RGBA{0xff, 0xff, 0xff, 0xff},
		}),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rec.Image.SetColorIndex(x, y, uint8((x+y)&1))
		}
	}
	return rec
}

func testContainer(t *testing.T) []byte {
	f := &File{
		Header: testHeader(3),
		Records: []Record{
			testRecord(t, 8, 2, 1),
			testRecord(t, 3, 3, 4),
			testRecord(t, 2, 2, 8),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	return buf.Bytes()
}

func TestDecodeTable(t *testing.T) {
	b := testContainer(t)

	h, entries, err := DecodeTable(b)
	require.NoError(t, err)

	assert.True(t, h.ValidSignature())
	assert.Equal(t, uint8(4), h.Version)
	assert.Equal(t, uint32(3), h.Count)
	require.Len(t, entries, 3)

	// The first record starts immediately after the table and every
	// offset is the previous offset plus the previous length.
	assert.Equal(t, uint32(headerSize+3*entrySize), entries[0].Offset)
	for i := 1; i < len(entries); i++ {
		assert.Equal(t, entries[i-1].Offset+entries[i-1].Length, entries[i].Offset)
	}
	last := entries[len(entries)-1]
	assert.Equal(t, uint32(len(b)), last.Offset+last.Length)
}

func TestDecodeTableTruncated(t *testing.T) {
	b := testContainer(t)

	for _, n := range []int{0, headerSize - 1, headerSize + 2*entrySize} {
		_, _, err := DecodeTable(b[:n])
		assert.Equal(t, ErrTruncatedTable, err)
	}
}

func TestBuildTable(t *testing.T) {
	records := [][]byte{
		make([]byte, 40),
		make([]byte, 25),
		make([]byte, 60),
	}

	b, entries := BuildTable(records)
	tableEnd := uint32(headerSize + entrySize*len(records))

	require.Len(t, entries, 3)
	assert.Equal(t, []Entry{
		{Offset: tableEnd, Length: 40},
		{Offset: tableEnd + 40, Length: 25},
		{Offset: tableEnd + 65, Length: 60},
	}, entries)

	// Stored form is relative to the end of the table.
	assert.Equal(t, []byte{
		0x00, 0x00, 0x00, 0x00,
		0x28, 0x00, 0x00, 0x00,
		0x41, 0x00, 0x00, 0x00,
	}, b)
}

func TestRoundTrip(t *testing.T) {
	b := testContainer(t)

	f, err := Decode(b)
	require.NoError(t, err)
	require.Len(t, f.Records, 3)
	assert.Equal(t, [10]byte{0x01, 0x02, 0x03}, f.Header.Reserved)

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	assert.Equal(t, b, buf.Bytes())
}

func TestDecodeRecordError(t *testing.T) {
	b := testContainer(t)

	_, entries, err := DecodeTable(b)
	require.NoError(t, err)

	// Corrupt the second record's bit depth.
	bad := append([]byte{}, b...)
	bad[entries[1].Offset+10] = 0x00

	_, err = Decode(bad)
	require.Error(t, err)

	var re *RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1, re.Index)
}

func TestEncodeCountMismatch(t *testing.T) {
	f, err := Decode(testContainer(t))
	require.NoError(t, err)

	f.Records = f.Records[:2]

	var buf bytes.Buffer
	assert.Equal(t, ErrCountMismatch, f.Encode(&buf))
	assert.Zero(t, buf.Len())

	f.Records = append(f.Records, f.Records[0], f.Records[1])
	assert.Equal(t, ErrCountMismatch, f.Encode(&buf))
	assert.Zero(t, buf.Len())
}

func TestEncodeRecordError(t *testing.T) {
	f, err := Decode(testContainer(t))
	require.NoError(t, err)

	// Out of contract edit; an index outside the record's palette.
	f.Records[2].Image.Pix[0] = 5

	var buf bytes.Buffer
	err = f.Encode(&buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())

	var re *RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 2, re.Index)
	assert.True(t, errors.Is(err, bitmap.ErrPaletteOverflow))
}

func TestEditShiftsLaterOffsetsOnly(t *testing.T) {
	b := testContainer(t)

	f, err := Decode(b)
	require.NoError(t, err)

	// Flip one pixel of the middle record; the record length does not
	// change, so the container differs only inside that record.
	f.Records[1].Image.SetColorIndex(0, 0, 1-f.Records[1].Image.ColorIndexAt(0, 0))

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	edited := buf.Bytes()

	require.Equal(t, len(b), len(edited))

	_, entries, err := DecodeTable(b)
	require.NoError(t, err)
	_, editedEntries, err := DecodeTable(edited)
	require.NoError(t, err)
	assert.Equal(t, entries, editedEntries)

	for i, e := range entries {
		same := bytes.Equal(b[e.Offset:e.Offset+e.Length], edited[e.Offset:e.Offset+e.Length])
		assert.Equal(t, i != 1, same, "record %d", i)
	}
}
