/*
Package resource implements a Mi Band firmware resource container decoder
and encoder.

A container starts with a 20 byte header; a 5 byte signature, a version
byte, 10 opaque bytes which are preserved verbatim, and a little-endian
32-bit count of bitmap records. The offset table follows immediately; one
little-endian 32-bit value per record, holding the record's offset
relative to the end of the table, so the first entry is always zero.
Record lengths are not stored, each record runs up to the next one and
the final record runs to the end of the file. Records are tightly packed
with no alignment padding and each one is a standalone bitmap in the
format implemented by the bitmap package.
*/
package resource

import (
	"encoding/binary"
	"errors"
)

// Signature is the expected value of the container signature field.
const Signature = "HMRES"

const (
	headerSize = 20
	entrySize  = 4
)

var (
	// ErrTruncatedTable is returned when the container is too short to
	// hold the header and the offset table it declares.
	ErrTruncatedTable = errors.New("resource: truncated offset table")

	errTableOrder = errors.New("resource: offset table entries out of order")
)

var byteOrder = binary.LittleEndian

// Header is the fixed-format container header. Reserved bytes are opaque
// and survive a round trip unchanged.
type Header struct {
	Signature [5]byte
	Version   uint8
	Reserved  [10]byte
	Count     uint32
}

// ValidSignature reports whether the header carries the known device
// family signature. An unknown signature is not an error on its own; the
// firmware variants in the wild are not exhaustively documented.
func (h Header) ValidSignature() bool {
	return string(h.Signature[:]) == Signature
}

// An Entry locates one bitmap record inside the container. Offset is
// absolute from the start of the container.
type Entry struct {
	Offset uint32
	Length uint32
}

// DecodeTable parses the container header and offset table from b, which
// must hold the entire container. The returned entries carry absolute
// offsets and derived lengths, in stored order.
func DecodeTable(b []byte) (Header, []Entry, error) {
	var h Header
	if len(b) < headerSize {
		return Header{}, nil, ErrTruncatedTable
	}

	copy(h.Signature[:], b[0:5])
	h.Version = b[5]
	copy(h.Reserved[:], b[6:16])
	h.Count = byteOrder.Uint32(b[16:20])

	tableEnd := headerSize + entrySize*int(h.Count)
	if len(b) < tableEnd {
		return Header{}, nil, ErrTruncatedTable
	}

	entries := make([]Entry, h.Count)
	for i := range entries {
		rel := byteOrder.Uint32(b[headerSize+i*entrySize:])
		entries[i].Offset = uint32(tableEnd) + rel
	}
	for i := range entries {
		var next uint32
		if i < len(entries)-1 {
			next = entries[i+1].Offset
		} else {
			next = uint32(len(b))
		}
		if next < entries[i].Offset {
			return Header{}, nil, errTableOrder
		}
		entries[i].Length = next - entries[i].Offset
	}
	if len(entries) > 0 && entries[len(entries)-1].Offset+entries[len(entries)-1].Length > uint32(len(b)) {
		return Header{}, nil, ErrTruncatedTable
	}

	return h, entries, nil
}

// BuildTable computes a fresh offset table for the given ordered record
// blobs. It returns the stored form of the table together with the
// recomputed entries; the first record starts immediately after the
// table and each subsequent offset is the previous offset plus the
// previous record's length.
func BuildTable(records [][]byte) ([]byte, []Entry) {
	tableEnd := uint32(headerSize + entrySize*len(records))

	b := make([]byte, entrySize*len(records))
	entries := make([]Entry, len(records))

	var rel uint32
	for i, rec := range records {
		byteOrder.PutUint32(b[i*entrySize:], rel)
		entries[i] = Entry{
			Offset: tableEnd + rel,
			Length: uint32(len(rec)),
		}
		rel += uint32(len(rec))
	}
	return b, entries
}

func (h Header) encode() []byte {
	b := make([]byte, headerSize)
	copy(b[0:5], h.Signature[:])
	b[5] = h.Version
	copy(b[6:16], h.Reserved[:])
	byteOrder.PutUint32(b[16:20], h.Count)
	return b
}
