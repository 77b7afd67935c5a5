package resource

import (
	"bytes"
	"errors"
	"io"

	"github.com/devsnd/mibandres/bitmap"
)

// ErrCountMismatch is returned when the number of records being encoded
// differs from the count in the container header. The firmware expects
// exactly that many bitmaps, so the mismatch is never papered over by
// truncating or padding.
var ErrCountMismatch = errors.New("resource: record count does not match container header")

// Encode serializes the container to w. Every record is re-encoded in
// order via the bitmap package and the offset table is recomputed from
// the resulting lengths. The whole container is assembled in memory
// first; if any record fails, nothing is written to w and the error is a
// *RecordError identifying it.
func (f *File) Encode(w io.Writer) error {
	if len(f.Records) != int(f.Header.Count) {
		return ErrCountMismatch
	}

	blobs := make([][]byte, len(f.Records))
	for i, rec := range f.Records {
		var buf bytes.Buffer
		if err := bitmap.Encode(&buf, rec.Image, rec.Info); err != nil {
			return &RecordError{Index: i, Err: err}
		}
		blobs[i] = buf.Bytes()
	}

	table, _ := BuildTable(blobs)

	var out bytes.Buffer
	out.Write(f.Header.encode())
	out.Write(table)
	for _, blob := range blobs {
		out.Write(blob)
	}

	_, err := w.Write(out.Bytes())
	return err
}
