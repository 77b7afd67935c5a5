package resource

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"io/ioutil"

	"github.com/devsnd/mibandres/bitmap"
)

// A RecordError reports which bitmap record failed to decode or encode.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("resource: record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Record is one bitmap inside a container; the decoded indexed image
// together with its original record header, which is needed to re-encode
// the record byte-compatibly.
type Record struct {
	Info  bitmap.Header
	Image *image.Paletted
}

// File is a fully decoded resource container.
type File struct {
	Header  Header
	Entries []Entry
	Records []Record
}

// Decode parses an entire resource container held in b. Records are
// returned in offset table order. If any record fails to decode the
// error is a *RecordError identifying it and no File is returned.
func Decode(b []byte) (*File, error) {
	h, entries, err := DecodeTable(b)
	if err != nil {
		return nil, err
	}

	f := &File{
		Header:  h,
		Entries: entries,
		Records: make([]Record, len(entries)),
	}

	for i, e := range entries {
		m, info, err := bitmap.Decode(bytes.NewReader(b[e.Offset : e.Offset+e.Length]))
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		f.Records[i] = Record{Info: info, Image: m}
	}

	return f, nil
}

// Read reads a resource container in full from r and decodes it.
func Read(r io.Reader) (*File, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}
