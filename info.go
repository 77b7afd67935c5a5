package mibandres

import (
	"fmt"
	"io"
	"io/ioutil"
	"text/tabwriter"

	"github.com/devsnd/mibandres/resource"
)

// Info writes a human-readable listing of the container at path to w;
// one line per bitmap record plus a summary including the total size,
// which matters when the target flash partition has a fixed size.
func (t *Tool) Info(path string, w io.Writer) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	f, err := resource.Decode(b)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "signature %q version %d, %d bitmaps, %d bytes\n",
		f.Header.Signature[:], f.Header.Version, f.Header.Count, len(b))

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tWIDTH\tHEIGHT\tBPP\tCOLORS\tOFFSET\tLENGTH")
	for i, rec := range f.Records {
		e := f.Entries[i]
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			i, rec.Info.Width, rec.Info.Height, rec.Info.BitsPerPixel,
			rec.Info.PaletteColors, e.Offset, e.Length)
	}
	return tw.Flush()
}
