package mibandres

import (
	"bytes"
	"image"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/devsnd/mibandres/resource"
)

var errNotIndexed = errors.New("asset is not an indexed-color image")

func readPNG(path string) (*image.Paletted, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	pm, ok := m.(*image.Paletted)
	if !ok {
		return nil, errNotIndexed
	}
	return pm, nil
}

func countAssets(dir string) (int, error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, info := range infos {
		if info.Mode().IsRegular() && filepath.Ext(info.Name()) == ".png" {
			n++
		}
	}
	return n, nil
}

// Repack reads the original container at path for its record order and
// headers, loads the matching edited assets from dir and writes a fresh
// container to out. The directory must hold exactly one PNG per record;
// any other count fails with resource.ErrCountMismatch before anything
// is written. The output file is only created once every record has
// encoded successfully.
func (t *Tool) Repack(path, dir, out string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	f, err := resource.Decode(b)
	if err != nil {
		return err
	}

	n, err := countAssets(dir)
	if err != nil {
		return err
	}
	if n != len(f.Records) {
		return errors.Wrapf(resource.ErrCountMismatch, "%d assets in %s, container has %d records", n, dir, len(f.Records))
	}

	for i := range f.Records {
		m, err := readPNG(filepath.Join(dir, AssetName(i)))
		if err != nil {
			return errors.Wrapf(err, "asset %d", i)
		}
		f.Records[i].Image = m
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return err
	}

	if err := ioutil.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return err
	}

	t.logger.Printf("repacked %d bitmaps into %s (%d bytes)\n", len(f.Records), out, buf.Len())

	return nil
}

// Roundtrip unpacks the container and immediately repacks it from the
// freshly written assets. Useful for verifying that a container survives
// the codec before spending time editing it.
func (t *Tool) Roundtrip(path, dir, out string) error {
	if err := t.Unpack(path, dir); err != nil {
		return err
	}
	return t.Repack(path, dir, out)
}
