package mibandres

import (
	"context"
	"image"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/devsnd/mibandres/resource"
)

type asset struct {
	index int
	image *image.Paletted
	path  string
}

func (t *Tool) findAssets(ctx context.Context, f *resource.File, dir string) (<-chan asset, <-chan error) {
	out := make(chan asset)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, rec := range f.Records {
			select {
			case out <- asset{index: i, image: rec.Image, path: filepath.Join(dir, AssetName(i))}:
			case <-ctx.Done():
				errc <- errors.New("unpack cancelled")
				return
			}
		}
	}()
	return out, errc
}

func (t *Tool) assetWorker(ctx context.Context, in <-chan asset) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for a := range in {
			if err := writePNG(a.path, a.image); err != nil {
				errc <- errors.Wrapf(err, "asset %d", a.index)
				return
			}
			t.logger.Printf("wrote %s (%dx%d, %d colors)\n",
				a.path, a.image.Rect.Dx(), a.image.Rect.Dy(), len(a.image.Palette))
		}
	}()
	return errc
}

func writePNG(path string, m *image.Paletted) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, m)
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Unpack reads the container at path and writes one indexed-color PNG
// per bitmap record into dir, creating it if necessary. Records decoded
// before a failing one may already be on disk; the error identifies the
// record that failed.
func (t *Tool) Unpack(path, dir string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	f, err := resource.Decode(b)
	if err != nil {
		return err
	}

	if !f.Header.ValidSignature() {
		t.logger.Printf("unknown container signature %q, continuing anyway\n", f.Header.Signature[:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	assets, errc := t.findAssets(ctx, f, dir)
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errcList = append(errcList, t.assetWorker(ctx, assets))
	}

	if err := waitForPipeline(errcList...); err != nil {
		return err
	}

	t.logger.Printf("unpacked %d bitmaps from %s\n", len(f.Records), path)

	return nil
}
