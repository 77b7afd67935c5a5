/*
Package mibandres is a library for unpacking and repacking the bitmap
resource containers used by Mi Band wearable firmware.

A container is unpacked into a directory of indexed-color PNG files, one
per bitmap, named after the bitmap's position in the container. The PNGs
carry each bitmap's exact palette and may be edited pixel by pixel;
repacking reads them back in the same order and produces a new container
in the format the firmware expects. Editors must not resize an image or
add, remove or reorder its palette entries.
*/
package mibandres

import (
	"fmt"
	"log"
)

const numWorkers = 4

// Tool ties together the container codec and the asset directory I/O.
type Tool struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Tool {
	return &Tool{
		logger: logger,
	}
}

// AssetName returns the file name used for the asset unpacked from the
// bitmap record at index i. The index is the only identity a record has,
// so the same name is used when the asset is read back during repack.
func AssetName(i int) string {
	return fmt.Sprintf("%d.png", i)
}
