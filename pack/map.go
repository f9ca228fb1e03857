package pack

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// IsLegacyMap reports whether path is a zlib-compressed Shogun 2 workshop
// map. These are ".bin" files that fail the header check; the only way to
// tell them apart from garbage is to decompress them completely.
func IsLegacyMap(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".bin") {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	zr, err := zlib.NewReader(bufio.NewReader(f))
	if err != nil {
		return false
	}
	defer zr.Close()

	_, err = io.Copy(io.Discard, zr)
	return err == nil
}
