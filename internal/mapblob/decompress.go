package mapblob

import (
	"archive/zip"
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// zipMagic is the four-byte signature at the start of a local file
// header, used to tell a zip-wrapped blob apart from a bare zlib stream.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// Decompress returns the raw map-data bytes inside blob, transparently
// unwrapping a zip archive (taking its first entry) or a bare zlib
// stream. Some servers send the blob uncompressed; Decompress returns
// it unchanged in that case.
func Decompress(blob []byte) ([]byte, error) {
	if len(blob) >= 4 && bytes.Equal(blob[:4], zipMagic) {
		return decompressZip(blob)
	}
	if out, ok := tryZlib(blob); ok {
		return out, nil
	}
	return blob, nil
}

func decompressZip(blob []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("mapblob: open zip: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("mapblob: zip archive has no entries")
	}
	f, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("mapblob: open zip entry %q: %w", r.File[0].Name, err)
	}
	defer f.Close()

	out, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("mapblob: read zip entry %q: %w", r.File[0].Name, err)
	}
	return out, nil
}

func tryZlib(blob []byte) ([]byte, bool) {
	zr, err := zlib.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, false
	}
	return out, true
}
