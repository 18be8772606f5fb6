// Package icon loads Windows .ico files into images usable by any backend.
package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

var (
	// ErrNotIcon is returned for paths that do not name an existing .ico file.
	ErrNotIcon = errors.New("not an .ico file")
	// ErrNoImages is returned when no entry of the icon could be decoded.
	ErrNoImages = errors.New("icon contains no decodable images")
)

const (
	dirLen        = 6
	entryLen      = 16
	fileHeaderLen = 14
	infoHeaderLen = 40
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// NormalizePath converts Windows separators so the same config works on every
// platform.
func NormalizePath(path string) string {
	return filepath.FromSlash(strings.ReplaceAll(path, `\`, "/"))
}

// Check reports whether path names an existing file with a .ico extension.
func Check(path string) error {
	path = NormalizePath(path)
	if path == "" || !strings.EqualFold(filepath.Ext(path), ".ico") {
		return fmt.Errorf("%w: %q", ErrNotIcon, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotIcon, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %q is a directory", ErrNotIcon, path)
	}
	return nil
}

// Load reads every image stored in the icon file at path, largest first as
// stored in the file.
func Load(path string) ([]image.Image, error) {
	if err := Check(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(NormalizePath(path))
	if err != nil {
		return nil, fmt.Errorf("read icon: %w", err)
	}
	return Decode(data)
}

// Decode parses an ICO container. Entries that cannot be decoded are
// skipped.
func Decode(data []byte) ([]image.Image, error) {
	if len(data) < dirLen {
		return nil, fmt.Errorf("%w: short header", ErrNotIcon)
	}
	if binary.LittleEndian.Uint16(data[0:2]) != 0 || binary.LittleEndian.Uint16(data[2:4]) != 1 {
		return nil, fmt.Errorf("%w: bad icon directory", ErrNotIcon)
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if len(data) < dirLen+count*entryLen {
		return nil, fmt.Errorf("%w: truncated directory", ErrNotIcon)
	}

	var images []image.Image
	for i := 0; i < count; i++ {
		e := data[dirLen+i*entryLen : dirLen+(i+1)*entryLen]
		size := int(binary.LittleEndian.Uint32(e[8:12]))
		offset := int(binary.LittleEndian.Uint32(e[12:16]))
		if size <= 0 || offset < 0 || offset+size > len(data) {
			continue
		}
		img, err := decodeEntry(data[offset : offset+size])
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

func decodeEntry(b []byte) (image.Image, error) {
	if bytes.HasPrefix(b, pngMagic) {
		return png.Decode(bytes.NewReader(b))
	}
	if len(b) < infoHeaderLen {
		return nil, errors.New("short bitmap header")
	}
	headerLen := int(binary.LittleEndian.Uint32(b[0:4]))
	if headerLen < infoHeaderLen || headerLen > len(b) {
		return nil, fmt.Errorf("unsupported bitmap header size %d", headerLen)
	}

	// The stored height covers the colour bitmap and the AND mask.
	dib := append([]byte(nil), b...)
	height := int32(binary.LittleEndian.Uint32(dib[8:12]))
	binary.LittleEndian.PutUint32(dib[8:12], uint32(height/2))

	bpp := int(binary.LittleEndian.Uint16(dib[14:16]))
	colors := int(binary.LittleEndian.Uint32(dib[32:36]))
	switch {
	case bpp > 8:
		colors = 0
	case colors == 0:
		colors = 1 << bpp
	}

	pixOffset := fileHeaderLen + headerLen + colors*4
	file := make([]byte, fileHeaderLen, fileHeaderLen+len(dib))
	file[0], file[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(file[2:6], uint32(fileHeaderLen+len(dib)))
	binary.LittleEndian.PutUint32(file[10:14], uint32(pixOffset))
	file = append(file, dib...)
	return bmp.Decode(bytes.NewReader(file))
}
