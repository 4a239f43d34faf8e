// Package output writes rendered frames to numbered image files.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// MaxNameLen is the longest file name (without directory) a FileStore will create.
const MaxNameLen = 255

var (
	// ErrNameTooLong is wrapped by *NameTooLongError.
	ErrNameTooLong = errors.New("output: file name too long")

	// ErrUnknownFormat is returned for an unregistered format name.
	ErrUnknownFormat = errors.New("output: unknown format")
)

// NameTooLongError is returned instead of writing to a truncated path.
type NameTooLongError struct {
	Name string
}

func (e *NameTooLongError) Error() string {
	return fmt.Sprintf("output: file name %q is %d bytes, limit is %d", e.Name, len(e.Name), MaxNameLen)
}

func (e *NameTooLongError) Unwrap() error { return ErrNameTooLong }

// Encoder writes img to w in one file format.
type Encoder func(w io.Writer, img *image.RGBA) error

// Format is a named file format.
type Format struct {
	Ext    string
	Encode Encoder
	// Video reports whether ffmpeg can read a numbered sequence of this format.
	Video bool
}

var formats = map[string]Format{
	"jpg":     {Ext: "jpg", Encode: encodeJPEG, Video: true},
	"png":     {Ext: "png", Encode: encodePNG, Video: true},
	"bmp":     {Ext: "bmp", Encode: encodeBMP, Video: true},
	"tiff":    {Ext: "tiff", Encode: encodeTIFF, Video: true},
	"rgb.zst": {Ext: "rgb.zst", Encode: encodeRawZstd},
}

// LookupFormat returns the format registered under name.
func LookupFormat(name string) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return Format{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownFormat, name, FormatNames())
	}
	return f, nil
}

// FormatNames returns the registered format names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for n := range formats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FileStore implements mandel.FrameStore by writing one file per frame,
// named <Base><index>.<ext>, or <Base>_final.<ext> in preview mode.
type FileStore struct {
	Dir     string
	Base    string
	Format  Format
	Preview bool
}

// NewFileStore returns a store writing format into dir.
func NewFileStore(dir, base, format string, preview bool) (*FileStore, error) {
	f, err := LookupFormat(format)
	if err != nil {
		return nil, err
	}
	s := &FileStore{Dir: dir, Base: base, Format: f, Preview: preview}
	// Fail on an overlong base before any frame is rendered.
	if _, err := s.Name(0); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the path frame index is written to.
func (s *FileStore) Name(index int) (string, error) {
	var name string
	if s.Preview {
		name = s.Base + "_final." + s.Format.Ext
	} else {
		name = s.Base + strconv.Itoa(index) + "." + s.Format.Ext
	}
	if len(name) > MaxNameLen {
		return "", &NameTooLongError{Name: name}
	}
	return filepath.Join(s.Dir, name), nil
}

// StoreFrame encodes img to its file. A partially written file is removed.
func (s *FileStore) StoreFrame(index int, img *image.RGBA) (err error) {
	path, err := s.Name(index)
	if err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // path is built from user configuration
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("output: close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := s.Format.Encode(w, img); err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

// Pattern returns the ffmpeg input pattern of the numbered sequence.
func (s *FileStore) Pattern() string {
	return filepath.Join(s.Dir, s.Base+"%d."+s.Format.Ext)
}

func encodeJPEG(w io.Writer, img *image.RGBA) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
}

func encodePNG(w io.Writer, img *image.RGBA) error {
	return png.Encode(w, img)
}

func encodeBMP(w io.Writer, img *image.RGBA) error {
	return bmp.Encode(w, img)
}

func encodeTIFF(w io.Writer, img *image.RGBA) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}
