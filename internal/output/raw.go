package output

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/klauspost/compress/zstd"
)

// rawMagic starts every rgb.zst payload, followed by width and height as
// big-endian uint32 and then tightly packed 24-bit RGB rows.
const rawMagic = "MZR1"

func encodeRawZstd(w io.Writer, img *image.RGBA) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("zstd encode: %w", err)
	}

	b := img.Bounds()
	var hdr [12]byte
	copy(hdr[:4], rawMagic)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(b.Dx()))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(b.Dy()))
	if _, err := enc.Write(hdr[:]); err != nil {
		_ = enc.Close()
		return err
	}

	row := make([]byte, 3*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			copy(row[3*x:3*x+3], src[4*x:4*x+3])
		}
		if _, err := enc.Write(row); err != nil {
			_ = enc.Close()
			return err
		}
	}
	return enc.Close()
}

// DecodeRaw reads an rgb.zst payload back into an opaque RGBA image.
func DecodeRaw(r io.Reader) (*image.RGBA, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	defer dec.Close()

	var hdr [12]byte
	if _, err := io.ReadFull(dec, hdr[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr[:4]) != rawMagic {
		return nil, fmt.Errorf("output: bad raw frame magic %q", hdr[:4])
	}
	w := int(binary.BigEndian.Uint32(hdr[4:8]))
	h := int(binary.BigEndian.Uint32(hdr[8:12]))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	row := make([]byte, 3*w)
	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(dec, row); err != nil {
			return nil, fmt.Errorf("read row %d: %w", y, err)
		}
		dst := img.Pix[img.PixOffset(0, y):]
		for x := 0; x < w; x++ {
			copy(dst[4*x:4*x+3], row[3*x:3*x+3])
			dst[4*x+3] = 0xff
		}
	}
	return img, nil
}
