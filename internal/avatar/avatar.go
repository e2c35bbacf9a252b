package avatar

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/soruforum/soruforum/internal/models"
)

// thumbnailSize is the bounding box avatars are scaled into.
const thumbnailSize = 125

// ErrUnsupportedType is returned for uploads that are not jpg or png.
var ErrUnsupportedType = errors.New("unsupported image type")

// Store saves profile images under random hex filenames and keeps them
// scaled down to thumbnail size.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Save writes the uploaded image to the store and returns the generated
// filename (random hex plus the original extension).
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrUnsupportedType
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	name := hex.EncodeToString(buf[:]) + ext

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer out.Close()

	thumb := thumbnail(src)
	switch ext {
	case ".png":
		err = png.Encode(out, thumb)
	default:
		err = jpeg.Encode(out, thumb, nil)
	}
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return name, nil
}

// Remove deletes a previously stored avatar. The shared default image is
// never removed. A missing file is not an error.
func (s *Store) Remove(name string) error {
	if name == "" || name == models.DefaultAvatar {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// thumbnail scales the image to fit within thumbnailSize on both axes,
// preserving aspect ratio. Images already small enough pass through.
func thumbnail(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= thumbnailSize && h <= thumbnailSize {
		return src
	}

	scale := float64(thumbnailSize) / float64(w)
	if h > w {
		scale = float64(thumbnailSize) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
