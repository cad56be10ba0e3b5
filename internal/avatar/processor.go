package avatar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/sudo-init-do/contactbook/internal/apperr"
)

const (
	Size        = 250
	jpegQuality = 90
)

// Processor stages uploads in a temp dir, resizes them and hands the
// result to a Store.
type Processor struct {
	tmpDir string
	store  Store
}

func NewProcessor(tmpDir string, store Store) (*Processor, error) {
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("tmp dir: %w", err)
	}
	return &Processor{tmpDir: tmpDir, store: store}, nil
}

// Replace stores up as <name>.jpg and returns the new avatar URL. The
// staged file is removed whatever the outcome.
func (p *Processor) Replace(ctx context.Context, name string, up Upload) (string, error) {
	tmpPath := ResolveTempPath(p.tmpDir, up)
	defer os.Remove(tmpPath)

	if err := stage(tmpPath, up.Content); err != nil {
		return "", apperr.IO("Failed to save avatar", err)
	}

	img, err := imaging.Open(tmpPath)
	if err != nil {
		return "", apperr.IO("Failed to process avatar", err)
	}
	resized := imaging.Resize(img, Size, Size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", apperr.IO("Failed to process avatar", err)
	}

	url, err := p.store.Put(ctx, objectName(name), buf.Bytes(), "image/jpeg")
	if err != nil {
		return "", apperr.IO("Failed to store avatar", err)
	}
	return url, nil
}

func stage(path string, r io.Reader) error {
	if r == nil {
		return fmt.Errorf("empty upload")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func objectName(name string) string {
	name = strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(name)
	if name == "" {
		name = "avatar"
	}
	return filepath.Base(name) + ".jpg"
}
