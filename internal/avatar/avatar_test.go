package avatar

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/contactbook/internal/apperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newProcessor(t *testing.T) (*Processor, string, string) {
	t.Helper()
	root := t.TempDir()
	tmp := filepath.Join(root, "tmp")
	public := filepath.Join(root, "public", "avatars")
	store, err := NewLocalStore(public, "/avatars")
	require.NoError(t, err)
	p, err := NewProcessor(tmp, store)
	require.NoError(t, err)
	return p, tmp, public
}

func TestResolveTempPath(t *testing.T) {
	p := ResolveTempPath("tmp", Upload{Filename: "../../etc/me.png"})
	assert.Equal(t, "tmp", filepath.Dir(p))
	assert.True(t, strings.HasSuffix(p, "_me.png"))

	other := ResolveTempPath("tmp", Upload{Filename: "../../etc/me.png"})
	assert.NotEqual(t, p, other)

	assert.True(t, strings.HasSuffix(ResolveTempPath("tmp", Upload{}), "_upload"))
}

func TestReplaceResizesAndStores(t *testing.T) {
	p, tmp, public := newProcessor(t)

	url, err := p.Replace(context.Background(), "ann", Upload{Filename: "me.png", Content: bytes.NewReader(pngBytes(t, 40, 30))})
	require.NoError(t, err)
	assert.Equal(t, "/avatars/ann.jpg", url)

	img, err := imaging.Open(filepath.Join(public, "ann.jpg"))
	require.NoError(t, err)
	assert.Equal(t, Size, img.Bounds().Dx())
	assert.Equal(t, Size, img.Bounds().Dy())

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReplaceInvalidImage(t *testing.T) {
	p, tmp, public := newProcessor(t)

	_, err := p.Replace(context.Background(), "ann", Upload{Filename: "me.png", Content: strings.NewReader("not an image")})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindIO))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = os.Stat(filepath.Join(public, "ann.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "ann.jpg", objectName("ann"))
	assert.Equal(t, "__etc_passwd.jpg", objectName("../etc/passwd"))
	assert.Equal(t, "avatar.jpg", objectName(""))
}

type fakeS3 struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3StorePut(t *testing.T) {
	client := &fakeS3{}
	store := newS3Store(client, S3Options{Bucket: "media", Endpoint: "http://minio:9000/"})

	url, err := store.Put(context.Background(), "ann.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/media/avatars/ann.jpg", url)
	assert.Equal(t, "media", *client.in.Bucket)
	assert.Equal(t, "avatars/ann.jpg", *client.in.Key)
	assert.Equal(t, "image/jpeg", *client.in.ContentType)
}

func TestS3StoreDefaultsAndErrors(t *testing.T) {
	client := &fakeS3{err: errors.New("denied")}
	store := newS3Store(client, S3Options{Bucket: "media", Region: "eu-west-1"})
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com", store.publicURL)

	_, err := store.Put(context.Background(), "ann.jpg", nil, "image/jpeg")
	assert.ErrorContains(t, err, "denied")
}
