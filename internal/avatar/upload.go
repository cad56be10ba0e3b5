package avatar

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload is an avatar file received from a client.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ResolveTempPath returns where an upload is staged inside dir. Only the
// base name of the client file name is kept, prefixed with a random id so
// concurrent uploads never collide.
func ResolveTempPath(dir string, up Upload) string {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(up.Filename, `\`, "/")))
	if base == "/" || base == "." {
		base = "upload"
	}
	return filepath.Join(dir, uuid.NewString()+"_"+base)
}
