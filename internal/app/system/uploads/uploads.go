// Package uploads stores post images on local disk and hands back the
// URL they are served from. Image handling is deliberately minimal: the
// store only ever sees the resulting URL string.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedExt is the accepted set of image extensions.
var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Saver writes uploaded files into a directory served under URLPrefix.
type Saver struct {
	Dir       string
	URLPrefix string
}

// NewSaver ensures the upload directory exists.
func NewSaver(dir, urlPrefix string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Saver{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Save writes the uploaded file under a random name and returns its URL path.
func (s *Saver) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return s.URLPrefix + "/" + name, nil
}
