// Package assets manages uploaded poster images on the local
// filesystem. A Store validates incoming multipart files, writes them
// under a fixed upload root with a collision-resistant name, and
// removes files best-effort when a movie is deleted or its poster is
// replaced. Callers persist only the root-relative reference a Save
// returns; the reference doubles as the URL path the file is served at.
package assets

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoFile is returned when the form carried no file or an empty filename.
var ErrNoFile = errors.New("no file selected")

// ErrBadFileType is returned when the filename extension is not an
// allowed image type.
var ErrBadFileType = errors.New("file type not allowed")

// allowedExt is the extension allow-list for uploads. Validation is by
// extension only, matching what the catalog links to at render time.
var allowedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Store writes and removes poster files under Root. Root is created on
// first use; references returned by Save are of the form
// "<base(Root)>/<name>" so they can be stored directly in the catalog
// and resolved by the static file route.
type Store struct{ Root string }

func NewStore(root string) *Store { return &Store{Root: root} }

// Save validates and writes an uploaded file, returning its reference.
// The stored name combines a nanosecond timestamp with a sanitized
// version of the original filename, which keeps concurrent uploads of
// identically named files from colliding.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil || strings.TrimSpace(fh.Filename) == "" {
		return "", ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrBadFileType
	}

	name := time.Now().UTC().Format("20060102T150405.000000000") + "_" + sanitize(fh.Filename)

	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Root, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	return path.Join(filepath.Base(s.Root), name), nil
}

// Remove deletes the file behind a reference previously returned by
// Save. It is best-effort: a missing file is silently ignored and any
// other failure is logged, never returned, so a catalog write is never
// blocked by filesystem cleanup.
func (s *Store) Remove(ref string) {
	name, ok := s.nameFromRef(ref)
	if !ok {
		log.Printf("assets: refusing to remove reference outside upload root: %q", ref)
		return
	}
	if err := os.Remove(filepath.Join(s.Root, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("assets: remove %q failed: %v", ref, err)
	}
}

// nameFromRef extracts the bare file name from a stored reference and
// rejects anything that would escape the upload root.
func (s *Store) nameFromRef(ref string) (string, bool) {
	ref = path.Clean(strings.TrimSpace(ref))
	if ref == "" || ref == "." || strings.Contains(ref, "..") {
		return "", false
	}
	name := path.Base(ref)
	if name == "." || name == "/" {
		return "", false
	}
	return name, true
}

// sanitize strips path separators and anything outside a conservative
// character set from the original filename.
func sanitize(original string) string {
	base := filepath.Base(filepath.ToSlash(original))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
