package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Reader is the file-access capability the materializer depends on. The OS
// implementation is selected at composition time; tests substitute a fake.
type Reader interface {
	ReadFile(path string) ([]byte, error)
	WriteScratch(ext string, r io.Reader) (string, error)
	Remove(path string) error
}

type osReader struct {
	scratchDir string
}

func NewOSReader(scratchDir string) Reader {
	return &osReader{scratchDir: scratchDir}
}

func (o *osReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteScratch spools an incoming stream to the scratch directory and
// returns the path. The caller owns deletion.
func (o *osReader) WriteScratch(ext string, r io.Reader) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	path := filepath.Join(o.scratchDir, fmt.Sprintf("upload-%s%s", id, ext))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (o *osReader) Remove(path string) error {
	return os.Remove(path)
}
