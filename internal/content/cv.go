package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveCV copies the CV document into dir under its suggested filename and
// returns the written path.
func SaveCV(cv CV, dir string) (string, error) {
	if cv.Path == "" || cv.Filename == "" {
		return "", fmt.Errorf("no CV configured")
	}
	src, err := os.Open(cv.Path)
	if err != nil {
		return "", fmt.Errorf("opening CV: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(cv.Filename))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", fmt.Errorf("copying CV: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", dst, err)
	}
	return dst, nil
}
