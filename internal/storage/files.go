// Package storage keeps uploaded logo files on local disk.
package storage

import (
	"errors"        // Missing file checks
	"fmt"           // Error wrapping
	"io"            // Upload streams
	"os"            // File system access
	"path/filepath" // File extensions
	"regexp"        // Filename sanitizing
	"strings"       // Name cleanup
	"time"          // Name stamps
)

// FileStore saves and removes uploaded files.
type FileStore interface {
	// Save writes r under a generated name derived from original and returns that name.
	Save(original string, r io.Reader) (string, error)
	// Remove deletes a stored file. A missing file is not an error.
	Remove(name string) error
}

// DiskStore stores files in a single directory.
type DiskStore struct {
	dir string
	now func() time.Time
}

// NewDiskStore creates dir if needed and returns a store rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, now: time.Now}, nil
}

// Dir is the directory files are written to.
func (s *DiskStore) Dir() string { return s.dir }

// maxNameAttempts bounds the numbered retries when a generated name is taken
const maxNameAttempts = 100

// Save writes r as <YYYYMMDD_HHMMSS>_<sanitized original>. A name already
// taken within the same second gets a numeric suffix after the timestamp.
func (s *DiskStore) Save(original string, r io.Reader) (string, error) {
	stamp := s.now().Format("20060102_150405")
	base := SanitizeFilename(original)
	var (
		f    *os.File
		name string
		err  error
	)
	for i := 0; i < maxNameAttempts; i++ {
		name = stamp + "_" + base
		if i > 0 {
			name = fmt.Sprintf("%s_%d_%s", stamp, i, base)
		}
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes the named file. A missing file is not an error.
func (s *DiskStore) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid stored name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

var (
	unsafeChars  = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	extensionRun = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)
)

// SanitizeFilename reduces name to a safe single path element. The
// extension survives even when nothing of the stem does.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Join(strings.Fields(name), "_")
	ext := filepath.Ext(name)
	if !extensionRun.MatchString(ext) {
		ext = ""
	}
	stem := unsafeChars.ReplaceAllString(strings.TrimSuffix(name, ext), "")
	stem = strings.Trim(stem, "._")
	if stem == "" {
		stem = "file"
	}
	return stem + ext
}
