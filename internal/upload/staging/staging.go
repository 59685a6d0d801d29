// Package staging owns the on-disk placement of uploaded artifacts awaiting
// verification. Accepted files stay here; production would hand them to an
// object store afterwards.
package staging

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// Store manages staged artifacts inside a single directory.
type Store struct {
	dir string
}

// SavedFile describes a staged artifact.
type SavedFile struct {
	// Name is the collision-resistant filename within the staging directory.
	Name string
	// Path is the full on-disk path.
	Path string
	// Size is the number of bytes written.
	Size int64
}

// New creates the staging directory if needed and returns a Store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create staging directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the staging directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save streams reader to disk under a generated name
// (<fieldname>-<millisecond-timestamp>-<random-suffix><original-extension>).
// Only the extension is taken from the untrusted original filename, so an
// attacker-chosen name can never address an existing file.
//
// The write goes to a temp file first and is renamed into place, so a partial
// write never appears under a staged name.
func (s *Store) Save(reader io.Reader, fieldName, originalFilename string) (*SavedFile, error) {
	name, err := storageName(fieldName, originalFilename)
	if err != nil {
		return nil, err
	}
	fullPath := filepath.Join(s.dir, name)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("could not create staging file: %w", err)
	}

	size, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("could not write staged data: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("could not close staging file: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("could not finalize staging file: %w", err)
	}

	return &SavedFile{Name: name, Path: fullPath, Size: size}, nil
}

// ReadPrefix returns up to n leading bytes of a staged file. Fewer bytes than
// requested is not an error; the caller treats short reads as non-matches.
func (s *Store) ReadPrefix(name string, n int) ([]byte, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("could not open staged file %s: %w", name, err)
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return buf[:read], nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read staged file %s: %w", name, err)
	}
	return buf, nil
}

// Remove deletes a staged file. Returns nil if the file is already gone.
func (s *Store) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove staged file %s: %w", name, err)
	}
	return nil
}

// Exists reports whether a staged file is present on disk.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// storageName builds <fieldname>-<millis>-<random><ext>. The random suffix
// makes concurrent saves collision-resistant even within one millisecond.
func storageName(fieldName, originalFilename string) (string, error) {
	suffix, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", fmt.Errorf("could not generate filename suffix: %w", err)
	}
	ext := filepath.Ext(filepath.Base(originalFilename))
	return fmt.Sprintf("%s-%d-%d%s", fieldName, time.Now().UnixMilli(), suffix, ext), nil
}
