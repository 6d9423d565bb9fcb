// Package draft persists editor drafts under named keys.
//
// The editor keeps one working draft per key. FileStore maps each key to a
// file in a directory, by default $XDG_DATA_HOME/go-eventpage/drafts.
package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"

	"github.com/alnah/go-eventpage/internal/fileutil"
)

// DefaultKey is the slot used when no key is given.
const DefaultKey = "cast_hp_visual_editor_text"

// fileExt is appended to keys to form file names.
const fileExt = ".md"

// Sentinel errors for draft operations.
var (
	ErrInvalidKey = errors.New("invalid draft key")
	ErrTooLarge   = errors.New("draft too large")
)

// MaxDraftSize caps a stored draft.
const MaxDraftSize = 4 << 20

// keyPattern restricts keys to names that are safe as file names.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,99}$`)

// Store loads and saves drafts by key.
type Store interface {
	// Load returns the draft stored under key. ok is false when no draft
	// has been saved yet.
	Load(key string) (value string, ok bool, err error)

	// Save replaces the draft stored under key.
	Save(key, value string) error
}

// FileStore stores each draft as a file in Dir.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// DefaultDir returns the per-user draft directory.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "go-eventpage", "drafts")
}

// NewFileStore creates a FileStore rooted at dir. An empty dir selects
// DefaultDir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = DefaultDir()
	}
	return &FileStore{dir: dir}
}

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// Load reads the draft stored under key.
func (s *FileStore) Load(key string) (string, bool, error) {
	path, err := s.Path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- key is validated
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading draft %q: %w", key, err)
	}
	return string(data), true, nil
}

// Save writes value under key, replacing any previous draft atomically.
func (s *FileStore) Save(key, value string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if len(value) > MaxDraftSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(value), MaxDraftSize)
	}

	if err := fileutil.WriteFileAtomic(path, []byte(value)); err != nil {
		return fmt.Errorf("saving draft %q: %w", key, err)
	}
	return nil
}

// ValidateKey checks that key can name a draft file.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
