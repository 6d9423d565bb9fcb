package draft

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// TestValidateKey - Key syntax
// ---------------------------------------------------------------------------

func TestValidateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: DefaultKey},
		{key: "festival-2026"},
		{key: "v1.2"},
		{key: "", wantErr: true},
		{key: "../escape", wantErr: true},
		{key: "a/b", wantErr: true},
		{key: `a\b`, wantErr: true},
		{key: ".hidden", wantErr: true},
		{key: "with space", wantErr: true},
		{key: strings.Repeat("k", 101), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			err := ValidateKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Errorf("ValidateKey(%q) error = %v, want ErrInvalidKey", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateKey(%q) unexpected error: %v", tt.key, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileStore - Load and save
// ---------------------------------------------------------------------------

func TestFileStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())

	got, ok, err := store.Load(DefaultKey)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if ok || got != "" {
		t.Errorf("Load() = %q, %v, want empty and not found", got, ok)
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "drafts")
	store := NewFileStore(dir)

	draft := "---\nname: \"[企画|きかく]\"\n---\n本文"
	if err := store.Save(DefaultKey, draft); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	got, ok, err := store.Load(DefaultKey)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !ok || got != draft {
		t.Errorf("Load() = %q, %v, want %q, true", got, ok, draft)
	}

	path, _ := store.Path(DefaultKey)
	if filepath.Dir(path) != dir {
		t.Errorf("Path() = %q, want file in %q", path, dir)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("draft file missing: %v", err)
	}
}

func TestFileStore_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())

	if err := store.Save("a", "first"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("b", "second"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("a", "third"); err != nil {
		t.Fatal(err)
	}

	for key, want := range map[string]string{"a": "third", "b": "second"} {
		got, _, err := store.Load(key)
		if err != nil {
			t.Fatalf("Load(%q) unexpected error: %v", key, err)
		}
		if got != want {
			t.Errorf("Load(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestFileStore_Errors(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())

	t.Run("invalid key on save", func(t *testing.T) {
		t.Parallel()

		if err := store.Save("../x", "v"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save() error = %v, want ErrInvalidKey", err)
		}
	})

	t.Run("invalid key on load", func(t *testing.T) {
		t.Parallel()

		if _, _, err := store.Load("a/b"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Load() error = %v, want ErrInvalidKey", err)
		}
	})

	t.Run("oversized draft", func(t *testing.T) {
		t.Parallel()

		err := store.Save("big", strings.Repeat("x", MaxDraftSize+1))
		if !errors.Is(err, ErrTooLarge) {
			t.Errorf("Save() error = %v, want ErrTooLarge", err)
		}
	})
}

func TestFileStore_ConcurrentSaves(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	values := []string{"one", "two", "three", "four"}

	var wg sync.WaitGroup
	for _, v := range values {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Save(DefaultKey, v); err != nil {
				t.Errorf("Save(%q) unexpected error: %v", v, err)
			}
		}()
	}
	wg.Wait()

	got, ok, err := store.Load(DefaultKey)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	found := false
	for _, v := range values {
		if got == v {
			found = true
		}
	}
	if !found {
		t.Errorf("Load() = %q, want one complete saved value", got)
	}
}

func TestNewFileStore_DefaultDir(t *testing.T) {
	t.Parallel()

	store := NewFileStore("")
	if store.Dir() != DefaultDir() {
		t.Errorf("Dir() = %q, want %q", store.Dir(), DefaultDir())
	}
	if !strings.HasSuffix(filepath.ToSlash(store.Dir()), "go-eventpage/drafts") {
		t.Errorf("Dir() = %q, want go-eventpage/drafts suffix", store.Dir())
	}
}
