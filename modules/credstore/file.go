package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type fileContents struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// FileStore persists the pair as a JSON document readable only by the owner.
// Writes go through a temp file and rename so a crash never leaves half a pair.
type FileStore struct {
	path  string
	state State
}

// NewFileStore opens the store at path, loading a previously saved pair if present.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	fs.state.SetTokens(contents.AccessToken, contents.RefreshToken)
	return fs, nil
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) AccessToken() (string, bool) {
	return f.state.AccessToken()
}

func (f *FileStore) RefreshToken() (string, bool) {
	return f.state.RefreshToken()
}

func (f *FileStore) SetTokens(access, refresh string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	data, err := json.Marshal(fileContents{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	if err := writeFileAtomic(f.path, data); err != nil {
		return err
	}
	f.state.access, f.state.refresh = access, refresh
	return nil
}

func (f *FileStore) Clear() error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	f.state.access, f.state.refresh = "", ""
	return nil
}

func (f *FileStore) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp token file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}
