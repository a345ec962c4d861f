package slotstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every slot in one JSON object on disk, keyed by slot name.
// Writes go to a temp file that is renamed over the original.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(_ context.Context, slot string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.readLocked()
	if err != nil {
		return nil, err
	}
	if raw, ok := slots[slot]; ok {
		return raw, nil
	}
	return nil, nil
}

func (f *File) Save(_ context.Context, slot string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("slot %s: data is not valid JSON", slot)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.readLocked()
	if err != nil {
		return err
	}
	slots[slot] = json.RawMessage(data)

	out, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode slots: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".slots-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func (f *File) readLocked() (map[string]json.RawMessage, error) {
	slots := make(map[string]json.RawMessage)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return slots, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return slots, nil
}

// Available reports whether the directory holding the file exists and is
// writable.
func (f *File) Available(context.Context) bool {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}

func (f *File) Close() error { return nil }
