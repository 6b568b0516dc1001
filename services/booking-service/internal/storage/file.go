package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV persists all keys as one JSON object on disk. The file is loaded once
// on open and rewritten on every Set.
type FileKV struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]string
}

func NewFileKV(filePath string) (*FileKV, error) {
	f := &FileKV{
		filePath: filePath,
		data:     make(map[string]string),
	}
	if err := f.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", filePath, err)
	}
	return f, nil
}

func (f *FileKV) load() error {
	data, err := os.ReadFile(f.filePath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := json.Unmarshal(data, &f.data); err != nil {
		return err
	}
	if f.data == nil {
		f.data = make(map[string]string)
	}
	return nil
}

func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.saveLocked(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *FileKV) saveLocked() error {
	data, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp := f.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.filePath)
}
