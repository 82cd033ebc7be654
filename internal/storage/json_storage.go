package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"trailblog/internal/core/ports"
)

// JSONStorage keeps session tokens in a local JSON file. It is the fallback
// when neither Postgres nor Redis is configured.
type JSONStorage struct {
	FilePath string
	mu       sync.RWMutex
	Data     StorageData
}

type StorageData struct {
	Tokens map[string]string `json:"tokens"`
}

func NewJSONStorage(filePath string) (*JSONStorage, error) {
	s := &JSONStorage{
		FilePath: filePath,
		Data: StorageData{
			Tokens: make(map[string]string),
		},
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if err := s.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

var _ ports.Storage = (*JSONStorage)(nil)

func (s *JSONStorage) loadFromFile() error {
	file, err := os.ReadFile(s.FilePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, &s.Data); err != nil {
		return err
	}
	if s.Data.Tokens == nil {
		s.Data.Tokens = make(map[string]string)
	}
	return nil
}

func (s *JSONStorage) saveToFile() error {
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.FilePath, data, 0600)
}

func (s *JSONStorage) SaveToken(name, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Data.Tokens[name] = token
	return s.saveToFile()
}

func (s *JSONStorage) LoadToken(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Data.Tokens[name], nil
}

func (s *JSONStorage) ClearToken(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Data.Tokens, name)
	return s.saveToFile()
}
