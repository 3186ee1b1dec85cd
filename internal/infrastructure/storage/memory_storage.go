package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	documentapp "github.com/keystone/backend/internal/application/document"
)

var _ documentapp.ObjectStorage = (*InMemoryObjectStorage)(nil)

// InMemoryObjectStorage keeps objects in process memory.
// It backs local development without S3 and the HTTP tests.
type InMemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewInMemoryObjectStorage creates an empty in-memory storage
func NewInMemoryObjectStorage(baseURL string) *InMemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/_storage"
	}
	return &InMemoryObjectStorage{
		objects: make(map[string]memoryObject),
		baseURL: baseURL,
	}
}

// Upload implements documentapp.ObjectStorage
func (s *InMemoryObjectStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}
	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	s.mu.Unlock()
	return nil
}

// Download implements documentapp.ObjectStorage
func (s *InMemoryObjectStorage) Download(_ context.Context, key string, maxBytes int64) ([]byte, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, documentapp.ErrObjectNotFound
	}
	return readLimited(bytes.NewReader(obj.data), maxBytes)
}

// Delete implements documentapp.ObjectStorage
func (s *InMemoryObjectStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// PresignDownload returns a fake URL that encodes key and expiry
func (s *InMemoryObjectStorage) PresignDownload(_ context.Context, key, _ string, ttl time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(ttl)
	return fmt.Sprintf("%s/%s?expires=%d", s.baseURL, url.PathEscape(key), expiresAt.Unix()), expiresAt, nil
}

// ObjectExists implements documentapp.ObjectStorage
func (s *InMemoryObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	return ok, nil
}

// Len returns the number of stored objects
func (s *InMemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
