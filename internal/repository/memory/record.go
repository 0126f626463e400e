// Package memory is a process-local RecordRepository.
package memory

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/utafrali/fashly/pkg/errors"
)

// RecordRepository keeps records in a map. Stored and returned slices are
// copies.
type RecordRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewRecordRepository creates an empty repository.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{records: make(map[string][]byte)}
}

// Get returns a copy of the record under key.
func (r *RecordRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.records[key]
	if !ok {
		return nil, apperrors.NotFound("record", key)
	}
	return slices.Clone(data), nil
}

// Save stores a copy of data under key.
func (r *RecordRepository) Save(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[key] = slices.Clone(data)
	return nil
}

// Delete removes key.
func (r *RecordRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, key)
	return nil
}

// Len reports how many records are stored.
func (r *RecordRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
