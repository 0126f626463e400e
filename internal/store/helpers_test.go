package store

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/fashly/internal/event"
	"github.com/utafrali/fashly/internal/repository/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingRepo is a memory repository that counts writes.
type countingRepo struct {
	*memory.RecordRepository
	mu    sync.Mutex
	saves int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{RecordRepository: memory.NewRecordRepository()}
}

func (r *countingRepo) Save(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	r.saves++
	r.mu.Unlock()
	return r.RecordRepository.Save(ctx, key, data)
}

func (r *countingRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockRepo) Save(ctx context.Context, key string, data []byte) error {
	return m.Called(ctx, key, data).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// recorder collects notifications.
type recorder struct {
	mu      sync.Mutex
	changes []event.Change
}

func (r *recorder) listen(c event.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

// gatedRepo blocks Get until release is closed, signalling entered first.
type gatedRepo struct {
	*memory.RecordRepository
	entered chan struct{}
	release chan struct{}
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{
		RecordRepository: memory.NewRecordRepository(),
		entered:          make(chan struct{}, 1),
		release:          make(chan struct{}),
	}
}

func (r *gatedRepo) Get(ctx context.Context, key string) ([]byte, error) {
	select {
	case r.entered <- struct{}{}:
	default:
	}
	<-r.release
	return r.RecordRepository.Get(ctx, key)
}
