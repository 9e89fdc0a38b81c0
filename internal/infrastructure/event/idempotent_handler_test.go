package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func newMemoryStore(t *testing.T) *cache.InMemoryIdempotencyStore {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	inner := newTestHandler(punchedIn)
	h := NewIdempotentHandler(inner, newMemoryStore(t), zap.NewNop())

	evt := newTestEvent(punchedIn)
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), newTestEvent(punchedIn)))

	assert.Equal(t, 2, inner.count())
	stats := h.Metrics().Stats()
	assert.EqualValues(t, 2, stats.EventsProcessed)
	assert.EqualValues(t, 1, stats.EventsDuplicate)
	assert.Equal(t, []string{punchedIn}, h.EventTypes())
}

func TestIdempotentHandler_KeysScopedPerHandler(t *testing.T) {
	store := newMemoryStore(t)
	recorder := NewIdempotentHandler(&namedHandler{}, store, zap.NewNop())
	other := newTestHandler(punchedIn)
	invalidator := NewIdempotentHandler(other, store, zap.NewNop())

	evt := newTestEvent(punchedIn)
	require.NoError(t, recorder.Handle(context.Background(), evt))
	require.NoError(t, invalidator.Handle(context.Background(), evt))

	assert.Equal(t, 1, other.count())
	processed, _ := store.IsProcessed(context.Background(), "activity_recorder:"+evt.EventID().String())
	assert.True(t, processed)
}

func TestIdempotentHandler_FailureReleasesKey(t *testing.T) {
	inner := newTestHandler(punchedIn)
	inner.err = errors.New("db unavailable")
	h := NewIdempotentHandler(inner, newMemoryStore(t), zap.NewNop())

	evt := newTestEvent(punchedIn)
	assert.Error(t, h.Handle(context.Background(), evt))

	inner.err = nil
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Equal(t, 2, inner.count())
	assert.EqualValues(t, 1, h.Metrics().Stats().EventsFailed)
}

func TestIdempotentHandler_StoreErrorStillProcesses(t *testing.T) {
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis timeout"))

	inner := newTestHandler(punchedIn)
	h := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), newTestEvent(punchedIn)))
	assert.Equal(t, 1, inner.count())
	store.AssertExpectations(t)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler(punchedIn)
	h := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}),
	)

	evt := newTestEvent(punchedIn)
	_ = h.Handle(context.Background(), evt)
	_ = h.Handle(context.Background(), evt)

	assert.Equal(t, 2, inner.count())
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotentHandler_CustomTTLAndSharedMetrics(t *testing.T) {
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, time.Hour).Return(true, nil)

	metrics := &IdempotencyMetrics{}
	opts := []IdempotentHandlerOption{
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}),
		WithIdempotencyMetrics(metrics),
	}
	a := NewIdempotentHandler(newTestHandler(punchedIn), store, zap.NewNop(), opts...)
	b := NewIdempotentHandler(newTestHandler(punchedOut), store, zap.NewNop(), opts...)

	require.NoError(t, a.Handle(context.Background(), newTestEvent(punchedIn)))
	require.NoError(t, b.Handle(context.Background(), newTestEvent(punchedOut)))

	assert.EqualValues(t, 2, metrics.Stats().EventsProcessed)
	store.AssertExpectations(t)
}
