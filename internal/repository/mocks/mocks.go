package mocks

import (
	"context"

	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// DocumentRepository is a mock for repository.DocumentRepository.
type DocumentRepository struct {
	mock.Mock
}

func (m *DocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if body, ok := args.Get(0).([]byte); ok {
		return body, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) Put(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

func (m *DocumentRepository) PutAll(ctx context.Context, docs map[string][]byte) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *DocumentRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
