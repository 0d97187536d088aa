package recordstore

import (
	"context"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ contract.RecordStore = &MockRecordStore{} // Compile-time check

// FetchRecords implements the RecordStore interface.
func (m *MockRecordStore) FetchRecords(ctx context.Context, r schema.DateRange) (schema.RecordSet, error) {
	args := m.Called(ctx, r)
	if fn, ok := args.Get(0).(func(context.Context, schema.DateRange) (schema.RecordSet, error)); ok {
		return fn(ctx, r)
	}
	records, _ := args.Get(0).(schema.RecordSet)
	return records, args.Error(1)
}

// ImportRecords implements the RecordStore interface.
func (m *MockRecordStore) ImportRecords(ctx context.Context, records schema.RecordSet) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

// RecordRun implements the RecordStore interface.
func (m *MockRecordStore) RecordRun(ctx context.Context, run schema.ReportRunRecord) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// ListRuns implements the RecordStore interface.
func (m *MockRecordStore) ListRuns(ctx context.Context, limit int) ([]schema.ReportRunRecord, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]schema.ReportRunRecord)
	return runs, args.Error(1)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Clear implements the RecordStore interface.
func (m *MockRecordStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
