package kpistore

import (
	"context"
	"time"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSheetStore implements the StoreManager interface.
func (m *MockStoreManager) GetSheetStore() contract.SheetStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SheetStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockSheetStore is a mock implementation of SheetStore for testing.
type MockSheetStore struct {
	mock.Mock
}

var _ contract.SheetStore = &MockSheetStore{} // Compile-time check

// FindRow implements the Sheet interface.
func (m *MockSheetStore) FindRow(ctx context.Context, date schema.DateKey) (int, error) {
	args := m.Called(ctx, date)
	return args.Int(0), args.Error(1)
}

// ReadRange implements the Sheet interface.
func (m *MockSheetStore) ReadRange(ctx context.Context, col, fromRow, toRow int) ([]string, error) {
	args := m.Called(ctx, col, fromRow, toRow)
	values, _ := args.Get(0).([]string)
	return values, args.Error(1)
}

// WriteCell implements the Sheet interface.
func (m *MockSheetStore) WriteCell(ctx context.Context, row, col int, value string) error {
	args := m.Called(ctx, row, col, value)
	return args.Error(0)
}

// WriteRow implements the Sheet interface.
func (m *MockSheetStore) WriteRow(ctx context.Context, row int, values []string) error {
	args := m.Called(ctx, row, values)
	return args.Error(0)
}

// FirstDataRow implements the Sheet interface.
func (m *MockSheetStore) FirstDataRow() int {
	args := m.Called()
	return args.Int(0)
}

// Rows implements the SheetStore interface.
func (m *MockSheetStore) Rows(ctx context.Context) ([]schema.KPIRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]schema.KPIRow)
	return rows, args.Error(1)
}

// AppendDates implements the SheetStore interface.
func (m *MockSheetStore) AppendDates(ctx context.Context, dates []schema.DateKey) (int, error) {
	args := m.Called(ctx, dates)
	return args.Int(0), args.Error(1)
}

// GetStatus implements the SheetStore interface.
func (m *MockSheetStore) GetStatus(ctx context.Context) (schema.SheetStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.SheetStatus), args.Error(1)
}

// Close implements the SheetStore interface.
func (m *MockSheetStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(date schema.DateKey, startTime time.Time) (string, error) {
	args := m.Called(date, startTime)
	return args.String(0), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID string, endTime time.Time, outcome schema.RunOutcome, report *schema.TrendReport) error {
	args := m.Called(runID, endTime, outcome, report)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
