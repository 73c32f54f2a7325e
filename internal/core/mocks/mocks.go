package mocks

import (
	"context"

	"github.com/lorrc/support-analytics-backend/internal/core/domain"
	"github.com/lorrc/support-analytics-backend/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotSource is a mock implementation of ports.SnapshotSource
type MockSnapshotSource struct {
	mock.Mock
}

func NewMockSnapshotSource() *MockSnapshotSource {
	return &MockSnapshotSource{}
}

func (m *MockSnapshotSource) Companies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockSnapshotSource) SupportTickets(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockSnapshotSource) Matches(ctx context.Context) ([]domain.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MockSnapshotSource) StatusEvents(ctx context.Context) ([]domain.StatusEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusEvent), args.Error(1)
}

func (m *MockSnapshotSource) SupportStaff(ctx context.Context) ([]domain.Staff, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Staff), args.Error(1)
}

// MockAnalyticsBuilder is a mock implementation of ports.AnalyticsBuilder
type MockAnalyticsBuilder struct {
	mock.Mock
}

func NewMockAnalyticsBuilder() *MockAnalyticsBuilder {
	return &MockAnalyticsBuilder{}
}

func (m *MockAnalyticsBuilder) BuildTable(ctx context.Context) (*domain.AnalyticsResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticsResult), args.Error(1)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) FilterTickets(ctx context.Context, params ports.FilterParams) ([]domain.AnalyticRecord, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalyticRecord), args.Error(1)
}

func (m *MockDashboardService) DailySeries(ctx context.Context, params ports.FilterParams) ([]domain.DailyPoint, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyPoint), args.Error(1)
}

func (m *MockDashboardService) Summary(ctx context.Context, params ports.FilterParams) (*domain.ZoneSummary, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ZoneSummary), args.Error(1)
}
