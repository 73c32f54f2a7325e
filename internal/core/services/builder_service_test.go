package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lorrc/support-analytics-backend/internal/core/domain"
	apperrors "github.com/lorrc/support-analytics-backend/internal/core/errors"
	"github.com/lorrc/support-analytics-backend/internal/core/mocks"
	"github.com/lorrc/support-analytics-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sourceFor wires a mock snapshot source that returns the given relations.
func sourceFor(snapshot domain.Snapshot) *mocks.MockSnapshotSource {
	source := mocks.NewMockSnapshotSource()
	source.On("Companies", ctx).Return(snapshot.Companies, nil)
	source.On("SupportTickets", ctx).Return(snapshot.Tickets, nil)
	source.On("Matches", ctx).Return(snapshot.Matches, nil)
	source.On("StatusEvents", ctx).Return(snapshot.StatusEvents, nil)
	source.On("SupportStaff", ctx).Return(snapshot.Staff, nil)
	return source
}

var ctx = context.Background()

// wellFormedTicket appends a complete ticket (match plus active/inactive
// events) to the snapshot.
func wellFormedTicket(s *domain.Snapshot, ticketID, companyID int64, created time.Time, waitMinutes, solveMinutes float64) {
	matched := created.Add(time.Duration(waitMinutes * float64(time.Minute)))
	inactive := matched.Add(time.Duration(solveMinutes * float64(time.Minute)))

	s.Tickets = append(s.Tickets, domain.Ticket{
		ID: ticketID, UserID: 1, CompanyID: companyID, IssueCategory: "Technical", CreatedAt: created,
	})
	s.Matches = append(s.Matches, domain.Match{TicketID: ticketID, StaffID: 7, MatchedAt: matched})
	s.StatusEvents = append(s.StatusEvents,
		domain.StatusEvent{TicketID: ticketID, Status: domain.StatusActive, Timestamp: matched},
		domain.StatusEvent{TicketID: ticketID, Status: domain.StatusInactive, Timestamp: inactive},
	)
}

func TestBuilderService_SingleTicket(t *testing.T) {
	snapshot := domain.Snapshot{
		Companies: []domain.Company{{ID: 1, Name: "Company_1", Size: 10}},
		Staff:     []domain.Staff{{ID: 7, Name: "Staff_7"}},
	}
	wellFormedTicket(&snapshot, 100, 1, testTime, 45, 5)

	svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
	result, err := svc.BuildTable(ctx)

	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, int64(100), rec.TicketID)
	assert.Equal(t, 45.0, rec.WaitMinutes)
	assert.Equal(t, 5.0, rec.SolveMinutes)
	assert.Equal(t, domain.ZoneAmber, rec.WaitingZone)
	// A single ticket sits exactly on its own median.
	assert.Equal(t, domain.SizeSmall, rec.SizeCategory)
	assert.Equal(t, testTime, rec.CreatedAt)
	assert.Equal(t, testTime.Add(45*time.Minute), rec.MatchedAt)
	assert.Equal(t, testTime.Add(45*time.Minute), rec.ActiveAt)
	assert.Equal(t, testTime.Add(50*time.Minute), rec.InactiveAt)
	assert.Zero(t, result.ExcludedTickets)
}

func TestBuilderService_MedianSplitsSizeCategories(t *testing.T) {
	snapshot := domain.Snapshot{
		Companies: []domain.Company{
			{ID: 1, Size: 5},
			{ID: 2, Size: 50},
		},
	}
	wellFormedTicket(&snapshot, 1, 1, testTime, 10, 10)
	wellFormedTicket(&snapshot, 2, 2, testTime, 10, 10)

	svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
	result, err := svc.BuildTable(ctx)

	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	// median of {5, 50} interpolates to 27.5
	assert.Equal(t, domain.SizeSmall, result.Records[0].SizeCategory)
	assert.Equal(t, domain.SizeLarge, result.Records[1].SizeCategory)
}

func TestBuilderService_MedianIsTicketWeighted(t *testing.T) {
	// Company 1 (size 5) files three tickets, company 2 (size 50) files one.
	// The median is over rows, not companies: median{5,5,5,50} = 5.
	snapshot := domain.Snapshot{
		Companies: []domain.Company{
			{ID: 1, Size: 5},
			{ID: 2, Size: 50},
		},
	}
	wellFormedTicket(&snapshot, 1, 1, testTime, 10, 10)
	wellFormedTicket(&snapshot, 2, 1, testTime, 10, 10)
	wellFormedTicket(&snapshot, 3, 1, testTime, 10, 10)
	wellFormedTicket(&snapshot, 4, 2, testTime, 10, 10)

	svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
	result, err := svc.BuildTable(ctx)

	require.NoError(t, err)
	require.Len(t, result.Records, 4)
	for _, rec := range result.Records[:3] {
		assert.Equal(t, domain.SizeSmall, rec.SizeCategory, "ticket %d", rec.TicketID)
	}
	assert.Equal(t, domain.SizeLarge, result.Records[3].SizeCategory)
}

func TestBuilderService_ZoneBoundaries(t *testing.T) {
	snapshot := domain.Snapshot{
		Companies: []domain.Company{{ID: 1, Size: 10}},
	}
	wellFormedTicket(&snapshot, 1, 1, testTime, 30.0, 5)
	wellFormedTicket(&snapshot, 2, 1, testTime, 30.1, 5)
	wellFormedTicket(&snapshot, 3, 1, testTime, 60.0, 5)
	wellFormedTicket(&snapshot, 4, 1, testTime, 60.1, 5)

	svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
	result, err := svc.BuildTable(ctx)

	require.NoError(t, err)
	require.Len(t, result.Records, 4)
	assert.Equal(t, domain.ZoneGreen, result.Records[0].WaitingZone)
	assert.Equal(t, domain.ZoneAmber, result.Records[1].WaitingZone)
	assert.Equal(t, domain.ZoneAmber, result.Records[2].WaitingZone)
	assert.Equal(t, domain.ZoneRed, result.Records[3].WaitingZone)

	for _, rec := range result.Records {
		assert.InDelta(t, rec.MatchedAt.Sub(rec.CreatedAt).Minutes(), rec.WaitMinutes, 1e-9)
	}
}

func TestBuilderService_ExcludesMalformedTickets(t *testing.T) {
	t.Run("missing inactive event", func(t *testing.T) {
		snapshot := domain.Snapshot{
			Companies: []domain.Company{{ID: 1, Size: 10}},
		}
		wellFormedTicket(&snapshot, 1, 1, testTime, 10, 10)
		// Ticket 2 has a match but only an active event.
		snapshot.Tickets = append(snapshot.Tickets, domain.Ticket{ID: 2, CompanyID: 1, CreatedAt: testTime})
		snapshot.Matches = append(snapshot.Matches, domain.Match{TicketID: 2, StaffID: 7, MatchedAt: testTime.Add(time.Minute)})
		snapshot.StatusEvents = append(snapshot.StatusEvents,
			domain.StatusEvent{TicketID: 2, Status: domain.StatusActive, Timestamp: testTime.Add(time.Minute)},
		)

		svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
		result, err := svc.BuildTable(ctx)

		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, int64(1), result.Records[0].TicketID)
		assert.Equal(t, 1, result.ExcludedTickets)
	})

	t.Run("three status events", func(t *testing.T) {
		snapshot := domain.Snapshot{
			Companies: []domain.Company{{ID: 1, Size: 10}},
		}
		wellFormedTicket(&snapshot, 1, 1, testTime, 10, 10)
		// Duplicate inactive event breaks the two-event assumption.
		snapshot.StatusEvents = append(snapshot.StatusEvents,
			domain.StatusEvent{TicketID: 1, Status: domain.StatusInactive, Timestamp: testTime.Add(time.Hour)},
		)

		svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
		result, err := svc.BuildTable(ctx)

		require.NoError(t, err)
		assert.Empty(t, result.Records)
		assert.Equal(t, 1, result.ExcludedTickets)
	})

	t.Run("two events of the same kind", func(t *testing.T) {
		snapshot := domain.Snapshot{
			Companies: []domain.Company{{ID: 1, Size: 10}},
		}
		snapshot.Tickets = append(snapshot.Tickets, domain.Ticket{ID: 1, CompanyID: 1, CreatedAt: testTime})
		snapshot.Matches = append(snapshot.Matches, domain.Match{TicketID: 1, StaffID: 7, MatchedAt: testTime.Add(time.Minute)})
		snapshot.StatusEvents = append(snapshot.StatusEvents,
			domain.StatusEvent{TicketID: 1, Status: domain.StatusActive, Timestamp: testTime.Add(time.Minute)},
			domain.StatusEvent{TicketID: 1, Status: domain.StatusActive, Timestamp: testTime.Add(2 * time.Minute)},
		)

		svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
		result, err := svc.BuildTable(ctx)

		require.NoError(t, err)
		assert.Empty(t, result.Records)
		assert.Equal(t, 1, result.ExcludedTickets)
	})

	t.Run("unmatched ticket drops silently", func(t *testing.T) {
		snapshot := domain.Snapshot{
			Companies: []domain.Company{{ID: 1, Size: 10}},
			Tickets:   []domain.Ticket{{ID: 1, CompanyID: 1, CreatedAt: testTime}},
		}

		svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
		result, err := svc.BuildTable(ctx)

		require.NoError(t, err)
		assert.Empty(t, result.Records)
		// Queued-but-unmatched is expected, not a data-quality violation.
		assert.Zero(t, result.ExcludedTickets)
	})
}

func TestBuilderService_EmptySnapshot(t *testing.T) {
	svc := services.NewBuilderService(sourceFor(domain.Snapshot{}), discardLogger())
	result, err := svc.BuildTable(ctx)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotNil(t, result.Records)
	assert.NotNil(t, result.TimeIndexed)
	assert.NotNil(t, result.Dashboard)
	assert.Empty(t, result.Records)
}

func TestBuilderService_Idempotent(t *testing.T) {
	snapshot := domain.Snapshot{
		Companies: []domain.Company{{ID: 1, Size: 10}, {ID: 2, Size: 80}},
	}
	wellFormedTicket(&snapshot, 3, 1, testTime.Add(48*time.Hour), 70, 12)
	wellFormedTicket(&snapshot, 1, 2, testTime, 20, 30)
	wellFormedTicket(&snapshot, 2, 1, testTime.Add(time.Hour), 40, 8)

	svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())

	first, err := svc.BuildTable(ctx)
	require.NoError(t, err)
	second, err := svc.BuildTable(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.TimeIndexed, second.TimeIndexed)
}

func TestBuilderService_ViewsAreIndependentCopies(t *testing.T) {
	snapshot := domain.Snapshot{
		Companies: []domain.Company{{ID: 1, Size: 10}},
	}
	wellFormedTicket(&snapshot, 1, 1, testTime, 10, 10)
	wellFormedTicket(&snapshot, 2, 1, testTime.Add(-time.Hour), 10, 10)

	svc := services.NewBuilderService(sourceFor(snapshot), discardLogger())
	result, err := svc.BuildTable(ctx)
	require.NoError(t, err)

	// TimeIndexed is ordered by creation time, canonical by ticket ID.
	assert.Equal(t, int64(1), result.Records[0].TicketID)
	assert.Equal(t, int64(2), result.TimeIndexed[0].TicketID)

	result.Dashboard[0].WaitingZone = domain.ZoneRed
	assert.Equal(t, domain.ZoneGreen, result.Records[0].WaitingZone)
}

func TestBuilderService_DataSourceErrorAbortsBuild(t *testing.T) {
	source := mocks.NewMockSnapshotSource()
	source.On("Companies", ctx).Return(nil, errors.New("connection refused"))

	svc := services.NewBuilderService(source, discardLogger())
	result, err := svc.BuildTable(ctx)

	require.Error(t, err)
	assert.Nil(t, result)

	var dsErr *apperrors.DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "companies", dsErr.Relation)
	source.AssertExpectations(t)
}
