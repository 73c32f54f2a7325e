package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/lorrc/support-analytics-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetTables truncates all source relations between tests.
func resetTables(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := testPool.Exec(ctx, `
TRUNCATE ticket_status, matches, support_tickets, support_staff, users, companies
RESTART IDENTITY CASCADE
`)
	require.NoError(t, err)
}

// seedFixture inserts one company, one user, one staff member and one fully
// matched and resolved ticket.
func seedFixture(t *testing.T, ctx context.Context, createdAt time.Time) {
	t.Helper()

	_, err := testPool.Exec(ctx, `
INSERT INTO companies (company_id, company_name, company_size) VALUES (1, 'Company_1', 12.5);
INSERT INTO users (user_id, user_name, company_id) VALUES (1, 'User_1', 1);
INSERT INTO support_staff (staff_id, staff_name, experience_level) VALUES (7, 'Staff_7', 'Senior');
`)
	require.NoError(t, err)

	_, err = testPool.Exec(ctx, `
INSERT INTO support_tickets (ticket_id, user_id, company_id, issue_category, created_at)
VALUES (100, 1, 1, 'Technical', $1)
`, createdAt)
	require.NoError(t, err)

	_, err = testPool.Exec(ctx, `
INSERT INTO matches (ticket_id, staff_id, matched_at) VALUES (100, 7, $1)
`, createdAt.Add(45*time.Minute))
	require.NoError(t, err)

	_, err = testPool.Exec(ctx, `
INSERT INTO ticket_status (ticket_id, status, "timestamp") VALUES
(100, 'active', $1),
(100, 'inactive', $2)
`, createdAt.Add(45*time.Minute), createdAt.Add(50*time.Minute))
	require.NoError(t, err)
}

func TestSnapshotRepository_ReadsAllRelations(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	createdAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	seedFixture(t, ctx, createdAt)

	repo := NewSnapshotRepository(testPool)

	companies, err := repo.Companies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, int64(1), companies[0].ID)
	assert.Equal(t, "Company_1", companies[0].Name)
	assert.Equal(t, 12.5, companies[0].Size)

	tickets, err := repo.SupportTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, int64(100), tickets[0].ID)
	assert.Equal(t, int64(1), tickets[0].UserID)
	assert.Equal(t, int64(1), tickets[0].CompanyID)
	assert.Equal(t, "Technical", tickets[0].IssueCategory)
	assert.True(t, tickets[0].CreatedAt.Equal(createdAt))

	matches, err := repo.Matches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(100), matches[0].TicketID)
	assert.Equal(t, int64(7), matches[0].StaffID)
	assert.True(t, matches[0].MatchedAt.Equal(createdAt.Add(45*time.Minute)))

	events, err := repo.StatusEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Events come back ordered by ticket then timestamp: active first here.
	assert.Equal(t, domain.StatusActive, events[0].Status)
	assert.Equal(t, domain.StatusInactive, events[1].Status)

	staff, err := repo.SupportStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, int64(7), staff[0].ID)
	assert.Equal(t, "Senior", staff[0].ExperienceLevel)
}

func TestSnapshotRepository_EmptyRelations(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	repo := NewSnapshotRepository(testPool)

	companies, err := repo.Companies(ctx)
	require.NoError(t, err)
	assert.NotNil(t, companies)
	assert.Empty(t, companies)

	tickets, err := repo.SupportTickets(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)

	events, err := repo.StatusEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSnapshotRepository_OrdersTicketsByID(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	_, err := testPool.Exec(ctx, `
INSERT INTO companies (company_id, company_name, company_size) VALUES (1, 'Company_1', 10);
INSERT INTO users (user_id, user_name, company_id) VALUES (1, 'User_1', 1);
INSERT INTO support_tickets (ticket_id, user_id, company_id, issue_category, created_at) VALUES
(3, 1, 1, 'Billing', NOW()),
(1, 1, 1, 'Technical', NOW()),
(2, 1, 1, 'Account', NOW())
`)
	require.NoError(t, err)

	repo := NewSnapshotRepository(testPool)
	tickets, err := repo.SupportTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, int64(1), tickets[0].ID)
	assert.Equal(t, int64(2), tickets[1].ID)
	assert.Equal(t, int64(3), tickets[2].ID)
}
