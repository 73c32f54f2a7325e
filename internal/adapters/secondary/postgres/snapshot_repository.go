package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/support-analytics-backend/internal/core/domain"
	"github.com/lorrc/support-analytics-backend/internal/core/ports"
)

// SnapshotRepository is the secondary adapter reading the five source
// relations. Each method is a single full-table read with explicit columns,
// so a renamed or dropped column surfaces as a query error instead of a
// silently missing field. The expected dataset is bounded (thousands of
// tickets), which is why there is no pagination or predicate pushdown.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

var _ ports.SnapshotSource = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) Companies(ctx context.Context) ([]domain.Company, error) {
	const query = `
SELECT company_id, company_name, company_size
FROM companies
ORDER BY company_id
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]domain.Company, 0)
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Size); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

func (r *SnapshotRepository) SupportTickets(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
SELECT ticket_id, user_id, company_id, issue_category, created_at
FROM support_tickets
ORDER BY ticket_id
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.UserID, &t.CompanyID, &t.IssueCategory, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *SnapshotRepository) Matches(ctx context.Context) ([]domain.Match, error) {
	const query = `
SELECT ticket_id, staff_id, matched_at
FROM matches
ORDER BY ticket_id
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]domain.Match, 0)
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.TicketID, &m.StaffID, &m.MatchedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *SnapshotRepository) StatusEvents(ctx context.Context) ([]domain.StatusEvent, error) {
	const query = `
SELECT ticket_id, status, "timestamp"
FROM ticket_status
ORDER BY ticket_id, "timestamp"
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.StatusEvent, 0)
	for rows.Next() {
		var (
			e      domain.StatusEvent
			status string
		)
		if err := rows.Scan(&e.TicketID, &status, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Status = domain.StatusValue(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *SnapshotRepository) SupportStaff(ctx context.Context) ([]domain.Staff, error) {
	const query = `
SELECT staff_id, staff_name, experience_level
FROM support_staff
ORDER BY staff_id
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := make([]domain.Staff, 0)
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.ExperienceLevel); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staff, nil
}
