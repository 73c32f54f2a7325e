package ports

import (
	"context"

	"github.com/lorrc/support-analytics-backend/internal/core/domain"
)

// SnapshotSource is the capability to read the five source relations in
// full. Implementations do exactly one read per relation and hold no state
// between calls; the builder releases the source once the load phase is
// done. Connection styles and credentials live behind this interface so
// the core never sees them.
type SnapshotSource interface {
	Companies(ctx context.Context) ([]domain.Company, error)
	SupportTickets(ctx context.Context) ([]domain.Ticket, error)
	Matches(ctx context.Context) ([]domain.Match, error)
	StatusEvents(ctx context.Context) ([]domain.StatusEvent, error)
	SupportStaff(ctx context.Context) ([]domain.Staff, error)
}
