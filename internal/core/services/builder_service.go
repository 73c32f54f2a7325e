package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/lorrc/support-analytics-backend/internal/core/domain"
	apperrors "github.com/lorrc/support-analytics-backend/internal/core/errors"
	"github.com/lorrc/support-analytics-backend/internal/core/ports"
)

// BuilderService derives the per-ticket analytic table from the five source
// relations: join tickets with matches, companies and status events, compute
// wait and solve times, then classify each ticket by company size and
// waiting zone.
//
// A ticket survives into the output only if it has a match row and exactly
// one active and one inactive status event. The consolidation is an explicit
// group-by on ticket ID with a cardinality check; tickets that violate the
// two-event assumption are excluded with a logged warning and counted on the
// result, never silently mis-collapsed.
type BuilderService struct {
	source ports.SnapshotSource
	logger *slog.Logger
}

var _ ports.AnalyticsBuilder = (*BuilderService)(nil)

// NewBuilderService creates a new analytics builder.
func NewBuilderService(source ports.SnapshotSource, logger *slog.Logger) *BuilderService {
	return &BuilderService{
		source: source,
		logger: logger.With("service", "analytics_builder"),
	}
}

// BuildTable loads a snapshot and produces the full analytic table.
// A failure reading any relation aborts the whole build; every downstream
// column depends on the upstream ones, so a partial table is worse than
// no table. An empty result is not an error: the table comes back
// well-typed with zero rows.
func (s *BuilderService) BuildTable(ctx context.Context) (*domain.AnalyticsResult, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.transform(snapshot), nil
}

// loadSnapshot performs the five relation reads. The data source is not
// touched again after this returns.
func (s *BuilderService) loadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	companies, err := s.source.Companies(ctx)
	if err != nil {
		return nil, apperrors.NewDataSourceError("companies", err)
	}

	tickets, err := s.source.SupportTickets(ctx)
	if err != nil {
		return nil, apperrors.NewDataSourceError("support_tickets", err)
	}

	matches, err := s.source.Matches(ctx)
	if err != nil {
		return nil, apperrors.NewDataSourceError("matches", err)
	}

	statusEvents, err := s.source.StatusEvents(ctx)
	if err != nil {
		return nil, apperrors.NewDataSourceError("ticket_status", err)
	}

	staff, err := s.source.SupportStaff(ctx)
	if err != nil {
		return nil, apperrors.NewDataSourceError("support_staff", err)
	}

	return &domain.Snapshot{
		Companies:    companies,
		Tickets:      tickets,
		Matches:      matches,
		StatusEvents: statusEvents,
		Staff:        staff,
	}, nil
}

// consolidatedStatus carries the active/inactive pair for one ticket after
// the group-by collapse.
type consolidatedStatus struct {
	active   domain.StatusEvent
	inactive domain.StatusEvent
}

// transform is the pure part of the pipeline: snapshot in, table out.
func (s *BuilderService) transform(snapshot *domain.Snapshot) *domain.AnalyticsResult {
	matchByTicket := indexMatches(snapshot.Matches, s.logger)
	companyByID := make(map[int64]domain.Company, len(snapshot.Companies))
	for _, c := range snapshot.Companies {
		companyByID[c.ID] = c
	}

	statusByTicket, excluded := consolidateStatusEvents(snapshot.StatusEvents, s.logger)

	records := make([]domain.AnalyticRecord, 0, len(snapshot.Tickets))
	for _, ticket := range snapshot.Tickets {
		match, matched := matchByTicket[ticket.ID]
		if !matched {
			// Unmatched tickets fall out of the inner-join chain; this is
			// expected for tickets still in the queue, not a data defect.
			continue
		}

		status, ok := statusByTicket[ticket.ID]
		if !ok {
			continue
		}

		company, ok := companyByID[ticket.CompanyID]
		if !ok {
			s.logger.Warn("excluding ticket with unknown company",
				"ticket_id", ticket.ID,
				"company_id", ticket.CompanyID,
			)
			excluded++
			continue
		}

		records = append(records, domain.AnalyticRecord{
			TicketID:      ticket.ID,
			UserID:        ticket.UserID,
			CompanyID:     ticket.CompanyID,
			StaffID:       match.StaffID,
			IssueCategory: ticket.IssueCategory,
			CompanySize:   company.Size,
			CreatedAt:     ticket.CreatedAt,
			MatchedAt:     match.MatchedAt,
			ActiveAt:      status.active.Timestamp,
			InactiveAt:    status.inactive.Timestamp,
			WaitMinutes:   match.MatchedAt.Sub(ticket.CreatedAt).Minutes(),
			SolveMinutes:  status.inactive.Timestamp.Sub(match.MatchedAt).Minutes(),
		})
	}

	classify(records)

	sort.Slice(records, func(i, j int) bool {
		return records[i].TicketID < records[j].TicketID
	})

	timeIndexed := make([]domain.AnalyticRecord, len(records))
	copy(timeIndexed, records)
	sort.SliceStable(timeIndexed, func(i, j int) bool {
		return timeIndexed[i].CreatedAt.Before(timeIndexed[j].CreatedAt)
	})

	dashboard := make([]domain.AnalyticRecord, len(records))
	copy(dashboard, records)

	return &domain.AnalyticsResult{
		Records:         records,
		TimeIndexed:     timeIndexed,
		Dashboard:       dashboard,
		ExcludedTickets: excluded,
	}
}

// classify fills in the two derived categorical columns. The company-size
// median is taken over the surviving per-ticket rows, so a company with many
// tickets pulls the median toward its size. That ticket-weighted definition
// matters for classification and is deliberate.
func classify(records []domain.AnalyticRecord) {
	sizes := make([]float64, len(records))
	for i := range records {
		sizes[i] = records[i].CompanySize
	}
	median := domain.MedianSize(sizes)

	for i := range records {
		records[i].SizeCategory = domain.ClassifySize(records[i].CompanySize, median)
		records[i].WaitingZone = domain.AssignWaitingZone(records[i].WaitMinutes)
	}
}

// indexMatches maps ticket ID to its match. A ticket has at most one match
// in well-formed data; duplicates keep the first and warn.
func indexMatches(matches []domain.Match, logger *slog.Logger) map[int64]domain.Match {
	byTicket := make(map[int64]domain.Match, len(matches))
	for _, m := range matches {
		if _, exists := byTicket[m.TicketID]; exists {
			logger.Warn("duplicate match for ticket, keeping first",
				"ticket_id", m.TicketID,
			)
			continue
		}
		byTicket[m.TicketID] = m
	}
	return byTicket
}

// consolidateStatusEvents groups events by ticket and keeps only tickets
// with exactly one active and one inactive event. Tickets with any other
// shape are excluded and counted; the count of those exclusions is the
// second return value. Tickets with no events at all are simply absent from
// the map and are not counted as violations: they never entered the status
// relation.
func consolidateStatusEvents(events []domain.StatusEvent, logger *slog.Logger) (map[int64]consolidatedStatus, int) {
	grouped := make(map[int64][]domain.StatusEvent)
	for _, e := range events {
		grouped[e.TicketID] = append(grouped[e.TicketID], e)
	}

	consolidated := make(map[int64]consolidatedStatus, len(grouped))
	excluded := 0

	for ticketID, evs := range grouped {
		var active, inactive *domain.StatusEvent
		valid := len(evs) == 2
		if valid {
			for i := range evs {
				switch evs[i].Status {
				case domain.StatusActive:
					active = &evs[i]
				case domain.StatusInactive:
					inactive = &evs[i]
				}
			}
			valid = active != nil && inactive != nil
		}

		if !valid {
			logger.Warn("excluding ticket with malformed status events",
				"ticket_id", ticketID,
				"event_count", len(evs),
				"error", apperrors.ErrStatusCardinality,
			)
			excluded++
			continue
		}

		consolidated[ticketID] = consolidatedStatus{active: *active, inactive: *inactive}
	}

	return consolidated, excluded
}
