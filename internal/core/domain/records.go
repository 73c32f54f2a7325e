package domain

import "time"

// StatusValue represents the lifecycle state recorded in a ticket status event.
type StatusValue string

const (
	StatusActive   StatusValue = "active"
	StatusInactive StatusValue = "inactive"
)

// Company is a customer organization. Size is a headcount figure; the
// synthetic generator produces lognormal floats, so it is not an integer.
type Company struct {
	ID   int64
	Name string
	Size float64
}

// Ticket is a raw support request as stored in the support_tickets relation.
type Ticket struct {
	ID            int64
	UserID        int64
	CompanyID     int64
	IssueCategory string
	CreatedAt     time.Time
}

// Match records the assignment of a staff member to a ticket.
// MatchedAt is expected to be at or after the ticket's CreatedAt.
type Match struct {
	TicketID  int64
	StaffID   int64
	MatchedAt time.Time
}

// StatusEvent is one row of the ticket_status relation. A well-formed ticket
// has exactly two: one active (work started) and one inactive (resolved).
type StatusEvent struct {
	TicketID  int64
	Status    StatusValue
	Timestamp time.Time
}

// Staff is a support staff member. Only the ID survives processing; the
// remaining attributes exist for the seeded schema.
type Staff struct {
	ID              int64
	Name            string
	ExperienceLevel string
}

// Snapshot is a fully-materialized read of the five source relations.
// The builder consumes one snapshot per invocation and never goes back
// to the data source mid-build.
type Snapshot struct {
	Companies    []Company
	Tickets      []Ticket
	Matches      []Match
	StatusEvents []StatusEvent
	Staff        []Staff
}
