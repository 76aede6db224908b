package domain

import "time"

// Priority is the todo priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Domain entity: the business object, independent of Gin, Postgres and Redis.
// A todo belongs to exactly one user for its entire lifetime.
type Todo struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Priority    Priority
	StartDate   time.Time
	EndDate     time.Time
	Completed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
