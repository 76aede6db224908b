package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateTime parses a date field from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DateTime struct{ t *time.Time }

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// If it was date-only (no time component), use start of day UTC
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DateTime) Ptr() *time.Time { return d.t }

// CreateTodoRequest is the JSON body for POST /todos. Field rules are enforced
// in the service layer so every offending field is reported in one response.
type CreateTodoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"` // low | medium | high
	StartDate   DateTime `json:"start_date"`
	EndDate     DateTime `json:"end_date"`
}

// UpdateTodoRequest is the JSON body for PUT /todos/{id}. Same shape as create
// plus an optional completed flag; nil leaves the current value unchanged.
type UpdateTodoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	StartDate   DateTime `json:"start_date"`
	EndDate     DateTime `json:"end_date"`
	Completed   *bool    `json:"completed"`
}

type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilters echoes the active list filters back to the client so the UI can
// re-render its controls and build follow-up requests with the same scope.
type ListFilters struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// StatsResponse is the dashboard snapshot: four current counts over the owner's
// whole collection plus the percentage change versus the previous calendar week.
// A change is 0 whenever the prior-week count is 0, even if the current count
// is positive; 0->N growth has no meaningful percentage.
type StatsResponse struct {
	Total        int64 `json:"total"`
	Completed    int64 `json:"completed"`
	Active       int64 `json:"active"`
	HighPriority int64 `json:"high_priority"`

	TotalChange        int `json:"total_change"`
	CompletedChange    int `json:"completed_change"`
	ActiveChange       int `json:"active_change"`
	HighPriorityChange int `json:"high_priority_change"`
}

type TodoPageResponse struct {
	Items []TodoResponse `json:"items"`
	Meta  PageMeta       `json:"meta"`
	Links PageLinks      `json:"links"`
}

type DashboardResponse struct {
	Todos   TodoPageResponse `json:"todos"`
	Stats   StatsResponse    `json:"stats"`
	Filters ListFilters      `json:"filters"`
}
