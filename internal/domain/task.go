package domain

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In-Progress"
	StatusCompleted  Status = "Completed"
)

// ParsePriority reports whether s is one of the known priorities.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	}
	return "", false
}

// PriorityOr returns the priority named by s, or fallback when s is not a known value.
func PriorityOr(s string, fallback Priority) Priority {
	if p, ok := ParsePriority(s); ok {
		return p
	}
	return fallback
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, true
	}
	return "", false
}

func StatusOr(s string, fallback Status) Status {
	if st, ok := ParseStatus(s); ok {
		return st
	}
	return fallback
}

type Task struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Priority    Priority   `db:"priority" json:"priority"`
	Status      Status     `db:"status" json:"status"`
	Deadline    *time.Time `db:"deadline" json:"deadline"`
	OwnerID     int64      `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskFilter narrows a task listing. Empty fields do not filter.
// Status and Priority are matched verbatim.
type TaskFilter struct {
	Status   string
	Priority string
	SortBy   SortField
	SortDir  SortDir
}

type SortField string

const (
	SortDeadline  SortField = "deadline"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
)

type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

// ParseSortField falls back to created_at for anything outside the whitelist.
func ParseSortField(s string) SortField {
	switch f := SortField(s); f {
	case SortDeadline, SortPriority, SortStatus, SortCreatedAt, SortUpdatedAt:
		return f
	}
	return SortCreatedAt
}

// ParseSortDir returns ASC only for a case-insensitive "asc"; everything else is DESC.
func ParseSortDir(s string) SortDir {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// NormalizeInstant converts t to the canonical stored form: UTC, millisecond precision.
func NormalizeInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDeadline accepts RFC 3339 timestamps plus the date and datetime-local
// forms browsers submit. Values without a zone are read as UTC.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeInstant(t), nil
		}
	}
	return time.Time{}, NewValidationError("Invalid deadline")
}
