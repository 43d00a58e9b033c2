package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Deadline parses a deadline from JSON as either date-only ("2006-01-02")
// or RFC3339. Date-only is stored as start of that day in UTC.
type Deadline struct{ t *time.Time }

func (d *Deadline) UnmarshalJSON(data []byte) error {
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
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("deadline: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in the service layer.
func (d Deadline) Ptr() *time.Time { return d.t }

type CreateTaskRequest struct {
	UserID      string   `json:"userId" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Deadline    Deadline `json:"deadline"`
}

// UpdateTaskRequest replaces a task's mutable fields wholesale.
type UpdateTaskRequest struct {
	UserID      string   `json:"userId" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Deadline    Deadline `json:"deadline"`
	Completed   bool     `json:"completed"`
}

// UpdateStatusRequest flips only the completed flag.
type UpdateStatusRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// TaskPatchRequest is one entry of a bulk update. Absent fields are left
// unchanged.
type TaskPatchRequest struct {
	ID          string    `json:"id" binding:"required"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Deadline    *Deadline `json:"deadline"`
	Completed   *bool     `json:"completed"`
}

type BulkUpdateRequest struct {
	Updates []TaskPatchRequest `json:"updates" binding:"required"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}
