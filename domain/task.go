package domain

import (
	"strings"

	"github.com/google/uuid"
)

// TaskStatus describes the workflow stage of a task. It is tracked
// independently of the Completed flag.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskLocation describes where a task is meant to be done.
type TaskLocation string

const (
	LocationHome   TaskLocation = "home"
	LocationOffice TaskLocation = "office"
	LocationOther  TaskLocation = "other"
)

// DefaultCategory is assigned to tasks created without a category. Removing a
// category never rewrites tasks that reference it, so this is a creation-time
// fallback, not an invariant.
const DefaultCategory = "Uncategorized"

// Task represents a single to-do item.
type Task struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Completed   bool         `json:"completed"`
	Category    string       `json:"category"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Status      TaskStatus   `json:"status"`
	Location    TaskLocation `json:"location"`
	Shared      bool         `json:"shared"`
	SharedWith  []string     `json:"sharedWith"`
}

// Normalize backfills fields a persisted task may lack. Snapshots carry no
// schema version marker, so every load repairs each record instead of
// trusting the stored shape.
func Normalize(t Task) Task {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	if t.Status == "" {
		t.Status = StatusNotStarted
	}
	if t.Location == "" {
		t.Location = LocationHome
	}
	if t.SharedWith == nil {
		t.SharedWith = []string{}
	}
	return t
}

// ValidShareRecipient reports whether email is acceptable as a sharing
// recipient: non-empty and containing "@". Anything stricter is left to the
// mail system that eventually delivers the share.
func ValidShareRecipient(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
