package api

import (
	"context"

	"taskpad/domain"
)

// Store is the behavioral core exposed to the HTTP boundary. Mutators return
// the new full task collection; invalid input (blank descriptions, malformed
// recipients, unknown ids, duplicate categories) is absorbed as a no-op
// rather than surfaced as an error.
type Store interface {
	Tasks() []domain.Task
	AddTask(ctx context.Context) (domain.Task, bool)
	SaveTask(ctx context.Context, task domain.Task) []domain.Task
	RemoveTask(ctx context.Context, id string) []domain.Task
	EditTask(ctx context.Context, id, description string) []domain.Task
	UpdateTaskImage(ctx context.Context, id, imageURL string) []domain.Task
	UpdateTaskCategory(ctx context.Context, id, category string) []domain.Task
	UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) []domain.Task
	UpdateTaskLocation(ctx context.Context, id string, location domain.TaskLocation) []domain.Task
	ToggleTaskStatus(ctx context.Context, id string) []domain.Task
	ToggleTaskSharing(ctx context.Context, id string) []domain.Task
	ShareTaskWith(ctx context.Context, id, email string) []domain.Task
	RemoveShareWith(ctx context.Context, id, email string) []domain.Task

	Categories() []string
	AddCategory(ctx context.Context, name string) []string
	RemoveCategory(ctx context.Context, name string) []string

	Form() domain.Draft
	SetDescription(string)
	SetCategory(string)
	SetImageURL(string)
	SetStatus(domain.TaskStatus)
	SetLocation(domain.TaskLocation)
}
