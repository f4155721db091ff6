package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"taskpad/domain"
)

// Persisted snapshot keys. The layout matches the browser client this service
// replaced: one JSON array of tasks, one JSON array of category names.
const (
	tasksKey      = "tasks"
	categoriesKey = "categories"
)

// Adapter is the synchronous key/value durability boundary required by the
// store. Load reports absence without an error so a fresh deployment starts
// from defaults.
type Adapter interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, out any) (bool, error)
}

// DefaultCategories seeds the category list when no snapshot exists.
func DefaultCategories() []string {
	return []string{"Personal", "Work", "Shopping"}
}

// Store owns the in-memory task and category collections plus the new-task
// form draft, and keeps the collections durable through the adapter. Every
// mutation builds a new collection value, swaps it in and persists it; the
// previous value is never modified.
type Store struct {
	adapter Adapter
	logger  *log.Logger

	mu         sync.Mutex
	tasks      []domain.Task
	categories []string
	form       domain.Draft
}

// New loads persisted snapshots through the adapter. Each stored task is
// normalized so snapshots written by older schema versions come back with
// current defaults. An absent or unreadable snapshot yields an empty task
// list and the default categories; load errors are logged, not fatal.
func New(ctx context.Context, adapter Adapter, logger *log.Logger) *Store {
	s := &Store{adapter: adapter, logger: logger, form: domain.NewDraft()}

	var rawTasks []domain.Task
	found, err := adapter.Load(ctx, tasksKey, &rawTasks)
	if err != nil {
		logger.WithError(err).Warn("load tasks snapshot")
	}
	s.tasks = []domain.Task{}
	if found {
		s.tasks = make([]domain.Task, len(rawTasks))
		for i, t := range rawTasks {
			s.tasks[i] = domain.Normalize(t)
		}
	}

	var cats []string
	found, err = adapter.Load(ctx, categoriesKey, &cats)
	if err != nil {
		logger.WithError(err).Warn("load categories snapshot")
	}
	if found {
		s.categories = cats
	} else {
		s.categories = DefaultCategories()
	}

	return s
}

// Tasks returns a copy of the current task collection in insertion order.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTasks(s.tasks)
}

// AddTask commits the current form draft as a new task appended to the end of
// the collection. It is a no-op when the draft description trims to empty.
// After a successful add the draft description, image and status reset to
// their defaults while category and location survive, so several similar
// tasks can be entered in a row.
func (s *Store) AddTask(ctx context.Context) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(s.form.Description) == "" {
		return domain.Task{}, false
	}

	category := s.form.Category
	if category == "" {
		category = domain.DefaultCategory
	}
	task := domain.Task{
		ID:          uuid.NewString(),
		Description: s.form.Description,
		Category:    category,
		ImageURL:    s.form.ImageURL,
		Status:      s.form.Status,
		Location:    s.form.Location,
		SharedWith:  []string{},
	}

	next := append(copyTasks(s.tasks), task)
	s.tasks = next
	s.persistTasks(ctx, next)

	s.form.Description = ""
	s.form.ImageURL = ""
	s.form.Status = domain.StatusNotStarted

	return task, true
}

// SaveTask appends an externally constructed task verbatim. Unlike AddTask it
// fills no defaults; bulk import paths use it.
func (s *Store) SaveTask(ctx context.Context, task domain.Task) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(copyTasks(s.tasks), task)
	s.tasks = next
	s.persistTasks(ctx, next)
	return copyTasks(next)
}

// RemoveTask drops the task with the given id. Unknown ids are a silent
// no-op.
func (s *Store) RemoveTask(ctx context.Context, id string) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	s.tasks = next
	s.persistTasks(ctx, next)
	return copyTasks(next)
}

// EditTask replaces the description of the task with the given id.
func (s *Store) EditTask(ctx context.Context, id, description string) []domain.Task {
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		t.Description = description
		return t
	})
}

// UpdateTaskImage replaces the task image; an empty value clears it.
func (s *Store) UpdateTaskImage(ctx context.Context, id, imageURL string) []domain.Task {
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		t.ImageURL = imageURL
		return t
	})
}

// UpdateTaskCategory replaces the task category. The value is not checked
// against the category list; the presentation layer supplies it.
func (s *Store) UpdateTaskCategory(ctx context.Context, id, category string) []domain.Task {
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		t.Category = category
		return t
	})
}

// UpdateTaskStatus replaces the workflow status.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) []domain.Task {
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		t.Status = status
		return t
	})
}

// UpdateTaskLocation replaces the task location.
func (s *Store) UpdateTaskLocation(ctx context.Context, id string, location domain.TaskLocation) []domain.Task {
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		t.Location = location
		return t
	})
}

// ToggleTaskStatus flips the completed flag. The name is historical: the
// boolean predates the status enum and the two remain independent.
func (s *Store) ToggleTaskStatus(ctx context.Context, id string) []domain.Task {
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		t.Completed = !t.Completed
		return t
	})
}

// ToggleTaskSharing flips the shared flag without touching the recipient
// list, so it can leave shared=true with no recipients or vice versa. The UI
// share toggle relies on this exact behavior.
func (s *Store) ToggleTaskSharing(ctx context.Context, id string) []domain.Task {
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		t.Shared = !t.Shared
		return t
	})
}

// ShareTaskWith records a recipient on the task and marks it shared.
// Recipients must contain "@"; duplicates and unknown ids are silently
// ignored.
func (s *Store) ShareTaskWith(ctx context.Context, id, email string) []domain.Task {
	if !domain.ValidShareRecipient(email) {
		return s.Tasks()
	}
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		for _, e := range t.SharedWith {
			if e == email {
				return t
			}
		}
		recipients := make([]string, 0, len(t.SharedWith)+1)
		recipients = append(recipients, t.SharedWith...)
		t.SharedWith = append(recipients, email)
		t.Shared = true
		return t
	})
}

// RemoveShareWith drops a recipient and recomputes the shared flag from the
// remaining list.
func (s *Store) RemoveShareWith(ctx context.Context, id, email string) []domain.Task {
	return s.updateTask(ctx, id, func(t domain.Task) domain.Task {
		kept := make([]string, 0, len(t.SharedWith))
		for _, e := range t.SharedWith {
			if e != email {
				kept = append(kept, e)
			}
		}
		t.SharedWith = kept
		t.Shared = len(kept) > 0
		return t
	})
}

// updateTask applies fn to the matching task in a fresh copy of the
// collection, swaps the copy in and persists it. The write happens even when
// no task matched, mirroring the unconditional persist of the original
// client.
func (s *Store) updateTask(ctx context.Context, id string, fn func(domain.Task) domain.Task) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := copyTasks(s.tasks)
	for i, t := range next {
		if t.ID == id {
			next[i] = fn(t)
			break
		}
	}
	s.tasks = next
	s.persistTasks(ctx, next)
	return copyTasks(next)
}

// persistTasks writes the snapshot through the adapter. Failures are logged
// and the in-memory state stands; durable storage catches up on the next
// successful write.
func (s *Store) persistTasks(ctx context.Context, tasks []domain.Task) {
	if err := s.adapter.Save(ctx, tasksKey, tasks); err != nil {
		s.logger.WithError(err).Warn("persist tasks")
	}
}

// copyTasks copies the collection including each recipient list, so callers
// holding a snapshot can never reach the store's backing arrays.
func copyTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].SharedWith == nil {
			continue
		}
		recipients := make([]string, len(out[i].SharedWith))
		copy(recipients, out[i].SharedWith)
		out[i].SharedWith = recipients
	}
	return out
}
