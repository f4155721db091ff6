package store

import "taskpad/domain"

// Form returns the current new-task draft.
func (s *Store) Form() domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetDescription updates the draft description.
func (s *Store) SetDescription(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Description = v
}

// SetCategory updates the draft category. An empty value means the task will
// fall back to the default category on add.
func (s *Store) SetCategory(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Category = v
}

// SetImageURL updates the draft image; an empty value clears it.
func (s *Store) SetImageURL(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.ImageURL = v
}

// SetStatus updates the draft status.
func (s *Store) SetStatus(v domain.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Status = v
}

// SetLocation updates the draft location.
func (s *Store) SetLocation(v domain.TaskLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Location = v
}
