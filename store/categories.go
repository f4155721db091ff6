package store

import (
	"context"
	"strings"
)

// Categories returns a copy of the category names in insertion order.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStrings(s.categories)
}

// AddCategory appends a new category name. Names that trim to empty or that
// already exist (case-sensitive, exact match) are silently ignored.
func (s *Store) AddCategory(ctx context.Context, name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" || containsString(s.categories, name) {
		return copyStrings(s.categories)
	}

	next := append(copyStrings(s.categories), name)
	s.categories = next
	s.persistCategories(ctx, next)
	return copyStrings(next)
}

// RemoveCategory drops the named category. Tasks referencing it keep their
// now-stale category value; there is no cascade.
func (s *Store) RemoveCategory(ctx context.Context, name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.categories))
	for _, c := range s.categories {
		if c != name {
			next = append(next, c)
		}
	}
	s.categories = next
	s.persistCategories(ctx, next)
	return copyStrings(next)
}

func (s *Store) persistCategories(ctx context.Context, categories []string) {
	if err := s.adapter.Save(ctx, categoriesKey, categories); err != nil {
		s.logger.WithError(err).Warn("persist categories")
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func copyStrings(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
