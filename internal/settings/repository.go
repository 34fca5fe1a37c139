package settings

import (
	"context"
	"sync"
)

// Repository defines the interface for preference persistence.
type Repository interface {
	// Get retrieves the preferences for a user.
	Get(ctx context.Context, userID string) (*Preferences, error)

	// Create stores a new preference record.
	Create(ctx context.Context, prefs *Preferences) error

	// Update overwrites an existing preference record.
	Update(ctx context.Context, prefs *Preferences) error

	// Delete removes a user's preferences.
	Delete(ctx context.Context, userID string) error

	// ListDue returns preferences of users whose daily notification is
	// enabled and scheduled at the given "HH:MM" time.
	ListDue(ctx context.Context, hhmm string) ([]*Preferences, error)
}

// InMemoryRepository is an in-memory implementation of Repository, used in
// tests and for running without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	prefs map[string]*Preferences
}

// NewInMemoryRepository creates a new in-memory preferences repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		prefs: make(map[string]*Preferences),
	}
}

// Get retrieves preferences by user ID.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.prefs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return prefs.Clone(), nil
}

// Create stores a new preference record.
func (r *InMemoryRepository) Create(_ context.Context, prefs *Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[prefs.UserID] = prefs.Clone()
	return nil
}

// Update overwrites an existing record.
func (r *InMemoryRepository) Update(_ context.Context, prefs *Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prefs[prefs.UserID]; !ok {
		return ErrNotFound
	}
	r.prefs[prefs.UserID] = prefs.Clone()
	return nil
}

// Delete removes a user's preferences.
func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prefs[userID]; !ok {
		return ErrNotFound
	}
	delete(r.prefs, userID)
	return nil
}

// ListDue returns users with notifications enabled at the given time.
func (r *InMemoryRepository) ListDue(_ context.Context, hhmm string) ([]*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []*Preferences
	for _, prefs := range r.prefs {
		if prefs.NotificationEnabled && prefs.NotificationTime == hhmm {
			due = append(due, prefs.Clone())
		}
	}
	return due, nil
}
