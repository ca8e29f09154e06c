// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/howmuchah/howmuchah/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the interface for session and user storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateSession persists a new session with its people, receipts
	// and item assignments. The session.ID field will be populated by
	// the store if empty.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by its ID, fully hydrated.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// UpdateSession replaces the stored state of an existing session.
	UpdateSession(ctx context.Context, session *models.Session) error

	// DeleteSession removes a session and everything under it.
	DeleteSession(ctx context.Context, sessionID string) error

	// ListSessionsByOwner returns the sessions owned by a user,
	// newest first.
	ListSessionsByOwner(ctx context.Context, ownerID string) ([]*models.Session, error)

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns nil, nil when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
