// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/howmuchah/howmuchah/internal/models"
	"github.com/howmuchah/howmuchah/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession persists a new session to the database.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	// Generate ID if not set
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (id, owner_id, next_id, created_at) VALUES (?, ?, ?, ?)",
		session.ID, nullableOwner(session.OwnerID), session.NextID, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := insertSessionChildren(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateSession replaces the stored state of a session. People,
// receipts and items are rewritten wholesale; a session is small
// enough that diffing is not worth the complexity.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *models.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE sessions SET owner_id = ?, next_id = ? WHERE id = ?",
		nullableOwner(session.OwnerID), session.NextID, session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", session.ID, storage.ErrNotFound)
	}

	// Receipt cascade covers items and assignments.
	if _, err := tx.ExecContext(ctx, "DELETE FROM people WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("failed to clear people: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM receipts WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("failed to clear receipts: %w", err)
	}

	if err := insertSessionChildren(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertSessionChildren writes the session's people, receipts, items
// and assignments inside the given transaction.
func insertSessionChildren(ctx context.Context, tx *sql.Tx, session *models.Session) error {
	for i, p := range session.People {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO people (session_id, position, name) VALUES (?, ?, ?)",
			session.ID, i, p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	for ri, r := range session.Receipts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO receipts (session_id, id, position, label, payer,
				service_charge_enabled, service_charge_percent, gst_enabled, gst_percent)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ID, r.ID, ri, r.Label, r.Payer,
			r.ServiceCharge.Enabled, r.ServiceCharge.Percent,
			r.GST.Enabled, r.GST.Percent,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt: %w", err)
		}

		for ii := range r.Items {
			item := &r.Items[ii]
			_, err := tx.ExecContext(ctx,
				"INSERT INTO items (session_id, receipt_id, id, position, name, price) VALUES (?, ?, ?, ?, ?, ?)",
				session.ID, r.ID, item.ID, ii, item.Name, item.Price,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item: %w", err)
			}

			for pi, person := range item.AssignedTo {
				_, err := tx.ExecContext(ctx,
					"INSERT INTO item_assignments (session_id, item_id, person, position) VALUES (?, ?, ?, ?)",
					session.ID, item.ID, person, pi,
				)
				if err != nil {
					return fmt.Errorf("failed to insert item assignment: %w", err)
				}
			}
		}
	}

	return nil
}

// GetSession retrieves a session by ID, including people, receipts,
// items and assignments.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	var owner sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, next_id, created_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &owner, &session.NextID, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.OwnerID = owner.String

	if err := s.loadPeople(ctx, session); err != nil {
		return nil, err
	}
	if err := s.loadReceipts(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SQLiteStore) loadPeople(ctx context.Context, session *models.Session) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM people WHERE session_id = ? ORDER BY position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan person: %w", err)
		}
		session.People = append(session.People, models.Person{Name: name})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate people: %w", err)
	}

	return nil
}

func (s *SQLiteStore) loadReceipts(ctx context.Context, session *models.Session) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, payer, service_charge_enabled, service_charge_percent,
			gst_enabled, gst_percent
		FROM receipts WHERE session_id = ? ORDER BY position`,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get receipts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r := &models.Receipt{}
		err := rows.Scan(&r.ID, &r.Label, &r.Payer,
			&r.ServiceCharge.Enabled, &r.ServiceCharge.Percent,
			&r.GST.Enabled, &r.GST.Percent,
		)
		if err != nil {
			return fmt.Errorf("failed to scan receipt: %w", err)
		}
		session.Receipts = append(session.Receipts, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate receipts: %w", err)
	}

	for _, r := range session.Receipts {
		if err := s.loadItems(ctx, session.ID, r); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStore) loadItems(ctx context.Context, sessionID string, r *models.Receipt) error {
	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price FROM items WHERE session_id = ? AND receipt_id = ? ORDER BY position",
		sessionID, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.LineItem
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		r.Items = append(r.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range r.Items {
		item := &r.Items[i]
		assignRows, err := s.db.QueryContext(ctx,
			"SELECT person FROM item_assignments WHERE session_id = ? AND item_id = ? ORDER BY position",
			sessionID, item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item assignments: %w", err)
		}

		for assignRows.Next() {
			var person string
			if err := assignRows.Scan(&person); err != nil {
				assignRows.Close()
				return fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.AssignedTo = append(item.AssignedTo, person)
		}
		if err := assignRows.Err(); err != nil {
			assignRows.Close()
			return fmt.Errorf("failed to iterate assignments: %w", err)
		}
		assignRows.Close()
	}

	return nil
}

// DeleteSession removes a session; people, receipts, items and
// assignments go with it via cascades.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	return nil
}

// ListSessionsByOwner returns the owner's sessions, newest first.
func (s *SQLiteStore) ListSessionsByOwner(ctx context.Context, ownerID string) ([]*models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM sessions WHERE owner_id = ? ORDER BY created_at DESC, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// nullableOwner maps an empty owner ID to NULL so anonymous sessions
// do not trip the users foreign key.
func nullableOwner(ownerID string) sql.NullString {
	return sql.NullString{String: ownerID, Valid: ownerID != ""}
}
