package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/howmuchah/howmuchah/internal/models"
	"github.com/howmuchah/howmuchah/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "howmuchah-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testSession() *models.Session {
	return &models.Session{
		People: []models.Person{{Name: "Alice"}, {Name: "Bob"}},
		Receipts: []*models.Receipt{
			{
				ID:    "receipt-1",
				Label: "Receipt 1",
				Payer: "Alice",
				Items: []models.LineItem{
					{ID: "item-2", Name: "Chicken Rice", Price: 5.50, AssignedTo: []string{"Alice", "Bob"}},
					{ID: "item-3", Name: "Teh Tarik", Price: 1.80, AssignedTo: []string{"Bob"}},
				},
				ServiceCharge: models.ChargeConfig{Enabled: true, Percent: 10},
				GST:           models.ChargeConfig{Enabled: true, Percent: 9},
			},
		},
		NextID: 4,
	}
}

func TestSQLiteStoreSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateSession generates ID and timestamp", func(t *testing.T) {
		session := testSession()

		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		if session.ID == "" {
			t.Error("Expected session ID to be generated")
		}
		if session.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetSession retrieves complete session", func(t *testing.T) {
		original := testSession()
		if err := store.CreateSession(ctx, original); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		retrieved, err := store.GetSession(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}

		if len(retrieved.People) != 2 || retrieved.People[0].Name != "Alice" {
			t.Errorf("People mismatch: %+v", retrieved.People)
		}
		if retrieved.NextID != 4 {
			t.Errorf("NextID = %d, want 4", retrieved.NextID)
		}
		if len(retrieved.Receipts) != 1 {
			t.Fatalf("Expected 1 receipt, got %d", len(retrieved.Receipts))
		}

		r := retrieved.Receipts[0]
		if r.Payer != "Alice" {
			t.Errorf("Payer = %q, want Alice", r.Payer)
		}
		if !r.ServiceCharge.Enabled || r.ServiceCharge.Percent != 10 {
			t.Errorf("ServiceCharge = %+v", r.ServiceCharge)
		}
		if len(r.Items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(r.Items))
		}
		if r.Items[0].Name != "Chicken Rice" || r.Items[0].Price != 5.50 {
			t.Errorf("Item 0 = %+v", r.Items[0])
		}
		if len(r.Items[0].AssignedTo) != 2 || r.Items[0].AssignedTo[0] != "Alice" {
			t.Errorf("Item 0 assignments = %v", r.Items[0].AssignedTo)
		}
	})

	t.Run("GetSession unknown ID returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetSession(ctx, "no-such-session")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateSession replaces state", func(t *testing.T) {
		session := testSession()
		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		session.People = append(session.People, models.Person{Name: "Carol"})
		session.Receipts[0].Items[1].AssignedTo = []string{"Carol"}
		session.Receipts[0].GST.Enabled = false
		session.NextID = 5

		if err := store.UpdateSession(ctx, session); err != nil {
			t.Fatalf("UpdateSession failed: %v", err)
		}

		retrieved, err := store.GetSession(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if len(retrieved.People) != 3 {
			t.Errorf("Expected 3 people, got %d", len(retrieved.People))
		}
		if got := retrieved.Receipts[0].Items[1].AssignedTo; len(got) != 1 || got[0] != "Carol" {
			t.Errorf("Item 1 assignments = %v", got)
		}
		if retrieved.Receipts[0].GST.Enabled {
			t.Error("Expected GST disabled after update")
		}
		if retrieved.NextID != 5 {
			t.Errorf("NextID = %d, want 5", retrieved.NextID)
		}
	})

	t.Run("UpdateSession unknown ID returns ErrNotFound", func(t *testing.T) {
		session := testSession()
		session.ID = "no-such-session"
		err := store.UpdateSession(ctx, session)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteSession removes session", func(t *testing.T) {
		session := testSession()
		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		if err := store.DeleteSession(ctx, session.ID); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}

		_, err := store.GetSession(ctx, session.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}

		if err := store.DeleteSession(ctx, session.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on double delete, got %v", err)
		}
	})
}

func TestSQLiteStoreOwnership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	first := testSession()
	first.OwnerID = user.ID
	first.CreatedAt = 100
	if err := store.CreateSession(ctx, first); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	second := testSession()
	second.OwnerID = user.ID
	second.CreatedAt = 200
	if err := store.CreateSession(ctx, second); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Anonymous session must not show up in the owner's list.
	anonymous := testSession()
	if err := store.CreateSession(ctx, anonymous); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sessions, err := store.ListSessionsByOwner(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListSessionsByOwner failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != second.ID {
		t.Errorf("Expected newest session first, got %s", sessions[0].ID)
	}
	if len(sessions[0].Receipts) != 1 {
		t.Errorf("Expected listed sessions to be hydrated")
	}
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser and GetUserByEmail", func(t *testing.T) {
		user := models.NewUser("bob@example.com", "Bob", "bcrypt-hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}

		found, err := store.GetUserByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if found == nil {
			t.Fatal("Expected user, got nil")
		}
		if found.DisplayName != "Bob" || found.PasswordHash != "bcrypt-hash" {
			t.Errorf("User mismatch: %+v", found)
		}
	})

	t.Run("GetUserByEmail unknown returns nil", func(t *testing.T) {
		found, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if found != nil {
			t.Errorf("Expected nil, got %+v", found)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		first := models.NewUser("dup@example.com", "First", "h1")
		if err := store.CreateUser(ctx, first); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		second := models.NewUser("dup@example.com", "Second", "h2")
		if err := store.CreateUser(ctx, second); err == nil {
			t.Error("Expected duplicate email to fail")
		}
	})

	t.Run("GetUserByID", func(t *testing.T) {
		user := models.NewUser("carol@example.com", "Carol", "h")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		found, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if found.Email != "carol@example.com" {
			t.Errorf("Email = %q", found.Email)
		}

		if _, err := store.GetUserByID(ctx, "no-such-user"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
