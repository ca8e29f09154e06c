package session

import (
	"errors"
	"testing"

	"github.com/howmuchah/howmuchah/internal/models"
)

func TestAddPerson(t *testing.T) {
	s := New()

	if err := AddPerson(s, "Alice"); err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	if err := AddPerson(s, "  Bob  "); err != nil {
		t.Fatalf("AddPerson with padding failed: %v", err)
	}
	if s.People[1].Name != "Bob" {
		t.Errorf("name not trimmed: %q", s.People[1].Name)
	}

	if err := AddPerson(s, "alice"); !errors.Is(err, ErrDuplicatePerson) {
		t.Errorf("case-insensitive duplicate: error = %v, want ErrDuplicatePerson", err)
	}
	if err := AddPerson(s, "   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name: error = %v, want ErrEmptyName", err)
	}
}

func TestRemovePersonStripsReferences(t *testing.T) {
	s := New()
	for _, name := range []string{"Alice", "Bob"} {
		if err := AddPerson(s, name); err != nil {
			t.Fatalf("AddPerson failed: %v", err)
		}
	}

	r := s.Receipts[0]
	item, err := AddItem(s, r.ID)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if err := UpdateItem(s, r.ID, item.ID, "Laksa", 6.60); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	for _, name := range []string{"Alice", "Bob"} {
		if err := ToggleAssignment(s, r.ID, item.ID, name); err != nil {
			t.Fatalf("ToggleAssignment failed: %v", err)
		}
	}
	if err := SetPayer(s, r.ID, "Bob"); err != nil {
		t.Fatalf("SetPayer failed: %v", err)
	}

	if err := RemovePerson(s, "Bob"); err != nil {
		t.Fatalf("RemovePerson failed: %v", err)
	}

	if len(s.People) != 1 || s.People[0].Name != "Alice" {
		t.Errorf("people = %+v, want just Alice", s.People)
	}
	got := r.Item(item.ID)
	if len(got.AssignedTo) != 1 || got.AssignedTo[0] != "Alice" {
		t.Errorf("assignments = %v, want just Alice", got.AssignedTo)
	}
	if r.Payer != "" {
		t.Errorf("payer = %q, want cleared", r.Payer)
	}
}

func TestPartyLockedAfterSecondReceipt(t *testing.T) {
	s := New()
	if err := AddPerson(s, "Alice"); err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	if _, err := AddReceipt(s); err != nil {
		t.Fatalf("AddReceipt failed: %v", err)
	}

	if err := RemovePerson(s, "Alice"); !errors.Is(err, ErrPersonLocked) {
		t.Errorf("error = %v, want ErrPersonLocked", err)
	}
	// Additions are still fine.
	if err := AddPerson(s, "Bob"); err != nil {
		t.Errorf("AddPerson after lock failed: %v", err)
	}
}

func TestReceiptCeiling(t *testing.T) {
	s := New()
	for len(s.Receipts) < models.MaxReceipts {
		if _, err := AddReceipt(s); err != nil {
			t.Fatalf("AddReceipt failed: %v", err)
		}
	}
	if _, err := AddReceipt(s); !errors.Is(err, ErrTooManyReceipts) {
		t.Errorf("error = %v, want ErrTooManyReceipts", err)
	}
}

func TestRemoveReceiptRelabels(t *testing.T) {
	s := New()
	second, err := AddReceipt(s)
	if err != nil {
		t.Fatalf("AddReceipt failed: %v", err)
	}
	if err := RemoveReceipt(s, s.Receipts[0].ID); err != nil {
		t.Fatalf("RemoveReceipt failed: %v", err)
	}
	if len(s.Receipts) != 1 || s.Receipts[0].ID != second.ID {
		t.Fatalf("receipts = %+v, want just the second", s.Receipts)
	}
	if s.Receipts[0].Label != "Receipt 1" {
		t.Errorf("label = %q, want relabeled to Receipt 1", s.Receipts[0].Label)
	}
}

func TestSetParsedItemsAssignsSequentialIDs(t *testing.T) {
	s := New()
	r := s.Receipts[0]

	parsed := []models.LineItem{
		{Name: "Chicken Rice", Price: 10.00},
		{Name: "Water", Price: 2.00},
	}
	if err := SetParsedItems(s, r.ID, parsed); err != nil {
		t.Fatalf("SetParsedItems failed: %v", err)
	}

	if len(r.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(r.Items))
	}
	if r.Items[0].ID == "" || r.Items[0].ID == r.Items[1].ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", r.Items[0].ID, r.Items[1].ID)
	}
	if r.Items[0].AssignedTo != nil {
		t.Errorf("parsed items must start unassigned, got %v", r.Items[0].AssignedTo)
	}
}

func TestToggleAssignment(t *testing.T) {
	s := New()
	if err := AddPerson(s, "Alice"); err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	r := s.Receipts[0]
	item, err := AddItem(s, r.ID)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if err := ToggleAssignment(s, r.ID, item.ID, "Alice"); err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if !r.Item(item.ID).Assigned("Alice") {
		t.Error("Alice should be assigned after first toggle")
	}
	if err := ToggleAssignment(s, r.ID, item.ID, "Alice"); err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}
	if r.Item(item.ID).Assigned("Alice") {
		t.Error("Alice should be unassigned after second toggle")
	}

	if err := ToggleAssignment(s, r.ID, item.ID, "Nobody"); !errors.Is(err, ErrUnknownPerson) {
		t.Errorf("error = %v, want ErrUnknownPerson", err)
	}
}

func TestValidate(t *testing.T) {
	s := New()
	if err := Validate(s); err == nil {
		t.Error("empty session should not validate")
	}

	if err := AddPerson(s, "Alice"); err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	r := s.Receipts[0]
	item, err := AddItem(s, r.ID)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if err := UpdateItem(s, r.ID, item.ID, "Laksa", 6.60); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	if err := Validate(s); err == nil {
		t.Error("unassigned item should not validate")
	}
	if err := ToggleAssignment(s, r.ID, item.ID, "Alice"); err != nil {
		t.Fatalf("ToggleAssignment failed: %v", err)
	}
	if err := Validate(s); err == nil {
		t.Error("missing payer should not validate")
	}
	if err := SetPayer(s, r.ID, "Alice"); err != nil {
		t.Fatalf("SetPayer failed: %v", err)
	}
	if err := Validate(s); err != nil {
		t.Errorf("complete session should validate, got %v", err)
	}
}
