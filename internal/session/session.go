// Package session implements the lifecycle rules of a bill-splitting
// session: who is in the party, which receipts exist, and what edits
// are legal at each point. It mutates only the caller-owned
// models.Session passed to it.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/howmuchah/howmuchah/internal/models"
)

// Default charge percentages for Singapore-style receipts. Both
// charges start disabled; these are the values offered when the user
// switches them on.
const (
	DefaultServiceChargePercent = 10
	DefaultGSTPercent           = 9
)

var (
	ErrDuplicatePerson = errors.New("person already in the party")
	ErrEmptyName       = errors.New("name must not be empty")
	ErrPersonLocked    = errors.New("party is locked once a second receipt exists")
	ErrUnknownPerson   = errors.New("no such person")
	ErrUnknownReceipt  = errors.New("no such receipt")
	ErrUnknownItem     = errors.New("no such item")
	ErrNoPeople        = errors.New("add at least one person")
	ErrUnassignedItem  = errors.New("assign at least one person to every item")
	ErrNoPayer         = errors.New("select who paid")
	ErrTooManyReceipts = fmt.Errorf("a session holds at most %d receipts", models.MaxReceipts)
)

// New creates an empty session with one blank receipt, mirroring the
// single-bill flow most parties use.
func New() *models.Session {
	s := &models.Session{
		CreatedAt: time.Now().Unix(),
	}
	// The first receipt always exists; errors are impossible here.
	_, _ = AddReceipt(s)
	return s
}

// nextID returns the next identifier from the session's monotonic
// counter. Deterministic IDs keep edits and storage reproducible; a
// parsed or manual item never owes its identity to a clock.
func nextID(s *models.Session, kind string) string {
	s.NextID++
	return kind + "-" + strconv.Itoa(s.NextID)
}

// AddPerson adds a party member. Names are unique case-insensitively.
func AddPerson(s *models.Session, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	for _, p := range s.People {
		if strings.EqualFold(p.Name, name) {
			return fmt.Errorf("%w: %q", ErrDuplicatePerson, name)
		}
	}
	s.People = append(s.People, models.Person{Name: name})
	return nil
}

// RemovePerson removes a party member, stripping them from every
// item's assignments and clearing payer fields that referenced them.
// Once a second receipt exists the party is locked: the same people
// are splitting multiple bills, and removal would silently corrupt
// the other receipts' assignments. Additions stay allowed.
func RemovePerson(s *models.Session, name string) error {
	if len(s.Receipts) > 1 {
		return ErrPersonLocked
	}

	idx := -1
	for i, p := range s.People {
		if p.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPerson, name)
	}
	s.People = append(s.People[:idx], s.People[idx+1:]...)

	for _, r := range s.Receipts {
		if r.Payer == name {
			r.Payer = ""
		}
		for i := range r.Items {
			item := &r.Items[i]
			kept := item.AssignedTo[:0]
			for _, p := range item.AssignedTo {
				if p != name {
					kept = append(kept, p)
				}
			}
			item.AssignedTo = kept
		}
	}
	return nil
}

// AddReceipt appends a blank receipt with default-disabled charges.
func AddReceipt(s *models.Session) (*models.Receipt, error) {
	if len(s.Receipts) >= models.MaxReceipts {
		return nil, ErrTooManyReceipts
	}
	r := &models.Receipt{
		ID:            nextID(s, "receipt"),
		Label:         fmt.Sprintf("Receipt %d", len(s.Receipts)+1),
		ServiceCharge: models.ChargeConfig{Percent: DefaultServiceChargePercent},
		GST:           models.ChargeConfig{Percent: DefaultGSTPercent},
	}
	s.Receipts = append(s.Receipts, r)
	return r, nil
}

// RemoveReceipt deletes a receipt and relabels the remainder.
func RemoveReceipt(s *models.Session, receiptID string) error {
	idx := -1
	for i, r := range s.Receipts {
		if r.ID == receiptID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownReceipt, receiptID)
	}
	s.Receipts = append(s.Receipts[:idx], s.Receipts[idx+1:]...)
	for i, r := range s.Receipts {
		r.Label = fmt.Sprintf("Receipt %d", i+1)
	}
	return nil
}

// SetParsedItems replaces a receipt's items with the output of a
// parse, assigning session IDs in order.
func SetParsedItems(s *models.Session, receiptID string, items []models.LineItem) error {
	r := s.Receipt(receiptID)
	if r == nil {
		return fmt.Errorf("%w: %q", ErrUnknownReceipt, receiptID)
	}
	r.Items = make([]models.LineItem, len(items))
	for i, item := range items {
		item.ID = nextID(s, "item")
		item.AssignedTo = nil
		r.Items[i] = item
	}
	return nil
}

// AddItem appends an empty manual item to a receipt. Empty name and
// zero price are legal until the user edits them.
func AddItem(s *models.Session, receiptID string) (*models.LineItem, error) {
	r := s.Receipt(receiptID)
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReceipt, receiptID)
	}
	r.Items = append(r.Items, models.LineItem{ID: nextID(s, "item")})
	return &r.Items[len(r.Items)-1], nil
}

// UpdateItem edits an item's name and price.
func UpdateItem(s *models.Session, receiptID, itemID, name string, price float64) error {
	item, err := findItem(s, receiptID, itemID)
	if err != nil {
		return err
	}
	item.Name = name
	item.Price = price
	return nil
}

// DeleteItem removes an item from a receipt.
func DeleteItem(s *models.Session, receiptID, itemID string) error {
	r := s.Receipt(receiptID)
	if r == nil {
		return fmt.Errorf("%w: %q", ErrUnknownReceipt, receiptID)
	}
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
}

// ToggleAssignment flips whether a person splits an item.
func ToggleAssignment(s *models.Session, receiptID, itemID, person string) error {
	if !knownPerson(s, person) {
		return fmt.Errorf("%w: %q", ErrUnknownPerson, person)
	}
	item, err := findItem(s, receiptID, itemID)
	if err != nil {
		return err
	}
	for i, p := range item.AssignedTo {
		if p == person {
			item.AssignedTo = append(item.AssignedTo[:i], item.AssignedTo[i+1:]...)
			return nil
		}
	}
	item.AssignedTo = append(item.AssignedTo, person)
	return nil
}

// SetPayer records who paid a receipt.
func SetPayer(s *models.Session, receiptID, person string) error {
	if !knownPerson(s, person) {
		return fmt.Errorf("%w: %q", ErrUnknownPerson, person)
	}
	r := s.Receipt(receiptID)
	if r == nil {
		return fmt.Errorf("%w: %q", ErrUnknownReceipt, receiptID)
	}
	r.Payer = person
	return nil
}

// SetCharges configures a receipt's service charge and GST.
func SetCharges(s *models.Session, receiptID string, serviceCharge, gst models.ChargeConfig) error {
	r := s.Receipt(receiptID)
	if r == nil {
		return fmt.Errorf("%w: %q", ErrUnknownReceipt, receiptID)
	}
	r.ServiceCharge = serviceCharge
	r.GST = gst
	return nil
}

// Validate checks the settlement preconditions: at least one person,
// every item assigned to somebody, and every receipt paid by
// somebody. It returns the first violation found so the UI can point
// at it.
func Validate(s *models.Session) error {
	if len(s.People) == 0 {
		return ErrNoPeople
	}
	for _, r := range s.Receipts {
		for i := range r.Items {
			if len(r.Items[i].AssignedTo) == 0 {
				return fmt.Errorf("%s: %w: %q", r.Label, ErrUnassignedItem, r.Items[i].Name)
			}
		}
		if r.Payer == "" {
			return fmt.Errorf("%s: %w", r.Label, ErrNoPayer)
		}
	}
	return nil
}

func knownPerson(s *models.Session, name string) bool {
	for _, p := range s.People {
		if p.Name == name {
			return true
		}
	}
	return false
}

func findItem(s *models.Session, receiptID, itemID string) (*models.LineItem, error) {
	r := s.Receipt(receiptID)
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReceipt, receiptID)
	}
	item := r.Item(itemID)
	if item == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	return item, nil
}
