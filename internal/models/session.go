package models

// MaxReceipts is the ceiling on receipts per session. The app targets
// a single dining party splitting one to a few bills.
const MaxReceipts = 3

// Person is a member of the party splitting the bill.
// People are identified by name, unique case-insensitively within a
// session. There are no accounts behind them; the OwnerID on the
// session links the whole session to a registered user.
type Person struct {
	Name string
}

// Session is one bill-splitting run: the party, up to MaxReceipts
// receipts, and a counter for assigning item and receipt IDs.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// OwnerID is the user who created the session. Empty for
	// anonymous (CLI / unauthenticated) use.
	OwnerID string

	// People is the party, in the order they were added.
	People []Person

	// Receipts are the bills being split, in creation order.
	Receipts []*Receipt

	// NextID feeds the monotonic counter used for receipt and item
	// IDs, so identifiers are deterministic within a session.
	NextID int

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64
}

// Receipt returns the receipt with the given ID, or nil.
func (s *Session) Receipt(receiptID string) *Receipt {
	for _, r := range s.Receipts {
		if r.ID == receiptID {
			return r
		}
	}
	return nil
}

// PeopleNames returns the party member names in order.
func (s *Session) PeopleNames() []string {
	names := make([]string, len(s.People))
	for i, p := range s.People {
		names[i] = p.Name
	}
	return names
}
