package models

// LineItem is a single purchasable line on a receipt.
// Items come from the OCR parser (name and price populated) or from
// manual entry (empty name and zero price are allowed until the user
// fills them in).
type LineItem struct {
	// ID identifies the item within its session. IDs are assigned from
	// the session's monotonic counter; they never participate in
	// parsing deduplication or equality checks, which are content-keyed.
	ID string

	// Name is the item description as printed on the receipt.
	Name string

	// Price is the item total in the session currency. At most two
	// decimal digits carry real precision.
	Price float64

	// AssignedTo lists the names of the people splitting this item.
	// Multiple assignees split the price equally.
	AssignedTo []string
}

// Assigned reports whether the given person is assigned to the item.
func (i *LineItem) Assigned(person string) bool {
	for _, p := range i.AssignedTo {
		if p == person {
			return true
		}
	}
	return false
}

// ChargeConfig is a percentage surcharge toggle on a receipt, used for
// both service charge and GST.
type ChargeConfig struct {
	Enabled bool
	Percent float64
}

// Receipt is one photographed bill: its items, who paid it, and the
// surcharge configuration. Receipts own their items exclusively;
// people are shared by name across all receipts in a session.
type Receipt struct {
	// ID identifies the receipt within its session.
	ID string

	// Label is a short human-readable name, e.g. "Receipt 1".
	Label string

	// Items are the line items in receipt order.
	Items []LineItem

	// Payer is the name of the person who paid this receipt.
	// Empty until the user selects a payer.
	Payer string

	// ServiceCharge is the percentage surcharge applied to the
	// subtotal before GST.
	ServiceCharge ChargeConfig

	// GST is the percentage tax applied after any service charge.
	GST ChargeConfig
}

// Item returns the item with the given ID, or nil.
func (r *Receipt) Item(itemID string) *LineItem {
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			return &r.Items[i]
		}
	}
	return nil
}
