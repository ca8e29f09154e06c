// Package calculator computes who owes what. It covers per-receipt
// consumption breakdowns, cross-receipt net positions, and the greedy
// transfer netting that settles the party, all as pure functions over
// caller-owned data.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/howmuchah/howmuchah/internal/models"
)

var (
	// ErrUnassignedItem means an item has nobody to split it, which
	// would divide by zero. Assignment validation belongs to the UI;
	// the calculator fails fast instead of producing garbage.
	ErrUnassignedItem = errors.New("item has no assigned people")

	// ErrNoPayer means a receipt has no payer selected, so net
	// positions cannot be computed.
	ErrNoPayer = errors.New("receipt has no payer")
)

// ItemShare is one person's slice of a single item.
type ItemShare struct {
	Name   string
	Amount float64
	// Percent is the rounded share percentage when the item is split
	// between several people, 0 when the person has it alone.
	Percent int
}

// PersonShare is one person's totals for a single receipt.
type PersonShare struct {
	Subtotal      float64
	ServiceCharge float64
	GST           float64
	Total         float64
	Items         []ItemShare
}

// ReceiptBreakdown is the full consumption picture of one receipt:
// receipt-level totals plus a share for every person in the party.
type ReceiptBreakdown struct {
	Subtotal      float64
	ServiceCharge float64
	GST           float64
	Total         float64
	Shares        map[string]*PersonShare
}

// applyCharge returns the surcharge amount for a base value, or 0
// when the charge is disabled.
func applyCharge(base float64, c models.ChargeConfig) float64 {
	if !c.Enabled {
		return 0
	}
	return base * c.Percent / 100
}

// BreakdownReceipt computes the receipt totals and each person's
// proportional share. Service charge is always applied to the
// subtotal before GST; GST is computed on the post-surcharge amount.
// The same percent policy is reapplied to every person's subtotal, so
// person totals sum to the receipt total up to floating point drift.
//
// Every item must have at least one assignee; people holds the party
// in enumeration order and every member gets a share entry, zero or
// not.
func BreakdownReceipt(r *models.Receipt, people []string) (*ReceiptBreakdown, error) {
	bd := &ReceiptBreakdown{
		Shares: make(map[string]*PersonShare, len(people)),
	}
	for _, p := range people {
		bd.Shares[p] = &PersonShare{}
	}

	for i := range r.Items {
		item := &r.Items[i]
		bd.Subtotal += item.Price

		if len(item.AssignedTo) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnassignedItem, item.Name)
		}

		shareCount := len(item.AssignedTo)
		shareAmount := item.Price / float64(shareCount)
		percent := 0
		if shareCount > 1 {
			percent = int(math.Round(100 / float64(shareCount)))
		}

		for _, person := range item.AssignedTo {
			share, ok := bd.Shares[person]
			if !ok {
				// Assignment referencing someone outside the party.
				share = &PersonShare{}
				bd.Shares[person] = share
			}
			share.Subtotal += shareAmount
			share.Items = append(share.Items, ItemShare{
				Name:    item.Name,
				Amount:  shareAmount,
				Percent: percent,
			})
		}
	}

	bd.ServiceCharge = applyCharge(bd.Subtotal, r.ServiceCharge)
	gstBase := bd.Subtotal
	if r.ServiceCharge.Enabled {
		gstBase += bd.ServiceCharge
	}
	bd.GST = applyCharge(gstBase, r.GST)
	bd.Total = bd.Subtotal + bd.ServiceCharge + bd.GST

	for _, share := range bd.Shares {
		share.ServiceCharge = applyCharge(share.Subtotal, r.ServiceCharge)
		personGSTBase := share.Subtotal
		if r.ServiceCharge.Enabled {
			personGSTBase += share.ServiceCharge
		}
		share.GST = applyCharge(personGSTBase, r.GST)
		share.Total = share.Subtotal + share.ServiceCharge + share.GST
	}

	return bd, nil
}
