package calculator

import (
	"fmt"
	"sort"

	"github.com/howmuchah/howmuchah/internal/models"
)

// Epsilon is the tolerance under which a balance counts as settled.
// It absorbs the sub-cent drift from dividing prices by odd share
// counts.
const Epsilon = 0.01

// NetPosition is one person's aggregate standing across all receipts.
// Positive Net means the party owes them money.
type NetPosition struct {
	Person   string
	Paid     float64
	Consumed float64
	Net      float64
}

// Transfer is a single settling payment between two people.
type Transfer struct {
	From   string
	To     string
	Amount float64
}

// ReceiptResult pairs a receipt's identity with its breakdown, for
// reporting.
type ReceiptResult struct {
	Label     string
	Payer     string
	Breakdown *ReceiptBreakdown
}

// Settlement is the output of ComputeSettlement: everything needed to
// tell the party who pays whom.
type Settlement struct {
	// People is the party in enumeration order; it fixes the
	// iteration order for deterministic output.
	People       []string
	NetPositions map[string]*NetPosition
	Transfers    []Transfer
	Receipts     []ReceiptResult
}

// ComputeSettlement aggregates consumption and payments across all
// receipts into per-person net positions, then nets them into a list
// of transfers. Preconditions: every item has assignees and every
// receipt has a payer; violations return an explicit error.
func ComputeSettlement(people []string, receipts []*models.Receipt) (*Settlement, error) {
	s := &Settlement{
		People:       people,
		NetPositions: make(map[string]*NetPosition, len(people)),
	}
	for _, p := range people {
		s.NetPositions[p] = &NetPosition{Person: p}
	}

	position := func(name string) *NetPosition {
		np, ok := s.NetPositions[name]
		if !ok {
			np = &NetPosition{Person: name}
			s.NetPositions[name] = np
		}
		return np
	}

	for _, r := range receipts {
		if r.Payer == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoPayer, r.Label)
		}
		bd, err := BreakdownReceipt(r, people)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Label, err)
		}

		position(r.Payer).Paid += bd.Total
		for person, share := range bd.Shares {
			position(person).Consumed += share.Total
		}

		s.Receipts = append(s.Receipts, ReceiptResult{
			Label:     r.Label,
			Payer:     r.Payer,
			Breakdown: bd,
		})
	}

	for _, np := range s.NetPositions {
		np.Net = np.Paid - np.Consumed
	}

	s.Transfers = netTransfers(people, s.NetPositions)
	return s, nil
}

// netTransfers converts net positions into settling payments.
// Creditors and debtors are sorted by descending magnitude (stable,
// so ties keep enumeration order); each debtor then pays the
// largest-remaining creditor until their own remainder drops under
// Epsilon. The result reconciles every balance but is not guaranteed
// to be the minimum possible number of transfers.
func netTransfers(order []string, positions map[string]*NetPosition) []Transfer {
	var creditors, debtors []*NetPosition
	for _, name := range order {
		np, ok := positions[name]
		if !ok {
			continue
		}
		switch {
		case np.Net > Epsilon:
			creditors = append(creditors, np)
		case np.Net < -Epsilon:
			debtors = append(debtors, np)
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Net > creditors[j].Net
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return -debtors[i].Net > -debtors[j].Net
	})

	credit := make([]float64, len(creditors))
	for i, c := range creditors {
		credit[i] = c.Net
	}

	var transfers []Transfer
	ci := 0
	for _, d := range debtors {
		owed := -d.Net
		for owed > Epsilon && ci < len(creditors) {
			amount := owed
			if credit[ci] < amount {
				amount = credit[ci]
			}
			if amount > Epsilon {
				transfers = append(transfers, Transfer{
					From:   d.Person,
					To:     creditors[ci].Person,
					Amount: amount,
				})
			}
			owed -= amount
			credit[ci] -= amount
			if credit[ci] < Epsilon {
				ci++
			}
		}
	}

	return transfers
}
