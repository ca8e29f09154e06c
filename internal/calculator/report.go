package calculator

import (
	"fmt"
	"strings"
)

// Summary renders the settlement as a shareable text report: the
// transfers, who paid which receipt, and a per-person breakdown for
// every receipt. The layout is presentation; the numbers are exactly
// the calculator outputs, formatted to two decimals.
func (s *Settlement) Summary() string {
	var b strings.Builder

	b.WriteString("💰 Payment Summary:\n")
	if len(s.Transfers) == 0 {
		b.WriteString("All settled, nothing to transfer.\n")
	}
	for _, t := range s.Transfers {
		fmt.Fprintf(&b, "- %s → %s: $%.2f\n", t.From, t.To, t.Amount)
	}

	b.WriteString("\n💳 Payments Made:\n")
	for _, r := range s.Receipts {
		fmt.Fprintf(&b, "- %s paid $%.2f (%s)\n", r.Payer, r.Breakdown.Total, r.Label)
	}

	b.WriteString("\n📋 Breakdown:\n")
	for _, r := range s.Receipts {
		if len(s.Receipts) > 1 {
			fmt.Fprintf(&b, "%s:\n", r.Label)
		}
		for _, person := range s.People {
			share, ok := r.Breakdown.Shares[person]
			if !ok || share.Total <= 0 {
				continue
			}
			b.WriteString(formatPersonLine(person, share))
		}
	}

	return b.String()
}

// formatPersonLine renders one person's items on one receipt, e.g.
// "Alice: 50% Chicken Rice ($5.00), Water ($2.00), SC+GST ($0.63) = $7.63".
func formatPersonLine(person string, share *PersonShare) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: ", person)

	for i, item := range share.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		if item.Percent > 0 {
			fmt.Fprintf(&b, "%d%% %s ($%.2f)", item.Percent, item.Name, item.Amount)
		} else {
			fmt.Fprintf(&b, "%s ($%.2f)", item.Name, item.Amount)
		}
	}

	if share.ServiceCharge > 0 || share.GST > 0 {
		fmt.Fprintf(&b, ", SC+GST ($%.2f)", share.ServiceCharge+share.GST)
	}

	fmt.Fprintf(&b, " = $%.2f\n", share.Total)
	return b.String()
}
