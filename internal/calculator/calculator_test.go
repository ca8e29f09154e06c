package calculator

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/howmuchah/howmuchah/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestBreakdownReceipt(t *testing.T) {
	tests := []struct {
		name         string
		receipt      *models.Receipt
		people       []string
		wantErr      error
		validateFunc func(t *testing.T, bd *ReceiptBreakdown)
	}{
		{
			name: "shared and solo items without charges",
			receipt: &models.Receipt{
				Items: []models.LineItem{
					{Name: "Chicken Rice", Price: 10.00, AssignedTo: []string{"Alice", "Bob"}},
					{Name: "Water", Price: 2.00, AssignedTo: []string{"Alice"}},
				},
			},
			people: []string{"Alice", "Bob"},
			validateFunc: func(t *testing.T, bd *ReceiptBreakdown) {
				if !almostEqual(bd.Subtotal, 12.00) || !almostEqual(bd.Total, 12.00) {
					t.Errorf("subtotal/total = %v/%v, want 12.00/12.00", bd.Subtotal, bd.Total)
				}
				if !almostEqual(bd.Shares["Alice"].Total, 7.00) {
					t.Errorf("Alice total = %v, want 7.00", bd.Shares["Alice"].Total)
				}
				if !almostEqual(bd.Shares["Bob"].Total, 5.00) {
					t.Errorf("Bob total = %v, want 5.00", bd.Shares["Bob"].Total)
				}
				if got := bd.Shares["Alice"].Items[0].Percent; got != 50 {
					t.Errorf("Alice shared item percent = %d, want 50", got)
				}
				if got := bd.Shares["Alice"].Items[1].Percent; got != 0 {
					t.Errorf("Alice solo item percent = %d, want 0", got)
				}
			},
		},
		{
			name: "service charge applied before gst",
			receipt: &models.Receipt{
				Items: []models.LineItem{
					{Name: "Banquet", Price: 100.00, AssignedTo: []string{"Alice"}},
				},
				ServiceCharge: models.ChargeConfig{Enabled: true, Percent: 10},
				GST:           models.ChargeConfig{Enabled: true, Percent: 9},
			},
			people: []string{"Alice"},
			validateFunc: func(t *testing.T, bd *ReceiptBreakdown) {
				if !almostEqual(bd.ServiceCharge, 10.00) {
					t.Errorf("service charge = %v, want 10.00", bd.ServiceCharge)
				}
				// GST base is 110.00, not 100.00.
				if !almostEqual(bd.GST, 9.90) {
					t.Errorf("gst = %v, want 9.90", bd.GST)
				}
				if !almostEqual(bd.Total, 119.90) {
					t.Errorf("total = %v, want 119.90", bd.Total)
				}
				if !almostEqual(bd.Shares["Alice"].Total, 119.90) {
					t.Errorf("Alice total = %v, want 119.90", bd.Shares["Alice"].Total)
				}
			},
		},
		{
			name: "gst alone uses plain subtotal as base",
			receipt: &models.Receipt{
				Items: []models.LineItem{
					{Name: "Banquet", Price: 100.00, AssignedTo: []string{"Alice"}},
				},
				GST: models.ChargeConfig{Enabled: true, Percent: 9},
			},
			people: []string{"Alice"},
			validateFunc: func(t *testing.T, bd *ReceiptBreakdown) {
				if !almostEqual(bd.GST, 9.00) {
					t.Errorf("gst = %v, want 9.00", bd.GST)
				}
				if !almostEqual(bd.Total, 109.00) {
					t.Errorf("total = %v, want 109.00", bd.Total)
				}
			},
		},
		{
			name: "person shares sum to receipt total",
			receipt: &models.Receipt{
				Items: []models.LineItem{
					{Name: "Hotpot", Price: 47.30, AssignedTo: []string{"Alice", "Bob", "Cara"}},
					{Name: "Beer", Price: 13.50, AssignedTo: []string{"Bob", "Cara"}},
					{Name: "Mochi", Price: 5.80, AssignedTo: []string{"Alice"}},
				},
				ServiceCharge: models.ChargeConfig{Enabled: true, Percent: 10},
				GST:           models.ChargeConfig{Enabled: true, Percent: 9},
			},
			people: []string{"Alice", "Bob", "Cara"},
			validateFunc: func(t *testing.T, bd *ReceiptBreakdown) {
				var sum float64
				for _, share := range bd.Shares {
					sum += share.Total
				}
				if math.Abs(sum-bd.Total) > 1e-6 {
					t.Errorf("sum of person totals = %v, receipt total = %v", sum, bd.Total)
				}
			},
		},
		{
			name: "unassigned item fails fast",
			receipt: &models.Receipt{
				Items: []models.LineItem{
					{Name: "Orphan Dish", Price: 9.00},
				},
			},
			people:  []string{"Alice"},
			wantErr: ErrUnassignedItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd, err := BreakdownReceipt(tt.receipt, tt.people)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validateFunc(t, bd)
		})
	}
}

func TestItemSharesSumToPrice(t *testing.T) {
	item := models.LineItem{
		Name:       "Hotpot",
		Price:      47.30,
		AssignedTo: []string{"Alice", "Bob", "Cara"},
	}
	receipt := &models.Receipt{Items: []models.LineItem{item}}

	bd, err := BreakdownReceipt(receipt, item.AssignedTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum float64
	for _, person := range item.AssignedTo {
		sum += bd.Shares[person].Items[0].Amount
	}
	if math.Abs(sum-item.Price) > 1e-6 {
		t.Errorf("share amounts sum to %v, want %v", sum, item.Price)
	}
}

func TestComputeSettlement(t *testing.T) {
	t.Run("two people, one receipt", func(t *testing.T) {
		receipt := &models.Receipt{
			Label: "Receipt 1",
			Payer: "Alice",
			Items: []models.LineItem{
				{Name: "Chicken Rice", Price: 10.00, AssignedTo: []string{"Alice", "Bob"}},
				{Name: "Water", Price: 2.00, AssignedTo: []string{"Alice"}},
			},
		}

		s, err := ComputeSettlement([]string{"Alice", "Bob"}, []*models.Receipt{receipt})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !almostEqual(s.NetPositions["Alice"].Net, 5.00) {
			t.Errorf("Alice net = %v, want +5.00", s.NetPositions["Alice"].Net)
		}
		if !almostEqual(s.NetPositions["Bob"].Net, -5.00) {
			t.Errorf("Bob net = %v, want -5.00", s.NetPositions["Bob"].Net)
		}

		if len(s.Transfers) != 1 {
			t.Fatalf("got %d transfers, want 1: %+v", len(s.Transfers), s.Transfers)
		}
		tr := s.Transfers[0]
		if tr.From != "Bob" || tr.To != "Alice" || !almostEqual(tr.Amount, 5.00) {
			t.Errorf("transfer = %+v, want Bob → Alice $5.00", tr)
		}
	})

	t.Run("two receipts with different payers net out", func(t *testing.T) {
		r1 := &models.Receipt{
			Label: "Receipt 1",
			Payer: "Alice",
			Items: []models.LineItem{
				{Name: "Dinner", Price: 60.00, AssignedTo: []string{"Alice", "Bob", "Cara"}},
			},
		}
		r2 := &models.Receipt{
			Label: "Receipt 2",
			Payer: "Bob",
			Items: []models.LineItem{
				{Name: "Dessert", Price: 30.00, AssignedTo: []string{"Alice", "Bob", "Cara"}},
			},
		}

		s, err := ComputeSettlement([]string{"Alice", "Bob", "Cara"}, []*models.Receipt{r1, r2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Each consumed 30; Alice paid 60, Bob 30, Cara 0.
		if !almostEqual(s.NetPositions["Alice"].Net, 30.00) {
			t.Errorf("Alice net = %v, want +30.00", s.NetPositions["Alice"].Net)
		}
		if !almostEqual(s.NetPositions["Bob"].Net, 0.00) {
			t.Errorf("Bob net = %v, want 0.00", s.NetPositions["Bob"].Net)
		}
		if !almostEqual(s.NetPositions["Cara"].Net, -30.00) {
			t.Errorf("Cara net = %v, want -30.00", s.NetPositions["Cara"].Net)
		}

		if len(s.Transfers) != 1 {
			t.Fatalf("got %d transfers, want 1: %+v", len(s.Transfers), s.Transfers)
		}
		tr := s.Transfers[0]
		if tr.From != "Cara" || tr.To != "Alice" || !almostEqual(tr.Amount, 30.00) {
			t.Errorf("transfer = %+v, want Cara → Alice $30.00", tr)
		}
	})

	t.Run("everyone settled yields no transfers", func(t *testing.T) {
		r1 := &models.Receipt{
			Label: "Receipt 1",
			Payer: "Alice",
			Items: []models.LineItem{
				{Name: "Lunch", Price: 20.00, AssignedTo: []string{"Alice", "Bob"}},
			},
		}
		r2 := &models.Receipt{
			Label: "Receipt 2",
			Payer: "Bob",
			Items: []models.LineItem{
				{Name: "Coffee", Price: 20.00, AssignedTo: []string{"Alice", "Bob"}},
			},
		}

		s, err := ComputeSettlement([]string{"Alice", "Bob"}, []*models.Receipt{r1, r2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s.Transfers) != 0 {
			t.Errorf("got transfers %+v, want none", s.Transfers)
		}
	})

	t.Run("missing payer fails fast", func(t *testing.T) {
		receipt := &models.Receipt{
			Label: "Receipt 1",
			Items: []models.LineItem{
				{Name: "Lunch", Price: 20.00, AssignedTo: []string{"Alice"}},
			},
		}
		_, err := ComputeSettlement([]string{"Alice"}, []*models.Receipt{receipt})
		if !errors.Is(err, ErrNoPayer) {
			t.Errorf("error = %v, want ErrNoPayer", err)
		}
	})
}

// TestSettlementConservation checks that each debtor's outgoing
// transfers match their deficit and each creditor's incoming
// transfers match their credit, within tolerance.
func TestSettlementConservation(t *testing.T) {
	receipts := []*models.Receipt{
		{
			Label: "Receipt 1",
			Payer: "Alice",
			Items: []models.LineItem{
				{Name: "Hotpot", Price: 47.30, AssignedTo: []string{"Alice", "Bob", "Cara"}},
				{Name: "Beer", Price: 13.50, AssignedTo: []string{"Bob", "Cara"}},
			},
			ServiceCharge: models.ChargeConfig{Enabled: true, Percent: 10},
			GST:           models.ChargeConfig{Enabled: true, Percent: 9},
		},
		{
			Label: "Receipt 2",
			Payer: "Bob",
			Items: []models.LineItem{
				{Name: "Supper", Price: 22.10, AssignedTo: []string{"Alice", "Cara"}},
			},
		},
	}

	s, err := ComputeSettlement([]string{"Alice", "Bob", "Cara"}, receipts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outgoing := make(map[string]float64)
	incoming := make(map[string]float64)
	for _, tr := range s.Transfers {
		if tr.Amount < 0 {
			t.Errorf("negative transfer amount: %+v", tr)
		}
		outgoing[tr.From] += tr.Amount
		incoming[tr.To] += tr.Amount
	}

	for person, np := range s.NetPositions {
		switch {
		case np.Net < -Epsilon:
			if math.Abs(outgoing[person]-(-np.Net)) > Epsilon {
				t.Errorf("%s pays %v, owes %v", person, outgoing[person], -np.Net)
			}
		case np.Net > Epsilon:
			if math.Abs(incoming[person]-np.Net) > Epsilon {
				t.Errorf("%s receives %v, is owed %v", person, incoming[person], np.Net)
			}
		}
	}
}

func TestSummary(t *testing.T) {
	receipt := &models.Receipt{
		Label: "Receipt 1",
		Payer: "Alice",
		Items: []models.LineItem{
			{Name: "Chicken Rice", Price: 10.00, AssignedTo: []string{"Alice", "Bob"}},
			{Name: "Water", Price: 2.00, AssignedTo: []string{"Alice"}},
		},
	}

	s, err := ComputeSettlement([]string{"Alice", "Bob"}, []*models.Receipt{receipt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := s.Summary()
	for _, fragment := range []string{
		"- Bob → Alice: $5.00",
		"- Alice paid $12.00 (Receipt 1)",
		"Alice: 50% Chicken Rice ($5.00), Water ($2.00) = $7.00",
		"Bob: 50% Chicken Rice ($5.00) = $5.00",
	} {
		if !strings.Contains(summary, fragment) {
			t.Errorf("summary missing %q:\n%s", fragment, summary)
		}
	}
}

func TestSummaryAllSettled(t *testing.T) {
	receipt := &models.Receipt{
		Label: "Receipt 1",
		Payer: "Alice",
		Items: []models.LineItem{
			{Name: "Solo Meal", Price: 15.00, AssignedTo: []string{"Alice"}},
		},
	}

	s, err := ComputeSettlement([]string{"Alice"}, []*models.Receipt{receipt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Transfers) != 0 {
		t.Fatalf("got transfers %+v, want none", s.Transfers)
	}
	if !strings.Contains(s.Summary(), "All settled") {
		t.Errorf("summary should say all settled:\n%s", s.Summary())
	}
}
