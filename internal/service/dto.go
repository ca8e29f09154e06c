package service

import (
	"github.com/howmuchah/howmuchah/internal/calculator"
	"github.com/howmuchah/howmuchah/internal/models"
)

// The wire types are kept separate from the domain models so the JSON
// shape can stay stable while the models evolve.

// ChargeDTO is a percentage surcharge toggle.
type ChargeDTO struct {
	Enabled bool    `json:"enabled"`
	Percent float64 `json:"percent"`
}

// ItemDTO is a receipt line item on the wire.
type ItemDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	AssignedTo []string `json:"assignedTo"`
}

// ReceiptDTO is a receipt on the wire.
type ReceiptDTO struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	Payer         string    `json:"payer"`
	Items         []ItemDTO `json:"items"`
	ServiceCharge ChargeDTO `json:"serviceCharge"`
	GST           ChargeDTO `json:"gst"`
}

// SessionDTO is a full session on the wire.
type SessionDTO struct {
	ID        string       `json:"id"`
	People    []string     `json:"people"`
	Receipts  []ReceiptDTO `json:"receipts"`
	CreatedAt int64        `json:"createdAt"`
}

// UserDTO is the public view of a user account.
type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// NetPositionDTO is one person's overall position.
type NetPositionDTO struct {
	Person   string  `json:"person"`
	Paid     float64 `json:"paid"`
	Consumed float64 `json:"consumed"`
	Net      float64 `json:"net"`
}

// TransferDTO is a single settling payment.
type TransferDTO struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// ItemShareDTO is one person's share of one item.
type ItemShareDTO struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Percent int     `json:"percent"`
}

// PersonShareDTO is one person's share of one receipt.
type PersonShareDTO struct {
	Person        string         `json:"person"`
	Subtotal      float64        `json:"subtotal"`
	ServiceCharge float64        `json:"serviceCharge"`
	GST           float64        `json:"gst"`
	Total         float64        `json:"total"`
	Items         []ItemShareDTO `json:"items"`
}

// BreakdownDTO is the per-receipt cost breakdown.
type BreakdownDTO struct {
	Label         string           `json:"label"`
	Payer         string           `json:"payer"`
	Subtotal      float64          `json:"subtotal"`
	ServiceCharge float64          `json:"serviceCharge"`
	GST           float64          `json:"gst"`
	Total         float64          `json:"total"`
	Shares        []PersonShareDTO `json:"shares"`
}

// SettlementDTO is the full settlement result plus a shareable text
// summary.
type SettlementDTO struct {
	NetPositions []NetPositionDTO `json:"netPositions"`
	Transfers    []TransferDTO    `json:"transfers"`
	Receipts     []BreakdownDTO   `json:"receipts"`
	Summary      string           `json:"summary"`
}

func toItemDTO(item *models.LineItem) ItemDTO {
	assigned := item.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return ItemDTO{
		ID:         item.ID,
		Name:       item.Name,
		Price:      item.Price,
		AssignedTo: assigned,
	}
}

func toReceiptDTO(r *models.Receipt) ReceiptDTO {
	items := make([]ItemDTO, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, toItemDTO(&r.Items[i]))
	}
	return ReceiptDTO{
		ID:            r.ID,
		Label:         r.Label,
		Payer:         r.Payer,
		Items:         items,
		ServiceCharge: ChargeDTO(r.ServiceCharge),
		GST:           ChargeDTO(r.GST),
	}
}

func toSessionDTO(s *models.Session) SessionDTO {
	receipts := make([]ReceiptDTO, 0, len(s.Receipts))
	for _, r := range s.Receipts {
		receipts = append(receipts, toReceiptDTO(r))
	}
	people := s.PeopleNames()
	if people == nil {
		people = []string{}
	}
	return SessionDTO{
		ID:        s.ID,
		People:    people,
		Receipts:  receipts,
		CreatedAt: s.CreatedAt,
	}
}

func toUserDTO(u *models.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func toItemDTOs(items []models.LineItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, toItemDTO(&items[i]))
	}
	return out
}

// fromReceiptDTO builds a domain receipt from wire input, used by the
// stateless settle endpoint.
func fromReceiptDTO(dto *ReceiptDTO) *models.Receipt {
	items := make([]models.LineItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, models.LineItem{
			ID:         it.ID,
			Name:       it.Name,
			Price:      it.Price,
			AssignedTo: it.AssignedTo,
		})
	}
	return &models.Receipt{
		ID:            dto.ID,
		Label:         dto.Label,
		Payer:         dto.Payer,
		Items:         items,
		ServiceCharge: models.ChargeConfig(dto.ServiceCharge),
		GST:           models.ChargeConfig(dto.GST),
	}
}

func toSettlementDTO(s *calculator.Settlement) SettlementDTO {
	positions := make([]NetPositionDTO, 0, len(s.People))
	for _, person := range s.People {
		p := s.NetPositions[person]
		positions = append(positions, NetPositionDTO{
			Person:   person,
			Paid:     p.Paid,
			Consumed: p.Consumed,
			Net:      p.Net,
		})
	}

	transfers := make([]TransferDTO, 0, len(s.Transfers))
	for _, t := range s.Transfers {
		transfers = append(transfers, TransferDTO{From: t.From, To: t.To, Amount: t.Amount})
	}

	receipts := make([]BreakdownDTO, 0, len(s.Receipts))
	for _, rr := range s.Receipts {
		b := rr.Breakdown
		shares := make([]PersonShareDTO, 0, len(s.People))
		for _, person := range s.People {
			share, ok := b.Shares[person]
			if !ok || share.Total <= 0 {
				continue
			}
			itemShares := make([]ItemShareDTO, 0, len(share.Items))
			for _, is := range share.Items {
				itemShares = append(itemShares, ItemShareDTO{Name: is.Name, Amount: is.Amount, Percent: is.Percent})
			}
			shares = append(shares, PersonShareDTO{
				Person:        person,
				Subtotal:      share.Subtotal,
				ServiceCharge: share.ServiceCharge,
				GST:           share.GST,
				Total:         share.Total,
				Items:         itemShares,
			})
		}
		receipts = append(receipts, BreakdownDTO{
			Label:         rr.Label,
			Payer:         rr.Payer,
			Subtotal:      b.Subtotal,
			ServiceCharge: b.ServiceCharge,
			GST:           b.GST,
			Total:         b.Total,
			Shares:        shares,
		})
	}

	return SettlementDTO{
		NetPositions: positions,
		Transfers:    transfers,
		Receipts:     receipts,
		Summary:      s.Summary(),
	}
}
