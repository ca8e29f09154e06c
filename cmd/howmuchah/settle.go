package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/howmuchah/howmuchah/internal/calculator"
	"github.com/howmuchah/howmuchah/internal/models"
)

// sessionFile is the YAML schema for a settle input file.
type sessionFile struct {
	People   []string      `yaml:"people"`
	Receipts []receiptFile `yaml:"receipts"`
}

type receiptFile struct {
	Label         string     `yaml:"label"`
	Payer         string     `yaml:"payer"`
	ServiceCharge chargeFile `yaml:"service_charge"`
	GST           chargeFile `yaml:"gst"`
	Items         []itemFile `yaml:"items"`
}

type chargeFile struct {
	Enabled bool    `yaml:"enabled"`
	Percent float64 `yaml:"percent"`
}

type itemFile struct {
	Name       string   `yaml:"name"`
	Price      float64  `yaml:"price"`
	AssignedTo []string `yaml:"assigned_to"`
}

var settleCmd = &cobra.Command{
	Use:   "settle <session.yaml>",
	Short: "Compute who pays whom for a session file",
	Long: `Settle reads a YAML session file describing the party, its receipts
and who consumed what, and prints the per-person breakdown and the
transfers that square everyone up.

Example session file:

  people: [Alice, Bob]
  receipts:
    - label: Dinner
      payer: Alice
      service_charge: {enabled: true, percent: 10}
      gst: {enabled: true, percent: 9}
      items:
        - name: Chicken Rice
          price: 5.50
          assigned_to: [Alice, Bob]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var sf sessionFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}
		if len(sf.People) == 0 {
			return fmt.Errorf("%s: people is required", args[0])
		}
		if len(sf.Receipts) == 0 {
			return fmt.Errorf("%s: receipts is required", args[0])
		}
		if len(sf.Receipts) > models.MaxReceipts {
			return fmt.Errorf("%s: at most %d receipts", args[0], models.MaxReceipts)
		}

		settlement, err := calculator.ComputeSettlement(sf.People, toReceipts(&sf))
		if err != nil {
			return err
		}

		fmt.Println(settlement.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settleCmd)
}

func toReceipts(sf *sessionFile) []*models.Receipt {
	receipts := make([]*models.Receipt, 0, len(sf.Receipts))
	for i, rf := range sf.Receipts {
		label := rf.Label
		if label == "" {
			label = fmt.Sprintf("Receipt %d", i+1)
		}
		items := make([]models.LineItem, 0, len(rf.Items))
		for j, it := range rf.Items {
			items = append(items, models.LineItem{
				ID:         fmt.Sprintf("item-%d-%d", i+1, j+1),
				Name:       it.Name,
				Price:      it.Price,
				AssignedTo: it.AssignedTo,
			})
		}
		receipts = append(receipts, &models.Receipt{
			ID:            fmt.Sprintf("receipt-%d", i+1),
			Label:         label,
			Payer:         rf.Payer,
			Items:         items,
			ServiceCharge: models.ChargeConfig(rf.ServiceCharge),
			GST:           models.ChargeConfig(rf.GST),
		})
	}
	return receipts
}
