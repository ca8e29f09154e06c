// Command howmuchah is the bill-splitting CLI: parse receipt text or
// photos into items, and settle a session file into transfers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/howmuchah/howmuchah/pkg/logging"
)

var (
	logLevel string
	strategy string
)

var rootCmd = &cobra.Command{
	Use:   "howmuchah",
	Short: "Split restaurant bills from OCR'd receipts",
	Long: `howmuchah parses receipt text into line items and settles who owes
whom after a group meal.

Example usage:
  howmuchah parse receipt.txt              # extract items from OCR text
  howmuchah scan receipt.jpg               # OCR a photo, then extract items
  howmuchah settle dinner.yaml             # compute transfers for a session`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, "text")
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", "structured", "parse strategy (structured, singlepass)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
