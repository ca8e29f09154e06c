package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/howmuchah/howmuchah/internal/models"
	"github.com/howmuchah/howmuchah/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract line items from receipt text",
	Long: `Parse reads OCR'd receipt text from a file (or stdin when the
argument is "-" or omitted) and prints the extracted line items.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readTextArg(args)
		if err != nil {
			return err
		}

		items, err := parser.ParseWith(text, parser.Strategy(strategy))
		if err != nil {
			return err
		}

		printItems(items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func readTextArg(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func printItems(items []models.LineItem) {
	if len(items) == 0 {
		fmt.Println("No items found.")
		return
	}
	var total float64
	for _, item := range items {
		fmt.Printf("%-30s $%.2f\n", item.Name, item.Price)
		total += item.Price
	}
	fmt.Printf("%-30s $%.2f\n", fmt.Sprintf("(%d items)", len(items)), total)
}
