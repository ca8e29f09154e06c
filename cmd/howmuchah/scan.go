package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/howmuchah/howmuchah/internal/ocr"
	"github.com/howmuchah/howmuchah/internal/parser"
)

var (
	ocrAPIKey string
	rawText   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "OCR a receipt photo and extract line items",
	Long: `Scan uploads a receipt photo to the OCR.space API, then parses the
recognized text into line items. An API key is required, from --api-key
or the OCR_API_KEY environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey := ocrAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("OCR_API_KEY")
		}
		if apiKey == "" {
			return errors.New("an OCR API key is required (--api-key or OCR_API_KEY)")
		}

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer file.Close()

		client := ocr.NewClient(apiKey)
		text, err := client.ParseImage(cmd.Context(), file, args[0])
		if err != nil {
			return fmt.Errorf("OCR failed: %w", err)
		}

		if rawText {
			fmt.Println(text)
			return nil
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
	scanCmd.Flags().StringVarP(&ocrAPIKey, "api-key", "k", "", "OCR.space API key")
	scanCmd.Flags().BoolVar(&rawText, "raw", false, "print the recognized text instead of parsed items")
	rootCmd.AddCommand(scanCmd)
}
