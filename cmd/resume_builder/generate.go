package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/record"
	"github.com/jonathan/resume-builder/internal/render"
)

var (
	generateInput  string
	generateOutput string
	generatePDF    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a resume document from a saved record file",
	Long: `Generate resume HTML (and optionally PDF) from a record file without
running the server. The file may be either a structured JSON record or the
builder's plain-text export format.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateInput, "input", "", "Path to the record file (required)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "", "Write HTML to this file instead of stdout")
	generateCmd.Flags().StringVar(&generatePDF, "pdf", "", "Also export a PDF to this path")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(generateInput)
	if err != nil {
		return fmt.Errorf("failed to read record file: %w", err)
	}

	rec, err := decodeRecordFile(data)
	if err != nil {
		return err
	}

	doc := document.Generate(rec.Flatten())
	html, err := render.HTML(doc)
	if err != nil {
		return fmt.Errorf("failed to render resume: %w", err)
	}

	if generateOutput == "" {
		fmt.Println(html)
	} else if err := os.WriteFile(generateOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}

	if generatePDF != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		pdf, err := export.PDF(ctx, html)
		if err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		if err := os.WriteFile(generatePDF, pdf, 0644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Fprintf(os.Stderr, "PDF written to %s\n", generatePDF)
	}

	return nil
}

// decodeRecordFile accepts either a structured JSON record or the plain-text
// builder format.
func decodeRecordFile(data []byte) (*record.Record, error) {
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		var rec record.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse record JSON: %w", err)
		}
		return &rec, nil
	}
	return record.Decode(string(data)), nil
}
