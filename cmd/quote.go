package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/repository"
	"estimator-backend/services"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type quoteOptions struct {
	calculatorFile string
	selectionsFile string
	pdfFile        string
	asJSON         bool
}

func quoteCmd() *cobra.Command {
	var opts quoteOptions
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a set of selections offline",
		Long: `Prices a selections file (JSON or YAML) against a calculator seed without a server
or database. The built-in calculator is used when --calculator is not given.`,
		Example: `  estimator quote --selections answers.yaml
  estimator quote --calculator legacy.json --selections answers.json --pdf quote.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(opts)
		},
	}
	cmd.Flags().StringVar(&opts.calculatorFile, "calculator", "", "calculator seed file")
	cmd.Flags().StringVar(&opts.selectionsFile, "selections", "", "selections file")
	cmd.Flags().StringVar(&opts.pdfFile, "pdf", "", "also write the quote as a PDF")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the raw price result as JSON")
	_ = cmd.MarkFlagRequired("selections")
	return cmd
}

func loadCalculator(path string) (*calculator.Calculator, error) {
	raw, format := repository.DefaultSeed(), repository.FormatYAML
	if path != "" {
		var err error
		if raw, format, err = repository.LoadSeedFile(path); err != nil {
			return nil, err
		}
	}
	calc, _, err := repository.NormalizeSeed(raw, format)
	if err != nil {
		return nil, err
	}
	return calc, nil
}

// parseSelections decodes a JSON or YAML selections document. A document
// wrapping the answers in "selections" or "currentSelections" is unwrapped.
func parseSelections(raw []byte) (calculator.Selections, error) {
	var sel calculator.Selections
	if repository.DetectFormat(raw) == repository.FormatJSON {
		if err := json.Unmarshal(raw, &sel); err != nil {
			return nil, fmt.Errorf("decode selections: %w", err)
		}
	} else if err := yaml.Unmarshal(raw, &sel); err != nil {
		return nil, fmt.Errorf("decode selections: %w", err)
	}
	for _, wrapper := range []string{"selections", "currentSelections"} {
		if inner, ok := sel[wrapper].(map[string]any); ok && len(sel) == 1 {
			return calculator.Selections(inner), nil
		}
	}
	if sel == nil {
		sel = calculator.Selections{}
	}
	return sel, nil
}

// renderQuote lays out a price result as a boxed breakdown table.
func renderQuote(title string, res calculator.PriceResult) string {
	code := res.Currency
	var b strings.Builder
	line := func(label, value string) { b.WriteString(row(label, value) + "\n") }

	line("Base price", calculator.FormatAmount(res.BasePrice, code))
	for _, adj := range res.Breakdown.Adjustments {
		line(adj.Description, "× "+adj.Factor.String())
	}
	for _, items := range [][]calculator.LineItem{
		res.Breakdown.Services,
		res.Breakdown.Features,
		res.Breakdown.Platforms,
		res.Breakdown.Integrations,
		res.Breakdown.TechStack,
		res.Breakdown.Support,
	} {
		for _, item := range items {
			line(item.Description, "+ "+calculator.FormatAmount(item.Cost, code))
		}
	}
	for _, d := range res.Breakdown.Discounts {
		label := d.Description
		if !d.Applied {
			label += " (eligible)"
		}
		line(label, "- "+calculator.FormatAmount(d.Amount, code))
	}

	b.WriteString(subtleStyle.Render(strings.Repeat("─", 44)) + "\n")
	b.WriteString(totalStyle.Render(row("Estimate", res.FormattedPrice)) + "\n")
	line("Range", res.EstimateRange)
	line("GST", calculator.FormatAmount(res.GSTAmount, code))
	b.WriteString(totalStyle.Render(row("Total with GST", res.FormattedTotal)))

	return renderBox(title, b.String())
}

func runQuote(opts quoteOptions) error {
	calc, err := loadCalculator(opts.calculatorFile)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(opts.selectionsFile)
	if err != nil {
		return fmt.Errorf("read selections: %w", err)
	}
	sel, err := parseSelections(raw)
	if err != nil {
		return err
	}

	res := calculator.Calculate(calc, sel)

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		fmt.Println(renderQuote(calc.Title, res))
	}

	if opts.pdfFile != "" {
		var buf bytes.Buffer
		doc := services.QuoteDocument{
			Reference: repository.GenerateQuoteReference(),
			Title:     calc.Title,
			Result:    res,
			IssuedAt:  time.Now(),
		}
		if err := services.WriteQuotePDF(&buf, doc); err != nil {
			return err
		}
		if err := os.WriteFile(opts.pdfFile, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Println(formatSuccess("wrote " + opts.pdfFile))
	}
	return nil
}
