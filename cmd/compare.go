package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inventory-comparer/core/config"
	"inventory-comparer/core/logger"
	"inventory-comparer/core/reconcile"
	"inventory-comparer/core/sheet"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the compare command
	locationFiles []string
	unlistedFiles []string
	ogfRules      bool
	outputPath    string
)

// compareCmd runs a comparison over local spreadsheets without the server.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare inventory spreadsheets and write a report workbook",
	Long: `Consolidates items across location and unlisted spreadsheets, applies
the selected rule set, and writes the comparison report to disk.

Examples:
  # Standard rules, two locations and one unlisted list
  compare --location warehouse.xlsx --location storefront.xlsx --unlisted web_removed.xlsx

  # OGF rules, custom output file
  compare --location ogf_main.xlsx --unlisted ogf_unlisted.xlsx --ogf-rules --out ogf_report.xlsx`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringArrayVar(&locationFiles, "location", nil, "Location spreadsheet (repeatable, at least one required)")
	compareCmd.Flags().StringArrayVar(&unlistedFiles, "unlisted", nil, "Unlisted spreadsheet (repeatable)")
	compareCmd.Flags().BoolVar(&ogfRules, "ogf-rules", false, "Use the OGF rule preset instead of the configured default")
	compareCmd.Flags().StringVar(&outputPath, "out", sheet.ReportFileName, "Output path for the report workbook")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	if len(locationFiles) == 0 {
		return fmt.Errorf("at least one --location file is required")
	}

	ruleSet := reconcile.RuleSet(cfg.Server.DefaultRuleSet)
	if ogfRules {
		ruleSet = reconcile.RuleSetOGF
	}

	locations, err := readSources(locationFiles)
	if err != nil {
		return err
	}
	unlisted, err := readSources(unlistedFiles)
	if err != nil {
		return err
	}

	engine := reconcile.NewEngine(l)
	result, err := engine.Run(ruleSet, locations, unlisted)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	content, err := sheet.WriteReport(result)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	l.Info("Comparison report written",
		zap.String("path", outputPath),
		zap.String("rule_set", string(result.Config.RuleSet)),
		zap.Int("items", result.Summary.Items),
		zap.Int("good", result.Summary.Good),
		zap.Int("rule_violations", result.Summary.RuleViolation),
		zap.Int("data_issues", result.Summary.DataIssues),
		zap.Int("critical", result.Summary.Critical),
		zap.Int("no_data", result.Summary.NoData),
		zap.Int("skipped_rows", result.Summary.SkippedRows),
	)
	return nil
}

// readSources parses each spreadsheet into a source named after its file.
func readSources(paths []string) ([]reconcile.Source, error) {
	sources := make([]reconcile.Source, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		src, err := sheet.Parse(sourceNameFromPath(p), f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func sourceNameFromPath(p string) string {
	name := filepath.Base(p)
	ext := filepath.Ext(name)
	switch strings.ToLower(ext) {
	case ".xlsx", ".xls":
		return strings.TrimSuffix(name, ext)
	}
	return name
}
