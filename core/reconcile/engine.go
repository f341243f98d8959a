package reconcile

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Engine runs the consolidation pipeline. It carries only a logger and
// is safe for concurrent use; every run works on its own RunConfig and
// item set.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger is replaced with a no-op
// logger so library callers don't have to care.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Summary counts the run's outcomes per status.
type Summary struct {
	Items         int
	Good          int
	RuleViolation int
	DataIssues    int
	Critical      int
	NoData        int
	SkippedRows   int
}

// Result is the full output of one run. Items and Rows are sorted by
// primary SKU then primary barcode; two runs over identical inputs
// produce identical results.
type Result struct {
	Config  RunConfig
	Items   []*Item
	Rows    []ReportRow
	Summary Summary
}

// Run consolidates the given sources and classifies every resulting
// item under the selected rule set. Location sources are validated for
// in-source duplicates; unlisted sources are not.
//
// Configuration defects (an unknown rule set, no location sources, or
// two sources sharing a name) fail the whole run. Data-quality
// problems never do: they only downgrade the affected items.
func (e *Engine) Run(ruleSet RuleSet, locations, unlisted []Source) (*Result, error) {
	if !ruleSet.Valid() {
		return nil, fmt.Errorf("unknown rule set %q", ruleSet)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("at least one location source is required")
	}

	cfg := RunConfig{RuleSet: ruleSet}
	seen := make(map[string]struct{})
	for _, src := range append(append([]Source{}, locations...), unlisted...) {
		key := strings.ToLower(src.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate source name %q", src.Name)
		}
		seen[key] = struct{}{}
	}
	for _, src := range locations {
		cfg.LocationNames = append(cfg.LocationNames, src.Name)
	}
	for _, src := range unlisted {
		cfg.UnlistedNames = append(cfg.UnlistedNames, src.Name)
	}

	cons := newConsolidator(cfg)
	skipped := 0
	ingest := func(src Source, validate bool) {
		records, dropped := sourceRecords(src, validate)
		if dropped > 0 {
			e.logger.Debug("skipped rows without SKU or barcode",
				zap.String("source", src.Name), zap.Int("rows", dropped))
		}
		skipped += dropped
		for _, rec := range records {
			cons.add(rec)
		}
	}
	for _, src := range locations {
		ingest(src, true)
	}
	for _, src := range unlisted {
		ingest(src, false)
	}

	items := cons.items()
	for _, it := range items {
		resolveProductName(it, cfg)
	}

	detectCrossItemConflicts(items)
	for _, it := range items {
		detectItemConsistency(it)
		classify(it, cfg)
	}

	result := &Result{
		Config:  cfg,
		Items:   items,
		Rows:    buildReportRows(items, cfg),
		Summary: summarize(items, skipped),
	}
	e.logger.Info("reconciliation run complete",
		zap.String("ruleSet", string(ruleSet)),
		zap.Int("locations", len(locations)),
		zap.Int("unlisted", len(unlisted)),
		zap.Int("items", result.Summary.Items),
		zap.Int("good", result.Summary.Good),
		zap.Int("ruleViolations", result.Summary.RuleViolation),
		zap.Int("dataIssues", result.Summary.DataIssues),
		zap.Int("critical", result.Summary.Critical),
		zap.Int("skippedRows", skipped),
	)
	return result, nil
}

func summarize(items []*Item, skipped int) Summary {
	s := Summary{Items: len(items), SkippedRows: skipped}
	for _, it := range items {
		switch it.Status {
		case StatusGood:
			s.Good++
		case StatusRuleViolation:
			s.RuleViolation++
		case StatusDataIssues:
			s.DataIssues++
		case StatusCriticalDuplicateBarcode:
			s.Critical++
		case StatusNoData:
			s.NoData++
		}
	}
	return s
}
