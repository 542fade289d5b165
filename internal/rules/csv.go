package rules

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/textnorm"
)

// ColumnMap names the rule-source columns. Field names and casing are
// caller-defined; headers are matched after snake_case normalization.
type ColumnMap struct {
	MakeMatch string
	Pattern   string
	Target    string
	MatchType string
	Priority  string
}

// DefaultColumnMap matches the historical reglas_modelos_base.csv header.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		MakeMatch: "make_rule_match",
		Pattern:   "model_pattern_input_lower",
		Target:    "model_base_target",
		MatchType: "match_type",
		Priority:  "priority",
	}
}

// LoadCSV parses a tabular rule source into a Table. Priority defaults to 0
// when missing or non-numeric; such rows never fail the load. Rows missing
// the make, pattern or target columns are skipped and counted.
func LoadCSV(r io.Reader, cm ColumnMap) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Empty(), nil
	}
	if err != nil {
		return Empty(), fmt.Errorf("read rule header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[textnorm.ToSnakeCase(strings.TrimSpace(col))] = i
	}

	col := func(record []string, name string) string {
		i, ok := idx[textnorm.ToSnakeCase(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []domain.NormalizationRule
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return Empty(), fmt.Errorf("read rule row: %w", readErr)
		}

		priority, convErr := strconv.Atoi(col(record, cm.Priority))
		if convErr != nil {
			priority = 0
		}

		rows = append(rows, domain.NormalizationRule{
			MakeMatch:       col(record, cm.MakeMatch),
			Pattern:         col(record, cm.Pattern),
			Match:           domain.MatchType(col(record, cm.MatchType)),
			TargetModelBase: col(record, cm.Target),
			Priority:        priority,
			Enabled:         true,
		})
	}

	return New(rows), nil
}

// LoadCSVFile loads a rule file from disk. A missing or unparseable file
// degrades to an empty table with the error returned for the caller to log;
// classification then falls back to passthrough for every input.
func LoadCSVFile(path string, cm ColumnMap) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Empty(), fmt.Errorf("open rule file %s: %w", path, err)
	}
	defer f.Close()

	return LoadCSV(f, cm)
}
