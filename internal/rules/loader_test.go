package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if table.Len() != 18 {
		t.Errorf("reference rule set has %d entries, want 18", table.Len())
	}

	c := table.ByID(7)
	if c == nil {
		t.Fatal("criterion 7 missing from reference set")
	}
	if c.Type != EvalFuzzy {
		t.Errorf("criterion 7 type = %s, want fuzzy", c.Type)
	}
	found := false
	for _, p := range c.Patterns[TierRed] {
		if strings.EqualFold(p, "payable on first demand") {
			found = true
		}
	}
	if !found {
		t.Error("criterion 7 red tier should list the first-demand phrase")
	}

	if c := table.ByID(1); c == nil || c.Type != EvalFormat {
		t.Error("criterion 1 should be a format check")
	}
	if c := table.ByID(11); c == nil || c.Type != EvalNumericDays {
		t.Error("criterion 11 should be a numeric_days check")
	}
}

func TestParseRejectsMissingThresholds(t *testing.T) {
	raw := `[{
		"id": 1, "name": "Broken", "severity": "high", "type": "fuzzy",
		"patterns": {"green": ["a"], "yellow": ["b"], "red": ["c"]}
	}]`
	_, err := Parse([]byte(raw))
	if err == nil {
		t.Fatal("Parse() accepted a fuzzy criterion without thresholds")
	}
	if !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("error should wrap ErrConfiguration, got %v", err)
	}
}

func TestParseRejectsUnexpectedTier(t *testing.T) {
	// presence_inverse defines no yellow tier.
	raw := `[{
		"id": 2, "name": "Broken", "severity": "high", "type": "presence_inverse",
		"patterns": {"red": ["x"], "yellow": ["y"]}
	}]`
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("Parse() accepted a presence_inverse criterion with a yellow tier")
	}
}

func TestParseRejectsUnknownType(t *testing.T) {
	raw := `[{"id": 3, "name": "Broken", "severity": "low", "type": "telepathy"}]`
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("Parse() accepted an unknown evaluator type")
	}
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	raw := `[
		{"id": 9, "name": "A", "severity": "low", "type": "numeric_years", "thresholds": {"green_max_years": 6}},
		{"id": 9, "name": "B", "severity": "low", "type": "numeric_years", "thresholds": {"green_max_years": 6}}
	]`
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("Parse() accepted duplicate criterion ids")
	}
}

func TestParseRejectsEmptyPatternList(t *testing.T) {
	raw := `[{
		"id": 4, "name": "Broken", "severity": "low", "type": "presence_inverse",
		"patterns": {"red": []}
	}]`
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("Parse() accepted an empty red pattern list")
	}
}
