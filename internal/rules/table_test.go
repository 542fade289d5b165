package rules

import (
	"strings"
	"testing"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
)

func rule(makeMatch, pattern string, match domain.MatchType, target string, priority int) domain.NormalizationRule {
	return domain.NormalizationRule{
		MakeMatch:       makeMatch,
		Pattern:         pattern,
		Match:           match,
		TargetModelBase: target,
		Priority:        priority,
		Enabled:         true,
	}
}

func TestNewOrdersByPriorityThenPatternLength(t *testing.T) {
	table := New([]domain.NormalizationRule{
		rule("toyota", "corolla", domain.MatchStartsWith, "Corolla", 50),
		rule("toyota", "corolla cross", domain.MatchContains, "Corolla Cross", 100),
		rule("toyota", "yaris", domain.MatchExact, "Yaris", 100),
	})

	all := table.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(all))
	}
	// priority 100 first; within 100, "corolla cross" is longer than "yaris"
	if all[0].Pattern != "corolla cross" {
		t.Errorf("first rule = %q, want corolla cross", all[0].Pattern)
	}
	if all[1].Pattern != "yaris" {
		t.Errorf("second rule = %q, want yaris", all[1].Pattern)
	}
	if all[2].Pattern != "corolla" {
		t.Errorf("third rule = %q, want corolla", all[2].Pattern)
	}
}

func TestNewOrderIsDeterministic(t *testing.T) {
	rows := []domain.NormalizationRule{
		rule("kia", "rio", domain.MatchExact, "Rio", 10),
		rule("kia", "ri2", domain.MatchExact, "Rio Hatch", 10),
		rule("kia", "ri3", domain.MatchExact, "Rio Sedan", 10),
	}

	first := New(rows).All()
	for n := 0; n < 20; n++ {
		again := New(rows).All()
		for i := range first {
			if first[i].TargetModelBase != again[i].TargetModelBase {
				t.Fatalf("order changed between builds at %d: %q vs %q",
					i, first[i].TargetModelBase, again[i].TargetModelBase)
			}
		}
	}
}

func TestNewSkipsInvalidRows(t *testing.T) {
	disabled := rule("toyota", "hilux", domain.MatchExact, "Hilux", 1)
	disabled.Enabled = false

	table := New([]domain.NormalizationRule{
		disabled,
		rule("toyota", "yaris", domain.MatchType("regex"), "Yaris", 1),
		rule("toyota", "", domain.MatchExact, "Empty", 1),
		rule("", "corolla", domain.MatchExact, "Corolla", 1),
		rule("toyota", "corolla", domain.MatchExact, "Corolla", 1),
	})

	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1", table.Len())
	}
	if table.Skipped() != 4 {
		t.Errorf("Skipped = %d, want 4", table.Skipped())
	}
}

func TestNewNormalizesMakeAndPattern(t *testing.T) {
	table := New([]domain.NormalizationRule{
		rule("  TOYOTA ", "  Corólla ", domain.MatchExact, "Corolla", 1),
	})

	got := table.RulesForMake("Toyota")
	if len(got) != 1 {
		t.Fatalf("expected 1 rule for Toyota, got %d", len(got))
	}
	if got[0].Pattern != "corolla" {
		t.Errorf("pattern = %q, want corolla", got[0].Pattern)
	}
	if got[0].TargetModelBase != "Corolla" {
		t.Errorf("target casing not preserved: %q", got[0].TargetModelBase)
	}
}

func TestRulesForMakeIsScoped(t *testing.T) {
	table := New([]domain.NormalizationRule{
		rule("toyota", "corolla", domain.MatchExact, "Corolla", 1),
		rule("suzuki", "swift", domain.MatchExact, "Swift", 1),
	})

	if got := table.RulesForMake("suzuki"); len(got) != 1 || got[0].Pattern != "swift" {
		t.Errorf("suzuki rules = %+v", got)
	}
	if got := table.RulesForMake("nissan"); len(got) != 0 {
		t.Errorf("expected no rules for nissan, got %d", len(got))
	}
}

func TestEmpty(t *testing.T) {
	table := Empty()
	if !table.Empty() {
		t.Error("Empty() table should report Empty() == true")
	}
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
}

func TestLoadCSV(t *testing.T) {
	src := strings.Join([]string{
		"make_rule_match,model_pattern_input_lower,model_base_target,match_type,priority",
		"toyota,corolla cross,Corolla Cross,contains,100",
		"toyota,corolla,Corolla,startswith,50",
		"suzuki,swift,Swift,exact,",
	}, "\n")

	table, err := LoadCSV(strings.NewReader(src), DefaultColumnMap())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len = %d, want 3", table.Len())
	}

	// blank priority defaults to 0, never an error
	suzuki := table.RulesForMake("suzuki")
	if len(suzuki) != 1 || suzuki[0].Priority != 0 {
		t.Errorf("suzuki rule = %+v, want priority 0", suzuki)
	}

	toyota := table.RulesForMake("toyota")
	if len(toyota) != 2 || toyota[0].Pattern != "corolla cross" {
		t.Errorf("toyota rules out of order: %+v", toyota)
	}
}

func TestLoadCSVHeaderVariants(t *testing.T) {
	// headers match after snake_case normalization
	src := strings.Join([]string{
		"Make-Rule-Match,Model Pattern Input Lower,Model_Base_Target,Match Type,Priority",
		"toyota,hilux,Hilux,exact,10",
	}, "\n")

	table, err := LoadCSV(strings.NewReader(src), DefaultColumnMap())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1", table.Len())
	}
}

func TestLoadCSVEmptySource(t *testing.T) {
	table, err := LoadCSV(strings.NewReader(""), DefaultColumnMap())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if !table.Empty() {
		t.Error("expected empty table from empty source")
	}
}

func TestLoadCSVFileMissing(t *testing.T) {
	table, err := LoadCSVFile("does-not-exist.csv", DefaultColumnMap())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if table == nil || !table.Empty() {
		t.Error("missing file must still yield a usable empty table")
	}
}
