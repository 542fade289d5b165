package domain

import "testing"

func TestParseMatchType(t *testing.T) {
	tests := []struct {
		in     string
		want   MatchType
		wantOK bool
	}{
		{"exact", MatchExact, true},
		{"startswith", MatchStartsWith, true},
		{"contains", MatchContains, true},
		{" Exact ", MatchExact, true},
		{"STARTSWITH", MatchStartsWith, true},
		{"regex", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseMatchType(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseMatchType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name  string
		rule  NormalizationRule
		model string
		want  bool
	}{
		{"exact hit", NormalizationRule{Pattern: "swift", Match: MatchExact}, "swift", true},
		{"exact miss on longer", NormalizationRule{Pattern: "swift", Match: MatchExact}, "swift sport", false},
		{"prefix hit", NormalizationRule{Pattern: "corolla", Match: MatchStartsWith}, "corolla xei", true},
		{"prefix miss mid-string", NormalizationRule{Pattern: "corolla", Match: MatchStartsWith}, "new corolla", false},
		{"contains hit", NormalizationRule{Pattern: "corolla cross", Match: MatchContains}, "new corolla cross gli", true},
		{"contains miss", NormalizationRule{Pattern: "cross", Match: MatchContains}, "corolla", false},
		{"unknown type never matches", NormalizationRule{Pattern: "x", Match: MatchType("regex")}, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(tt.model); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}
