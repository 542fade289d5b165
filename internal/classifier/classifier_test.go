package classifier

import (
	"testing"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/rules"
)

func testTable() *rules.Table {
	return rules.New([]domain.NormalizationRule{
		{MakeMatch: "toyota", Pattern: "corolla cross", Match: domain.MatchContains, TargetModelBase: "Corolla Cross", Priority: 100, Enabled: true},
		{MakeMatch: "toyota", Pattern: "corolla", Match: domain.MatchStartsWith, TargetModelBase: "Corolla", Priority: 50, Enabled: true},
		{MakeMatch: "toyota", Pattern: "yaris", Match: domain.MatchStartsWith, TargetModelBase: "Yaris", Priority: 50, Enabled: true},
		{MakeMatch: "suzuki", Pattern: "swift", Match: domain.MatchExact, TargetModelBase: "Swift", Priority: 10, Enabled: true},
	})
}

func TestClassifyFirstMatchWins(t *testing.T) {
	c := New(testTable(), nil)

	tests := []struct {
		name  string
		model string
		want  string
	}{
		// "corolla cross gli" contains "corolla cross", which outranks the
		// lower-priority "corolla" prefix rule
		{"specific beats general", "Corolla Cross GLI", "Corolla Cross"},
		{"prefix match", "Corolla XEI", "Corolla"},
		{"exact casing irrelevant", "COROLLA", "Corolla"},
		{"accent stripped before match", "Córolla", "Corolla"},
		{"yaris", "Yaris Sport", "Yaris"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.model, "toyota"); got != tt.want {
				t.Errorf("Classify(%q, toyota) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestClassifyMakeScoped(t *testing.T) {
	c := New(testTable(), nil)

	// "swift" only matches under suzuki
	if got := c.Classify("Swift", "suzuki"); got != "Swift" {
		t.Errorf("Classify(Swift, suzuki) = %q, want Swift", got)
	}
	// under toyota the same string falls through to passthrough
	if got := c.Classify("swift", "toyota"); got != "Swift" {
		t.Errorf("Classify(swift, toyota) fallback = %q, want Swift", got)
	}
	if _, matched := c.classify("swift", "toyota"); matched {
		t.Error("swift under toyota must not be a rule hit")
	}
}

func TestClassifyExactDoesNotMatchSubstring(t *testing.T) {
	c := New(testTable(), nil)

	if _, matched := c.classify("Swift Sport", "suzuki"); matched {
		t.Error("exact rule must not match a longer string")
	}
}

func TestClassifyFallback(t *testing.T) {
	c := New(testTable(), nil)

	if got := c.Classify("  hilux 4x4  ", "toyota"); got != "Hilux 4X4" {
		t.Errorf("fallback = %q, want Hilux 4X4", got)
	}
}

func TestClassifyFallbackIdempotent(t *testing.T) {
	c := New(rules.Empty(), nil)

	once := c.Classify("corolla cross", "toyota")
	if twice := c.Classify(once, "toyota"); twice != once {
		t.Errorf("fallback not idempotent: %q then %q", once, twice)
	}
}

func TestClassifyEmptyLike(t *testing.T) {
	c := New(testTable(), nil)

	for _, in := range []string{"", "  ", "nan", "NaN", "None", "null", "Desconocido", "Otros Modelos"} {
		if got := c.Classify(in, "toyota"); got != domain.Unknown {
			t.Errorf("Classify(%q) = %q, want %q", in, got, domain.Unknown)
		}
	}
}

func TestClassifyNilTable(t *testing.T) {
	c := New(nil, nil)
	if got := c.Classify("Corolla", "toyota"); got != "Corolla" {
		t.Errorf("nil table Classify = %q, want Corolla", got)
	}
}

func TestIdentity(t *testing.T) {
	c := New(testTable(), nil)

	tests := []struct {
		name      string
		makeRaw   string
		modelRaw  string
		wantMake  string
		wantBase  string
		wantSlug  string
		wantMatch bool
	}{
		{"rule hit", "TOYOTA", "Corolla Cross", "Toyota", "Corolla Cross", "toyota-corolla-cross", true},
		{"make synonym", "Mercedes Benz", "CLA 200", "Mercedes", "Cla 200", "mercedes-cla-200", false},
		{"vw synonym", "vw", "Golf", "Volkswagen", "Golf", "volkswagen-golf", false},
		{"unknown make", "", "Corolla", domain.Unknown, "Corolla", "unknown-corolla", false},
		{"unknown model", "Toyota", "nan", "Toyota", domain.Unknown, "toyota-unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Identity(tt.makeRaw, tt.modelRaw)
			if got.Make != tt.wantMake {
				t.Errorf("Make = %q, want %q", got.Make, tt.wantMake)
			}
			if got.ModelBase != tt.wantBase {
				t.Errorf("ModelBase = %q, want %q", got.ModelBase, tt.wantBase)
			}
			if got.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", got.Slug, tt.wantSlug)
			}
			if got.RuleMatched != tt.wantMatch {
				t.Errorf("RuleMatched = %v, want %v", got.RuleMatched, tt.wantMatch)
			}
		})
	}
}

func TestIdentitySlugStable(t *testing.T) {
	c := New(testTable(), nil)

	// different raw spellings of the same vehicle converge on one slug
	variants := [][2]string{
		{"Toyota", "Corolla Cross"},
		{"TOYOTA", "corolla cross gli"},
		{"toyota ", " Córolla Cross 2.0"},
	}
	want := "toyota-corolla-cross"
	for _, v := range variants {
		if got := c.Identity(v[0], v[1]).Slug; got != want {
			t.Errorf("Identity(%q, %q).Slug = %q, want %q", v[0], v[1], got, want)
		}
	}
}
