package surprise

import (
	"math"
	"testing"

	"event-radar/internal/domain"
)

func TestScoreBuckets(t *testing.T) {
	cases := []struct {
		actual, forecast float64
		category         domain.SurpriseCategory
		direction        domain.SurpriseDirection
		percent          float64
	}{
		{150, 100, domain.SurpriseBigBeat, domain.DirectionBeat, 50},
		{110, 100, domain.SurpriseSmallBeat, domain.DirectionBeat, 10},
		{103, 100, domain.SurpriseInline, domain.DirectionInline, 3},
		{96, 100, domain.SurpriseInline, domain.DirectionInline, -4},
		{80, 100, domain.SurpriseSmallMiss, domain.DirectionMiss, -20},
		{50, 100, domain.SurpriseBigMiss, domain.DirectionMiss, -50},
	}
	for _, tc := range cases {
		got := Score(tc.actual, tc.forecast)
		if got.Category != tc.category {
			t.Fatalf("score(%v,%v): expected %s, got %s", tc.actual, tc.forecast, tc.category, got.Category)
		}
		if got.Direction != tc.direction {
			t.Fatalf("score(%v,%v): expected direction %s, got %s", tc.actual, tc.forecast, tc.direction, got.Direction)
		}
		if got.Percent != tc.percent {
			t.Fatalf("score(%v,%v): expected percent %v, got %v", tc.actual, tc.forecast, tc.percent, got.Percent)
		}
		if got.Description == "" {
			t.Fatalf("score(%v,%v): expected a description", tc.actual, tc.forecast)
		}
	}
}

func TestScoreSmallMissBoundary(t *testing.T) {
	// -20% lands in small_miss territory per the 80/100 fixture above; the
	// -15 boundary itself is inclusive for small_miss.
	got := Score(85.0, 100.0)
	if got.Category != domain.SurpriseSmallMiss {
		t.Fatalf("expected small_miss at -15%%, got %s", got.Category)
	}
}

func TestScoreNegativeForecastUsesAbsoluteBase(t *testing.T) {
	got := Score(-80.0, -100.0)
	if got.Percent != 20 {
		t.Fatalf("expected +20%% against negative forecast, got %v", got.Percent)
	}
	if got.Category != domain.SurpriseBigBeat {
		t.Fatalf("expected big_beat, got %s", got.Category)
	}
}

func TestScoreGuards(t *testing.T) {
	if got := Score(100.0, 0.0); got.Category != domain.SurpriseUnknown {
		t.Fatalf("zero forecast: expected unknown, got %s", got.Category)
	}
	if got := Score(nil, 100.0); got.Category != domain.SurpriseUnknown {
		t.Fatalf("nil actual: expected unknown, got %s", got.Category)
	}
	if got := Score("N/A", 100.0); got.Category != domain.SurpriseUnknown {
		t.Fatalf("placeholder actual: expected unknown, got %s", got.Category)
	}
	got := Score(50.0, nil)
	if got.Category != domain.SurpriseUnknown || got.Percent != 0 {
		t.Fatalf("nil forecast: expected unknown/0, got %s/%v", got.Category, got.Percent)
	}
	if got.Description != "Unable to calculate surprise" {
		t.Fatalf("unexpected unknown description: %q", got.Description)
	}
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	got := Score(100.333, 100.0)
	if got.Percent != 0.33 {
		t.Fatalf("expected 0.33, got %v", got.Percent)
	}
}

func TestScoreParsesStringValues(t *testing.T) {
	got := Score("110", "100")
	if got.Category != domain.SurpriseSmallBeat || got.Percent != 10 {
		t.Fatalf("expected small_beat 10%%, got %s %v", got.Category, got.Percent)
	}
	got = Score("3.4%", "3.2%")
	if got.Category != domain.SurpriseSmallBeat {
		t.Fatalf("expected small_beat for 3.4 vs 3.2, got %s", got.Category)
	}
}

func TestHasValue(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{0.0, true},
		{0, true},
		{5.2, true},
		{"5.2", true},
		{"0", true},
		{nil, false},
		{math.NaN(), false},
		{"", false},
		{"   ", false},
		{"N/A", false},
		{"n/a", false},
		{"NA", false},
		{"-", false},
		{"–", false},
		{"—", false},
		{" n/a ", false},
		{"pending", true},
	}
	for _, tc := range cases {
		if got := HasValue(tc.in); got != tc.want {
			t.Fatalf("HasValue(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestNumeric(t *testing.T) {
	if n, ok := Numeric("1,234.5"); !ok || n != 1234.5 {
		t.Fatalf("expected 1234.5, got %v ok=%v", n, ok)
	}
	if n, ok := Numeric("4.2%"); !ok || n != 4.2 {
		t.Fatalf("expected 4.2, got %v ok=%v", n, ok)
	}
	if _, ok := Numeric("pending"); ok {
		t.Fatal("expected non-numeric string to fail")
	}
	if _, ok := Numeric(nil); ok {
		t.Fatal("expected nil to fail")
	}
	if n, ok := Numeric(0); !ok || n != 0 {
		t.Fatalf("expected 0 to parse, got %v ok=%v", n, ok)
	}
}
