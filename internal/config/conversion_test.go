package config

import (
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/payout-simulator/pkg/tier"
)

func TestToStructure(t *testing.T) {
	s := DefaultStructure().ToStructure()

	if math.Abs(s.Commission[0].Rate-0.02) > 1e-12 || math.Abs(s.Commission[2].Rate-0.06) > 1e-12 {
		t.Errorf("commission rates = %.4f/%.4f, expected 0.02/0.06", s.Commission[0].Rate, s.Commission[2].Rate)
	}
	if !s.Commission[2].IsUnbounded() || !s.Quarterly[4].IsUnbounded() || !s.Continuity[3].IsUnbounded() {
		t.Error("expected the last tier of every table to be unbounded")
	}
	if s.Quarterly[0].UpTo != 99 || s.Quarterly[0].Rate != 1200 {
		t.Errorf("first quarterly tier = %+v, expected 90..99 paying 1200", s.Quarterly[0])
	}
	if s.QuarterlyWeights != [4]float64{25, 25, 25, 25} {
		t.Errorf("weights = %v", s.QuarterlyWeights)
	}
	if !s.Rolling.Enabled || s.Rolling.PreviousMonth1 != 18000 {
		t.Errorf("rolling = %+v", s.Rolling)
	}
}

func TestToStructureOpensLastTier(t *testing.T) {
	c := DefaultStructure()
	c.Quarterly[4].UpTo = f(150)
	s := c.ToStructure()
	if s.Quarterly[4].UpTo != tier.Unbounded {
		t.Errorf("last quarterly tier upTo = %.2f, expected unbounded", s.Quarterly[4].UpTo)
	}
	if got := s.QuarterlyBonus(180, 1); got != 2800 {
		t.Errorf("QuarterlyBonus(180) = %.2f, expected %.2f", got, 2800.0)
	}
}

func TestFromStructure(t *testing.T) {
	original := ConservativeStructure()
	back := FromStructure(original.Name, original.ToStructure())

	if back.Name != "Conservative Model" {
		t.Errorf("name = %s", back.Name)
	}
	if math.Abs(back.Commission[0].Percentage-1.5) > 1e-9 {
		t.Errorf("percentage = %.4f, expected 1.5", back.Commission[0].Percentage)
	}
	if back.Commission[2].UpTo != nil || back.Quarterly[4].UpTo != nil {
		t.Error("expected unbounded tiers to have no upTo")
	}
	if back.Quarterly[1].UpTo == nil || *back.Quarterly[1].UpTo != 109 {
		t.Errorf("quarterly tier 2 upTo = %v, expected 109", back.Quarterly[1].UpTo)
	}
}

func TestFromStructureWithoutWeights(t *testing.T) {
	c := DefaultStructure()
	c.QuarterlyWeights = nil

	back := FromStructure(c.Name, c.ToStructure())
	if back.QuarterlyWeights != nil {
		t.Errorf("weights = %v, expected none", back.QuarterlyWeights)
	}
	warnings, err := back.Validate(false)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, w := range warnings {
		if strings.Contains(w, "sum to") {
			t.Errorf("unexpected weight warning %q", w)
		}
	}

	weighted := FromStructure(c.Name, DefaultStructure().ToStructure())
	if len(weighted.QuarterlyWeights) != 4 || weighted.QuarterlyWeights[0] != 25 {
		t.Errorf("weights = %v, expected four weights of 25", weighted.QuarterlyWeights)
	}
}

func TestProfileConversion(t *testing.T) {
	p := TopPerformerProfile()
	in := p.ToInput()
	if in.FTE != 1 || in.QuarterlyAchievement[3] != 140 || in.MonthlySales[11] != 52000 {
		t.Errorf("ToInput() = %+v", in)
	}

	back := FromInput("Copy", in)
	if back.Name != "Copy" || len(back.MonthlySales) != 12 || back.MonthlySales[0] != 26000 {
		t.Errorf("FromInput() = %+v", back)
	}
}
