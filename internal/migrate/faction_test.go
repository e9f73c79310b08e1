package migrate

import (
	"strings"
	"testing"

	"yamen/internal/save"
)

func TestFixFactions(t *testing.T) {
	t.Run("strongest rank recomputed from distribution", func(t *testing.T) {
		fixed := FixFactions([]save.Faction{{
			Name:          "漕帮",
			StrongestRank: "magistrate",
			RankDistribution: map[string]int64{
				"runner": 10, "clerk": 4, "registrar": 1,
			},
		}})
		if fixed[0].StrongestRank != "registrar" {
			t.Fatalf("expected registrar, got %q", fixed[0].StrongestRank)
		}
	})

	t.Run("unknown stored strongest cleared when no distribution", func(t *testing.T) {
		fixed := FixFactions([]save.Faction{{Name: "盐商会馆", StrongestRank: "堂主"}})
		if fixed[0].StrongestRank != "" {
			t.Fatalf("expected cleared rank, got %q", fixed[0].StrongestRank)
		}
	})

	t.Run("valid stored strongest kept when no distribution", func(t *testing.T) {
		fixed := FixFactions([]save.Faction{{Name: "盐商会馆", StrongestRank: "clerk"}})
		if fixed[0].StrongestRank != "clerk" {
			t.Fatalf("expected clerk kept, got %q", fixed[0].StrongestRank)
		}
	})

	t.Run("inflated senior distribution scaled down", func(t *testing.T) {
		fixed := FixFactions([]save.Faction{{
			Name:        "漕帮",
			SeniorCount: 2,
			RankDistribution: map[string]int64{
				"runner": 10, "deputy": 6, "magistrate": 2,
			},
		}})
		f := fixed[0]
		// Implied seniors 8 > 1.5 * 2, so the whole histogram scales by 2/8.
		if f.RankDistribution["runner"] != 2 {
			t.Fatalf("expected runner scaled to 2, got %d", f.RankDistribution["runner"])
		}
		if f.RankDistribution["deputy"] != 1 {
			t.Fatalf("expected deputy scaled to 1, got %d", f.RankDistribution["deputy"])
		}
		// A nonzero count never scales to zero.
		if f.RankDistribution["magistrate"] != 1 {
			t.Fatalf("expected magistrate floored at 1, got %d", f.RankDistribution["magistrate"])
		}
		if f.StrongestRank != "magistrate" {
			t.Fatalf("expected strongest recomputed after scaling, got %q", f.StrongestRank)
		}
	})

	t.Run("mild senior excess tolerated", func(t *testing.T) {
		fixed := FixFactions([]save.Faction{{
			Name:        "漕帮",
			SeniorCount: 4,
			RankDistribution: map[string]int64{
				"deputy": 5,
			},
		}})
		// Implied 5 <= 1.5 * 4: within tolerance, untouched.
		if fixed[0].RankDistribution["deputy"] != 5 {
			t.Fatalf("expected untouched distribution, got %v", fixed[0].RankDistribution)
		}
	})

	t.Run("member count raised to distribution total", func(t *testing.T) {
		fixed := FixFactions([]save.Faction{{
			Name:             "漕帮",
			MemberCount:      3,
			RankDistribution: map[string]int64{"runner": 7},
		}})
		if fixed[0].MemberCount != 7 {
			t.Fatalf("expected member count 7, got %d", fixed[0].MemberCount)
		}
	})

	t.Run("output sorted by name", func(t *testing.T) {
		fixed := FixFactions([]save.Faction{{Name: "盐商会馆"}, {Name: "漕帮"}})
		if fixed[0].Name > fixed[1].Name {
			t.Fatalf("expected sorted output, got %q, %q", fixed[0].Name, fixed[1].Name)
		}
	})
}

func TestCheckFactions(t *testing.T) {
	t.Run("clean factions report nothing", func(t *testing.T) {
		problems := CheckFactions([]save.Faction{{
			Name:             "漕帮",
			StrongestRank:    "deputy",
			MemberCount:      3,
			RankDistribution: map[string]int64{"runner": 2, "deputy": 1},
		}})
		if len(problems) != 0 {
			t.Fatalf("expected no problems, got %v", problems)
		}
	})

	t.Run("contradictory strongest rank reported", func(t *testing.T) {
		problems := CheckFactions([]save.Faction{{
			Name:             "漕帮",
			StrongestRank:    "magistrate",
			RankDistribution: map[string]int64{"runner": 2},
		}})
		if len(problems) != 1 || !strings.Contains(problems[0], "contradicts") {
			t.Fatalf("expected contradiction, got %v", problems)
		}
	})

	t.Run("overfull distribution reported", func(t *testing.T) {
		problems := CheckFactions([]save.Faction{{
			Name:             "漕帮",
			StrongestRank:    "runner",
			MemberCount:      1,
			RankDistribution: map[string]int64{"runner": 5},
		}})
		if len(problems) != 1 || !strings.Contains(problems[0], "exceeds member count") {
			t.Fatalf("expected overfull problem, got %v", problems)
		}
	})
}
