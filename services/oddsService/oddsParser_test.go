package oddsService

import "testing"

const chiefsBillsBlob = `[
  {
    "key": "draftkings",
    "title": "DraftKings",
    "markets": [
      {
        "key": "h2h",
        "outcomes": [
          {"name": "Kansas City Chiefs", "price": -150},
          {"name": "Buffalo Bills", "price": 130}
        ]
      },
      {
        "key": "spreads",
        "outcomes": [
          {"name": "Kansas City Chiefs", "price": -110, "point": -3.5},
          {"name": "Buffalo Bills", "price": -110, "point": 3.5}
        ]
      },
      {
        "key": "totals",
        "outcomes": [
          {"name": "Over", "price": -105, "point": 47.5},
          {"name": "Under", "price": -115, "point": 47.5}
        ]
      }
    ]
  },
  {
    "key": "fanduel",
    "title": "FanDuel",
    "markets": [
      {
        "key": "h2h",
        "outcomes": [
          {"name": "Kansas City Chiefs", "price": -999},
          {"name": "Buffalo Bills", "price": 999}
        ]
      }
    ]
  }
]`

func TestParseMatchOdds(t *testing.T) {
	parsed := ParseMatchOdds("Kansas City Chiefs", "Buffalo Bills", []byte(chiefsBillsBlob))

	if parsed.Moneyline.Home == nil || *parsed.Moneyline.Home != -150 {
		t.Errorf("Moneyline.Home = %v, want -150", parsed.Moneyline.Home)
	}
	if parsed.Moneyline.Away == nil || *parsed.Moneyline.Away != 130 {
		t.Errorf("Moneyline.Away = %v, want 130", parsed.Moneyline.Away)
	}
	if parsed.Moneyline.Draw != nil {
		t.Errorf("Moneyline.Draw = %v, want nil for a two-way market", parsed.Moneyline.Draw)
	}

	if parsed.Spreads.Home == nil || parsed.Spreads.Home.Point != -3.5 || parsed.Spreads.Home.Odds != -110 {
		t.Errorf("Spreads.Home = %+v, want -3.5 at -110", parsed.Spreads.Home)
	}
	if parsed.Spreads.Away == nil || parsed.Spreads.Away.Point != 3.5 {
		t.Errorf("Spreads.Away = %+v, want 3.5", parsed.Spreads.Away)
	}

	if parsed.Totals.Over == nil || parsed.Totals.Over.Point != 47.5 || parsed.Totals.Over.Odds != -105 {
		t.Errorf("Totals.Over = %+v, want 47.5 at -105", parsed.Totals.Over)
	}
	if parsed.Totals.Under == nil || parsed.Totals.Under.Odds != -115 {
		t.Errorf("Totals.Under = %+v, want -115", parsed.Totals.Under)
	}
}

func TestParseMatchOddsUsesFirstBookmaker(t *testing.T) {
	parsed := ParseMatchOdds("Kansas City Chiefs", "Buffalo Bills", []byte(chiefsBillsBlob))
	if parsed.Moneyline.Home != nil && *parsed.Moneyline.Home == -999 {
		t.Error("second bookmaker's prices leaked into the parsed view")
	}
}

func TestParseMatchOddsThreeWay(t *testing.T) {
	blob := `[
	  {
	    "key": "draftkings",
	    "markets": [
	      {
	        "key": "h2h",
	        "outcomes": [
	          {"name": "Arsenal", "price": 120},
	          {"name": "Chelsea", "price": 210},
	          {"name": "Draw", "price": 230}
	        ]
	      }
	    ]
	  }
	]`

	parsed := ParseMatchOdds("Arsenal", "Chelsea", []byte(blob))
	if parsed.Moneyline.Draw == nil || *parsed.Moneyline.Draw != 230 {
		t.Errorf("Moneyline.Draw = %v, want 230", parsed.Moneyline.Draw)
	}
}

func TestParseMatchOddsMalformedBlob(t *testing.T) {
	cases := []struct {
		name string
		blob []byte
	}{
		{"nil blob", nil},
		{"empty blob", []byte{}},
		{"not json", []byte("oops")},
		{"empty array", []byte("[]")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := ParseMatchOdds("A", "B", tc.blob)
			if parsed.Moneyline.Home != nil || parsed.Spreads.Home != nil || parsed.Totals.Over != nil {
				t.Error("expected empty odds for unusable blob")
			}
		})
	}
}
