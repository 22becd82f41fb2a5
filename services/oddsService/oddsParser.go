package oddsService

import (
	"encoding/json"

	"svidnetSportsbook/models/external"
)

// PricePoint is a price at a line (spread or total).
type PricePoint struct {
	Point float64 `json:"point"`
	Odds  int     `json:"odds"`
}

type MoneylineOdds struct {
	Home *int `json:"home,omitempty"`
	Away *int `json:"away,omitempty"`
	Draw *int `json:"draw,omitempty"`
}

type SpreadOdds struct {
	Home *PricePoint `json:"home,omitempty"`
	Away *PricePoint `json:"away,omitempty"`
}

type TotalOdds struct {
	Over  *PricePoint `json:"over,omitempty"`
	Under *PricePoint `json:"under,omitempty"`
}

// ParsedOdds is the narrow view of a bookmaker blob the rest of the system
// is allowed to see: moneyline, spread and total prices only. The blob's
// full shape is provider-defined and stays opaque at the catalog boundary.
type ParsedOdds struct {
	Moneyline MoneylineOdds `json:"moneyline"`
	Spreads   SpreadOdds    `json:"spreads"`
	Totals    TotalOdds     `json:"totals"`
}

// ParseMatchOdds extracts display prices from a raw bookmaker blob, using
// the first bookmaker listed. A nil or malformed blob yields empty odds.
func ParseMatchOdds(homeTeam, awayTeam string, blob []byte) ParsedOdds {
	var parsed ParsedOdds
	if len(blob) == 0 {
		return parsed
	}

	var bookmakers []external.OddsAPI_Bookmaker
	if err := json.Unmarshal(blob, &bookmakers); err != nil || len(bookmakers) == 0 {
		return parsed
	}

	for _, market := range bookmakers[0].Markets {
		switch market.Key {
		case "h2h":
			for _, outcome := range market.Outcomes {
				price := outcome.Price
				switch outcome.Name {
				case homeTeam:
					parsed.Moneyline.Home = intPtr(price)
				case awayTeam:
					parsed.Moneyline.Away = intPtr(price)
				default:
					// Soccer three-way markets label the third outcome "Draw".
					parsed.Moneyline.Draw = intPtr(price)
				}
			}
		case "spreads":
			for _, outcome := range market.Outcomes {
				point, ok := numberValue(outcome.Point)
				if !ok {
					continue
				}
				pp := &PricePoint{Point: point, Odds: outcome.Price}
				switch outcome.Name {
				case homeTeam:
					parsed.Spreads.Home = pp
				case awayTeam:
					parsed.Spreads.Away = pp
				}
			}
		case "totals":
			for _, outcome := range market.Outcomes {
				point, ok := numberValue(outcome.Point)
				if !ok {
					continue
				}
				pp := &PricePoint{Point: point, Odds: outcome.Price}
				switch outcome.Name {
				case "Over":
					parsed.Totals.Over = pp
				case "Under":
					parsed.Totals.Under = pp
				}
			}
		}
	}

	return parsed
}

func intPtr(v int) *int {
	return &v
}

func numberValue(n *json.Number) (float64, bool) {
	if n == nil {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}
