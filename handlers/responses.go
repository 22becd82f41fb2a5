package handlers

import (
	"github.com/gofiber/fiber/v2"

	"svidnetSportsbook/models"
	"svidnetSportsbook/services/common"
	"svidnetSportsbook/services/oddsService"
)

func matchResponse(match *models.Match, withOdds bool) fiber.Map {
	out := fiber.Map{
		"id":            match.ID,
		"external_id":   match.ExternalID,
		"sport_key":     match.SportKey,
		"sport_title":   match.SportTitle,
		"category":      common.SportCategory(match.SportKey),
		"home_team":     match.HomeTeam,
		"away_team":     match.AwayTeam,
		"commence_time": match.CommenceTime,
		"status":        match.Status,
		"home_score":    match.HomeScore,
		"away_score":    match.AwayScore,
	}

	if withOdds {
		var blob []byte
		if match.OddsData != nil {
			blob = []byte(*match.OddsData)
		}
		out["odds"] = oddsService.ParseMatchOdds(match.HomeTeam, match.AwayTeam, blob)
	}

	return out
}

func pickResponse(pick *models.Pick) fiber.Map {
	return fiber.Map{
		"match_id":  pick.MatchID,
		"bet_type":  pick.BetType,
		"selection": pick.Selection,
		"odds":      pick.Odds,
		"point":     pick.Point,
		"result":    pick.Result,
	}
}

func betResponse(bet *models.Bet) fiber.Map {
	picks := make([]fiber.Map, 0, len(bet.Picks))
	for i := range bet.Picks {
		picks = append(picks, pickResponse(&bet.Picks[i]))
	}

	return fiber.Map{
		"id":               bet.ID,
		"user_id":          bet.UserID,
		"is_parlay":        bet.IsParlay,
		"total_picks":      bet.TotalPicks,
		"stake":            bet.Stake,
		"potential_payout": bet.PotentialPayout,
		"actual_payout":    bet.ActualPayout,
		"status":           bet.Status,
		"placed_at":        bet.PlacedAt,
		"settled_at":       bet.SettledAt,
		"picks":            picks,
	}
}

func betListResponse(bets []models.Bet) []fiber.Map {
	out := make([]fiber.Map, 0, len(bets))
	for i := range bets {
		out = append(out, betResponse(&bets[i]))
	}
	return out
}

func leaderboardResponse(entry *models.LeaderboardEntry, rank int) fiber.Map {
	return fiber.Map{
		"rank":                rank,
		"user_id":             entry.UserID,
		"sport_category":      entry.SportCategory,
		"total_bets":          entry.TotalBets,
		"total_parlays":       entry.TotalParlays,
		"bets_won":            entry.BetsWon,
		"bets_lost":           entry.BetsLost,
		"bets_pushed":         entry.BetsPushed,
		"total_wagered":       entry.TotalWagered,
		"total_won":           entry.TotalWon,
		"net_profit":          entry.NetProfit,
		"win_percentage":      entry.WinPercentage,
		"current_streak":      entry.CurrentStreak,
		"best_win_streak":     entry.BestWinStreak,
		"worst_loss_streak":   entry.WorstLossStreak,
		"biggest_win":         entry.BiggestWin,
		"biggest_parlay_hits": entry.BiggestParlayHits,
		"last_bet_at":         entry.LastBetAt,
	}
}
