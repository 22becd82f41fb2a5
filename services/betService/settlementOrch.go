package betService

import (
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"svidnetSportsbook/models"
	"svidnetSportsbook/models/external"
	"svidnetSportsbook/services/common"
	"svidnetSportsbook/services/leaderboardService"
	"svidnetSportsbook/services/matchService"
)

// ScoreFeed is the slice of the odds feed settlement needs.
type ScoreFeed interface {
	FetchScores(sportKey string, daysBack int) []external.OddsAPI_ScoreEvent
}

// ResolvePick decides one leg against a final score. It is total over
// every (bet type, selection) pair; placement validation guarantees the
// point value is present where the rules below use it.
func ResolvePick(pick models.Pick, homeScore, awayScore int) models.BetStatus {
	switch pick.BetType {
	case models.BetTypeMoneyline:
		if homeScore == awayScore {
			if pick.Selection == models.SelectionDraw {
				return models.BetWon
			}
			return models.BetLost
		}
		winner := models.SelectionHome
		if awayScore > homeScore {
			winner = models.SelectionAway
		}
		if pick.Selection == winner {
			return models.BetWon
		}
		return models.BetLost

	case models.BetTypeSpread:
		homeWithSpread := float64(homeScore) + *pick.Point
		if homeWithSpread == float64(awayScore) {
			return models.BetPush
		}
		homeCovers := homeWithSpread > float64(awayScore)
		if (pick.Selection == models.SelectionHome) == homeCovers {
			return models.BetWon
		}
		return models.BetLost

	case models.BetTypeTotal:
		total := float64(homeScore + awayScore)
		if total == *pick.Point {
			return models.BetPush
		}
		overHits := total > *pick.Point
		if (pick.Selection == models.SelectionOver) == overHits {
			return models.BetWon
		}
		return models.BetLost
	}

	return models.BetPending
}

// EvaluateBet aggregates fully-resolved picks into the bet outcome and
// payout. Pushed legs in an otherwise winning parlay are removed from the
// odds product rather than treated as a neutral 1.0x leg.
func EvaluateBet(bet *models.Bet) (models.BetStatus, float64) {
	anyLost := false
	allWon := true
	allPush := true
	wonOdds := make([]int, 0, len(bet.Picks))

	for _, pick := range bet.Picks {
		switch *pick.Result {
		case models.BetLost:
			anyLost = true
			allWon = false
			allPush = false
		case models.BetWon:
			allPush = false
			wonOdds = append(wonOdds, pick.Odds)
		case models.BetPush:
			allWon = false
		default:
			allWon = false
			allPush = false
		}
	}

	switch {
	case anyLost:
		return models.BetLost, 0
	case allWon:
		return models.BetWon, bet.PotentialPayout
	case allPush:
		return models.BetPush, float64(bet.Stake)
	case len(wonOdds) > 0:
		return models.BetWon, common.CalculatePayout(wonOdds, bet.Stake)
	default:
		return models.BetPush, float64(bet.Stake)
	}
}

// parseEventScores extracts integer home/away scores from a score event by
// matching participant names. Missing or non-numeric values fail the
// parse; the caller skips the event instead of guessing.
func parseEventScores(match *models.Match, event external.OddsAPI_ScoreEvent) (int, int, bool) {
	var homeScore, awayScore *int
	for _, entry := range event.Scores {
		if entry.Score == nil {
			continue
		}
		value, err := strconv.Atoi(*entry.Score)
		if err != nil {
			continue
		}
		v := value
		switch entry.Name {
		case match.HomeTeam:
			homeScore = &v
		case match.AwayTeam:
			awayScore = &v
		}
	}

	if homeScore == nil || awayScore == nil {
		return 0, 0, false
	}
	return *homeScore, *awayScore, true
}

// settleMatch writes the final score and resolves everything hanging off
// the match, inside the caller's transaction. Order is fixed: match scores
// first, then picks, then bets, then leaderboards.
func settleMatch(tx *gorm.DB, match *models.Match, homeScore, awayScore int) (int, error) {
	if err := matchService.RecordResult(tx, match, homeScore, awayScore); err != nil {
		return 0, err
	}

	var picks []models.Pick
	if err := tx.Where("match_id = ?", match.ID).Find(&picks).Error; err != nil {
		return 0, err
	}

	affectedBetIDs := make(map[uint]bool)
	for i := range picks {
		affectedBetIDs[picks[i].BetID] = true
		if picks[i].Result != nil {
			continue
		}
		result := ResolvePick(picks[i], homeScore, awayScore)
		if result == models.BetPending {
			continue
		}
		picks[i].Result = &result
		if err := tx.Save(&picks[i]).Error; err != nil {
			return 0, err
		}
	}

	betsSettled := 0
	for betID := range affectedBetIDs {
		settled, err := finalizeBet(tx, betID)
		if err != nil {
			return betsSettled, err
		}
		if settled {
			betsSettled++
		}
	}

	return betsSettled, nil
}

// finalizeBet moves a pending bet to its terminal state once every pick
// carries a result. A parlay is never partially settled.
func finalizeBet(tx *gorm.DB, betID uint) (bool, error) {
	var bet models.Bet
	if err := tx.Preload("Picks").First(&bet, betID).Error; err != nil {
		return false, err
	}
	if bet.Status != models.BetPending {
		return false, nil
	}

	for _, pick := range bet.Picks {
		if pick.Result == nil {
			return false, nil
		}
	}

	status, payout := EvaluateBet(&bet)
	now := time.Now().UTC()
	bet.Status = status
	bet.ActualPayout = payout
	bet.SettledAt = &now
	if err := tx.Save(&bet).Error; err != nil {
		return false, err
	}

	category, err := betCategory(tx, &bet)
	if err != nil {
		return false, err
	}
	if err := leaderboardService.Record(tx, bet.UserID, category, &bet); err != nil {
		return false, err
	}
	return true, nil
}

func betCategory(tx *gorm.DB, bet *models.Bet) (string, error) {
	if len(bet.Picks) == 0 {
		return "other", nil
	}
	var match models.Match
	if err := tx.First(&match, bet.Picks[0].MatchID).Error; err != nil {
		return "", err
	}
	return common.SportCategory(match.SportKey), nil
}

// SettleCompletedMatches pulls scores for every sport with unresolved
// picks and settles what finished. Each match's score write, pick
// resolutions, bet finalizations and leaderboard updates commit as one
// transaction, so an interrupted run never strands scores without
// resolutions. Re-running with the same data is a no-op.
func SettleCompletedMatches(db *gorm.DB, feed ScoreFeed) (int, int, error) {
	var pendingCount int64
	if err := db.Model(&models.Bet{}).Where("status = ?", models.BetPending).Count(&pendingCount).Error; err != nil {
		return 0, 0, err
	}
	if pendingCount == 0 {
		log.Println("settlement skipped, no pending bets")
		return 0, 0, nil
	}

	sportKeys, err := matchService.SportKeysWithPendingPicks(db)
	if err != nil {
		return 0, 0, err
	}

	matchesSettled := 0
	betsSettled := 0

	for _, sportKey := range sportKeys {
		for _, event := range feed.FetchScores(sportKey, 1) {
			if !event.Completed || len(event.Scores) == 0 {
				continue
			}

			match, err := matchService.FindByExternalID(db, event.ID)
			if err != nil {
				continue
			}
			if match.Status == models.MatchCompleted {
				continue
			}

			homeScore, awayScore, ok := parseEventScores(match, event)
			if !ok {
				log.Printf("could not parse scores for %s vs %s (external_id=%s)",
					match.HomeTeam, match.AwayTeam, match.ExternalID)
				continue
			}

			err = db.Transaction(func(tx *gorm.DB) error {
				settled, txErr := settleMatch(tx, match, homeScore, awayScore)
				if txErr != nil {
					return txErr
				}
				betsSettled += settled
				return nil
			})
			if err != nil {
				common.LogError(db, "settlement", fmt.Errorf("match %s: %w", match.ExternalID, err))
				continue
			}
			matchesSettled++
		}
	}

	log.Printf("settlement run complete: %d matches, %d bets settled", matchesSettled, betsSettled)
	return matchesSettled, betsSettled, nil
}

// ForceSettle is the operator escape hatch for wrong or missing upstream
// data: it pushes a pending bet (and all its picks) straight to won or
// lost, skipping score-based resolution and the all-picks-resolved rule.
func ForceSettle(db *gorm.DB, betID uint, outcome models.BetStatus) (*models.Bet, error) {
	if outcome != models.BetWon && outcome != models.BetLost {
		return nil, validationErrorf("outcome must be %q or %q", models.BetWon, models.BetLost)
	}

	var bet models.Bet
	if err := db.Preload("Picks").First(&bet, betID).Error; err != nil {
		return nil, err
	}
	if bet.Status != models.BetPending {
		return nil, preconditionErrorf("bet is already %q", bet.Status)
	}

	now := time.Now().UTC()
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range bet.Picks {
			result := outcome
			bet.Picks[i].Result = &result
			if err := tx.Save(&bet.Picks[i]).Error; err != nil {
				return err
			}
		}

		bet.Status = outcome
		if outcome == models.BetWon {
			bet.ActualPayout = bet.PotentialPayout
		} else {
			bet.ActualPayout = 0
		}
		bet.SettledAt = &now
		if err := tx.Save(&bet).Error; err != nil {
			return err
		}

		category, err := betCategory(tx, &bet)
		if err != nil {
			return err
		}
		return leaderboardService.Record(tx, bet.UserID, category, &bet)
	})
	if err != nil {
		return nil, err
	}

	return &bet, nil
}

// ApplyManualResult lets an operator write a final score directly and
// settle whatever hangs off the match, without touching the feed.
func ApplyManualResult(db *gorm.DB, matchID uint, homeScore, awayScore int) (int, error) {
	match, err := matchService.FindByID(db, matchID)
	if err != nil {
		return 0, err
	}
	if match.Status == models.MatchCompleted {
		return 0, preconditionErrorf("match %d already has a final score", matchID)
	}

	betsSettled := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		settled, txErr := settleMatch(tx, match, homeScore, awayScore)
		if txErr != nil {
			return txErr
		}
		betsSettled = settled
		return nil
	})
	return betsSettled, err
}
