package leaderboardService

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"svidnetSportsbook/models"
)

// Record folds one just-settled bet into the user's aggregate for the
// sport category. It is called exactly once per settled bet, never for
// cancellations. Pushes count as neither a win nor a loss and leave the
// streak alone.
func Record(db *gorm.DB, userID uint, sportCategory string, bet *models.Bet) error {
	var entry models.LeaderboardEntry
	err := db.Where("user_id = ? AND sport_category = ?", userID, sportCategory).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = models.LeaderboardEntry{UserID: userID, SportCategory: sportCategory}
	} else if err != nil {
		return err
	}

	apply(&entry, bet)

	now := time.Now().UTC()
	entry.LastBetAt = &now

	return db.Save(&entry).Error
}

// apply folds one settled bet into the aggregate counters. A won bet
// extends a positive streak or starts one at 1; a lost bet mirrors that
// below zero. Win percentage counts decided bets only, pushes excluded.
func apply(entry *models.LeaderboardEntry, bet *models.Bet) {
	entry.TotalBets++
	if bet.IsParlay {
		entry.TotalParlays++
	}

	entry.TotalWagered += bet.Stake
	entry.TotalWon += int(bet.ActualPayout)
	entry.NetProfit = entry.TotalWon - entry.TotalWagered

	switch bet.Status {
	case models.BetWon:
		entry.BetsWon++
		if entry.CurrentStreak >= 0 {
			entry.CurrentStreak++
		} else {
			entry.CurrentStreak = 1
		}
		if entry.CurrentStreak > entry.BestWinStreak {
			entry.BestWinStreak = entry.CurrentStreak
		}
		if bet.ActualPayout > entry.BiggestWin {
			entry.BiggestWin = bet.ActualPayout
		}
		if bet.IsParlay && bet.TotalPicks > entry.BiggestParlayHits {
			entry.BiggestParlayHits = bet.TotalPicks
		}
	case models.BetLost:
		entry.BetsLost++
		if entry.CurrentStreak <= 0 {
			entry.CurrentStreak--
		} else {
			entry.CurrentStreak = -1
		}
		if entry.CurrentStreak < entry.WorstLossStreak {
			entry.WorstLossStreak = entry.CurrentStreak
		}
	case models.BetPush:
		entry.BetsPushed++
	}

	decided := entry.BetsWon + entry.BetsLost
	if decided > 0 {
		entry.WinPercentage = math.Round(float64(entry.BetsWon)/float64(decided)*100*100) / 100
	}
}

// ReverseCancellation backs the wagered amount and bet counts out of the
// aggregate when a bet is cancelled before any game starts. Win/loss
// counters and streaks stay untouched, the bet never had an outcome. If
// the user has no entry yet there is nothing to reverse.
func ReverseCancellation(db *gorm.DB, userID uint, sportCategory string, bet *models.Bet) error {
	var entry models.LeaderboardEntry
	err := db.Where("user_id = ? AND sport_category = ?", userID, sportCategory).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	entry.TotalBets = maxInt(0, entry.TotalBets-1)
	if bet.IsParlay {
		entry.TotalParlays = maxInt(0, entry.TotalParlays-1)
	}
	entry.TotalWagered = maxInt(0, entry.TotalWagered-bet.Stake)
	entry.NetProfit = entry.TotalWon - entry.TotalWagered

	return db.Save(&entry).Error
}

// Top returns the best entries for a category ordered by net profit.
func Top(db *gorm.DB, sportCategory string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 25
	}

	var entries []models.LeaderboardEntry
	err := db.Where("sport_category = ?", sportCategory).
		Order("net_profit DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
