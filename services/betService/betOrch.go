package betService

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"svidnetSportsbook/models"
	"svidnetSportsbook/services/common"
	"svidnetSportsbook/services/leaderboardService"
)

const (
	MinStake = 1
	MaxStake = 1000
	MaxPicks = 10
)

// ValidationError rejects a malformed request before anything is
// persisted: bad stake, too many legs, duplicate picks, point problems.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PreconditionError rejects a request whose state requirement no longer
// holds: match already started, bet not pending. Nothing is mutated.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// ErrNotOwner is returned when a caller without elevated capability
// touches somebody else's bet.
var ErrNotOwner = errors.New("bet belongs to another user")

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func preconditionErrorf(format string, args ...interface{}) error {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

// PickRequest is one leg of an incoming wager. Odds are whatever was
// quoted to the user; they are stored as-is, never re-derived.
type PickRequest struct {
	MatchID   uint
	BetType   models.BetType
	Selection models.BetSelection
	Odds      int
	Point     *float64
}

// PlaceBet validates and persists a wager with 1..10 picks. The bet and
// all of its picks are written in one transaction; the potential payout is
// computed here, once, and never recomputed at settlement except under the
// mixed won/push parlay rule.
func PlaceBet(db *gorm.DB, userID uint, picks []PickRequest, stake int) (*models.Bet, error) {
	if len(picks) < 1 || len(picks) > MaxPicks {
		return nil, validationErrorf("a bet must have between 1 and %d picks", MaxPicks)
	}
	if stake < MinStake || stake > MaxStake {
		return nil, validationErrorf("stake must be between %d and %d", MinStake, MaxStake)
	}

	seen := make(map[string]bool)
	for _, pick := range picks {
		if !pick.BetType.Valid() {
			return nil, validationErrorf("unknown bet type %q", pick.BetType)
		}
		if !pick.Selection.ValidFor(pick.BetType) {
			return nil, validationErrorf("selection %q is not valid for %s picks", pick.Selection, pick.BetType)
		}
		if pick.BetType.RequiresPoint() && pick.Point == nil {
			return nil, validationErrorf("%s picks require a point value", pick.BetType)
		}
		if !pick.BetType.RequiresPoint() && pick.Point != nil {
			return nil, validationErrorf("moneyline picks cannot carry a point value")
		}

		key := fmt.Sprintf("%d|%s|%s", pick.MatchID, pick.BetType, pick.Selection)
		if seen[key] {
			return nil, validationErrorf("duplicate pick on match %d (%s %s)", pick.MatchID, pick.BetType, pick.Selection)
		}
		seen[key] = true
	}

	matchIDs := make([]uint, 0, len(picks))
	for _, pick := range picks {
		matchIDs = append(matchIDs, pick.MatchID)
	}

	var matches []models.Match
	if err := db.Where("id IN ?", matchIDs).Find(&matches).Error; err != nil {
		return nil, err
	}

	matchByID := make(map[uint]models.Match, len(matches))
	for _, match := range matches {
		matchByID[match.ID] = match
	}

	now := time.Now().UTC()
	for _, pick := range picks {
		match, found := matchByID[pick.MatchID]
		if !found {
			return nil, preconditionErrorf("match %d not found", pick.MatchID)
		}
		if !match.CommenceTime.After(now) {
			return nil, preconditionErrorf("%s @ %s has already started", match.AwayTeam, match.HomeTeam)
		}
	}

	oddsList := make([]int, 0, len(picks))
	for _, pick := range picks {
		oddsList = append(oddsList, pick.Odds)
	}

	bet := models.Bet{
		UserID:          userID,
		IsParlay:        len(picks) > 1,
		TotalPicks:      len(picks),
		Stake:           stake,
		PotentialPayout: common.CalculatePayout(oddsList, stake),
		Status:          models.BetPending,
		PlacedAt:        now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bet).Error; err != nil {
			return err
		}
		for _, pick := range picks {
			row := models.Pick{
				BetID:     bet.ID,
				MatchID:   pick.MatchID,
				BetType:   pick.BetType,
				Selection: pick.Selection,
				Odds:      pick.Odds,
				Point:     pick.Point,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			bet.Picks = append(bet.Picks, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &bet, nil
}

// CancelBet voids a still-pending bet and refunds the stake. The start-time
// check runs against the matches as they are right now, not as they were
// when the bet was placed or the page was rendered.
func CancelBet(db *gorm.DB, betID, requesterID uint, elevated bool) (*models.Bet, error) {
	var bet models.Bet
	if err := db.Preload("Picks").First(&bet, betID).Error; err != nil {
		return nil, err
	}

	if bet.UserID != requesterID && !elevated {
		return nil, ErrNotOwner
	}
	if bet.Status != models.BetPending {
		return nil, preconditionErrorf("cannot cancel a bet with status %q", bet.Status)
	}

	now := time.Now().UTC()
	var category string
	for i, pick := range bet.Picks {
		var match models.Match
		if err := db.First(&match, pick.MatchID).Error; err != nil {
			return nil, err
		}
		if !match.CommenceTime.After(now) {
			return nil, preconditionErrorf("cannot cancel, %s @ %s has already started", match.AwayTeam, match.HomeTeam)
		}
		if i == 0 {
			category = common.SportCategory(match.SportKey)
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		bet.Status = models.BetCancelled
		bet.SettledAt = &now
		bet.ActualPayout = float64(bet.Stake)
		if err := tx.Save(&bet).Error; err != nil {
			return err
		}

		cancelled := models.BetCancelled
		for i := range bet.Picks {
			bet.Picks[i].Result = &cancelled
			if err := tx.Save(&bet.Picks[i]).Error; err != nil {
				return err
			}
		}

		return leaderboardService.ReverseCancellation(tx, bet.UserID, category, &bet)
	})
	if err != nil {
		return nil, err
	}

	return &bet, nil
}

// ListBets returns the user's most recent bets with their picks.
func ListBets(db *gorm.DB, userID uint) ([]models.Bet, error) {
	var bets []models.Bet
	err := db.Preload("Picks").
		Where("user_id = ?", userID).
		Order("placed_at DESC").
		Limit(50).
		Find(&bets).Error
	return bets, err
}

// ListAllBets is the operator view across users, optionally filtered by
// status.
func ListAllBets(db *gorm.DB, status *models.BetStatus) ([]models.Bet, error) {
	query := db.Preload("Picks").Order("placed_at DESC").Limit(200)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var bets []models.Bet
	err := query.Find(&bets).Error
	return bets, err
}
