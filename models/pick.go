package models

import "gorm.io/gorm"

type BetType string

const (
	BetTypeMoneyline BetType = "moneyline"
	BetTypeSpread    BetType = "spread"
	BetTypeTotal     BetType = "total"
)

func (t BetType) Valid() bool {
	return t == BetTypeMoneyline || t == BetTypeSpread || t == BetTypeTotal
}

// RequiresPoint reports whether picks of this type must carry a point
// value (spread line or total line). Moneyline picks must not.
func (t BetType) RequiresPoint() bool {
	return t == BetTypeSpread || t == BetTypeTotal
}

type BetSelection string

const (
	SelectionHome  BetSelection = "home"
	SelectionAway  BetSelection = "away"
	SelectionDraw  BetSelection = "draw"
	SelectionOver  BetSelection = "over"
	SelectionUnder BetSelection = "under"
)

// ValidFor reports whether the selection makes sense for the bet type:
// home/away/draw for moneyline, home/away for spread, over/under for total.
func (s BetSelection) ValidFor(t BetType) bool {
	switch t {
	case BetTypeMoneyline:
		return s == SelectionHome || s == SelectionAway || s == SelectionDraw
	case BetTypeSpread:
		return s == SelectionHome || s == SelectionAway
	case BetTypeTotal:
		return s == SelectionOver || s == SelectionUnder
	}
	return false
}

// Pick is one leg of a bet. Odds are locked in American format at
// placement time. Result stays nil until the owning match resolves and is
// never rewritten afterwards.
type Pick struct {
	gorm.Model
	ID        uint         `gorm:"primaryKey"`
	BetID     uint         `gorm:"index;uniqueIndex:unique_pick_per_bet"`
	Bet       Bet          `gorm:"foreignKey:BetID"`
	MatchID   uint         `gorm:"index;uniqueIndex:unique_pick_per_bet"`
	Match     Match        `gorm:"foreignKey:MatchID"`
	BetType   BetType      `gorm:"size:20;uniqueIndex:unique_pick_per_bet"`
	Selection BetSelection `gorm:"size:20;uniqueIndex:unique_pick_per_bet"`
	Odds      int
	Point     *float64
	Result    *BetStatus `gorm:"index;size:20"`
}
