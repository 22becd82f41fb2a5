package matchService

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"svidnetSportsbook/models"
	"svidnetSportsbook/models/external"
)

// ErrAlreadyCompleted is returned when a result write targets a match that
// already holds a final score. Completed matches are immutable.
var ErrAlreadyCompleted = errors.New("match already completed")

// Upsert refreshes the odds snapshot for a known event or inserts a new
// upcoming match on first sighting. Status, scores and timing of existing
// rows are left alone; only the blob and the touch time move.
func Upsert(db *gorm.DB, sportKey string, event external.OddsAPI_Event) (bool, error) {
	var match models.Match
	result := db.Where("external_id = ?", event.ID).First(&match)

	if result.Error == nil {
		blob := string(event.Bookmakers)
		match.OddsData = &blob
		if err := db.Save(&match).Error; err != nil {
			return false, err
		}
		return false, nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return false, result.Error
	}

	blob := string(event.Bookmakers)
	sportTitle := event.SportTitle
	if sportTitle == "" {
		sportTitle = sportKey
	}
	match = models.Match{
		ExternalID:   event.ID,
		SportKey:     sportKey,
		SportTitle:   sportTitle,
		HomeTeam:     event.HomeTeam,
		AwayTeam:     event.AwayTeam,
		CommenceTime: event.CommenceTime,
		Status:       models.MatchUpcoming,
		OddsData:     &blob,
	}
	if err := db.Create(&match).Error; err != nil {
		return false, err
	}
	return true, nil
}

func FindByExternalID(db *gorm.DB, externalID string) (*models.Match, error) {
	var match models.Match
	if err := db.Where("external_id = ?", externalID).First(&match).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

func FindByID(db *gorm.DB, id uint) (*models.Match, error) {
	var match models.Match
	if err := db.First(&match, id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

func FindUpcoming(db *gorm.DB, since time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := db.Where("commence_time >= ?", since).
		Order("commence_time").
		Find(&matches).Error
	return matches, err
}

// ListRecent is the operator catalog view, newest start times first.
func ListRecent(db *gorm.DB, limit int) ([]models.Match, error) {
	if limit <= 0 {
		limit = 200
	}

	var matches []models.Match
	err := db.Order("commence_time DESC").
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

// FindUpcomingForSports narrows the catalog view to a set of sport keys.
func FindUpcomingForSports(db *gorm.DB, since time.Time, sportKeys []string) ([]models.Match, error) {
	var matches []models.Match
	err := db.Where("commence_time >= ? AND sport_key IN ?", since, sportKeys).
		Order("commence_time").
		Find(&matches).Error
	return matches, err
}

// RecordResult writes the final score and flips the match to completed.
// A match that is already completed is never rewritten.
func RecordResult(db *gorm.DB, match *models.Match, homeScore, awayScore int) error {
	if match.Status == models.MatchCompleted {
		return fmt.Errorf("%w: %s", ErrAlreadyCompleted, match.ExternalID)
	}

	now := time.Now().UTC()
	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	match.Status = models.MatchCompleted
	match.CompletedAt = &now
	return db.Save(match).Error
}

// PurgeStale deletes matches that started before the cutoff and carry no
// picks. Matches referenced by any pick are kept forever.
func PurgeStale(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Where("commence_time < ?", before).
		Where("NOT EXISTS (SELECT 1 FROM picks WHERE picks.match_id = matches.id AND picks.deleted_at IS NULL)").
		Delete(&models.Match{})
	return result.RowsAffected, result.Error
}

// SportKeysWithPendingPicks returns the distinct sport keys of matches
// still referenced by unresolved picks of pending bets. Settlement only
// pulls scores for these.
func SportKeysWithPendingPicks(db *gorm.DB) ([]string, error) {
	var keys []string
	err := db.Model(&models.Pick{}).
		Distinct().
		Joins("JOIN matches ON matches.id = picks.match_id").
		Joins("JOIN bets ON bets.id = picks.bet_id").
		Where("bets.status = ? AND picks.result IS NULL", models.BetPending).
		Pluck("matches.sport_key", &keys).Error
	return keys, err
}
