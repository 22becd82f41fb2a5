package syncService

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"svidnetSportsbook/models"
	"svidnetSportsbook/models/external"
	"svidnetSportsbook/services/matchService"
)

// RetentionWindow is how long a match without picks outlives its start
// time before the sync pass deletes it.
const RetentionWindow = 7 * 24 * time.Hour

// EventFeed is the slice of the odds feed the sync pass needs.
type EventFeed interface {
	FetchCategory(category string) map[string][]external.OddsAPI_Event
	FetchAllUpcoming() map[string][]external.OddsAPI_Event
}

// Result summarizes one catalog refresh.
type Result struct {
	NewMatches     int
	UpdatedMatches int
	Purged         int
}

func loadMetadata(db *gorm.DB) (*models.SyncMetadata, error) {
	var meta models.SyncMetadata
	err := db.First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		meta = models.SyncMetadata{SyncStatus: models.SyncNever}
		if err := db.Create(&meta).Error; err != nil {
			return nil, err
		}
		return &meta, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func markFailed(db *gorm.DB, meta *models.SyncMetadata, cause error) {
	msg := cause.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}
	meta.SyncStatus = models.SyncFailed
	meta.ErrorMessage = &msg
	if err := db.Save(meta).Error; err != nil {
		log.Printf("failed to record sync failure: %v", err)
	}
}

// RunSync refreshes the match catalog from the odds feed. With an empty
// category it covers every tracked sport. Old pickless matches past the
// retention window are purged on the way out, and the singleton
// SyncMetadata row tracks the run for the status endpoint.
func RunSync(db *gorm.DB, feed EventFeed, category string) (Result, error) {
	var result Result

	meta, err := loadMetadata(db)
	if err != nil {
		return result, err
	}

	meta.SyncStatus = models.SyncRunning
	if err := db.Save(meta).Error; err != nil {
		return result, err
	}

	var eventsBySport map[string][]external.OddsAPI_Event
	if category != "" {
		eventsBySport = feed.FetchCategory(category)
	} else {
		eventsBySport = feed.FetchAllUpcoming()
	}

	for sportKey, events := range eventsBySport {
		for _, event := range events {
			created, err := matchService.Upsert(db, sportKey, event)
			if err != nil {
				markFailed(db, meta, err)
				return result, err
			}
			if created {
				result.NewMatches++
			} else {
				result.UpdatedMatches++
			}
		}
	}

	purged, err := matchService.PurgeStale(db, time.Now().UTC().Add(-RetentionWindow))
	if err != nil {
		markFailed(db, meta, err)
		return result, err
	}
	result.Purged = int(purged)

	now := time.Now().UTC()
	meta.LastSyncTime = &now
	meta.SyncStatus = models.SyncSuccess
	meta.GamesSynced = result.NewMatches + result.UpdatedMatches
	meta.ErrorMessage = nil
	if err := db.Save(meta).Error; err != nil {
		return result, err
	}

	log.Printf("sync completed: %d new, %d updated, %d purged",
		result.NewMatches, result.UpdatedMatches, result.Purged)
	return result, nil
}

// Status returns the singleton sync metadata snapshot.
func Status(db *gorm.DB) (*models.SyncMetadata, error) {
	return loadMetadata(db)
}
