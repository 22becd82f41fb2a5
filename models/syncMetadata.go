package models

import (
	"time"

	"gorm.io/gorm"
)

type SyncStatus string

const (
	SyncNever   SyncStatus = "never"
	SyncRunning SyncStatus = "running"
	SyncSuccess SyncStatus = "success"
	SyncFailed  SyncStatus = "failed"
)

// SyncMetadata tracks the catalog sync. Only one row should exist.
type SyncMetadata struct {
	gorm.Model
	ID           uint `gorm:"primaryKey"`
	LastSyncTime *time.Time
	SyncStatus   SyncStatus `gorm:"size:20;default:never"`
	GamesSynced  int
	ErrorMessage *string `gorm:"size:500"`
}
