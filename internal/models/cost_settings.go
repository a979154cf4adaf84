package models

import "time"

// CostSettings: singleton per account, created with defaults on first read.
type CostSettings struct {
	ID                   uint    `gorm:"primaryKey"`
	UserID               uint    `gorm:"uniqueIndex;not null"`
	Bag250g              float64 `gorm:"not null"`
	Bag330g              float64 `gorm:"not null"`
	Bag1000g             float64 `gorm:"not null"`
	Label                float64 `gorm:"not null"`
	GasPerRoast          float64 `gorm:"not null"`
	LaborPerHour         float64 `gorm:"not null"`
	RoastingTimeMinutes  float64 `gorm:"not null"`
	PackagingTimeMinutes float64 `gorm:"not null"`
	BatchSizeKg          float64 `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
