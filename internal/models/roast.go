package models

import "time"

// Roast: one production event converting green coffee of a single origin
// into roasted coffee. RoastedWeight is fixed at record time from the
// origin's weight loss; a later change to the origin does not rewrite it.
type Roast struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"index;not null"`
	OriginID      uint `gorm:"index;not null"`
	Origin        Origin
	OperatorID    uint `gorm:"index;not null"`
	Operator      Operator
	GreenWeight   float64   `gorm:"not null"`      // kg
	RoastedWeight float64   `gorm:"not null"`      // kg, derived at creation time
	BatchNumber   string    `gorm:"size:30;index"` // BATCH-YYYYMMDD-NNN
	Date          time.Time `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
