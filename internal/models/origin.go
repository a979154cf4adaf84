package models

import "time"

// Origin: a sourced lot of green coffee with its own cost, yield and stock.
type Origin struct {
	ID           uint    `gorm:"primaryKey"`
	UserID       uint    `gorm:"index;not null"`
	Name         string  `gorm:"size:100;not null"`
	WeightLoss   float64 `gorm:"not null"`           // percent mass lost green -> roasted, 0-100
	CostPerKg    float64 `gorm:"not null"`           // green bean cost
	Stock        float64 `gorm:"not null;default:0"` // green kg
	RoastedStock float64 `gorm:"not null;default:0"` // roasted kg, informational
	Notes        string  `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
