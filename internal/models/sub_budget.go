package models

import "time"

// SubBudget: Alt bütçe. Gelir ve giderleri raporlama için gruplar.
type SubBudget struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
