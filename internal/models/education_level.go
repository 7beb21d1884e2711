package models

import "time"

// EducationLevel: Eğitim seviyesi taksonomisi (ilkokul, ortaokul, lise...).
// Silindiğinde yetimlerin education_level_id alanı NULL'a çekilir.
type EducationLevel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
