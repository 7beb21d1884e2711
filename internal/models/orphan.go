package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Orphan: Yetim. Her yetim bir dul kadına bağlıdır (zorunlu).
type Orphan struct {
	ID               uint `gorm:"primaryKey"`
	WidowID          uint `gorm:"index;not null"`
	Name             string `gorm:"size:150;not null"`
	Gender           Gender `gorm:"size:10"`
	BirthDate        *time.Time
	EducationLevelID *uint // taksonomi silinirse NULL'a çekilir
	EducationLevel   *EducationLevel
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
