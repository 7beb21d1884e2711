package models

import "time"

// Widow: Dul kadın (derneğin ana yararlanıcı grubu). Yetimlerin velisidir.
// Silindiğinde yetimleri ve üzerine yapılmış kefaletler de silinir
// (explicit transaction ile, bkz. widow servisi).
type Widow struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:150;not null"`
	NationalID   string `gorm:"size:30"` // kimlik no (opsiyonel)
	Phone        string `gorm:"size:50"`
	Address      string `gorm:"size:255"`
	Neighborhood string `gorm:"size:100;index"` // mahalle
	BirthDate    *time.Time
	Notes        string `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Orphans []Orphan
}
