package models

import "time"

// Partner: Ortak kuruluş (resmi kurum, başka dernek, tedarikçi vs.).
// Giderler opsiyonel olarak bir partnere bağlanabilir.
type Partner struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:150;not null"`
	ContactName string `gorm:"size:100"`
	Phone       string `gorm:"size:50"`
	Email       string `gorm:"size:100"`
	Address     string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
