package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donor: Bağışçı. Kefalet akışı kullanıldığında 1:1 bir Kafil kaydına
// bağlanır ve is_kafil true olur. TotalGiven, bağışçıya bağlı gelirler
// onaylandıkça artan bir akümülatördür.
type Donor struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:150;not null"`
	Phone      string `gorm:"size:50"`
	Email      string `gorm:"size:100"`
	Address    string `gorm:"size:255"`
	IsKafil    bool   `gorm:"default:false"`
	TotalGiven decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
