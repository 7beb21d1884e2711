package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kafil: Kefil (aylık düzenli bağış taahhüt eden bağışçı). Donor ile 1:1.
type Kafil struct {
	ID            uint `gorm:"primaryKey"`
	DonorID       uint `gorm:"uniqueIndex;not null"`
	Donor         Donor
	MonthlyPledge decimal.Decimal `gorm:"type:numeric(14,2);not null"` // aylık taahhüt
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Sponsorships []Sponsorship
}

// Sponsorship: Bir kefilin bir dul kadına aylık kefalet taahhüdü.
// Bir kefilin kefaletlerinin toplamı monthly_pledge'i aşamaz; bu kural
// şemada değil kafil servisinde uygulanır.
type Sponsorship struct {
	ID        uint `gorm:"primaryKey"`
	KafilID   uint `gorm:"index;not null"`
	WidowID   uint `gorm:"index;not null"`
	Widow     Widow
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
