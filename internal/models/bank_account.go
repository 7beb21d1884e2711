package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount: Dernek banka hesabı. Balance türetilmiş ama saklanan bir
// toplamdır; o hesaba dokunan onaylanmış gelir/gider/virman etkilerinin
// toplamına eşit olmalıdır. Balance sadece onay motoru tarafından değiştirilir.
type BankAccount struct {
	ID            uint            `gorm:"primaryKey"`
	Name          string          `gorm:"size:100;not null"` // hesap adı (örn: "Ana Hesap")
	BankName      string          `gorm:"size:100"`          // banka adı
	AccountNumber string          `gorm:"size:50"`           // IBAN / hesap numarası
	Balance       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Description   string          `gorm:"size:255"`
	IsActive      bool            `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
