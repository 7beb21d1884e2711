package models

import "time"

// FiscalYear: Mali yıl. Aynı anda sadece bir tanesi aktif olabilir,
// bu kural şemada değil refdata servisinde uygulanır.
type FiscalYear struct {
	ID        uint   `gorm:"primaryKey"`
	Year      string `gorm:"size:20;not null;unique"` // örn: "2025-2026"
	IsActive  bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
