// Package apperr, servis katmanının transport'tan bağımsız hata türlerini
// tanımlar. Handler'lar errors.Is ile eşleyip HTTP status'e çevirir.
package apperr

import "errors"

var (
	// ErrValidation: Geçersiz girdi veya iş kuralı ihlali
	// (örn: nakit gider için banka hesabı seçilmemiş, kefalet limiti aşımı).
	ErrValidation = errors.New("doğrulama hatası")

	// ErrStateConflict: Kayıt beklenen durumda değil
	// (örn: zaten onaylanmış bir kaydı onaylama/düzenleme/silme girişimi).
	ErrStateConflict = errors.New("kayıt bu durumda işleme izin vermiyor")

	// ErrReferenced: Referans kaydı hâlâ kullanımda olduğu için silinemez
	// (örn: üzerinde onaylı hareket olan banka hesabı).
	ErrReferenced = errors.New("kayıt başka kayıtlar tarafından kullanılıyor")
)
