package models

// EntryStatus: Gelir/gider/virman kayıtlarının yaşam döngüsü.
// Kayıt draft olarak açılır; onay motoru tek yönlü draft→approved geçişini
// yapar ve bakiyeyi tam bir kez değiştirir. approved kayıtlar değişmezdir.
// rejected, bakiye etkisi olmayan uç durumdur (draft→rejected).
type EntryStatus string

const (
	StatusDraft    EntryStatus = "draft"
	StatusApproved EntryStatus = "approved"
	StatusRejected EntryStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"      // nakit
	PaymentMethodCheque   PaymentMethod = "cheque"    // çek
	PaymentMethodBankWire PaymentMethod = "bank_wire" // havale/EFT
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheque, PaymentMethodBankWire:
		return true
	}
	return false
}
