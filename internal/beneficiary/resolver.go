// Package beneficiary, dul/yetim üzerindeki polimorfik referansları çözer
// ve yararlanıcı gruplarını yönetir. beneficiary_type + beneficiary_id
// ikilisi gerçek bir foreign key değildir; varlık kontrolü yazarken burada
// yapılır, okurken kopuk referanslar tolere edilip işaretlenir.
package beneficiary

import (
	"errors"
	"fmt"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/models"

	"gorm.io/gorm"
)

// Resolved: UI'nin tek tip render edebileceği normalize yararlanıcı.
type Resolved struct {
	ID       uint                   `json:"id"`
	Type     models.BeneficiaryType `json:"type"`
	FullName string                 `json:"full_name"`
	// Dangling true ise hedef kayıt sonradan silinmiş demektir.
	Dangling bool `json:"dangling,omitempty"`
}

// Exists: Etikete göre doğru tabloya bakarak yararlanıcının varlığını
// doğrular. Yazma yolundaki tek referans bütünlüğü kontrolü budur.
func Exists(db *gorm.DB, typ models.BeneficiaryType, id uint) error {
	var err error
	switch typ {
	case models.BeneficiaryTypeWidow:
		err = db.First(&models.Widow{}, "id = ?", id).Error
	case models.BeneficiaryTypeOrphan:
		err = db.First(&models.Orphan{}, "id = ?", id).Error
	default:
		return fmt.Errorf("beneficiary_type 'widow' veya 'orphan' olmalı: %w", apperr.ErrValidation)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("yararlanıcı bulunamadı (%s id=%d): %w", typ, id, apperr.ErrValidation)
		}
		return err
	}
	return nil
}

// Resolve: Etikete göre doğru tablodan yararlanıcıyı getirir. Hedef
// silinmişse Dangling işaretli bir kayıt döner, hata değil.
func Resolve(db *gorm.DB, typ models.BeneficiaryType, id uint) Resolved {
	switch typ {
	case models.BeneficiaryTypeWidow:
		var w models.Widow
		if err := db.First(&w, "id = ?", id).Error; err != nil {
			return Resolved{ID: id, Type: typ, Dangling: true}
		}
		return Resolved{ID: w.ID, Type: typ, FullName: w.Name}
	case models.BeneficiaryTypeOrphan:
		var o models.Orphan
		if err := db.First(&o, "id = ?", id).Error; err != nil {
			return Resolved{ID: id, Type: typ, Dangling: true}
		}
		return Resolved{ID: o.ID, Type: typ, FullName: o.Name}
	default:
		return Resolved{ID: id, Type: typ, Dangling: true}
	}
}
