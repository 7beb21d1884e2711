package models

import "time"

// BeneficiaryType: Polimorfik yararlanıcı referansının etiketi.
// Hedef tablo etikete göre değiştiği için gerçek bir foreign key yoktur;
// varlık kontrolü uygulama katmanında yapılır (bkz. beneficiary.Resolve).
type BeneficiaryType string

const (
	BeneficiaryTypeWidow  BeneficiaryType = "widow"
	BeneficiaryTypeOrphan BeneficiaryType = "orphan"
)

// BeneficiaryGroup: Yararlanıcı grubu (örn: "Ramazan kumanyası listesi").
type BeneficiaryGroup struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:150;not null"`
	Description string `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Members []BeneficiaryGroupMember
}

// BeneficiaryGroupMember: Grup üyeliği. (group_id, beneficiary_type,
// beneficiary_id) birleşik anahtarı tekildir.
type BeneficiaryGroupMember struct {
	ID                 uint            `gorm:"primaryKey"`
	BeneficiaryGroupID uint            `gorm:"index;not null;uniqueIndex:uniq_group_member"`
	BeneficiaryType    BeneficiaryType `gorm:"size:10;not null;uniqueIndex:uniq_group_member"`
	BeneficiaryID      uint            `gorm:"not null;uniqueIndex:uniq_group_member"`
	CreatedAt          time.Time
}
