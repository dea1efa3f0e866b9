package models

import "time"

type PaymentType string

const (
	PaymentTypeCard   PaymentType = "card"
	PaymentTypeWallet PaymentType = "wallet"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeCard || t == PaymentTypeWallet
}

type PaymentMethod struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"not null;index" json:"userId"`
	User           User        `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type           PaymentType `gorm:"type:varchar(10);not null" json:"type"`
	CardNumber     *string     `gorm:"type:varchar(255)" json:"cardNumber"`
	ExpiryDate     *string     `gorm:"type:varchar(10)" json:"expiryDate"`
	CardholderName *string     `gorm:"type:varchar(255)" json:"cardholderName"`
	IsDefault      bool        `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt      time.Time   `gorm:"not null" json:"createdAt"`
}
