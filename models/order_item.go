package models

// OrderItem keeps the menu price captured when the order was placed.
type OrderItem struct {
	ID               uint     `gorm:"primaryKey" json:"id"`
	OrderID          uint     `gorm:"not null;index" json:"orderId"`
	MenuItemID       uint     `gorm:"not null" json:"menuItemId"`
	MenuItem         MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity         int      `gorm:"not null" json:"quantity"`
	PriceAtOrderTime Money    `gorm:"type:decimal(10,2);not null" json:"priceAtOrderTime"`
}

func (i OrderItem) LineTotal() Money {
	return i.PriceAtOrderTime.Times(i.Quantity)
}
