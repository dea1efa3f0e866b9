package models

import "time"

type MenuItem struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurantId"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Description  *string    `gorm:"type:text" json:"description"`
	Price        Money      `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL     *string    `gorm:"type:varchar(500)" json:"imageUrl"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
}
