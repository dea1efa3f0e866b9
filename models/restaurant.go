package models

import "time"

type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Address     *string   `gorm:"type:text" json:"address"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
