package models

import "time"

// Contact is a user-owned address book entry. Name matching during recipient
// resolution is case-insensitive within one owner.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index:idx_contact_owner_name;not null" json:"user_id"`
	Name      string    `gorm:"index:idx_contact_owner_name;not null" json:"name"`
	Address   string    `gorm:"not null" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
