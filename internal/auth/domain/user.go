package domain

import "time"

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"` // Never return password in JSON
	Name     string `json:"name"`

	// Portal link. PortalPassword holds the encrypted ciphertext
	// (iv_hex:cipher_hex), decrypted only in memory during a sync run.
	PortalID          string `json:"portal_id,omitempty"`
	PortalPassword    string `json:"-"`
	IsPortalConnected bool   `json:"is_portal_connected"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
}
