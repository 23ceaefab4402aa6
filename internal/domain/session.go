package domain

import "time"

// Session represents an offline Admin API session for an installed shop
type Session struct {
	Shop                 string    `json:"shop" bson:"shop"`
	EncryptedAccessToken string    `json:"-" bson:"encrypted_access_token"` // AES-GCM, see encryption.Service
	Scope                string    `json:"scope" bson:"scope"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at"`
}
