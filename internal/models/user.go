package models

import "time"

// User is the persisted user record, keyed by the identity-provider
// account id.
type User struct {
	ID            string    `json:"id" example:"c4a6e1a2-4c1d-4a8e-9f6b-2f1f0f4d9a10"` // Provider account id
	Email         string    `json:"email" example:"user@example.com"`                  // User email, unique
	Password      string    `json:"-"`                                                 // bcrypt digest, never serialized
	UserID        string    `json:"userId" example:"USE1687154400000k3j9x2ma"`         // Application-level user id
	Name          string    `json:"name" example:"Jane Doe"`                           // Display name
	PhoneNumber   string    `json:"phoneNumber" example:"+6281234567890"`              // E.164, unique
	BankName      string    `json:"bankName" example:"BCA"`                            // Payout bank
	AccountName   string    `json:"accountName" example:"Jane Doe"`                    // Payout account holder
	AccountNumber string    `json:"accountNumber" example:"1234567890"`                // Payout account number
	CustomToken   string    `json:"-"`                                                 // Last-issued session token
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
