package identity

import (
	"context"
	"errors"
)

// Account is a provider-issued identity.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile holds the mutable provider-side profile fields.
type Profile struct {
	DisplayName string `json:"displayName"`
	PhoneNumber string `json:"phoneNumber"`
}

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)

// Provider is the identity collaborator: account creation, profile
// updates and custom session-token minting. The credential passed to
// CreateAccount is the application's password digest, never the
// plaintext, so the provider never sees the raw password.
type Provider interface {
	CreateAccount(ctx context.Context, email, credential string) (*Account, error)
	UpdateProfile(ctx context.Context, accountID string, profile Profile) error
	MintCustomToken(ctx context.Context, subjectID string) (string, error)
}
