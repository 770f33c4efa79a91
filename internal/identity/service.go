package identity

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/spf13/viper"
)

const uniqueViolation = "23505"

// Service is the house Provider implementation: accounts live in the
// identities table and custom tokens are HS256 JWTs signed with the
// configured secret.
type Service struct {
	db       *sql.DB
	tokenTTL time.Duration
}

func NewService(db *sql.DB, tokenTTL time.Duration) *Service {
	return &Service{db: db, tokenTTL: tokenTTL}
}

func (s *Service) CreateAccount(ctx context.Context, email, credential string) (*Account, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (id, email, credential, created_at)
		VALUES ($1, $2, $3, NOW())
	`, id, email, credential)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	log.Printf("[IDENTITY] Account created - id: %s", id)
	return &Account{ID: id, Email: email}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, accountID string, profile Profile) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE identities SET display_name = $1, phone_number = $2 WHERE id = $3
	`, profile.DisplayName, profile.PhoneNumber, accountID)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// MintCustomToken issues a session token for the given subject. The
// subject is the application-level userId, not the provider account id.
func (s *Service) MintCustomToken(_ context.Context, subjectID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": subjectID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}
