package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"
)

// ErrUserNotFound is returned when no record exists for the requested
// userId.
var ErrUserNotFound = errors.New("user not found")

// QRService renders payout-profile QR codes so counterparties can scan
// a user's transfer destination instead of typing it.
type QRService struct {
	db    *sql.DB
	redis *redis.Client
}

// payoutProfile is the payload encoded into the QR image.
type payoutProfile struct {
	UserID        string `json:"userId"`
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
}

func NewQRService(db *sql.DB, redis *redis.Client) *QRService {
	return &QRService{
		db:    db,
		redis: redis,
	}
}

// GenerateProfileQR returns a base64-encoded PNG QR image of the
// user's payout profile. Rendered images are cached since the profile
// fields never change after registration.
func (s *QRService) GenerateProfileQR(ctx context.Context, userID string) (string, error) {
	key := fmt.Sprintf("qr:profile:%s", userID)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			log.Printf("[QR] Cache lookup failed for userId %s: %v", userID, err)
		}
	}

	var profile payoutProfile
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, bank_name, account_name, account_number
		FROM users WHERE user_id = $1
	`, userID).Scan(&profile.UserID, &profile.BankName, &profile.AccountName, &profile.AccountNumber)
	if err == sql.ErrNoRows {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	jsonData, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}

	qr, err := qrcode.New(string(jsonData), qrcode.Medium)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", err
	}

	qrImage := base64.StdEncoding.EncodeToString(buf.Bytes())

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, qrImage, time.Hour).Err(); err != nil {
			log.Printf("[QR] Cache write failed for userId %s: %v", userID, err)
		}
	}

	return qrImage, nil
}
