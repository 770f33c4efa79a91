package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/trashcare/backend/internal/config"
	"github.com/trashcare/backend/internal/identity"
	"github.com/trashcare/backend/internal/models"
	"github.com/trashcare/backend/internal/phone"
)

const (
	msgRegisterOK     = "Registrasi berhasil"
	msgRegisterFailed = "Registrasi gagal"
	msgLoginOK        = "Login berhasil"
	msgLoginFailed    = "Login gagal"
	msgLogoutOK       = "Logout berhasil"
	msgEmailTaken     = "Email sudah terdaftar"
	msgPhoneTaken     = "Nomor telepon sudah terdaftar"
	msgBadCredentials = "Email atau password salah"
	msgInvalidRequest = "Permintaan tidak valid"
	msgPhoneInvalid   = "Nomor telepon tidak valid"
)

type AuthService struct {
	db       *sql.DB
	redis    *redis.Client
	provider identity.Provider
	phones   *phone.Normalizer
	validate *ValidationHelper
	config   *config.AuthConfig
}

// RegisterRequest represents the registration request payload
// @Description Registration request structure
type RegisterRequest struct {
	Email         string `json:"email" validate:"required,email" example:"user@example.com"`
	Password      string `json:"password" validate:"required,min=6" example:"secret1"`
	Name          string `json:"name" validate:"required,alpha_space" example:"Jane Doe"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,phone" example:"081234567890"`
	BankName      string `json:"bankName" validate:"required,alpha_space" example:"BCA"`
	AccountName   string `json:"accountName" validate:"required,alpha_space" example:"Jane Doe"`
	AccountNumber string `json:"accountNumber" validate:"required,number,max=20" example:"1234567890"`
}

// LoginRequest represents the login request payload
// @Description Login request structure
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"secret1"`
}

// LoginResponse represents a successful login response
// @Description Login response structure
type LoginResponse struct {
	Message     string `json:"message" example:"Login berhasil"`
	CustomToken string `json:"customToken"`
	UserID      string `json:"userId" example:"USE1687154400000k3j9x2ma"`
}

func NewAuthService(db *sql.DB, redisClient *redis.Client, provider identity.Provider, phones *phone.Normalizer, cfg *config.AuthConfig) *AuthService {
	return &AuthService{
		db:       db,
		redis:    redisClient,
		provider: provider,
		phones:   phones,
		validate: NewValidationHelper(phones),
		config:   cfg,
	}
}

// decodeJSON decodes a single strict JSON object into dst.
func (s *AuthService) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("multiple JSON objects")
	}
	return nil
}

// Register handles user registration
// @Summary Register a new user
// @Description Validate the payload, create the identity-provider account and persist the user record
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 200 {object} MessageResponse "Registration successful"
// @Failure 400 {object} MessageResponse "Validation failure or duplicate email/phone"
// @Failure 500 {object} MessageResponse "Internal error"
// @Router /register [post]
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Registration attempt from IP: %s", r.RemoteAddr)
	ctx := r.Context()

	var req RegisterRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		log.Printf("[AUTH] Registration failed - invalid request: %v", err)
		SendMessage(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	if err := s.validate.ValidateStruct(&req); err != nil {
		log.Printf("[AUTH] Registration validation failed: %v", err)
		SendValidationErrors(w, s.validate.Messages(err))
		return
	}

	log.Printf("[AUTH] Registration request for email: %s", req.Email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		log.Printf("[AUTH] Password hashing failed for %s: %v", req.Email, err)
		SendMessage(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	formattedPhone, err := s.phones.Normalize(req.PhoneNumber)
	if err != nil {
		// The phone tag already validated this input; a disagreement
		// here fails the request rather than storing an unnormalized
		// number.
		log.Printf("[AUTH] Phone normalization failed for %s: %v", req.Email, err)
		SendValidationErrors(w, []string{msgPhoneInvalid})
		return
	}

	exists, err := s.exists(ctx, "SELECT 1 FROM users WHERE email = $1 LIMIT 1", req.Email)
	if err != nil {
		log.Printf("[AUTH] Email uniqueness check failed for %s: %v", req.Email, err)
		SendMessage(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}
	if exists {
		SendMessage(w, http.StatusBadRequest, msgEmailTaken)
		return
	}

	exists, err = s.exists(ctx, "SELECT 1 FROM users WHERE phone_number = $1 LIMIT 1", formattedPhone)
	if err != nil {
		log.Printf("[AUTH] Phone uniqueness check failed for %s: %v", req.Email, err)
		SendMessage(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}
	if exists {
		SendMessage(w, http.StatusBadRequest, msgPhoneTaken)
		return
	}

	// The provider stores the bcrypt digest, never the plaintext.
	account, err := s.provider.CreateAccount(ctx, req.Email, string(hashedPassword))
	if err != nil {
		if errors.Is(err, identity.ErrAccountExists) {
			SendMessage(w, http.StatusBadRequest, msgEmailTaken)
			return
		}
		log.Printf("[AUTH] Identity creation failed for %s: %v", req.Email, err)
		SendMessage(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	userID := generateUserID(req.Email, s.config.UserIDRandLen)

	if err := s.provider.UpdateProfile(ctx, account.ID, identity.Profile{
		DisplayName: req.Name,
		PhoneNumber: formattedPhone,
	}); err != nil {
		log.Printf("[AUTH] Profile update failed for account %s: %v", account.ID, err)
		SendMessage(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password, user_id, name, phone_number, bank_name, account_name, account_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, account.ID, req.Email, string(hashedPassword), userID, req.Name, formattedPhone, req.BankName, req.AccountName, req.AccountNumber)
	if err != nil {
		// A unique violation here means a concurrent registration won
		// the race after our pre-checks. The created identity is
		// orphaned; there is no compensation path.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			log.Printf("[AUTH] Lost registration race for %s (constraint %s), identity %s orphaned", req.Email, pqErr.Constraint, account.ID)
			if strings.Contains(pqErr.Constraint, "phone") {
				SendMessage(w, http.StatusBadRequest, msgPhoneTaken)
			} else {
				SendMessage(w, http.StatusBadRequest, msgEmailTaken)
			}
			return
		}
		log.Printf("[AUTH] User persistence failed for %s: %v, identity %s orphaned", req.Email, err, account.ID)
		SendMessage(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	log.Printf("[AUTH] Registration successful - userId: %s, account: %s", userID, account.ID)
	SendMessage(w, http.StatusOK, msgRegisterOK)
}

// Login handles user authentication
// @Summary Login user
// @Description Authenticate with email and password and mint a custom session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} MessageResponse "Validation failure"
// @Failure 401 {object} MessageResponse "Invalid credentials"
// @Failure 500 {object} MessageResponse "Internal error"
// @Router /login [post]
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Login attempt from IP: %s", r.RemoteAddr)
	ctx := r.Context()

	var req LoginRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		log.Printf("[AUTH] Login failed - invalid request: %v", err)
		SendMessage(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	if err := s.validate.ValidateStruct(&req); err != nil {
		log.Printf("[AUTH] Login validation failed: %v", err)
		SendValidationErrors(w, s.validate.Messages(err))
		return
	}

	var id, userID, hashedPassword string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, password FROM users WHERE email = $1",
		req.Email).Scan(&id, &userID, &hashedPassword)
	if err != nil {
		if err == sql.ErrNoRows {
			// Same response as a wrong password so callers cannot
			// probe which emails are registered.
			log.Printf("[AUTH] Login failed - unknown email")
			SendMessage(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		log.Printf("[AUTH] Login lookup failed: %v", err)
		SendMessage(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		log.Printf("[AUTH] Login failed - wrong password for userId: %s", userID)
		SendMessage(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	// The token subject is the application-level userId, not the
	// provider account id.
	customToken, err := s.provider.MintCustomToken(ctx, userID)
	if err != nil {
		log.Printf("[AUTH] Token minting failed for userId %s: %v", userID, err)
		SendMessage(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET custom_token = $1, updated_at = NOW() WHERE id = $2",
		customToken, id)
	if err != nil {
		log.Printf("[AUTH] Token persistence failed for userId %s: %v", userID, err)
		SendMessage(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	s.cacheSession(ctx, userID, customToken)

	log.Printf("[AUTH] Login successful for userId: %s", userID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Message:     msgLoginOK,
		CustomToken: customToken,
		UserID:      userID,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Blacklist the presented token and drop the cached session
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse "Logout successful"
// @Router /logout [post]
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if token != "" && len(token) > 7 {
		token = token[7:] // Remove "Bearer " prefix

		if s.redis != nil {
			ctx := r.Context()
			key := fmt.Sprintf("blacklist:%s", token)
			// Blacklist the token until it would have expired anyway.
			if err := s.redis.Set(ctx, key, "1", s.config.TokenTTL).Err(); err != nil {
				log.Printf("[AUTH] Failed to blacklist token: %v", err)
			}

			if userID := subjectOf(token); userID != "" {
				if err := s.redis.Del(ctx, "session:"+userID).Err(); err != nil {
					log.Printf("[AUTH] Failed to drop session cache for userId %s: %v", userID, err)
				}
			}
		}
	}

	SendMessage(w, http.StatusOK, msgLogoutOK)
}

// GetAccount returns the caller's stored profile
// @Summary Get account details
// @Description Get the authenticated user's stored record
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "Account details"
// @Failure 401 {object} MessageResponse "Unauthorized"
// @Failure 404 {object} MessageResponse "User not found"
// @Failure 500 {object} MessageResponse "Internal error"
// @Router /account [get]
func (s *AuthService) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	err := s.db.QueryRowContext(r.Context(), `
		SELECT id, email, user_id, name, phone_number, bank_name, account_name, account_number, created_at, updated_at
		FROM users WHERE user_id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.UserID, &user.Name, &user.PhoneNumber,
		&user.BankName, &user.AccountName, &user.AccountNumber, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			SendMessage(w, http.StatusNotFound, "Pengguna tidak ditemukan")
			return
		}
		log.Printf("[AUTH] Account lookup failed for userId %s: %v", userID, err)
		SendMessage(w, http.StatusInternalServerError, "Gagal mengambil data akun")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (s *AuthService) exists(ctx context.Context, query, value string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, value).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// cacheSession mirrors the last-issued token into redis, best effort.
func (s *AuthService) cacheSession(ctx context.Context, userID, token string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, "session:"+userID, token, s.config.SessionKeyTTL).Err(); err != nil {
		log.Printf("[AUTH] Failed to cache session for userId %s: %v", userID, err)
	}
}

// subjectOf extracts the uid claim from a token without requiring it to
// still be valid.
func subjectOf(tokenString string) string {
	token, _ := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(viper.GetString("jwt.secret_key")), nil
	})
	if token == nil {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	uid, _ := claims["uid"].(string)
	return uid
}

const base36Chars = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateUserID builds the application-level user id: the upper-cased
// first three characters of the email, the current epoch milliseconds
// and a random base-36 fragment. Uniqueness is not checked here; the
// UNIQUE index on users.user_id backstops a pathological collision.
func generateUserID(email string, randLen int) string {
	prefix := email
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	prefix = strings.ToUpper(prefix)

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)

	b := make([]byte, randLen)
	for i := range b {
		b[i] = base36Chars[rand.Intn(len(base36Chars))]
	}

	return prefix + timestamp + string(b)
}
