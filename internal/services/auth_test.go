package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/trashcare/backend/internal/config"
	"github.com/trashcare/backend/internal/identity"
	"github.com/trashcare/backend/internal/models"
	"github.com/trashcare/backend/internal/phone"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		BcryptCost:     bcrypt.MinCost,
		TokenTTL:       time.Hour,
		DefaultRegion:  "ID",
		SessionKeyTTL:  time.Hour,
		UserIDRandLen:  8,
		MaxRequestBody: 1_048_576,
	}
}

func validRegisterBody() map[string]string {
	return map[string]string{
		"email":         "a@b.com",
		"password":      "secret1",
		"name":          "Jane Doe",
		"phoneNumber":   "081234567890",
		"bankName":      "BCA",
		"accountName":   "Jane Doe",
		"accountNumber": "1234567890",
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	r := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func TestAuthService_Register(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	phones := phone.NewNormalizer("ID")

	t.Run("successful registration stores normalized phone", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT 1 FROM users WHERE email").
			WithArgs("a@b.com").
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectQuery("SELECT 1 FROM users WHERE phone_number").
			WithArgs("+6281234567890").
			WillReturnError(sql.ErrNoRows)

		provider.On("CreateAccount", mock.Anything, "a@b.com", mock.AnythingOfType("string")).
			Return(&identity.Account{ID: "acct-1", Email: "a@b.com"}, nil)
		provider.On("UpdateProfile", mock.Anything, "acct-1", identity.Profile{
			DisplayName: "Jane Doe",
			PhoneNumber: "+6281234567890",
		}).Return(nil)

		dbMock.ExpectExec("INSERT INTO users").
			WithArgs("acct-1", "a@b.com", sqlmock.AnyArg(), sqlmock.AnyArg(),
				"Jane Doe", "+6281234567890", "BCA", "Jane Doe", "1234567890").
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := postJSON(t, service.Register, "/register", validRegisterBody())

		assert.Equal(t, http.StatusOK, w.Code)
		var response MessageResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Registrasi berhasil", response.Message)
		provider.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("provider never receives the plaintext password", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT 1 FROM users WHERE email").WillReturnError(sql.ErrNoRows)
		dbMock.ExpectQuery("SELECT 1 FROM users WHERE phone_number").WillReturnError(sql.ErrNoRows)

		provider.On("CreateAccount", mock.Anything, "a@b.com", mock.MatchedBy(func(credential string) bool {
			return credential != "secret1" &&
				bcrypt.CompareHashAndPassword([]byte(credential), []byte("secret1")) == nil
		})).Return(&identity.Account{ID: "acct-1", Email: "a@b.com"}, nil)
		provider.On("UpdateProfile", mock.Anything, "acct-1", mock.Anything).Return(nil)

		dbMock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

		w := postJSON(t, service.Register, "/register", validRegisterBody())

		assert.Equal(t, http.StatusOK, w.Code)
		provider.AssertExpectations(t)
	})

	t.Run("validation failure lists every violated field", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		w := postJSON(t, service.Register, "/register", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response struct {
			Message []string `json:"message"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Message, 7)
		assert.Equal(t, "Email tidak boleh kosong", response.Message[0])
		assert.Contains(t, response.Message, "Password tidak boleh kosong")
		assert.Contains(t, response.Message, "Nomor telepon wajib diisi")
		assert.Contains(t, response.Message, "Nomor rekening wajib diisi")
		provider.AssertNotCalled(t, "CreateAccount")
	})

	t.Run("format violations get rule-specific messages", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		body := validRegisterBody()
		body["password"] = "12345"
		body["name"] = "Jane 2 Doe"
		body["phoneNumber"] = "12345"
		body["accountNumber"] = "12a45"

		w := postJSON(t, service.Register, "/register", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response struct {
			Message []string `json:"message"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response.Message, "Password minimal harus terdiri dari 6 karakter")
		assert.Contains(t, response.Message, "Nama hanya boleh terdiri dari huruf alfabet")
		assert.Contains(t, response.Message, "Nomor telepon tidak valid")
		assert.Contains(t, response.Message, "Nomor rekening hanya boleh berisi angka")
	})

	t.Run("duplicate email", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT 1 FROM users WHERE email").
			WithArgs("a@b.com").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		w := postJSON(t, service.Register, "/register", validRegisterBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response MessageResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Email sudah terdaftar", response.Message)
		provider.AssertNotCalled(t, "CreateAccount")
	})

	t.Run("duplicate phone in a different textual format", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT 1 FROM users WHERE email").
			WillReturnError(sql.ErrNoRows)
		// "+62 812-3456-7890" normalizes to the same E.164 string as
		// "081234567890", so the uniqueness query sees the stored form.
		dbMock.ExpectQuery("SELECT 1 FROM users WHERE phone_number").
			WithArgs("+6281234567890").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		body := validRegisterBody()
		body["phoneNumber"] = "+62 812-3456-7890"

		w := postJSON(t, service.Register, "/register", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response MessageResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Nomor telepon sudah terdaftar", response.Message)
		provider.AssertNotCalled(t, "CreateAccount")
	})

	t.Run("lost race maps unique violation to conflict response", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT 1 FROM users WHERE email").WillReturnError(sql.ErrNoRows)
		dbMock.ExpectQuery("SELECT 1 FROM users WHERE phone_number").WillReturnError(sql.ErrNoRows)

		provider.On("CreateAccount", mock.Anything, "a@b.com", mock.Anything).
			Return(&identity.Account{ID: "acct-1", Email: "a@b.com"}, nil)
		provider.On("UpdateProfile", mock.Anything, "acct-1", mock.Anything).Return(nil)

		dbMock.ExpectExec("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		w := postJSON(t, service.Register, "/register", validRegisterBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response MessageResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Email sudah terdaftar", response.Message)
	})

	t.Run("provider failure is sanitized", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT 1 FROM users WHERE email").WillReturnError(sql.ErrNoRows)
		dbMock.ExpectQuery("SELECT 1 FROM users WHERE phone_number").WillReturnError(sql.ErrNoRows)

		provider.On("CreateAccount", mock.Anything, "a@b.com", mock.Anything).
			Return(nil, assert.AnError)

		w := postJSON(t, service.Register, "/register", validRegisterBody())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
		var response MessageResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Registrasi gagal", response.Message)
	})

	t.Run("invalid request body", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		r := httptest.NewRequest("POST", "/register", bytes.NewBufferString("invalid"))
		w := httptest.NewRecorder()
		service.Register(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	phones := phone.NewNormalizer("ID")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	assert.NoError(t, err)

	t.Run("successful login persists and caches the token", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		provider := new(MockProvider)
		service := NewAuthService(db, redisClient, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT id, user_id, password FROM users").
			WithArgs("a@b.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "password"}).
				AddRow("acct-1", "JAN1687154400000k3j9x2ma", string(hashedPassword)))

		provider.On("MintCustomToken", mock.Anything, "JAN1687154400000k3j9x2ma").
			Return("custom-token-1", nil)

		dbMock.ExpectExec("UPDATE users SET custom_token").
			WithArgs("custom-token-1", "acct-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		redisMock.ExpectSet("session:JAN1687154400000k3j9x2ma", "custom-token-1", time.Hour).
			SetVal("OK")

		w := postJSON(t, service.Login, "/login", map[string]string{
			"email":    "a@b.com",
			"password": "secret1",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var response LoginResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Login berhasil", response.Message)
		assert.Equal(t, "custom-token-1", response.CustomToken)
		assert.Equal(t, "JAN1687154400000k3j9x2ma", response.UserID)
		assert.NoError(t, redisMock.ExpectationsWereMet())
		provider.AssertExpectations(t)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT id, user_id, password FROM users").
			WithArgs("a@b.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "password"}).
				AddRow("acct-1", "USR1", string(hashedPassword)))

		wrongPassword := postJSON(t, service.Login, "/login", map[string]string{
			"email":    "a@b.com",
			"password": "wrong-secret",
		})

		dbMock.ExpectQuery("SELECT id, user_id, password FROM users").
			WithArgs("nobody@b.com").
			WillReturnError(sql.ErrNoRows)

		unknownEmail := postJSON(t, service.Login, "/login", map[string]string{
			"email":    "nobody@b.com",
			"password": "secret1",
		})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
		provider.AssertNotCalled(t, "MintCustomToken")
	})

	t.Run("validation failure", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		w := postJSON(t, service.Login, "/login", map[string]string{
			"email": "not-an-email",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response struct {
			Message []string `json:"message"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response.Message, "Email yang dimasukkan tidak valid")
		assert.Contains(t, response.Message, "Password tidak boleh kosong")
	})

	t.Run("token persistence failure is sanitized", func(t *testing.T) {
		provider := new(MockProvider)
		service := NewAuthService(db, nil, provider, phones, testAuthConfig())

		dbMock.ExpectQuery("SELECT id, user_id, password FROM users").
			WithArgs("a@b.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "password"}).
				AddRow("acct-1", "USR1", string(hashedPassword)))

		provider.On("MintCustomToken", mock.Anything, "USR1").Return("custom-token-1", nil)

		dbMock.ExpectExec("UPDATE users SET custom_token").
			WillReturnError(assert.AnError)

		w := postJSON(t, service.Login, "/login", map[string]string{
			"email":    "a@b.com",
			"password": "secret1",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
		var response MessageResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Login gagal", response.Message)
	})
}

func TestGenerateUserID(t *testing.T) {
	userID := generateUserID("jane@example.com", 8)

	assert.True(t, strings.HasPrefix(userID, "JAN"))
	// prefix + 13-digit millisecond timestamp + 8 random characters
	assert.Len(t, userID, 3+13+8)

	other := generateUserID("jane@example.com", 8)
	assert.NotEqual(t, userID, other)
}

func TestAuthService_Logout(t *testing.T) {
	viper.Set("jwt.secret_key", "test-secret")
	phones := phone.NewNormalizer("ID")

	t.Run("blacklists the token and drops the session cache", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		service := NewAuthService(nil, redisClient, new(MockProvider), phones, testAuthConfig())

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"uid": "JAN1687154400000k3j9x2ma",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		assert.NoError(t, err)

		redisMock.ExpectSet("blacklist:"+signed, "1", time.Hour).SetVal("OK")
		redisMock.ExpectDel("session:JAN1687154400000k3j9x2ma").SetVal(1)

		r := httptest.NewRequest("POST", "/logout", nil)
		r.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		service.Logout(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("logout without a token still succeeds", func(t *testing.T) {
		service := NewAuthService(nil, nil, new(MockProvider), phones, testAuthConfig())

		r := httptest.NewRequest("POST", "/logout", nil)
		w := httptest.NewRecorder()
		service.Logout(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthService_GetAccount(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	phones := phone.NewNormalizer("ID")
	service := NewAuthService(db, nil, new(MockProvider), phones, testAuthConfig())

	t.Run("returns the stored record without the password", func(t *testing.T) {
		now := time.Now()
		dbMock.ExpectQuery("SELECT id, email, user_id, name, phone_number").
			WithArgs("JAN1687154400000k3j9x2ma").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "email", "user_id", "name", "phone_number",
				"bank_name", "account_name", "account_number", "created_at", "updated_at",
			}).AddRow("acct-1", "a@b.com", "JAN1687154400000k3j9x2ma", "Jane Doe",
				"+6281234567890", "BCA", "Jane Doe", "1234567890", now, now))

		r := httptest.NewRequest("GET", "/account", nil)
		r = r.WithContext(context.WithValue(r.Context(), "userID", "JAN1687154400000k3j9x2ma"))
		w := httptest.NewRecorder()
		service.GetAccount(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var user models.User
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "+6281234567890", user.PhoneNumber)
		assert.Equal(t, "JAN1687154400000k3j9x2ma", user.UserID)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("missing context userId", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/account", nil)
		w := httptest.NewRecorder()
		service.GetAccount(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
