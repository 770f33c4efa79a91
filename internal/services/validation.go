package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/trashcare/backend/internal/phone"
)

var alphaSpaceRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// MessageResponse is the common response envelope. Message is a string
// for single outcomes and a []string for validation failures.
type MessageResponse struct {
	Message any `json:"message"`
}

// ValidationHelper validates request payloads and translates failures
// into the localized messages clients display verbatim.
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper registers the custom validators. The phone tag
// shares the workflow's normalizer so validation and normalization see
// the same parse.
func NewValidationHelper(phones *phone.Normalizer) *ValidationHelper {
	v := validator.New()

	v.RegisterValidation("alpha_space", func(fl validator.FieldLevel) bool {
		return alphaSpaceRegex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phones.IsValid(fl.Field().String())
	})

	return &ValidationHelper{validator: v}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// fieldMessages maps field+tag to the message clients expect. Messages
// are Indonesian; they are part of the API contract, not log text.
var fieldMessages = map[string]map[string]string{
	"Email": {
		"required": "Email tidak boleh kosong",
		"email":    "Email yang dimasukkan tidak valid",
	},
	"Password": {
		"required": "Password tidak boleh kosong",
		"min":      "Password minimal harus terdiri dari 6 karakter",
	},
	"Name": {
		"required":    "Nama wajib diisi",
		"alpha_space": "Nama hanya boleh terdiri dari huruf alfabet",
	},
	"PhoneNumber": {
		"required": "Nomor telepon wajib diisi",
		"phone":    "Nomor telepon tidak valid",
	},
	"BankName": {
		"required":    "Nama bank wajib diisi",
		"alpha_space": "Nama bank hanya boleh terdiri dari huruf alfabet",
	},
	"AccountName": {
		"required":    "Nama rekening wajib diisi",
		"alpha_space": "Nama rekening hanya boleh terdiri dari huruf alfabet",
	},
	"AccountNumber": {
		"required": "Nomor rekening wajib diisi",
		"number":   "Nomor rekening hanya boleh berisi angka",
		"max":      "Nomor rekening harus memiliki panjang maksimal 20 digit",
	},
}

// Messages converts a validation error into the ordered list of
// per-field messages. All violated fields are reported, in struct
// field order.
func (vh *ValidationHelper) Messages(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Permintaan tidak valid"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		if byTag, ok := fieldMessages[fieldErr.Field()]; ok {
			if msg, ok := byTag[fieldErr.Tag()]; ok {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, fmt.Sprintf("%s tidak valid", fieldErr.Field()))
	}
	return messages
}

// SendMessage sends a JSON response with a single message
func SendMessage(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(MessageResponse{Message: message})
}

// SendValidationErrors sends a 400 with the full message list
func SendValidationErrors(w http.ResponseWriter, messages []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(MessageResponse{Message: messages})
}
