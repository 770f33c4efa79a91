package phone

import (
	"errors"
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber is returned for input that does not parse as a valid
// number under the normalizer's default region.
var ErrInvalidNumber = errors.New("invalid phone number")

// Normalizer parses raw phone input under a fixed default region and
// rewrites it to canonical E.164 form. The same instance backs both the
// request validator and the registration workflow so the two parses
// cannot disagree.
type Normalizer struct {
	region string
}

func NewNormalizer(region string) *Normalizer {
	return &Normalizer{region: region}
}

// IsValid reports whether raw parses as a valid number for the default
// region.
func (n *Normalizer) IsValid(raw string) bool {
	num, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// Normalize returns the E.164 form of raw, e.g. "081234567890" under
// region "ID" becomes "+6281234567890".
func (n *Normalizer) Normalize(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidNumber, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
