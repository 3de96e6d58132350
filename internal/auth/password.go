package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// MinPasswordLength matches what the sign-up form enforces.
const MinPasswordLength = 6

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// ValidatePassword rejects passwords that are too short.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errorutil.NewValidationError("password must be at least 6 characters", nil)
	}
	return nil
}
