package users

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// User is a resolved principal: an authenticated identity with its display
// attributes and privilege flags. Directory logins are mirrored here as
// shadow records (without a password hash) so bearer-token lookups can
// resolve their display attributes.
type User struct {
	ID           string    `json:"id,omitempty"`          // Unique identifier for the user
	Email        string    `json:"email,omitempty"`       // User's email address, the token subject
	FullName     string    `json:"full_name,omitempty"`   // Display name
	PasswordHash string    `json:"-"`                     // Hashed version of the user's password - never serialize
	Active       bool      `json:"is_active"`             // Inactive users cannot authenticate
	Superuser    bool      `json:"is_superuser,omitempty"` // Elevated privileges
	CreatedAt    time.Time `json:"created_at,omitempty"`  // When the record was created
	LastLogin    time.Time `json:"last_login,omitempty"`  // Last successful authentication
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

// HashPassword hashes a password with bcrypt at the default adaptive cost.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash verifies a plaintext password against a stored bcrypt
// hash. It returns false on mismatch, never an error.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
