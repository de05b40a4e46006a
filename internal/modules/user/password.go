package user

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a candidate against the stored value. Rows written
// before hashing was introduced hold plaintext; those match only when
// allowPlaintext is set.
func CheckPassword(stored, candidate string, allowPlaintext bool) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	if !allowPlaintext {
		return false
	}
	// char(n) columns come back space padded
	return subtle.ConstantTimeCompare([]byte(strings.TrimRight(stored, " ")), []byte(candidate)) == 1
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
