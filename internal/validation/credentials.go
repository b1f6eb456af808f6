package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted at sign-in.
const MinPasswordLength = 6

// ValidateCredentials reports whether email is a bare well-formed address and password
// is long enough. Which rule failed is deliberately not reported.
func ValidateCredentials(email, password string) bool {
	return validEmail(email) && utf8.RuneCountInString(password) >= MinPasswordLength
}

func validEmail(email string) bool {
	if email == "" || strings.TrimSpace(email) != email {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// rejects display-name forms like "Jo <jo@example.com>"
	return addr.Address == email && strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".")
}
