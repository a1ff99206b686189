package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	return emailRegex.MatchString(strings.ToLower(email))
}

// ValidateAddress checks the 0x-prefixed 20-byte hex form of an account or
// contract address. Checksum casing is not enforced.
func ValidateAddress(address string) bool {
	return addressRegex.MatchString(address)
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}
