package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// passwordSymbols is the punctuation set that satisfies the symbol rule.
const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

const (
	minPasswordChars = 8
	// bcrypt silently truncates input past 72 bytes
	maxPasswordBytes = 72
)

var (
	ErrPasswordTooShort    = errors.New("Password must be at least 8 characters")
	ErrPasswordTooLong     = errors.New("Password must not exceed 72 bytes")
	ErrPasswordComposition = errors.New("Password must include lowercase, uppercase, number, and special character")
)

// PasswordProblems returns every rule the password breaks, in a stable order.
// The policy is at least 8 characters with an ASCII lowercase letter, an ASCII
// uppercase letter, a digit and a symbol.
func PasswordProblems(password string) []error {
	var problems []error

	if utf8.RuneCountInString(password) < minPasswordChars {
		problems = append(problems, ErrPasswordTooShort)
	}

	if len(password) > maxPasswordBytes {
		problems = append(problems, ErrPasswordTooLong)
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		problems = append(problems, ErrPasswordComposition)
	}

	return problems
}
