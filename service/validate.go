package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxUsernameLen   = 64
	maxEmailLen      = 255
	maxPasswordLen   = 72 // bcrypt ignores anything longer
	maxBlockValueLen = 255
)

func validateUsername(username string) error {
	if username == "" || strings.TrimSpace(username) != username {
		return fmt.Errorf("%w: username must be non-empty without surrounding spaces", ErrValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return fmt.Errorf("%w: username longer than %d characters", ErrValidation, maxUsernameLen)
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password longer than %d bytes", ErrValidation, maxPasswordLen)
	}
	return nil
}

// normalizeEmail trims the address and checks it is a bare addr-spec.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > maxEmailLen {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: malformed email %q", ErrValidation, email)
	}
	return email, nil
}

// validateID rejects an empty record id. Filters treat an empty id as "any record".
func validateID(id, what string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id is required", ErrValidation, what)
	}
	return nil
}

func validateBlockValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: block value is required", ErrValidation)
	}
	if utf8.RuneCountInString(value) > maxBlockValueLen {
		return "", fmt.Errorf("%w: block value longer than %d characters", ErrValidation, maxBlockValueLen)
	}
	return value, nil
}
