package validator

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName     = errors.New("name must not be empty")
	ErrEmptyPassword = errors.New("password must not be empty")
)

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}
