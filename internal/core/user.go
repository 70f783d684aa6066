package core

import (
	"net/mail"
	"strings"
)

const (
	minEmailLength    = 6
	minPasswordLength = 8
	maxNamePartLength = 64
)

// RegisterInput is the field set for creating a user.
type RegisterInput struct {
	NamePrefix string
	FirstName  string
	LastName   string
	Email      string
	Password   string
	TimeZone   string
	Currency   string
}

// NormalizedEmail lowercases and trims the address.
func (in RegisterInput) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(in.Email))
}

func (in RegisterInput) Validate() error {
	email := in.NormalizedEmail()
	if len(email) < minEmailLength {
		return Invalid("email", "Email must be greater than %d characters", minEmailLength-1)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Invalid("email", "Email address is not valid")
	}
	if len(in.Password) < minPasswordLength {
		return Invalid("password", "Password must be at least %d characters", minPasswordLength)
	}
	return ProfileInput{
		NamePrefix: in.NamePrefix,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		TimeZone:   in.TimeZone,
		Currency:   in.Currency,
	}.Validate()
}

// ProfileInput is the editable part of a user record.
type ProfileInput struct {
	NamePrefix string
	FirstName  string
	LastName   string
	TimeZone   string
	Currency   string
}

func (in ProfileInput) Validate() error {
	if len(in.NamePrefix) > 10 {
		return Invalid("name_prefix", "too long (max 10 characters)")
	}
	for _, f := range []struct{ field, value string }{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
	} {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return Invalid(f.field, "is required")
		}
		if len(v) > maxNamePartLength {
			return Invalid(f.field, "too long (max %d characters)", maxNamePartLength)
		}
	}
	if _, err := LoadZone(in.TimeZone); err != nil {
		return err
	}
	if in.Currency != "" && !KnownCurrency(in.Currency) {
		return Invalid("currency", "unknown currency %q", in.Currency)
	}
	return nil
}

// PasswordChange is the form a signed-in user submits to replace their
// password.
type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

// Validate checks everything that does not need the stored hash.
func (in PasswordChange) Validate() error {
	if in.Current == "" || in.New == "" || in.Confirm == "" {
		return Invalid("password", "All fields are required.")
	}
	if in.New == in.Current {
		return Invalid("new_password", "New password cannot be same as old password.")
	}
	if in.New != in.Confirm {
		return Invalid("confirm_password", "New Password and Confirm Password are different.")
	}
	if len(in.New) < minPasswordLength {
		return Invalid("new_password", "Password must be at least %d characters", minPasswordLength)
	}
	return nil
}
