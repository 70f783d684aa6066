package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

const passwordCost = 12

type UserService struct {
	storage         *storage.SQLiteRepository
	defaultCurrency string
}

func NewUserService(storage *storage.SQLiteRepository) *UserService {
	return &UserService{storage: storage, defaultCurrency: core.DefaultCurrency}
}

// WithDefaultCurrency sets the currency given to users who register
// without choosing one.
func (s *UserService) WithDefaultCurrency(code string) *UserService {
	if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
		s.defaultCurrency = code
	}
	return s
}

// Register creates a user with a bcrypt password hash. Emails are unique
// case-insensitively.
func (s *UserService) Register(ctx context.Context, in core.RegisterInput) (core.User, error) {
	if err := in.Validate(); err != nil {
		return core.User{}, err
	}
	email := in.NormalizedEmail()
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	var created core.User
	err = s.storage.InTx(ctx, func(l *storage.Ledger) error {
		_, err := l.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return core.Invalid("email", "Email already exists")
		case !errors.Is(err, core.ErrNotFound):
			return err
		}
		created, err = l.CreateUser(ctx, core.User{
			NamePrefix:   strings.TrimSpace(in.NamePrefix),
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			Email:        email,
			PasswordHash: string(hash),
			TimeZone:     zoneOrUTC(in.TimeZone),
			Currency:     currency,
		})
		return err
	})
	if err != nil {
		return core.User{}, fmt.Errorf("register user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", created.ID)
	return created, nil
}

// Authenticate returns the user whose password matches. Unknown emails and
// wrong passwords give the same validation error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (core.User, error) {
	u, err := s.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, core.Invalid("email", "Incorrect email or password")
		}
		return core.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return core.User{}, core.Invalid("email", "Incorrect email or password")
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in core.ProfileInput) (core.User, error) {
	if err := in.Validate(); err != nil {
		return core.User{}, err
	}

	var updated core.User
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		u, err := l.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		u.NamePrefix = strings.TrimSpace(in.NamePrefix)
		u.FirstName = strings.TrimSpace(in.FirstName)
		u.LastName = strings.TrimSpace(in.LastName)
		u.TimeZone = zoneOrUTC(in.TimeZone)
		if in.Currency != "" {
			u.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
		}
		updated = u
		return l.UpdateUserProfile(ctx, u)
	})
	if err != nil {
		return core.User{}, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// ChangePassword replaces the user's password after checking the current
// one against the stored hash.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, in core.PasswordChange) error {
	if err := in.Validate(); err != nil {
		return err
	}
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		u, err := l.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if u.PasswordHash == "" {
			return core.Invalid("password", "User account is invalid. Please contact support.")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Current)); err != nil {
			return core.Invalid("current_password", "Incorrect old password.")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.New), passwordCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return l.UpdateUserPassword(ctx, userID, string(hash))
	})
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	slog.InfoContext(ctx, "Password changed", "user_id", userID)
	return nil
}

func (s *UserService) Get(ctx context.Context, userID int64) (core.User, error) {
	return s.storage.GetUser(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]core.User, error) {
	return s.storage.ListUsers(ctx)
}

func zoneOrUTC(tz string) string {
	if tz = strings.TrimSpace(tz); tz == "" {
		return "UTC"
	}
	return tz
}
