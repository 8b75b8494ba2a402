package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hannes/kanoon/src/backend/storage"
)

const DefaultRole = "User"

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

var (
	ErrInvalidUser        = errors.New("invalid user")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserCreate is the registration input
type UserCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks field lengths and the email address. All problems are
// joined by "; ".
func (u UserCreate) Validate() error {
	var errs []string
	if err := checkLength("Name", strings.TrimSpace(u.Name), 3, 100); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := parseEmail(u.Email); err != nil {
		errs = append(errs, fmt.Sprintf("Email: invalid address (current value: %s)", u.Email))
	}
	if err := checkLength("Password", u.Password, 6, 50); err != nil {
		errs = append(errs, err.Error())
	} else if len(u.Password) > maxPasswordBytes {
		errs = append(errs, fmt.Sprintf("Password: must be at most %d bytes (current size: %d)", maxPasswordBytes, len(u.Password)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidUser, strings.Join(errs, "; "))
	}
	return nil
}

func checkLength(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(value)
	if n < minLen || n > maxLen {
		return fmt.Errorf("%s: must be between %d and %d characters (current length: %d)", field, minLen, maxLen, n)
	}
	return nil
}

// parseEmail accepts a bare address and returns it lowercased
func parseEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", err
	}
	if addr.Address != raw {
		return "", errors.New("display names are not allowed")
	}
	return strings.ToLower(addr.Address), nil
}

// Service manages user accounts on top of a UserStore
type Service struct {
	store  storage.UserStore
	cost   int
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store storage.UserStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		logger: logger,
	}
}

// CreateUser validates the input, hashes the password and stores the user
func (s *Service) CreateUser(ctx context.Context, in UserCreate) (storage.User, error) {
	if err := in.Validate(); err != nil {
		return storage.User{}, err
	}
	email, _ := parseEmail(in.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return storage.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = DefaultRole
	}
	now := s.now().UTC()
	user := storage.User{
		ID:           "user-" + uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Role:         role,
		IsActive:     true,
		PasswordHash: string(hash),
		Permissions:  []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return storage.User{}, ErrDuplicateEmail
		}
		return storage.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]storage.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Authenticate checks a password against the stored hash. Unknown emails,
// inactive accounts and wrong passwords all fail with ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (storage.User, error) {
	addr, err := parseEmail(email)
	if err != nil {
		return storage.User{}, ErrInvalidCredentials
	}
	user, err := s.store.GetUserByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, ErrInvalidCredentials
		}
		return storage.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return storage.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return storage.User{}, ErrInvalidCredentials
	}
	return user, nil
}
