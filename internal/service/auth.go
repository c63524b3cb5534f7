package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/mediafaves/internal/errs"
	"github.com/templui/mediafaves/internal/model"
	"github.com/templui/mediafaves/internal/repository"
	"github.com/templui/mediafaves/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	// Unknown email and wrong password share this error so responses do not
	// reveal which accounts exist.
	ErrInvalidCredentials = errs.Unauthorized("Invalid credentials")
	ErrUserExists         = errs.Conflict("User already exists")
	ErrInvalidEmail       = errs.Validation("Invalid email format")
	ErrTokenInvalid       = errs.Unauthorized("Token is not valid")
	ErrTokenUserNotFound  = errs.Unauthorized("User not found")
)

// tokenClaims is the signed assertion carried by session tokens.
type tokenClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// dummyHash is compared against when the email is unknown, so both login
// failure paths pay for one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to generate dummy hash: %v", err))
	}
	return hash
})

// utcNow keeps stored timestamps in one zone so they order correctly as text.
func utcNow() time.Time {
	return time.Now().UTC()
}

type AuthService struct {
	userRepository repository.UserRepository
	jwtSecret      string
	jwtExpiry      time.Duration
	now            func() time.Time
}

func NewAuthService(userRepository repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
		now:            utcNow,
	}
}

// Register creates an account and returns a session token for it.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	email = validation.NormalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return "", ErrInvalidEmail
	}

	err = s.ValidatePassword(password)
	if err != nil {
		return "", err
	}

	_, err = s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return "", ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		// A concurrent registration won the unique constraint
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)

	return s.GenerateJWT(user.ID)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateJWT(user.ID)
}

// ChangePassword re-hashes explicitly; the store never hashes on save.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrTokenUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(currentPassword, user.PasswordHash)
	if err != nil {
		return ErrInvalidCredentials
	}

	err = s.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(ctx, user.ID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password changed", "user_id", user.ID)
	return nil
}

// Authenticate verifies a token and resolves it to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.VerifyJWT(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrTokenUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *AuthService) ValidatePassword(password string) error {
	problems := validation.PasswordProblems(password)
	if len(problems) == 0 {
		return nil
	}
	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Error()
	}
	return errs.Validation(strings.Join(msgs, ", "))
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(userID int64) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT checks signature and expiry and returns the asserted user id.
func (s *AuthService) VerifyJWT(tokenString string) (int64, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, err
	}

	if !token.Valid || claims.UserID <= 0 {
		return 0, fmt.Errorf("invalid token")
	}

	return claims.UserID, nil
}
