package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taskstack/todo-api/internal/logger"
	"github.com/taskstack/todo-api/internal/models"
	"github.com/taskstack/todo-api/internal/repository"
	"github.com/taskstack/todo-api/internal/validation"
)

const bcryptCost = 12

var (
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrInvalidUsername      = errors.New("username must be 3-30 characters and contain only letters, numbers, and underscores")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrDuplicateIdentity    = errors.New("email or username already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrTokenExpired         = errors.New("authentication token has expired")
	ErrTokenInvalid         = errors.New("invalid authentication token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// WeakPasswordError reports every strength requirement a password failed.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return strings.Join(e.Reasons, "; ")
}

// Identity is the verified result of decoding a bearer token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService turns credentials into signed tokens and tokens back into
// identities. Tokens are stateless; logout is a client-side discard.
type AuthService struct {
	userRepo    repository.UserRepository
	secret      []byte
	tokenExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, secret string, tokenExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register validates credentials, hashes the password and creates the user.
// Uniqueness is ultimately enforced by the store's unique constraints; the
// pre-checks only exist to produce field-specific errors.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if !validation.ValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}
	// Emails are stored lowercased so the unique index enforces the same
	// case-insensitive uniqueness the lookups use.
	input.Email = strings.ToLower(input.Email)
	if !validation.ValidUsername(input.Username) {
		return nil, ErrInvalidUsername
	}
	if reasons := validation.PasswordErrors(input.Password); len(reasons) > 0 {
		return nil, &WeakPasswordError{Reasons: reasons}
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		logger.Log.WithField("email", input.Email).Warn("registration attempt with duplicate email")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		logger.Log.WithField("username", input.Username).Warn("registration attempt with duplicate username")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		// Two concurrent registrations can pass the pre-checks; the unique
		// constraint is the source of truth.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("new user registered")

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresIn int
	User      *models.User
}

// Login verifies credentials and issues a signed token. A missing account
// and a wrong password both return ErrInvalidCredentials so callers cannot
// enumerate users.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.WithField("email", input.Email).Warn("login attempt with unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		logger.Log.WithField("user_id", user.ID).Warn("failed login attempt")
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("user logged in")

	return &LoginResult{
		Token:     token,
		ExpiresIn: int(s.tokenExpiry.Seconds()),
		User:      user,
	}, nil
}

// Authenticate verifies a bearer token and returns the identity it carries.
func (s *AuthService) Authenticate(tokenString string) (*Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &Identity{
		UserID: userID,
		Email:  claims.Email,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Logout only records the event. There is no server-side revocation; the
// client is responsible for discarding the token.
func (s *AuthService) Logout(identity *Identity) {
	logger.Log.WithFields(logrus.Fields{
		"user_id": identity.UserID,
		"email":   identity.Email,
	}).Info("user logged out")
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
