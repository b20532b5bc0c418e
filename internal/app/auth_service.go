package app

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tripcraft/internal/model"
	"tripcraft/internal/pkg/jwtutil"
	"tripcraft/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidCredential = errors.New("incorrect email or password")
)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register hashes the password and inserts the user. Emails are stored
// exactly as supplied; uniqueness is enforced by the store's index so two
// concurrent registrations for the same email cannot both succeed.
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a bearer token. Unknown email
// and wrong password collapse to the same error.
func (s *AuthService) Login(input LoginInput) (string, error) {
	if input.Email == "" || input.Password == "" {
		return "", ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(input.Email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}
