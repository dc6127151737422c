package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/sirupsen/logrus"
)

const (
	maxUsernameLength = 150
	maxEmailLength    = 150
)

var (
	ErrInvalidEmail         = errors.New("email address is not valid")
	ErrMissingFields        = errors.New("username, email and password are required")
	ErrFieldTooLong         = errors.New("username or email is too long")
	ErrUsernameOrEmailTaken = errors.New("username or email already taken")
	ErrInternalError        = errors.New("internal Server Error")
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Service interface {
	Register(ctx context.Context, username, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type service struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewUserService(repo Repository, log logrus.FieldLogger) Service {
	return &service{
		repo: repo,
		log:  log,
	}
}

// IsValidationError reports whether err is caused by bad registration input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrFieldTooLong) ||
		errors.Is(err, ErrUsernameOrEmailTaken)
}

func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(username) > maxUsernameLength || len(email) > maxEmailLength {
		return nil, ErrFieldTooLong
	}
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}

	existingUser, err := s.repo.userExistsByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		s.log.WithError(err).Error("could not check for existing user")
		return nil, ErrInternalError
	}
	if existingUser != nil {
		return nil, ErrUsernameOrEmailTaken
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		s.log.WithError(err).Error("could not hash password")
		return nil, ErrInternalError
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.repo.createUser(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameOrEmailTaken) {
			return nil, err
		}
		s.log.WithError(err).Error("could not create user")
		return nil, ErrInternalError
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return user, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.getUserByID(ctx, id)
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.getUserByEmail(ctx, strings.TrimSpace(email))
}
