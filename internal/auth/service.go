package auth

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/user"
)

var (
	ErrNoSuchUser    = errors.New("no such user")
	ErrBadPassword   = errors.New("bad password")
	ErrInternalError = errors.New("internal Server Error")
)

type Service interface {
	// Login binds the session identified by sessionToken to the user owning
	// email and returns the rotated session.
	Login(ctx context.Context, sessionToken, email, password string) (*session.Session, error)
	Logout(sessionToken string) error
}

type service struct {
	userService user.Service
	sessions    session.Store
	log         logrus.FieldLogger
}

func NewAuthService(userService user.Service, sessions session.Store, log logrus.FieldLogger) Service {
	return &service{
		userService: userService,
		sessions:    sessions,
		log:         log,
	}
}

func (s *service) Login(ctx context.Context, sessionToken, email, password string) (*session.Session, error) {
	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.log.WithField("email", email).Debug("login failed: no such user")
			return nil, ErrNoSuchUser
		}
		s.log.WithError(err).Error("could not load user for login")
		return nil, ErrInternalError
	}

	ok, err := user.CheckPassword(existingUser.PasswordHash, password)
	if err != nil {
		s.log.WithError(err).WithField("user_id", existingUser.ID).Error("stored password hash is unusable")
		return nil, ErrInternalError
	}
	if !ok {
		s.log.WithField("email", email).Debug("login failed: bad password")
		return nil, ErrBadPassword
	}

	sess, err := s.sessions.BindUser(sessionToken, existingUser.ID)
	if err != nil {
		s.log.WithError(err).Error("could not bind session")
		return nil, ErrInternalError
	}

	s.log.WithField("user_id", existingUser.ID).Info("user logged in")
	return sess, nil
}

func (s *service) Logout(sessionToken string) error {
	if err := s.sessions.ClearUser(sessionToken); err != nil && !errors.Is(err, session.ErrInvalidSessionToken) {
		return err
	}
	return nil
}
