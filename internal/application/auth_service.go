package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moneta-app/moneta-server/internal/domain/entity"
	"github.com/moneta-app/moneta-server/internal/domain/repository"
	"github.com/moneta-app/moneta-server/pkg/helpers"
)

// AuthService owns signup, login and profile lookups. Tokens are stateless;
// the service never records sessions anywhere.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger}
}

// Session is a freshly issued token together with the user it identifies.
type Session struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash, Name: name}
	if err := s.Repo.Create(ctx, u); err != nil {
		if !errors.Is(err, repository.ErrEmailTaken) && s.Logger != nil {
			s.Logger.WithError(err).Error("create user failed")
		}
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, userID)
}

func (s *AuthService) issue(u *entity.User) (*Session, error) {
	token, exp, err := s.JWT.Issue(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		}
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}
