package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kasira/kasira/internal/shared/apperr"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	AccessToken string     `json:"accessToken"`
	User        PublicUser `json:"user"`
}

// Login validates credentials, stamps the login time and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return LoginResult{}, apperr.Unauthorized("Email atau kata sandi salah.")
		}
		return LoginResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, apperr.Unauthorized("Email atau kata sandi salah.")
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{AccessToken: token, User: user.Public()}, nil
}

// Me resolves the caller's account from their identity.
func (s *Service) Me(ctx context.Context, userID string) (PublicUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}
