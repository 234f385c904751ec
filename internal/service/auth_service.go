package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/auth"
	"github.com/AbhignaKuchukulla/Issueflow/internal/config"
	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/repository"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// AuthService coordinates signup and login flows.
type AuthService struct {
	base
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps Dependencies) *AuthService {
	return &AuthService{
		base:       newBase(deps),
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Signup creates an account and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (domain.User, domain.Token, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var v violations
	v.check("name", name, ruleUserName)
	v.check("email", email, ruleEmail)
	v.check("password", password, rulePassword)
	if len(v) > 0 {
		return domain.User{}, domain.Token{}, apperrors.NewValidationError(v...)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return domain.User{}, domain.Token{}, apperrors.NewInternalError(err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	err = s.update(ctx, func(doc *persistence.Document, _ *outbox) error {
		users := repository.Users(doc)
		if _, exists := users.GetByEmail(email); exists {
			return apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		user.CreatedAt = s.now()
		users.Insert(user)
		return nil
	})
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return domain.User{}, domain.Token{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("user signed up", zap.String("user_id", user.ID))
	return user, token, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.Token, error) {
	var user domain.User
	var found bool
	_ = s.read(ctx, func(doc *persistence.Document) error {
		user, found = repository.Users(doc).GetByEmail(strings.TrimSpace(email))
		return nil
	})
	if !found {
		return domain.User{}, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("password comparison failed", zap.String("user_id", user.ID), zap.Error(err))
		}
		return domain.User{}, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return domain.User{}, domain.Token{}, apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// UserByID resolves a token subject.
func (s *AuthService) UserByID(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := s.read(ctx, func(doc *persistence.Document) error {
		u, ok := repository.Users(doc).GetByID(id)
		if !ok {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		user = u
		return nil
	})
	return user, err
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
