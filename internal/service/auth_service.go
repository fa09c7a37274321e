package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
	"github.com/ksobremonte/sentiment-slice/internal/repository"
	pkgcache "github.com/ksobremonte/sentiment-slice/pkg/cache"
	pkgjwt "github.com/ksobremonte/sentiment-slice/pkg/jwt"
	pkglogger "github.com/ksobremonte/sentiment-slice/pkg/logger"
)

// SignUpRequest is the operator registration payload
type SignUpRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Name         string `json:"name"`
	CaptchaToken string `json:"captcha_token"`
}

// SignInRequest is the operator login payload
type SignInRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	CaptchaToken string `json:"captcha_token"`
}

// LoginResponse login response
type LoginResponse struct {
	User         *domain.OperatorResponse `json:"user"`
	AccessToken  string                   `json:"access_token"`
	RefreshToken string                   `json:"refresh_token"`
}

// TokenPair token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// sessionRecord is what lands in Redis per signed-in operator
type sessionRecord struct {
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issued_at"`
}

// AuthService authentication business logic for dashboard operators
type AuthService interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*LoginResponse, error)
	SignIn(ctx context.Context, email, password string) (*LoginResponse, error)
	SignOut(ctx context.Context, userID string) error
	Refresh(refreshToken string) (*TokenPair, error)
	ResetPassword(ctx context.Context, email string) error
	ConfirmResetPassword(ctx context.Context, token, newPassword string) error
	GetOperator(id string) (*domain.Operator, error)
}

type authService struct {
	operatorRepo repository.OperatorRepository
	jwtManager   *pkgjwt.Manager
	cache        pkgcache.Service
}

// NewAuthService creates a new AuthService
func NewAuthService(operatorRepo repository.OperatorRepository, jwtManager *pkgjwt.Manager, cache pkgcache.Service) AuthService {
	return &authService{
		operatorRepo: operatorRepo,
		jwtManager:   jwtManager,
		cache:        cache,
	}
}

// SignUp creates an operator account and signs it in
func (s *authService) SignUp(ctx context.Context, req *SignUpRequest) (*LoginResponse, error) {
	exists, err := s.operatorRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	operator := &domain.Operator{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashed),
	}
	if err := s.operatorRepo.Create(operator); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, operator)
}

// SignIn authenticates an operator and returns tokens
func (s *authService) SignIn(ctx context.Context, email, password string) (*LoginResponse, error) {
	operator, err := s.operatorRepo.FindByEmail(email)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	go s.operatorRepo.UpdateLoginTime(operator.ID) //nolint:errcheck // best-effort login timestamp

	return s.issueSession(ctx, operator)
}

func (s *authService) issueSession(ctx context.Context, operator *domain.Operator) (*LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(operator.ID, operator.Email, operator.Name)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(operator.ID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetSession(ctx, operator.ID, sessionRecord{
			Email:    operator.Email,
			IssuedAt: time.Now(),
		})
	}

	return &LoginResponse{
		User:         operator.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// SignOut drops the operator's session record
func (s *authService) SignOut(ctx context.Context, userID string) error {
	if s.cache != nil {
		return s.cache.DeleteSession(ctx, userID)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	operator, err := s.operatorRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	access, err := s.jwtManager.GenerateAccessToken(operator.ID, operator.Email, operator.Name)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(operator.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ResetPassword mints a short-lived reset token. The response is identical
// whether or not the account exists, so addresses can't be probed. Token
// delivery (email) is outside this service.
func (s *authService) ResetPassword(ctx context.Context, email string) error {
	operator, err := s.operatorRepo.FindByEmail(email)
	if err != nil {
		return nil
	}

	token := uuid.NewString()
	if s.cache != nil {
		if err := s.cache.SetResetToken(ctx, token, operator.Email); err != nil {
			return err
		}
	}

	pkglogger.GetLogger().Info().
		Str("operator_id", operator.ID).
		Msg("password reset token issued")
	return nil
}

// ConfirmResetPassword applies a new password against a previously issued
// reset token
func (s *authService) ConfirmResetPassword(ctx context.Context, token, newPassword string) error {
	if s.cache == nil {
		return common.ErrInvalidToken
	}
	email, err := s.cache.GetResetToken(ctx, token)
	if err != nil {
		return common.ErrInvalidToken
	}

	operator, err := s.operatorRepo.FindByEmail(email)
	if err != nil {
		return common.ErrUserNotFound
	}

	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.operatorRepo.UpdatePassword(operator.ID, string(hashed)); err != nil {
		return err
	}

	return s.cache.Delete(ctx, pkgcache.PrefixReset+token)
}

// GetOperator loads an operator by id for the session endpoint
func (s *authService) GetOperator(id string) (*domain.Operator, error) {
	return s.operatorRepo.FindByID(id)
}
