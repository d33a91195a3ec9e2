package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/config"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/policy"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Role     *string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int64            `json:"expires_in"`
	Account     *model.Account   `json:"account"`
	Welcome     *policy.Decision `json:"welcome,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
}

type authService struct {
	repo          repository.AccountRepository
	rewardService RewardService
	secret        string
	tokenTTL      time.Duration
	defaultRole   string
}

func NewAuthService(repo repository.AccountRepository, rewardService RewardService, cfg *config.Config) AuthService {
	return &authService{
		repo:          repo,
		rewardService: rewardService,
		secret:        cfg.JWTSecret,
		tokenTTL:      cfg.JWTTokenTTL,
		defaultRole:   cfg.DefaultRole,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if err := s.ensureAccountUnique(ctx, input.Email, input.Username); err != nil {
		return nil, err
	}

	roleName := s.defaultRole
	if input.Role != nil && *input.Role != "" {
		roleName = *input.Role
	}

	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", roleName)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &role.ID,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	// Welcome bonus: one-shot per account, exempt from the global daily
	// cap. Failure to grant must not fail registration.
	var welcome *policy.Decision
	decision, err := s.rewardService.EvaluateAction(ctx, account.ID, model.ActionWelcome, uuid.Nil, policy.ActionContent{}, time.Time{})
	if err != nil {
		log.Printf("Welcome bonus failed for user %s: %v", account.ID, err)
	} else {
		welcome = &decision
		account.PendingReward = decision.PendingTotal
	}

	token, expiresIn, err := s.issueToken(account.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Account:     account,
		Welcome:     welcome,
	}, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	account, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	token, expiresIn, err := s.issueToken(account.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Account:     account,
	}, nil
}

func (s *authService) ensureAccountUnique(ctx context.Context, email, username string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return apperror.New(400, "email already registered", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return apperror.New(400, "username already taken", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}

func (s *authService) issueToken(accountID uuid.UUID) (string, int64, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, int64(s.tokenTTL.Seconds()), nil
}
