package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eventhorizon/marketplace/internal/auth"
	"github.com/eventhorizon/marketplace/internal/config"
	"github.com/eventhorizon/marketplace/internal/domain"
	"github.com/eventhorizon/marketplace/internal/events"
	"github.com/eventhorizon/marketplace/internal/repository"
)

// Authentication failure kinds. Handlers may present both credential
// failures identically to avoid account enumeration; the distinction
// exists for logging.
var (
	ErrUserNotFound       = errors.New("no account with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// AccountService coordinates signup, login, balance, and password reset.
type AccountService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AccountDependencies encapsulates repo requirements for the service.
type AccountDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Signup creates an account with a zero balance.
func (s *AccountService) Signup(ctx context.Context, email, password, name string) (*domain.UserAccount, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.UserAccount{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Balance:      0,
	}
	if err := s.users.Create(ctx, account); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventAccountCreated, account.ID, events.AccountCreatedPayload{
		Email: account.Email,
		Name:  account.Name,
	})
	return account, nil
}

// Login authenticates a buyer and issues a session token carrying the
// identity and a balance snapshot.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.UserAccount, string, time.Time, error) {
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, ErrUserNotFound
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// Balance reads the live balance for a signed-in email.
func (s *AccountService) Balance(ctx context.Context, email string) (float64, error) {
	balance, err := s.users.BalanceByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// RequestPasswordReset persists a single-use reset token for the email.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	token := &repository.PasswordResetToken{
		UserID:    account.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return errors.New("token expired or used")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	account, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	if err := s.users.Update(ctx, account); err != nil {
		return err
	}

	return s.resets.MarkUsed(ctx, token.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, ownerID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
