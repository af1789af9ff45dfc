package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	identityDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/identity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RepositoryAPI persists identity accounts.
type RepositoryAPI interface {
	Create(ctx context.Context, account *identityDatamodel.Account) error
	GetByID(ctx context.Context, id string) (*identityDatamodel.Account, error)
	GetByEmail(ctx context.Context, email string) (*identityDatamodel.Account, error)
	UpdateClaims(ctx context.Context, id string, claims *string) error
	Delete(ctx context.Context, id string) error
}

type LocalProvider struct {
	repo       RepositoryAPI
	tokens     *JWTTokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewLocalProvider(repo RepositoryAPI, tokens *JWTTokenGenerator, bcryptCost int, logger *slog.Logger) *LocalProvider {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &LocalProvider{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	existing, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup identity by email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &identityDatamodel.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := p.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create identity account: %w", err)
	}

	p.logger.InfoContext(ctx, "identity account created", "identity_id", account.ID)
	return toAccount(account), nil
}

func (p *LocalProvider) DeleteAccount(ctx context.Context, identityID string) error {
	if err := p.repo.Delete(ctx, identityID); err != nil {
		return fmt.Errorf("delete identity account: %w", err)
	}
	p.logger.InfoContext(ctx, "identity account deleted", "identity_id", identityID)
	return nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Token, error) {
	account, err := p.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("lookup identity by email: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if account.Disabled {
		return nil, ErrAccountDisabled
	}

	custom, err := decodeClaims(account.CustomClaims)
	if err != nil {
		return nil, err
	}

	return p.tokens.Generate(account.ID, account.Email, custom)
}

func (p *LocalProvider) VerifyIDToken(ctx context.Context, idToken string) (*Claims, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrMalformedToken
	}

	claims, err := p.tokens.Validate(idToken)
	if err != nil {
		return nil, err
	}

	account, err := p.repo.GetByID(ctx, claims.UID())
	if err != nil {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	if account == nil || account.Disabled {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (p *LocalProvider) SetCustomClaims(ctx context.Context, identityID string, claims map[string]any) error {
	account, err := p.repo.GetByID(ctx, identityID)
	if err != nil {
		return fmt.Errorf("lookup identity: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}

	raw, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("encode custom claims: %w", err)
	}
	encoded := string(raw)
	return p.repo.UpdateClaims(ctx, identityID, &encoded)
}

func decodeClaims(raw *string) (map[string]any, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var claims map[string]any
	if err := json.Unmarshal([]byte(*raw), &claims); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return claims, nil
}

func toAccount(a *identityDatamodel.Account) *Account {
	return &Account{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Disabled:    a.Disabled,
		CreatedAt:   a.CreatedAt,
	}
}
