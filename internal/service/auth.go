package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emrgen/cms/internal/model"
	"github.com/emrgen/cms/internal/store"
	"github.com/emrgen/cms/internal/token"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterParams struct {
	Email            string
	Password         string
	Name             string
	OrganizationName string
}

// Session is the result of a successful register or login.
type Session struct {
	Token        string
	ExpiresAt    time.Time
	User         *model.User
	Organization *model.Organization
}

// NewAuthService creates a new AuthService.
func NewAuthService(store store.Store, tokens *token.Manager) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
	}
}

// AuthService registers organizations with their owner and issues access tokens.
type AuthService struct {
	store  store.Store
	tokens *token.Manager
	cost   int
}

// Register creates an organization and its owner user in one transaction.
func (a *AuthService) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	email := normalizeEmail(params.Email)
	if strings.Count(email, "@") != 1 || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return nil, invalid("email", "is not a valid address")
	}
	if len(params.Password) < minPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	orgName := strings.TrimSpace(params.OrganizationName)
	if orgName == "" {
		return nil, invalid("organizationName", "is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), a.cost)
	if err != nil {
		return nil, err
	}

	org := &model.Organization{
		ID:   uuid.New().String(),
		Name: orgName,
	}
	user := &model.User{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Email:          email,
		Name:           strings.TrimSpace(params.Name),
		PasswordHash:   string(hash),
		Role:           model.UserRoleOwner,
	}

	err = a.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetUserByEmail(ctx, email); err == nil {
			return fmt.Errorf("%w: email %s is already registered", ErrConflict, email)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		slug, err := uniqueSlug(ctx, Slugify(orgName), func(ctx context.Context, slug string) (bool, error) {
			return tx.OrganizationSlugExists(ctx, slug)
		})
		if err != nil {
			return err
		}
		org.Slug = slug

		if err := tx.CreateOrganization(ctx, org); err != nil {
			return err
		}
		return tx.CreateUser(ctx, user)
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, email)
	}
	if err != nil {
		return nil, err
	}

	logrus.Infof("organization registered: %s (%s)", org.Slug, org.ID)
	return a.session(user, org)
}

// Login verifies the password and issues a token. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (a *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := a.store.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}

	org, err := a.store.GetOrganization(ctx, user.OrganizationID)
	if err != nil {
		return nil, err
	}

	return a.session(user, org)
}

// Me returns the caller identified by validated token claims.
func (a *AuthService) Me(ctx context.Context, userID, organizationID string) (*model.User, *model.Organization, error) {
	user, err := a.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrUnauthorized
	}
	if err != nil {
		return nil, nil, err
	}
	if user.OrganizationID != organizationID {
		return nil, nil, ErrForbidden
	}

	org, err := a.store.GetOrganization(ctx, organizationID)
	if err != nil {
		return nil, nil, err
	}

	return user, org, nil
}

func (a *AuthService) session(user *model.User, org *model.Organization) (*Session, error) {
	signed, expiresAt, err := a.tokens.Generate(user.ID, org.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:        signed,
		ExpiresAt:    expiresAt,
		User:         user,
		Organization: org,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
