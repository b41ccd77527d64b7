package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orcalabs/orcamentos-backend/pkg/config"
	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	pkgerrors "github.com/orcalabs/orcamentos-backend/pkg/errors"
	"github.com/orcalabs/orcamentos-backend/pkg/security"
)

// Service exposes seller administration plus self-service password changes.
type Service interface {
	RegisterSeller(ctx context.Context, input RegisterSellerInput) (*RegisteredSeller, error)
	ListSellers(ctx context.Context) ([]UserDTO, error)
	UpdateSeller(ctx context.Context, sellerID uuid.UUID, input UpdateSellerInput) (*UserDTO, error)
	SetEnabled(ctx context.Context, sellerID uuid.UUID, enabled bool) (*UserDTO, error)
	ResetPassword(ctx context.Context, sellerID uuid.UUID) (*RegisteredSeller, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// RegisterSellerInput holds the payload to provision a seller account.
type RegisterSellerInput struct {
	Name  string
	Email string
	Phone string
}

// UpdateSellerInput holds the mutable profile fields.
type UpdateSellerInput struct {
	Name  string
	Email string
	Phone string
}

// RegisteredSeller pairs the stored user with the one-time temporary password.
// The plaintext only exists in this response.
type RegisteredSeller struct {
	User         *UserDTO `json:"user"`
	TempPassword string   `json:"tempPassword"`
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// NewService constructs the user administration service.
func NewService(repo userRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// RegisterSeller provisions a seller with a generated temporary password that
// must be changed on first login.
func (s *service) RegisterSeller(ctx context.Context, input RegisterSellerInput) (*RegisteredSeller, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup email")
	}

	tempPassword, err := security.GenerateTempPassword()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(s.passwordCfg, tempPassword)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temp password")
	}

	user := &models.User{
		Name:               name,
		Email:              email,
		Phone:              strings.TrimSpace(input.Phone),
		PasswordHash:       hash,
		Role:               enums.UserRoleSeller,
		Enabled:            true,
		MustChangePassword: true,
	}
	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert seller")
	}

	return &RegisteredSeller{User: FromModel(user), TempPassword: tempPassword}, nil
}

func (s *service) ListSellers(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.ListByRole(ctx, enums.UserRoleSeller)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sellers")
	}
	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) UpdateSeller(ctx context.Context, sellerID uuid.UUID, input UpdateSellerInput) (*UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	seller, err := s.loadSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(seller.Email, email) {
		if _, err := s.repo.FindByEmail(ctx, email); err == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup email")
		}
	}

	seller.Name = name
	seller.Email = email
	seller.Phone = strings.TrimSpace(input.Phone)

	if _, err := s.repo.Update(ctx, seller); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update seller")
	}
	return FromModel(seller), nil
}

func (s *service) SetEnabled(ctx context.Context, sellerID uuid.UUID, enabled bool) (*UserDTO, error) {
	seller, err := s.loadSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	seller.Enabled = enabled
	if _, err := s.repo.Update(ctx, seller); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update seller")
	}
	return FromModel(seller), nil
}

// ResetPassword regenerates the seller's temporary password.
func (s *service) ResetPassword(ctx context.Context, sellerID uuid.UUID) (*RegisteredSeller, error) {
	seller, err := s.loadSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	tempPassword, err := security.GenerateTempPassword()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(s.passwordCfg, tempPassword)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temp password")
	}

	seller.PasswordHash = hash
	seller.MustChangePassword = true
	if _, err := s.repo.Update(ctx, seller); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update seller")
	}

	return &RegisteredSeller{User: FromModel(seller), TempPassword: tempPassword}, nil
}

// UpdatePassword lets an authenticated user rotate their own password.
func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password is required")
	}
	if len(newPassword) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must be at least 8 characters")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}

	ok, err := security.VerifyPassword(user.PasswordHash, currentPassword)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(s.passwordCfg, newPassword)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user.PasswordHash = hash
	user.MustChangePassword = false
	if _, err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
	}
	return nil
}

func (s *service) loadSeller(ctx context.Context, sellerID uuid.UUID) (*models.User, error) {
	seller, err := s.repo.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load seller")
	}
	if seller.Role != enums.UserRoleSeller {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user is not a seller")
	}
	return seller, nil
}
