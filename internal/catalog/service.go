package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	budget "github.com/orcalabs/orcamentos-backend/internal/budgets"
	"github.com/orcalabs/orcamentos-backend/pkg/db"
	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
	pkgerrors "github.com/orcalabs/orcamentos-backend/pkg/errors"
)

// Service exposes catalog management operations for products and add-ons.
type Service interface {
	ListProducts(ctx context.Context, query string) ([]ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*ProductDTO, error)
	ListProductAddons(ctx context.Context, productID uuid.UUID, query string) ([]AddonDTO, error)

	ListAddons(ctx context.Context, query string) ([]AddonDTO, error)
	GetAddon(ctx context.Context, addonID uuid.UUID) (*AddonDTO, error)
	CreateAddon(ctx context.Context, input AddonInput) (*AddonDTO, error)
	UpdateAddon(ctx context.Context, addonID uuid.UUID, input AddonInput) (*AddonDTO, error)
}

// ProductInput holds the validated payload to create or update a product.
type ProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Enabled     *bool
	AddonIDs    []uuid.UUID
}

// AddonInput holds the validated payload to create or update an add-on.
type AddonInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Enabled     *bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) ListProducts(ctx context.Context, query string) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewProductDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	addons, err := s.resolveAddons(ctx, input.AddonIDs)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Enabled:     true,
	}
	if input.Enabled != nil {
		product.Enabled = *input.Enabled
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		if len(addons) > 0 {
			if err := txRepo.ReplaceProductAddons(ctx, product.ID, addons); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link product addons")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	addons, err := s.resolveAddons(ctx, input.AddonIDs)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	if input.Enabled != nil {
		product.Enabled = *input.Enabled
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if err := txRepo.ReplaceProductAddons(ctx, product.ID, addons); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link product addons")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *service) ListProductAddons(ctx context.Context, productID uuid.UUID, query string) ([]AddonDTO, error) {
	if _, err := s.repo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	rows, err := s.repo.ListProductAddons(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product addons")
	}
	rows = budget.SearchAddons(rows, query)
	dtos := make([]AddonDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewAddonDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) ListAddons(ctx context.Context, query string) ([]AddonDTO, error) {
	rows, err := s.repo.ListAddons(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list addons")
	}
	dtos := make([]AddonDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewAddonDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetAddon(ctx context.Context, addonID uuid.UUID) (*AddonDTO, error) {
	addon, err := s.repo.FindAddonByID(ctx, addonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load addon")
	}
	return NewAddonDTO(addon), nil
}

func (s *service) CreateAddon(ctx context.Context, input AddonInput) (*AddonDTO, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	addon := &models.Addon{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Enabled:     true,
	}
	if input.Enabled != nil {
		addon.Enabled = *input.Enabled
	}

	if _, err := s.repo.CreateAddon(ctx, addon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert addon")
	}
	return NewAddonDTO(addon), nil
}

func (s *service) UpdateAddon(ctx context.Context, addonID uuid.UUID, input AddonInput) (*AddonDTO, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	addon, err := s.repo.FindAddonByID(ctx, addonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load addon")
	}

	addon.Name = strings.TrimSpace(input.Name)
	addon.Description = input.Description
	addon.Price = input.Price
	if input.Enabled != nil {
		addon.Enabled = *input.Enabled
	}

	if _, err := s.repo.UpdateAddon(ctx, addon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update addon")
	}
	return NewAddonDTO(addon), nil
}

// resolveAddons loads and validates the requested add-on link set.
func (s *service) resolveAddons(ctx context.Context, addonIDs []uuid.UUID) ([]models.Addon, error) {
	if len(addonIDs) == 0 {
		return []models.Addon{}, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(addonIDs))
	unique := make([]uuid.UUID, 0, len(addonIDs))
	for _, id := range addonIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	addons, err := s.repo.ListAddonsByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load addons")
	}
	if len(addons) != len(unique) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more addon ids do not exist")
	}
	return addons, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return nil
}
