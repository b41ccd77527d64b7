package budget

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	"github.com/orcalabs/orcamentos-backend/pkg/pagination"
)

// BudgetRepository defines the persistence surface required by the budget service.
type BudgetRepository interface {
	WithTx(tx *gorm.DB) BudgetRepository
	Create(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	List(ctx context.Context, query ListQuery) ([]models.Budget, string, error)
	Update(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	CreateItem(ctx context.Context, item *models.BudgetItem) (*models.BudgetItem, error)
	FindItem(ctx context.Context, budgetID, itemID uuid.UUID) (*models.BudgetItem, error)
	DeleteItem(ctx context.Context, budgetID, itemID uuid.UUID) (int64, error)
	ReplaceItemAddons(ctx context.Context, itemID uuid.UUID, rows []models.BudgetItemAddon) error
	UpdateItemTotal(ctx context.Context, itemID uuid.UUID, total decimal.Decimal) error
}

// ListQuery carries the filters for cursor-paginated budget listings.
type ListQuery struct {
	Pagination pagination.Params
	SellerID   *uuid.UUID
	Status     *enums.BudgetStatus
	Search     string
}
