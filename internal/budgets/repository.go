package budget

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
	"github.com/orcalabs/orcamentos-backend/pkg/pagination"
)

// Repository implements BudgetRepository on top of GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) BudgetRepository {
	return &Repository{db: tx}
}

// Create inserts the budget together with its nested items and add-on rows.
func (r *Repository) Create(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	if err := r.db.WithContext(ctx).Create(budget).Error; err != nil {
		return nil, err
	}
	return budget, nil
}

// FindByID loads the budget with items and their add-on selections.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Addons", func(db *gorm.DB) *gorm.DB {
			return db.Order("addon_name_snapshot ASC")
		}).
		First(&budget, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// List returns one page of budgets plus the cursor for the next page.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Budget, string, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Budget{})
	if query.SellerID != nil {
		qb = qb.Where("seller_id = ?", *query.SellerID)
	}
	if query.Status != nil {
		qb = qb.Where("status = ?", *query.Status)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		qb = qb.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Budget
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// Update saves the budget's scalar columns, leaving items untouched.
func (r *Repository) Update(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(budget).Error; err != nil {
		return nil, err
	}
	return budget, nil
}

// CreateItem inserts a budget item with its nested add-on rows.
func (r *Repository) CreateItem(ctx context.Context, item *models.BudgetItem) (*models.BudgetItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindItem loads one item of the budget with its add-on selections.
func (r *Repository) FindItem(ctx context.Context, budgetID, itemID uuid.UUID) (*models.BudgetItem, error) {
	var item models.BudgetItem
	err := r.db.WithContext(ctx).
		Preload("Addons").
		First(&item, "id = ? AND budget_id = ?", itemID, budgetID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes the item and reports how many rows were affected so the
// caller can detect a stale delete.
func (r *Repository) DeleteItem(ctx context.Context, budgetID, itemID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND budget_id = ?", itemID, budgetID).
		Delete(&models.BudgetItem{})
	return res.RowsAffected, res.Error
}

// ReplaceItemAddons swaps the item's add-on selection wholesale.
func (r *Repository) ReplaceItemAddons(ctx context.Context, itemID uuid.UUID, rows []models.BudgetItemAddon) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("budget_item_id = ?", itemID).Delete(&models.BudgetItemAddon{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].BudgetItemID = itemID
	}
	return tx.Create(&rows).Error
}

// UpdateItemTotal persists a recomputed item total.
func (r *Repository) UpdateItemTotal(ctx context.Context, itemID uuid.UUID, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.BudgetItem{}).
		Where("id = ?", itemID).
		Update("total_price", total).
		Error
}
