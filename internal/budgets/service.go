package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orcalabs/orcamentos-backend/internal/pricing"
	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	pkgerrors "github.com/orcalabs/orcamentos-backend/pkg/errors"
)

var maxCommissionPercent = decimal.NewFromInt(3)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProductAddons(ctx context.Context, productID uuid.UUID) ([]models.Addon, error)
}

// Actor identifies the authenticated caller for access decisions.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsSuperUser reports whether the actor holds the back-office role.
func (a Actor) IsSuperUser() bool {
	return a.Role == enums.UserRoleSuperUser
}

// Service exposes budget lifecycle operations.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateBudgetInput) (*BudgetDTO, error)
	List(ctx context.Context, actor Actor, query ListQuery) (*BudgetListResult, error)
	Get(ctx context.Context, actor Actor, budgetID uuid.UUID) (*BudgetDTO, error)
	UpdateDetails(ctx context.Context, actor Actor, budgetID uuid.UUID, input BudgetDetailsInput) (*BudgetDTO, error)
	AddItem(ctx context.Context, actor Actor, budgetID, productID uuid.UUID) (*BudgetDTO, error)
	RemoveItem(ctx context.Context, actor Actor, budgetID, itemID uuid.UUID) (*BudgetDTO, error)
	UpdateItemAddons(ctx context.Context, actor Actor, budgetID uuid.UUID, input UpdateItemAddonsInput) (*BudgetDTO, error)
	Approve(ctx context.Context, actor Actor, budgetID uuid.UUID) (*BudgetDTO, error)
	Reject(ctx context.Context, actor Actor, budgetID uuid.UUID, reason string) (*BudgetDTO, error)
	Sell(ctx context.Context, actor Actor, budgetID uuid.UUID) (*BudgetDTO, error)
}

// BudgetDetailsInput carries the customer and commercial fields of a budget.
type BudgetDetailsInput struct {
	CustomerName      string
	CustomerEmail     *string
	CustomerPhone     string
	DiscountPercent   decimal.Decimal
	CommissionPercent decimal.Decimal
	IssueInvoice      bool
}

// CreateBudgetInput is the full creation payload.
type CreateBudgetInput struct {
	Details BudgetDetailsInput
	Items   []BudgetItemInput
}

// BudgetItemInput selects a product with an optional add-on selection.
type BudgetItemInput struct {
	ProductID uuid.UUID
	Addons    []AddonSelectionInput
}

// AddonSelectionInput is one requested add-on line.
type AddonSelectionInput struct {
	AddonID  uuid.UUID
	Quantity int
}

// UpdateItemAddonsInput replaces an item's add-on selection wholesale.
type UpdateItemAddonsInput struct {
	BudgetItemID uuid.UUID
	Addons       []AddonSelectionInput
}

type service struct {
	repo              BudgetRepository
	tx                txRunner
	catalog           catalogReader
	discountThreshold decimal.Decimal
}

// NewService builds a budget service backed by the provided stack.
func NewService(repo BudgetRepository, tx txRunner, catalog catalogReader, discountThreshold decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("budget repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &service{
		repo:              repo,
		tx:                tx,
		catalog:           catalog,
		discountThreshold: discountThreshold,
	}, nil
}

// Create validates the payload, snapshots the selected catalog rows, prices
// the budget, and assigns the initial status through the approval rule.
func (s *service) Create(ctx context.Context, actor Actor, input CreateBudgetInput) (*BudgetDTO, error) {
	if err := validateDetails(input.Details); err != nil {
		return nil, err
	}

	phone, _ := formatPhone(input.Details.CustomerPhone)
	budget := &models.Budget{
		SellerID:          actor.UserID,
		CustomerName:      strings.TrimSpace(input.Details.CustomerName),
		CustomerEmail:     input.Details.CustomerEmail,
		CustomerPhone:     phone,
		DiscountPercent:   input.Details.DiscountPercent,
		CommissionPercent: input.Details.CommissionPercent,
		IssueInvoice:      input.Details.IssueInvoice,
	}

	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for _, itemInput := range input.Items {
		// A product appears at most once per budget; later duplicates are dropped.
		if _, ok := seen[itemInput.ProductID]; ok {
			continue
		}
		seen[itemInput.ProductID] = struct{}{}

		item, err := s.buildItem(ctx, itemInput.ProductID, itemInput.Addons)
		if err != nil {
			return nil, err
		}
		budget.Items = append(budget.Items, *item)
	}

	s.applyApprovalRule(budget)
	budget.Total = budgetTotal(budget)

	created, err := s.repo.Create(ctx, budget)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert budget")
	}

	return s.loadDTO(ctx, created.ID)
}

// List pages through budgets. Sellers only ever see their own.
func (s *service) List(ctx context.Context, actor Actor, query ListQuery) (*BudgetListResult, error) {
	if !actor.IsSuperUser() {
		sellerID := actor.UserID
		query.SellerID = &sellerID
	}

	rows, nextCursor, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list budgets")
	}

	summaries := make([]BudgetSummaryDTO, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, NewBudgetSummaryDTO(&rows[i]))
	}
	return &BudgetListResult{Budgets: summaries, NextCursor: nextCursor}, nil
}

func (s *service) Get(ctx context.Context, actor Actor, budgetID uuid.UUID) (*BudgetDTO, error) {
	budget, err := s.loadBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	return NewBudgetDTO(budget), nil
}

// UpdateDetails replaces the customer and commercial fields, recomputes the
// total, and re-runs the approval rule against the new discount.
func (s *service) UpdateDetails(ctx context.Context, actor Actor, budgetID uuid.UUID, input BudgetDetailsInput) (*BudgetDTO, error) {
	if err := validateDetails(input); err != nil {
		return nil, err
	}

	budget, err := s.loadBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	if err := ensureUnlocked(budget); err != nil {
		return nil, err
	}

	phone, _ := formatPhone(input.CustomerPhone)
	budget.CustomerName = strings.TrimSpace(input.CustomerName)
	budget.CustomerEmail = input.CustomerEmail
	budget.CustomerPhone = phone
	budget.DiscountPercent = input.DiscountPercent
	budget.CommissionPercent = input.CommissionPercent
	budget.IssueInvoice = input.IssueInvoice
	budget.RejectionReason = nil

	s.applyApprovalRule(budget)
	budget.Total = budgetTotal(budget)

	if _, err := s.repo.Update(ctx, budget); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update budget")
	}
	return s.loadDTO(ctx, budget.ID)
}

// AddItem attaches the product with fresh snapshots and an empty add-on
// selection. Adding a product already on the budget is a no-op.
func (s *service) AddItem(ctx context.Context, actor Actor, budgetID, productID uuid.UUID) (*BudgetDTO, error) {
	budget, err := s.loadBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	if err := ensureUnlocked(budget); err != nil {
		return nil, err
	}

	for i := range budget.Items {
		if budget.Items[i].ProductID == productID {
			return NewBudgetDTO(budget), nil
		}
	}

	item, err := s.buildItem(ctx, productID, nil)
	if err != nil {
		return nil, err
	}
	item.BudgetID = budget.ID

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateItem(ctx, item); err != nil {
			return err
		}
		budget.Items = append(budget.Items, *item)
		budget.Total = budgetTotal(budget)
		_, err := txRepo.Update(ctx, budget)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add budget item")
	}

	return s.loadDTO(ctx, budget.ID)
}

// RemoveItem deletes the item. Removing an item that is already gone is
// reported as a conflict so stale clients can refresh.
func (s *service) RemoveItem(ctx context.Context, actor Actor, budgetID, itemID uuid.UUID) (*BudgetDTO, error) {
	budget, err := s.loadBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	if err := ensureUnlocked(budget); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		affected, err := txRepo.DeleteItem(ctx, budget.ID, itemID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "budget item no longer exists")
		}

		kept := budget.Items[:0]
		for _, item := range budget.Items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		budget.Items = kept
		budget.Total = budgetTotal(budget)
		_, err = txRepo.Update(ctx, budget)
		return err
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove budget item")
	}

	return s.loadDTO(ctx, budget.ID)
}

// UpdateItemAddons replaces the item's add-on selection wholesale and reprices
// the item and the budget. Snapshots are taken from the catalog now; rows that
// survive keep the prices they were stored with.
func (s *service) UpdateItemAddons(ctx context.Context, actor Actor, budgetID uuid.UUID, input UpdateItemAddonsInput) (*BudgetDTO, error) {
	budget, err := s.loadBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	if err := ensureUnlocked(budget); err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, budget.ID, input.BudgetItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "budget item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load budget item")
	}

	selection, err := s.buildSelection(ctx, item.ProductID, item.Addons, input.Addons)
	if err != nil {
		return nil, err
	}

	itemTotal := pricing.ItemTotal(item.ProductPriceSnapshot, addonLines(selection))

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ReplaceItemAddons(ctx, item.ID, selection); err != nil {
			return err
		}
		if err := txRepo.UpdateItemTotal(ctx, item.ID, itemTotal); err != nil {
			return err
		}
		for i := range budget.Items {
			if budget.Items[i].ID == item.ID {
				budget.Items[i].TotalPrice = itemTotal
			}
		}
		budget.Total = budgetTotal(budget)
		_, err := txRepo.Update(ctx, budget)
		return err
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item addons")
	}

	return s.loadDTO(ctx, budget.ID)
}

// Approve moves a pending budget to APPROVED.
func (s *service) Approve(ctx context.Context, actor Actor, budgetID uuid.UUID) (*BudgetDTO, error) {
	if !actor.IsSuperUser() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "approval requires the super user role")
	}

	budget, err := s.loadBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.Status != enums.BudgetStatusPendingApproval {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "budget is not pending approval")
	}

	now := time.Now().UTC()
	budget.Status = enums.BudgetStatusApproved
	budget.ApprovedAt = &now
	budget.RejectionReason = nil

	if _, err := s.repo.Update(ctx, budget); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: approve budget")
	}
	return s.loadDTO(ctx, budget.ID)
}

// Reject moves a pending budget to REJECTED with a mandatory reason.
func (s *service) Reject(ctx context.Context, actor Actor, budgetID uuid.UUID, reason string) (*BudgetDTO, error) {
	if !actor.IsSuperUser() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "rejection requires the super user role")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}

	budget, err := s.loadBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.Status != enums.BudgetStatusPendingApproval {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "budget is not pending approval")
	}

	budget.Status = enums.BudgetStatusRejected
	budget.RejectionReason = &reason

	if _, err := s.repo.Update(ctx, budget); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reject budget")
	}
	return s.loadDTO(ctx, budget.ID)
}

// Sell closes an approved budget. Sold budgets become read-only.
func (s *service) Sell(ctx context.Context, actor Actor, budgetID uuid.UUID) (*BudgetDTO, error) {
	budget, err := s.loadBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.Status == enums.BudgetStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeBudgetLocked, "budget is already sold")
	}
	if budget.Status != enums.BudgetStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only approved budgets can be sold")
	}

	now := time.Now().UTC()
	budget.Status = enums.BudgetStatusSold
	budget.SoldAt = &now

	if _, err := s.repo.Update(ctx, budget); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sell budget")
	}
	return s.loadDTO(ctx, budget.ID)
}

// loadBudget fetches the budget and enforces ownership.
func (s *service) loadBudget(ctx context.Context, actor Actor, budgetID uuid.UUID) (*models.Budget, error) {
	budget, err := s.repo.FindByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "budget not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load budget")
	}
	if !actor.IsSuperUser() && budget.SellerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "budget belongs to another seller")
	}
	return budget, nil
}

func (s *service) loadDTO(ctx context.Context, budgetID uuid.UUID) (*BudgetDTO, error) {
	budget, err := s.repo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload budget")
	}
	return NewBudgetDTO(budget), nil
}

// buildItem snapshots the product and its requested add-on selection.
func (s *service) buildItem(ctx context.Context, productID uuid.UUID, addons []AddonSelectionInput) (*models.BudgetItem, error) {
	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog: load product")
	}
	if !product.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is disabled")
	}

	item := &models.BudgetItem{
		ProductID:            product.ID,
		ProductNameSnapshot:  product.Name,
		ProductPriceSnapshot: product.Price,
	}

	selection, err := s.buildSelection(ctx, product.ID, nil, addons)
	if err != nil {
		return nil, err
	}
	item.Addons = selection
	item.TotalPrice = pricing.ItemTotal(item.ProductPriceSnapshot, addonLines(selection))
	return item, nil
}

// buildSelection folds the requested add-on lines over the current selection.
// Existing rows keep their stored snapshots; new rows snapshot the catalog.
func (s *service) buildSelection(ctx context.Context, productID uuid.UUID, current []models.BudgetItemAddon, requested []AddonSelectionInput) ([]models.BudgetItemAddon, error) {
	if len(requested) == 0 {
		return []models.BudgetItemAddon{}, nil
	}

	available, err := s.catalog.ListProductAddons(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog: list product addons")
	}
	byID := make(map[uuid.UUID]models.Addon, len(available))
	for _, addon := range available {
		byID[addon.ID] = addon
	}

	// Start from the current selection stripped down to requested ids so a
	// wholesale replace drops everything the client no longer sends.
	selection := make([]models.BudgetItemAddon, 0, len(requested))
	wanted := make(map[uuid.UUID]struct{}, len(requested))
	for _, line := range requested {
		wanted[line.AddonID] = struct{}{}
	}
	for _, row := range current {
		if _, ok := wanted[row.AddonID]; ok {
			selection = append(selection, models.BudgetItemAddon{
				AddonID:            row.AddonID,
				AddonNameSnapshot:  row.AddonNameSnapshot,
				AddonPriceSnapshot: row.AddonPriceSnapshot,
				Quantity:           row.Quantity,
			})
		}
	}

	known := make(map[uuid.UUID]struct{}, len(selection))
	for _, row := range selection {
		known[row.AddonID] = struct{}{}
	}

	for _, line := range requested {
		if _, ok := known[line.AddonID]; ok {
			// Existing row: only the quantity changes.
			dummy := models.Addon{ID: line.AddonID}
			selection = SetQuantity(selection, dummy, line.Quantity)
			if line.Quantity <= 0 {
				delete(known, line.AddonID)
			}
			continue
		}
		if line.Quantity <= 0 {
			continue
		}
		addon, ok := byID[line.AddonID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "addon is not available for this product")
		}
		selection = SetQuantity(selection, addon, line.Quantity)
		known[line.AddonID] = struct{}{}
	}

	return selection, nil
}

// applyApprovalRule assigns the status driven by the discount threshold.
func (s *service) applyApprovalRule(budget *models.Budget) {
	if budget.DiscountPercent.GreaterThan(s.discountThreshold) {
		budget.RequiresApproval = true
		budget.Status = enums.BudgetStatusPendingApproval
		budget.ApprovedAt = nil
		return
	}
	budget.RequiresApproval = false
	budget.Status = enums.BudgetStatusApproved
}

// ensureUnlocked rejects every mutation on a sold budget.
func ensureUnlocked(budget *models.Budget) error {
	if !budget.Status.Editable() {
		return pkgerrors.New(pkgerrors.CodeBudgetLocked, "budget is sold and read-only")
	}
	return nil
}

func addonLines(rows []models.BudgetItemAddon) []pricing.AddonLine {
	lines := make([]pricing.AddonLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, pricing.AddonLine{Price: row.AddonPriceSnapshot, Quantity: row.Quantity})
	}
	return lines
}

func budgetTotal(budget *models.Budget) decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(budget.Items))
	for _, item := range budget.Items {
		totals = append(totals, item.TotalPrice)
	}
	return pricing.Total(pricing.Subtotal(totals), budget.DiscountPercent)
}

func validateDetails(input BudgetDetailsInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if _, ok := formatPhone(input.CustomerPhone); !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone must have 10 or 11 digits")
	}
	if !pricing.ValidDiscount(input.DiscountPercent) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	if input.CommissionPercent.IsNegative() || input.CommissionPercent.GreaterThan(maxCommissionPercent) {
		return pkgerrors.New(pkgerrors.CodeValidation, "commission percent must be between 0 and 3")
	}
	return nil
}
