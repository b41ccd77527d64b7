package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/orcalabs/orcamentos-backend/internal/auth"
	budgetsvc "github.com/orcalabs/orcamentos-backend/internal/budgets"
	"github.com/orcalabs/orcamentos-backend/internal/catalog"
	"github.com/orcalabs/orcamentos-backend/internal/users"
	pkgAuth "github.com/orcalabs/orcamentos-backend/pkg/auth"
	"github.com/orcalabs/orcamentos-backend/pkg/auth/session"
	"github.com/orcalabs/orcamentos-backend/pkg/config"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	"github.com/orcalabs/orcamentos-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Refresh(context.Context, authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return &authsvc.RefreshResponse{}, nil
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubUserService struct{}

func (stubUserService) RegisterSeller(context.Context, users.RegisterSellerInput) (*users.RegisteredSeller, error) {
	return &users.RegisteredSeller{User: &users.UserDTO{}}, nil
}

func (stubUserService) ListSellers(context.Context) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (stubUserService) UpdateSeller(context.Context, uuid.UUID, users.UpdateSellerInput) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUserService) SetEnabled(context.Context, uuid.UUID, bool) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUserService) ResetPassword(context.Context, uuid.UUID) (*users.RegisteredSeller, error) {
	return &users.RegisteredSeller{User: &users.UserDTO{}}, nil
}

func (stubUserService) UpdatePassword(context.Context, uuid.UUID, string, string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(context.Context, string) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (stubCatalogService) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) CreateProduct(context.Context, catalog.ProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.ProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) ListProductAddons(context.Context, uuid.UUID, string) ([]catalog.AddonDTO, error) {
	return []catalog.AddonDTO{}, nil
}

func (stubCatalogService) ListAddons(context.Context, string) ([]catalog.AddonDTO, error) {
	return []catalog.AddonDTO{}, nil
}

func (stubCatalogService) GetAddon(context.Context, uuid.UUID) (*catalog.AddonDTO, error) {
	return &catalog.AddonDTO{}, nil
}

func (stubCatalogService) CreateAddon(context.Context, catalog.AddonInput) (*catalog.AddonDTO, error) {
	return &catalog.AddonDTO{}, nil
}

func (stubCatalogService) UpdateAddon(context.Context, uuid.UUID, catalog.AddonInput) (*catalog.AddonDTO, error) {
	return &catalog.AddonDTO{}, nil
}

type stubBudgetService struct{}

func (stubBudgetService) Create(context.Context, budgetsvc.Actor, budgetsvc.CreateBudgetInput) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func (stubBudgetService) List(context.Context, budgetsvc.Actor, budgetsvc.ListQuery) (*budgetsvc.BudgetListResult, error) {
	return &budgetsvc.BudgetListResult{}, nil
}

func (stubBudgetService) Get(context.Context, budgetsvc.Actor, uuid.UUID) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func (stubBudgetService) UpdateDetails(context.Context, budgetsvc.Actor, uuid.UUID, budgetsvc.BudgetDetailsInput) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func (stubBudgetService) AddItem(context.Context, budgetsvc.Actor, uuid.UUID, uuid.UUID) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func (stubBudgetService) RemoveItem(context.Context, budgetsvc.Actor, uuid.UUID, uuid.UUID) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func (stubBudgetService) UpdateItemAddons(context.Context, budgetsvc.Actor, uuid.UUID, budgetsvc.UpdateItemAddonsInput) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func (stubBudgetService) Approve(context.Context, budgetsvc.Actor, uuid.UUID) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func (stubBudgetService) Reject(context.Context, budgetsvc.Actor, uuid.UUID, string) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func (stubBudgetService) Sell(context.Context, budgetsvc.Actor, uuid.UUID) (*budgetsvc.BudgetDTO, error) {
	return &budgetsvc.BudgetDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             stubPinger{},
		Redis:          nil,
		SessionManager: stubSessionChecker{},
		AuthService:    stubAuthService{},
		UserService:    stubUserService{},
		CatalogService: stubCatalogService{},
		BudgetService:  stubBudgetService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "tester@example.com",
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live probe got %d", resp.Code)
	}
}

func TestBudgetsRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestBudgetsAllowSeller(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSeller))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for seller list got %d", resp.Code)
	}
}

func TestSellerAdminRequiresSuperUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	seller := httptest.NewRequest(http.MethodGet, "/api/v1/auth/sellers", nil)
	seller.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSeller))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, seller)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for seller got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/auth/sellers", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSuperUser))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super user got %d", resp.Code)
	}
}

func TestApproveRequiresSuperUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/budgets/" + uuid.NewString() + "/approve"

	seller := httptest.NewRequest(http.MethodPatch, target, nil)
	seller.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSeller))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, seller)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for seller approve got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPatch, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSuperUser))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super user approve got %d", resp.Code)
	}
}

func TestCatalogWriteRequiresSuperUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSeller))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for seller product create got %d", resp.Code)
	}
}
