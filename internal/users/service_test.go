package users

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orcalabs/orcamentos-backend/pkg/config"
	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	pkgerrors "github.com/orcalabs/orcamentos-backend/pkg/errors"
	"github.com/orcalabs/orcamentos-backend/pkg/security"
)

type stubUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New()
	copied := *user
	r.users[user.ID] = &copied
	return user, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role enums.UserRole) ([]models.User, error) {
	var rows []models.User
	for _, user := range r.users {
		if user.Role == role {
			rows = append(rows, *user)
		}
	}
	return rows, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return user, nil
}

func testService(t *testing.T) (Service, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	svc, err := NewService(repo, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestRegisterSeller(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)

	registered, err := svc.RegisterSeller(context.Background(), RegisterSellerInput{
		Name:  "  João Pereira  ",
		Email: "Joao@Example.com",
		Phone: "(11) 91234-5678",
	})
	if err != nil {
		t.Fatalf("register seller: %v", err)
	}

	if registered.User.Name != "João Pereira" {
		t.Fatalf("expected trimmed name, got %q", registered.User.Name)
	}
	if registered.User.Email != "joao@example.com" {
		t.Fatalf("expected lowercased email, got %q", registered.User.Email)
	}
	if registered.User.Role != enums.UserRoleSeller.String() {
		t.Fatalf("expected SELLER role, got %s", registered.User.Role)
	}
	if !registered.User.MustChangePassword {
		t.Fatal("expected mustChangePassword=true")
	}
	if registered.TempPassword == "" {
		t.Fatal("expected a temporary password")
	}
}

func TestRegisterSellerDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.RegisterSeller(ctx, RegisterSellerInput{Name: "A", Email: "dup@example.com"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.RegisterSeller(ctx, RegisterSellerInput{Name: "B", Email: "DUP@example.com"})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestSetEnabledTogglesSeller(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)
	ctx := context.Background()

	registered, err := svc.RegisterSeller(ctx, RegisterSellerInput{Name: "A", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	disabled, err := svc.SetEnabled(ctx, registered.User.ID, false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if disabled.Enabled {
		t.Fatal("expected seller to be disabled")
	}

	enabled, err := svc.SetEnabled(ctx, registered.User.ID, true)
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !enabled.Enabled {
		t.Fatal("expected seller to be enabled")
	}
}

func TestSetEnabledRejectsNonSeller(t *testing.T) {
	t.Parallel()
	svc, repo := testService(t)

	admin := &models.User{Email: "admin@example.com", Role: enums.UserRoleSuperUser, PasswordHash: "x"}
	if _, err := repo.Create(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	_, err := svc.SetEnabled(context.Background(), admin.ID, false)
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestResetPasswordRotatesHash(t *testing.T) {
	t.Parallel()
	svc, repo := testService(t)
	ctx := context.Background()

	registered, err := svc.RegisterSeller(ctx, RegisterSellerInput{Name: "A", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	before := repo.users[registered.User.ID].PasswordHash

	reset, err := svc.ResetPassword(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}
	after := repo.users[registered.User.ID].PasswordHash

	if before == after {
		t.Fatal("expected password hash to change")
	}
	if reset.TempPassword == registered.TempPassword {
		t.Fatal("expected a fresh temporary password")
	}
	if !repo.users[registered.User.ID].MustChangePassword {
		t.Fatal("expected mustChangePassword=true after reset")
	}
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()
	svc, repo := testService(t)
	ctx := context.Background()

	registered, err := svc.RegisterSeller(ctx, RegisterSellerInput{Name: "A", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	id := registered.User.ID

	err = svc.UpdatePassword(ctx, id, "wrong-password", "new-password-123")
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	err = svc.UpdatePassword(ctx, id, registered.TempPassword, "short")
	expectCode(t, err, pkgerrors.CodeValidation)

	if err := svc.UpdatePassword(ctx, id, registered.TempPassword, "new-password-123"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	ok, err := security.VerifyPassword(repo.users[id].PasswordHash, "new-password-123")
	if err != nil || !ok {
		t.Fatalf("expected new password to verify, ok=%v err=%v", ok, err)
	}
	if repo.users[id].MustChangePassword {
		t.Fatal("expected mustChangePassword=false after self change")
	}
}
