package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/orcalabs/orcamentos-backend/pkg/auth"
	"github.com/orcalabs/orcamentos-backend/pkg/auth/session"
	"github.com/orcalabs/orcamentos-backend/pkg/config"
	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	pkgerrors "github.com/orcalabs/orcamentos-backend/pkg/errors"
	"github.com/orcalabs/orcamentos-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "unit-test-secret",
	Issuer:            "orcamentos-test",
	ExpirationMinutes: 15,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserRepo struct {
	users      map[uuid.UUID]*models.User
	lastLogins map[uuid.UUID]time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:      map[uuid.UUID]*models.User{},
		lastLogins: map[uuid.UUID]time.Time{},
	}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
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

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.lastLogins[id] = at
	return nil
}

// stubSessions mirrors the redis-backed manager with an in-memory map keyed
// by access id.
type stubSessions struct {
	tokens map[string]string
	next   int
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}}
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.next++
	token := "refresh-" + string(rune('a'+s.next))
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, presented, newAccessID string) (string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != presented {
		return "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	s.next++
	token := "refresh-" + string(rune('a'+s.next))
	s.tokens[newAccessID] = token
	return token, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	delete(s.tokens, accessID)
	return nil
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, enabled bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(testPasswordConfig, password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Seller",
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleSeller,
		Enabled:      enabled,
	}
	repo.users[user.ID] = user
	return user
}

func testService(t *testing.T) (Service, *stubUserRepo, *stubSessions) {
	t.Helper()
	repo := newStubUserRepo()
	sessions := newStubSessions()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions
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

func TestLoginIssuesTokenPair(t *testing.T) {
	t.Parallel()
	svc, repo, sessions := testService(t)
	user := seedUser(t, repo, "joao@example.com", "secret-password", true)
	user.MustChangePassword = true

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Joao@Example.com ",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if !resp.MustChangePassword {
		t.Fatal("expected mustChangePassword to propagate")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("expected user %s in response, got %+v", user.ID, resp.User)
	}
	if _, ok := repo.lastLogins[user.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleSeller {
		t.Fatalf("expected SELLER role claim, got %s", claims.Role)
	}
	if _, ok := sessions.tokens[claims.ID]; !ok {
		t.Fatal("expected a session keyed by the token jti")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	svc, repo, _ := testService(t)
	seedUser(t, repo, "joao@example.com", "secret-password", true)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "joao@example.com",
		Password: "wrong",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := testService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginDisabledUser(t *testing.T) {
	t.Parallel()
	svc, repo, _ := testService(t)
	seedUser(t, repo, "joao@example.com", "secret-password", false)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "joao@example.com",
		Password: "secret-password",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRotatesSession(t *testing.T) {
	t.Parallel()
	svc, repo, sessions := testService(t)
	seedUser(t, repo, "joao@example.com", "secret-password", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "joao@example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == login.AccessToken {
		t.Fatal("expected a fresh access token")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected a fresh refresh token")
	}

	oldClaims, err := pkgAuth.ParseAccessToken(testJWTConfig, login.AccessToken)
	if err != nil {
		t.Fatalf("parse old token: %v", err)
	}
	if _, ok := sessions.tokens[oldClaims.ID]; ok {
		t.Fatal("expected the old session to be revoked")
	}

	// Replaying the consumed pair must fail.
	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshMismatchedToken(t *testing.T) {
	t.Parallel()
	svc, repo, _ := testService(t)
	seedUser(t, repo, "joao@example.com", "secret-password", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "joao@example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "not-the-stored-token",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshDisabledUser(t *testing.T) {
	t.Parallel()
	svc, repo, _ := testService(t)
	user := seedUser(t, repo, "joao@example.com", "secret-password", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "joao@example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	repo.users[user.ID].Enabled = false

	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()
	svc, repo, sessions := testService(t)
	seedUser(t, repo, "joao@example.com", "secret-password", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "joao@example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, login.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatalf("expected all sessions revoked, got %d", len(sessions.tokens))
	}

	// Second logout is a no-op.
	if err := svc.Logout(ctx, login.AccessToken); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}
