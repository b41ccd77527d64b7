package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/orcalabs/orcamentos-backend/api/middleware"
	budget "github.com/orcalabs/orcamentos-backend/internal/budgets"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	pkgerrors "github.com/orcalabs/orcamentos-backend/pkg/errors"
)

func contextWithTimeout(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}

// actorFromContext rebuilds the authenticated actor seeded by the auth middleware.
func actorFromContext(ctx context.Context) (budget.Actor, error) {
	rawID := middleware.UserIDFromContext(ctx)
	if rawID == "" {
		return budget.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return budget.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	role := enums.UserRole(middleware.RoleFromContext(ctx))
	if !role.IsValid() {
		return budget.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "role context missing")
	}

	return budget.Actor{UserID: userID, Role: role}, nil
}

// userIDFromContext parses the authenticated user id.
func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return actor.UserID, nil
}
