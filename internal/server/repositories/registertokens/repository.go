// Package registertokens declares the repository contract for the single-use
// admission tokens that gate self-registration.
package registertokens

import (
	"context"

	"classtrack-server/internal/server/models"
)

// Repository defines operations over the registration token store.
type Repository interface {
	// Create stores a new admission token.
	Create(ctx context.Context, token string) error

	// Consume deletes the token if it exists. An absent (or already consumed)
	// token yields common.ErrorNotFound, which is what makes the token
	// single-use when called inside the registration transaction.
	Consume(ctx context.Context, token string) error

	// List returns all currently unconsumed tokens.
	List(ctx context.Context) ([]*models.RegisterToken, error)
}
