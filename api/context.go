package api

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-cms-backend/auth"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the verified token identity to the context
func ctxWithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// ctxGetIdentity retrieves the identity stored by the auth middleware
func ctxGetIdentity(ctx context.Context) (auth.Identity, error) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	if !ok {
		return auth.Identity{}, errors.New("identity not found in context")
	}
	return identity, nil
}
