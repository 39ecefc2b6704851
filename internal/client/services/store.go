package services

import (
	"context"

	"github.com/dmitrijs2005/smartvoyage/internal/client/repositories/localstore"
)

// Store is the local database as the services see it. client.Database
// implements it.
type Store interface {
	Local() localstore.Repository
	WithTx(ctx context.Context, fn func(ctx context.Context, local localstore.Repository) error) error
}
