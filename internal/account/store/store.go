// Package store persists account records.
//
// All backends share the same contract: Create fails with
// sentinel.ErrAlreadyUsed for a duplicate ID, lookups fail with
// sentinel.ErrNotFound, and Execute runs a read-transition-write cycle while
// holding the record (mutex or SELECT ... FOR UPDATE) so concurrent
// transitions on the same account serialize.
package store

import (
	"context"

	"accountd/internal/account/models"
	"accountd/pkg/domain"
)

// TransitionFunc receives a copy of the current record and returns its
// replacement. Returning an error aborts without writing. It is an alias so
// consumers can declare the same method set without importing this package.
type TransitionFunc = func(current models.AccountRecord) (*models.AccountRecord, error)

// Backend is implemented by every store in this package.
type Backend interface {
	Create(ctx context.Context, record *models.AccountRecord) error
	FindByID(ctx context.Context, id domain.AccountID) (*models.AccountRecord, error)
	ListByStatus(ctx context.Context, statuses ...models.Status) ([]*models.AccountRecord, error)
	Execute(ctx context.Context, id domain.AccountID, fn TransitionFunc) (*models.AccountRecord, error)
}
