package models

import (
	"time"

	"accountd/pkg/domain"
)

// AccountRecord is a stored account. A transition replaces Account wholesale;
// the predecessor value is not kept.
type AccountRecord struct {
	ID        domain.AccountID
	Account   Account
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccountRecord wraps an account for storage.
func NewAccountRecord(id domain.AccountID, account Account, now time.Time) *AccountRecord {
	return &AccountRecord{
		ID:        id,
		Account:   account,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Status is a shorthand for the wrapped account's status.
func (r *AccountRecord) Status() Status {
	return r.Account.Status()
}
